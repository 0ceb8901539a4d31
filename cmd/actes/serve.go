package main

import (
	"net"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/actes-extractor/internal/server"
)

func serveCmd(g *globalFlags) *cobra.Command {
	var (
		addr    string
		noStore bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the extraction gRPC API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, g, appOptions{store: !noStore})
			if err != nil {
				return err
			}
			defer a.Close()
			if addr == "" {
				addr = a.cfg.Server.GRPCAddr
			}

			lis, err := net.Listen("tcp", addr)
			if err != nil {
				a.logger.Error("serve.listen_failed", "addr", addr, "error", err)
				return err
			}
			grpcServer, hs := server.NewGRPCServer(server.NewExtractionService(a.proc, a.logger), a.logger)

			errCh := make(chan error, 1)
			go func() { errCh <- grpcServer.Serve(lis) }()
			a.logger.Info("serve.listening", "addr", lis.Addr().String())

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			a.logger.Info("serve.stopping")
			hs.Shutdown()
			grpcServer.GracefulStop()
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $GRPC_ADDR)")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "do not persist extractions")
	return cmd
}
