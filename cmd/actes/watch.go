package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/actes-extractor/internal/async"
	"github.com/joseph-ayodele/actes-extractor/internal/ingest"
)

func watchCmd(g *globalFlags) *cobra.Command {
	var (
		dirs         []string
		initialScan  bool
		skipExisting bool
		debounce     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process documents as they appear in directories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, g, appOptions{store: true, skipExisting: skipExisting})
			if err != nil {
				return err
			}
			defer a.Close()

			queue := async.NewProcessorQueue(a.proc, a.logger,
				async.WithWorkers(a.cfg.Pipeline.Workers),
				async.WithQueueSize(512),
				async.WithProcessTimeout(3*time.Minute),
			)
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				queue.Shutdown(sctx)
			}()

			paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
				Roots:       dirs,
				InitialScan: initialScan,
				Debounce:    debounce,
				Logger:      a.logger,
			})
			if err != nil {
				return err
			}
			a.logger.Info("watch.started", "dirs", dirs)

			for {
				select {
				case p, ok := <-paths:
					if !ok {
						return nil
					}
					if err := queue.Enqueue(ctx, async.Job{Path: p}); err != nil {
						a.logger.Warn("watch.enqueue.failed", "path", p, "error", err)
					}
				case err, ok := <-errs:
					if !ok {
						errs = nil
						continue
					}
					a.logger.Error("watch.error", "error", err)
				case <-ctx.Done():
					a.logger.Info("watch.stopping")
					return nil
				}
			}
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&dirs, "dir", nil, "directory to watch (repeatable)")
	f.BoolVar(&initialScan, "initial-scan", true, "process documents already present")
	f.BoolVar(&skipExisting, "skip-existing", true, "reuse stored results for documents already processed")
	f.DurationVar(&debounce, "debounce", 750*time.Millisecond, "quiet period before a changed file is processed")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}
