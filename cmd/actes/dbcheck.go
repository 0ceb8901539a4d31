package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/actes-extractor/internal/common"
)

func dbcheckCmd() *cobra.Command {
	var list int
	cmd := &cobra.Command{
		Use:   "dbcheck",
		Short: "Open the database, apply migrations and report stored extractions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a := &app{cfg: common.LoadConfig(), logger: slog.Default()}
			if err := a.openStore(ctx); err != nil {
				return err
			}
			defer a.Close()

			n, err := a.repo.Count(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "database OK (%s): %d extractions\n", a.db.Dialect(), n)

			if list > 0 {
				rows, err := a.repo.List(ctx, list)
				if err != nil {
					return err
				}
				for _, e := range rows {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %-10s  %s  %s\n",
						e.CreatedAt.Format("2006-01-02 15:04:05"), e.Status, e.CompanyName, e.SourcePath)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&list, "list", 0, "also print the newest N extractions")
	return cmd
}
