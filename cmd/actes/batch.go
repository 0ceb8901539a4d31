package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/actes-extractor/internal/batch"
	"github.com/joseph-ayodele/actes-extractor/internal/export"
	"github.com/joseph-ayodele/actes-extractor/internal/ingest"
)

func batchCmd(g *globalFlags) *cobra.Command {
	var (
		dir          string
		out          string
		xlsxOut      string
		skipExisting bool
		skipHidden   bool
		noStore      bool
		workers      int
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Process every document of a directory",
		Long: `Process every document of a directory and write the successful records
to a JSON file, and optionally to a spreadsheet.

Example:
  actes batch --dir ./scans --out data.json --xlsx data.xlsx`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, g, appOptions{store: !noStore, skipExisting: skipExisting})
			if err != nil {
				return err
			}
			defer a.Close()

			docs, fileErrs, stats, err := ingest.ScanDirectory(ctx, dir, skipHidden)
			if err != nil {
				return err
			}
			for _, fe := range fileErrs {
				a.logger.Warn("batch.scan.file_error", "path", fe.Path, "error", fe.Err)
			}
			a.logger.Info("batch.scan.done", "scanned", stats.Scanned, "matched", stats.Matched, "failed", stats.Failed)

			if workers <= 0 {
				workers = a.cfg.Pipeline.Workers
			}
			items, sum, err := batch.NewRunner(a.proc, workers, a.logger).Run(ctx, docs)
			if err != nil {
				return err
			}

			records := export.FromExtractions(batch.Succeeded(items))
			if err := export.WriteJSONFile(out, records); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			if xlsxOut != "" {
				f, err := os.Create(xlsxOut)
				if err != nil {
					return err
				}
				if err := export.WriteXLSX(f, records, a.logger); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "processed %d documents: %d ok (%d reused), %d failed (%d unresolved) in %s\n",
				sum.Total, sum.OK, sum.Reused, sum.Failed, sum.Unresolved, sum.Elapsed.Round(time.Millisecond))
			if sum.Failed > 0 {
				return fmt.Errorf("%d of %d documents failed", sum.Failed, sum.Total)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&dir, "dir", "", "directory of documents to process")
	f.StringVar(&out, "out", "data.json", "JSON output file")
	f.StringVar(&xlsxOut, "xlsx", "", "optional XLSX output file")
	f.BoolVar(&skipExisting, "skip-existing", false, "reuse stored results for documents already processed")
	f.BoolVar(&skipHidden, "skip-hidden", true, "ignore dot files and dot directories")
	f.BoolVar(&noStore, "no-store", false, "do not open the database")
	f.IntVar(&workers, "workers", 0, "parallel documents (default $WORKERS)")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}
