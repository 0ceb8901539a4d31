package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/actes-extractor/internal/common"
	"github.com/joseph-ayodele/actes-extractor/internal/export"
	"github.com/joseph-ayodele/actes-extractor/internal/ocr"
)

func extractCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "extract [file|-]",
		Short: "Extract the fields of one document and print them as JSON",
		Long: `Extract the fields of one document and print the record as JSON.

Without an argument, or with "-", OCR text is read from stdin. A PDF or image
argument is run through OCR first. Nothing is stored.

Example:
  actes extract acte.pdf
  pdftotext acte.pdf - | actes extract`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, g, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			text, err := readInput(ctx, a, args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			ex, procErr := a.proc.ProcessText(ctx, text)
			if procErr != nil && !errors.Is(procErr, common.ErrUnresolvedAnchor) {
				return procErr
			}
			if err := export.WriteJSON(cmd.OutOrStdout(), []export.Record{export.FromExtraction(ex)}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return procErr
		},
	}
}

func readInput(ctx context.Context, a *app, args []string, stdin io.Reader) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", err
		}
		return ocr.Normalize(string(b)), nil
	}
	if _, err := os.Stat(args[0]); err != nil {
		return "", err
	}
	res, err := a.proc.OCR.Extract(ctx, args[0])
	if err != nil {
		return "", err
	}
	return res.Text, nil
}
