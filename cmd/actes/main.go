// Command actes extracts company name, company indicator, act body and act
// purpose from OCR'd French corporate acts.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

type globalFlags struct {
	logLevel  string
	logFormat string
	tuning    string
}

func main() {
	var g globalFlags
	rootCmd := &cobra.Command{
		Use:   "actes",
		Short: "Extract fields from OCR'd French corporate acts",
		Long: `actes locates the anchors of a French corporate act (company name,
registration number, act body) in noisy OCR text and extracts the fields
between them.

Documents may be PDF, image or plain text. Results are stored in the
configured database and can be exported as JSON or XLSX.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(g.logLevel, g.logFormat)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.StringVar(&g.logFormat, "log-format", "text", "log format: text or json")
	pf.StringVar(&g.tuning, "tuning", "", "YAML file overriding engine tuning (default $TUNING_FILE)")

	rootCmd.AddCommand(extractCmd(&g))
	rootCmd.AddCommand(batchCmd(&g))
	rootCmd.AddCommand(watchCmd(&g))
	rootCmd.AddCommand(serveCmd(&g))
	rootCmd.AddCommand(dbcheckCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return nil, fmt.Errorf("invalid --log-format %q", format)
}
