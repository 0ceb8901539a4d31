// Package ocr turns scanned acts into the word-spaced text the engine reads.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/actes-extractor/constants"
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Lang     string // default "fra"
	DPI      int    // rasterization DPI, default 400
	MaxPages int    // pages rendered from a PDF, default 1

	TessdataDir string
	// TSVConfidence runs a second tesseract pass to report mean word confidence.
	TSVConfidence bool
	// Timeout bounds one document; 0 means no limit beyond ctx.
	Timeout time.Duration
}

type ExtractionResult struct {
	Text       string
	Pages      int
	SourceType string // constants.FormatPDF | FormatImage | FormatText
	Method     string // "pdf-ocr" | "image-ocr" | "text"
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32 // 0 when not measured
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

// NewExtractor fills config defaults. A nil runner executes real binaries.
func NewExtractor(cfg Config, runner Runner, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = ExecRunner{Logger: logger}
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "fra"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 400
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 1
	}
	return &Extractor{cfg: cfg, runner: runner, logger: logger}
}

// Extract picks a strategy based on file extension.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("ocr.extract.start", "path", path, "ext", ext)

	var (
		res ExtractionResult
		err error
	)
	switch constants.FormatOf(ext) {
	case constants.FormatPDF:
		res, err = e.extractPDF(ctx, path)
	case constants.FormatImage:
		res, err = e.extractImage(ctx, path)
	case constants.FormatText:
		res, err = readText(path)
	default:
		e.logger.Error("ocr.extract.unsupported", "path", path, "ext", ext)
		return ExtractionResult{}, fmt.Errorf("unsupported extension: %q", ext)
	}
	res.Duration = time.Since(start)
	if err != nil {
		return res, err
	}
	e.logger.Info("ocr.extract.ok",
		"path", path,
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func readText(path string) (ExtractionResult, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return ExtractionResult{SourceType: constants.FormatText}, err
	}
	return ExtractionResult{
		Text:       Normalize(string(b)),
		Pages:      1,
		SourceType: constants.FormatText,
		Method:     "text",
	}, nil
}
