package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/actes-extractor/constants"
)

func (e *Extractor) extractPDF(ctx context.Context, path string) (ExtractionResult, error) {
	res := ExtractionResult{SourceType: constants.FormatPDF, Method: "pdf-ocr", Language: e.cfg.Lang}

	tmpDir, err := os.MkdirTemp("", "actes-pp-*")
	if err != nil {
		return res, err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("ocr.tmp.cleanup_failed", "dir", tmpDir, "error", err)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 400 -png -f 1 -l <max> <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-r", strconv.Itoa(e.cfg.DPI),
		"-png",
		"-f", "1",
		"-l", strconv.Itoa(e.cfg.MaxPages),
		path, prefix,
	)
	if err != nil {
		res.Warnings = []string{string(errb)}
		return res, fmt.Errorf("pdftoppm: %w", err)
	}

	// prefix-1.png, prefix-2.png, ... (zero padded for large documents)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		res.Warnings = []string{"pdftoppm produced no images"}
		return res, fmt.Errorf("no pages rendered")
	}

	var pages []string
	var confSum float32
	for _, img := range matches {
		txt, w, err := e.tesseractOCR(ctx, img)
		if err != nil {
			res.Warnings = append(res.Warnings, err.Error())
			continue
		}
		res.Warnings = append(res.Warnings, w...)
		pages = append(pages, txt)
		if e.cfg.TSVConfidence {
			c, _ := e.tesseractTSVConfidence(ctx, img)
			confSum += c
		}
	}
	if len(pages) == 0 {
		return res, fmt.Errorf("tesseract failed on every page of %s", path)
	}
	res.Text = Normalize(strings.Join(pages, " "))
	res.Pages = len(pages)
	if e.cfg.TSVConfidence {
		res.Confidence = confSum / float32(len(pages))
	}
	return res, nil
}
