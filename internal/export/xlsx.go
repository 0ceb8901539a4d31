package export

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/actes-extractor/constants"
)

const sheetName = "Actes"

// Excel refuses cells longer than this.
const maxCellChars = 32767

// WriteXLSX writes one header row and one row per record.
func WriteXLSX(w io.Writer, records []Record, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	defer f.Close()
	if index, _ := f.GetSheetIndex(sheetName); index == -1 {
		if _, err := f.NewSheet(sheetName); err != nil {
			return err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(activeIndex)
	_ = f.DeleteSheet("Sheet1")

	fields := constants.Fields()
	for i, fld := range fields {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, fld.Header()); err != nil {
			return err
		}
	}

	for r, rec := range records {
		for c, fld := range fields {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheetName, cell, truncate(rec.Value(fld), maxCellChars)); err != nil {
				return err
			}
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 36) // name
	_ = f.SetColWidth(sheetName, "B", "B", 18) // indicator
	_ = f.SetColWidth(sheetName, "C", "C", 80) // body
	_ = f.SetColWidth(sheetName, "D", "D", 48) // purpose

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	logger.Info("export.xlsx.ok", "rows", len(records), "elapsed_ms", time.Since(start).Milliseconds())
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
