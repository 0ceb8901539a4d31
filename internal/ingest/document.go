// Package ingest discovers scanned acts on disk.
package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/actes-extractor/constants"
)

// Document is one file queued for extraction.
type Document struct {
	ID      string
	Path    string // absolute
	Ext     string // lowercased, without '.'
	Format  string // constants.FormatPDF | FormatImage | FormatText
	HashHex string // sha256 of the content
	Size    int64
}

// OpenDocument hashes the file at path and returns its Document.
func OpenDocument(path string) (Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Document{}, err
	}
	ext := constants.NormalizeExt(filepath.Ext(abs))
	format := constants.FormatOf(ext)
	if format == "" {
		return Document{}, fmt.Errorf("unsupported or missing extension %q", ext)
	}

	f, err := os.Open(abs)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return Document{}, fmt.Errorf("hash %s: %w", abs, err)
	}
	return Document{
		ID:      uuid.NewString(),
		Path:    abs,
		Ext:     ext,
		Format:  format,
		HashHex: hex.EncodeToString(h.Sum(nil)),
		Size:    n,
	}, nil
}

// Allowed reports whether path has an ingested extension.
func Allowed(path string) bool {
	return constants.FormatOf(filepath.Ext(path)) != ""
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
