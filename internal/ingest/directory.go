package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// FileError records a path that could not be turned into a Document.
type FileError struct {
	Path string
	Err  string
}

type DirStats struct {
	Scanned uint32
	Matched uint32
	Opened  uint32
	Failed  uint32
}

// ScanDirectory walks root, skips hidden entries if requested, and opens every
// file with an ingested extension. Documents come back sorted by path so a batch
// writes its records in a stable order.
func ScanDirectory(ctx context.Context, root string, skipHidden bool) ([]Document, []FileError, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, nil, DirStats{}, errors.New("root path is required")
	}

	var (
		docs   []Document
		failed []FileError
		stats  DirStats
	)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			failed = append(failed, FileError{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil // continue walking
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !Allowed(path) {
			return nil
		}
		stats.Matched++

		doc, err := OpenDocument(path)
		if err != nil {
			failed = append(failed, FileError{Path: path, Err: err.Error()})
			stats.Failed++
			return nil
		}
		docs = append(docs, doc)
		stats.Opened++
		return nil
	})
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	if err != nil {
		return docs, failed, stats, fmt.Errorf("walk: %w", err)
	}
	return docs, failed, stats, nil
}
