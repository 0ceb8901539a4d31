// Package batch processes a set of documents with bounded parallelism.
package batch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/actes-extractor/constants"
	"github.com/joseph-ayodele/actes-extractor/internal/common"
	"github.com/joseph-ayodele/actes-extractor/internal/entity"
	"github.com/joseph-ayodele/actes-extractor/internal/ingest"
	"github.com/joseph-ayodele/actes-extractor/internal/pipeline"
)

// DocumentProcessor is implemented by *pipeline.Processor.
type DocumentProcessor interface {
	Process(ctx context.Context, doc ingest.Document) (pipeline.Outcome, error)
}

// Item is the result for one input document.
type Item struct {
	Document   ingest.Document
	Extraction entity.Extraction
	Reused     bool
	Err        error
}

// Summary counts outcomes. Unresolved documents are failures too; Unresolved
// is the subset that failed on the act anchor.
type Summary struct {
	Total      int
	OK         int
	Reused     int
	Unresolved int
	Failed     int
	Elapsed    time.Duration
}

type Runner struct {
	proc    DocumentProcessor
	workers int
	logger  *slog.Logger
}

func NewRunner(proc DocumentProcessor, workers int, logger *slog.Logger) *Runner {
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{proc: proc, workers: workers, logger: logger}
}

// Run processes docs and returns one Item per document, in input order.
// A failing document does not stop the batch; only ctx cancellation does,
// in which case the context error is returned along with the partial items.
func (r *Runner) Run(ctx context.Context, docs []ingest.Document) ([]Item, Summary, error) {
	start := time.Now()
	items := make([]Item, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, doc := range docs {
		if gctx.Err() != nil {
			break
		}
		i, doc := i, doc
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				items[i] = Item{Document: doc, Err: err}
				return err
			}
			out, err := r.proc.Process(gctx, doc)
			items[i] = Item{Document: doc, Extraction: out.Extraction, Reused: out.Reused, Err: err}
			if err != nil {
				r.logger.Warn("batch.document.failed", "path", doc.Path, "error", err)
			}
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	sum := summarize(items)
	sum.Elapsed = time.Since(start)
	r.logger.Info("batch.done",
		"total", sum.Total,
		"ok", sum.OK,
		"reused", sum.Reused,
		"unresolved", sum.Unresolved,
		"failed", sum.Failed,
		"elapsed", sum.Elapsed,
	)
	return items, sum, err
}

func summarize(items []Item) Summary {
	s := Summary{Total: len(items)}
	for _, it := range items {
		switch {
		case it.Err == nil && it.Extraction.Status == constants.StatusOK:
			s.OK++
			if it.Reused {
				s.Reused++
			}
		case errors.Is(it.Err, common.ErrUnresolvedAnchor) || it.Extraction.Status == constants.StatusUnresolved:
			s.Unresolved++
			s.Failed++
		default:
			s.Failed++
		}
	}
	return s
}

// Succeeded returns the extractions of documents that finished OK, in order.
func Succeeded(items []Item) []entity.Extraction {
	out := make([]entity.Extraction, 0, len(items))
	for _, it := range items {
		if it.Err == nil && it.Extraction.Status == constants.StatusOK {
			out = append(out, it.Extraction)
		}
	}
	return out
}
