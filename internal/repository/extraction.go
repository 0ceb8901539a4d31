package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/actes-extractor/constants"
	"github.com/joseph-ayodele/actes-extractor/internal/common"
	"github.com/joseph-ayodele/actes-extractor/internal/entity"
)

const (
	tableExtractions = "extractions"

	colID                = "id"
	colSourcePath        = "source_path"
	colContentHash       = "content_hash"
	colFormat            = "format"
	colStatus            = "status"
	colCompanyName       = "company_name"
	colCompanyIndicator  = "company_indicator"
	colBodyText          = "body_text"
	colPurpose           = "purpose"
	colBodyTranslated    = "body_text_translated"
	colPurposeTranslated = "purpose_translated"
	colTargetLanguage    = "target_language"
	colActIndex          = "act_index"
	colActThreshold      = "act_threshold"
	colTokens            = "tokens"
	colOCRMethod         = "ocr_method"
	colErrorMessage      = "error_message"
	colCreatedAt         = "created_at"

	// Fixed width so that text order is time order.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

var extractionColumns = []string{
	colID, colSourcePath, colContentHash, colFormat, colStatus,
	colCompanyName, colCompanyIndicator, colBodyText, colPurpose,
	colBodyTranslated, colPurposeTranslated, colTargetLanguage,
	colActIndex, colActThreshold, colTokens,
	colOCRMethod, colErrorMessage, colCreatedAt,
}

type ExtractionRepository interface {
	// Save inserts e, or replaces the row with the same ID.
	Save(ctx context.Context, e *entity.Extraction) error
	// GetByHash returns the latest extraction of a document content, or
	// common.ErrNotFound.
	GetByHash(ctx context.Context, hash string) (*entity.Extraction, error)
	// List returns the newest extractions first; limit <= 0 means all.
	List(ctx context.Context, limit int) ([]entity.Extraction, error)
	Count(ctx context.Context) (int, error)
}

type extractionRepo struct {
	db  *DB
	log *slog.Logger
}

func NewExtractionRepository(db *DB, log *slog.Logger) ExtractionRepository {
	if log == nil {
		log = slog.Default()
	}
	return &extractionRepo{db: db, log: log}
}

func (r *extractionRepo) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.db.Dialect())
}

func (r *extractionRepo) Save(ctx context.Context, e *entity.Extraction) error {
	if e.ID == "" {
		return common.NewAppError("INVALID_ARGUMENT", "extraction id is required", common.ErrInvalidInput)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	q, args := r.builder().Insert(tableExtractions).
		Columns(extractionColumns...).
		Values(
			e.ID, e.SourcePath, e.ContentHash, e.Format, string(e.Status),
			e.CompanyName, e.CompanyIndicator, e.BodyText, e.Purpose,
			e.BodyTextTranslated, e.PurposeTranslated, e.TargetLanguage,
			e.ActIndex, e.ActThreshold, e.Tokens,
			e.OCRMethod, e.ErrorMessage, e.CreatedAt.UTC().Format(timeLayout),
		).
		OnConflict(entsql.ConflictColumns(colID), entsql.ResolveWithNewValues()).
		Query()
	if err := r.db.Driver.Exec(ctx, q, args, nil); err != nil {
		r.log.Error("repository.extraction.save_failed", "id", e.ID, "error", err)
		return common.NewAppError(common.CodeDatabase, "save extraction", errors.Join(common.ErrDatabase, err))
	}
	r.log.Debug("repository.extraction.saved", "id", e.ID, "status", e.Status)
	return nil
}

func (r *extractionRepo) GetByHash(ctx context.Context, hash string) (*entity.Extraction, error) {
	b := r.builder()
	q, args := b.Select(extractionColumns...).
		From(b.Table(tableExtractions)).
		Where(entsql.EQ(colContentHash, hash)).
		OrderBy(entsql.Desc(colCreatedAt)).
		Limit(1).
		Query()
	out, err := r.query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("extraction with hash %s: %w", hash, common.ErrNotFound)
	}
	return &out[0], nil
}

func (r *extractionRepo) List(ctx context.Context, limit int) ([]entity.Extraction, error) {
	b := r.builder()
	sel := b.Select(extractionColumns...).
		From(b.Table(tableExtractions)).
		OrderBy(entsql.Desc(colCreatedAt), entsql.Asc(colSourcePath))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	q, args := sel.Query()
	return r.query(ctx, q, args)
}

func (r *extractionRepo) Count(ctx context.Context) (int, error) {
	b := r.builder()
	q, args := b.Select(entsql.Count("*")).From(b.Table(tableExtractions)).Query()
	var rows entsql.Rows
	if err := r.db.Driver.Query(ctx, q, args, &rows); err != nil {
		return 0, common.NewAppError(common.CodeDatabase, "count extractions", errors.Join(common.ErrDatabase, err))
	}
	defer rows.Close()
	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, err
		}
	}
	return n, rows.Err()
}

func (r *extractionRepo) query(ctx context.Context, q string, args []any) ([]entity.Extraction, error) {
	var rows entsql.Rows
	if err := r.db.Driver.Query(ctx, q, args, &rows); err != nil {
		r.log.Error("repository.extraction.query_failed", "error", err)
		return nil, common.NewAppError(common.CodeDatabase, "query extractions", errors.Join(common.ErrDatabase, err))
	}
	defer rows.Close()

	var out []entity.Extraction
	for rows.Next() {
		var (
			e         entity.Extraction
			status    string
			createdAt string
		)
		if err := rows.Scan(
			&e.ID, &e.SourcePath, &e.ContentHash, &e.Format, &status,
			&e.CompanyName, &e.CompanyIndicator, &e.BodyText, &e.Purpose,
			&e.BodyTextTranslated, &e.PurposeTranslated, &e.TargetLanguage,
			&e.ActIndex, &e.ActThreshold, &e.Tokens,
			&e.OCRMethod, &e.ErrorMessage, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan extraction: %w", err)
		}
		e.Status = constants.ExtractionStatus(status)
		if t, err := time.Parse(timeLayout, createdAt); err == nil {
			e.CreatedAt = t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
