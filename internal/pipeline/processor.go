// Package pipeline runs one document through OCR, the extraction engine,
// translation and persistence.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/actes-extractor/constants"
	"github.com/joseph-ayodele/actes-extractor/internal/common"
	"github.com/joseph-ayodele/actes-extractor/internal/engine"
	"github.com/joseph-ayodele/actes-extractor/internal/entity"
	"github.com/joseph-ayodele/actes-extractor/internal/ingest"
	"github.com/joseph-ayodele/actes-extractor/internal/ocr"
	"github.com/joseph-ayodele/actes-extractor/internal/repository"
	"github.com/joseph-ayodele/actes-extractor/internal/translate"
)

// TextExtractor is the OCR collaborator.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (ocr.ExtractionResult, error)
}

type Config struct {
	Source string // translation source language, default "fr"
	Target string // translation target language, default "en"
	// SkipExisting reuses a successful extraction of the same content.
	SkipExisting bool
}

// Processor coordinates OCR, extraction, translation and persistence.
// Repo may be nil, in which case nothing is stored.
type Processor struct {
	Engine     *engine.Engine
	OCR        TextExtractor
	Translator translate.Translator
	Repo       repository.ExtractionRepository
	cfg        Config
	logger     *slog.Logger
}

// Outcome is what Process produced for one document.
type Outcome struct {
	Extraction entity.Extraction
	// Reused is set when a stored extraction was returned instead of a new run.
	Reused bool
}

func NewProcessor(eng *engine.Engine, tx TextExtractor, tr translate.Translator, repo repository.ExtractionRepository, cfg Config, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if eng == nil {
		eng = engine.Default()
	}
	if tr == nil {
		tr = translate.Noop{}
	}
	if cfg.Source == "" {
		cfg.Source = "fr"
	}
	if cfg.Target == "" {
		cfg.Target = "en"
	}
	return &Processor{Engine: eng, OCR: tx, Translator: tr, Repo: repo, cfg: cfg, logger: logger}
}

// Process runs a document end to end and stores the result. The extraction is
// stored and returned even when err is non-nil; its Status tells why.
func (p *Processor) Process(ctx context.Context, doc ingest.Document) (Outcome, error) {
	ctx, _ = common.EnsureRequestID(ctx)
	ctx = common.WithDocumentID(ctx, doc.ID)
	log := common.LoggerFrom(ctx, p.logger).With("path", doc.Path)

	if p.cfg.SkipExisting && p.Repo != nil && doc.HashHex != "" {
		prev, err := p.Repo.GetByHash(ctx, doc.HashHex)
		switch {
		case err == nil && prev.Status == constants.StatusOK:
			log.Info("pipeline.skip.existing", "extraction_id", prev.ID)
			return Outcome{Extraction: *prev, Reused: true}, nil
		case err != nil && !errors.Is(err, common.ErrNotFound):
			return Outcome{}, err
		}
	}

	ex := entity.Extraction{
		ID:          doc.ID,
		SourcePath:  doc.Path,
		ContentHash: doc.HashHex,
		Format:      doc.Format,
		Status:      constants.StatusRunning,
		ActIndex:    -1,
		CreatedAt:   time.Now().UTC(),
	}
	if ex.ID == "" {
		ex.ID = uuid.NewString()
	}

	if p.OCR == nil {
		return Outcome{}, fmt.Errorf("%w: no OCR extractor configured", common.ErrInternal)
	}
	res, err := p.OCR.Extract(ctx, doc.Path)
	if err != nil {
		log.Error("pipeline.ocr.failed", "error", err, "warnings", res.Warnings)
		ex.Status = constants.StatusFailed
		ex.ErrorMessage = err.Error()
		appErr := common.NewAppError(common.CodeOCR, "ocr "+doc.Path, errors.Join(common.ErrOCR, err))
		return Outcome{Extraction: ex}, p.finish(ctx, &ex, appErr)
	}
	log.Info("pipeline.ocr.ok", "method", res.Method, "pages", res.Pages, "chars", len(res.Text))
	ex.OCRMethod = res.Method

	err = p.extract(ctx, res.Text, &ex)
	return Outcome{Extraction: ex}, p.finish(ctx, &ex, err)
}

// ProcessText runs the engine and translation over text that is already
// OCR'd. Nothing is stored.
func (p *Processor) ProcessText(ctx context.Context, text string) (entity.Extraction, error) {
	ctx, _ = common.EnsureRequestID(ctx)
	ex := entity.Extraction{
		ID:        uuid.NewString(),
		Format:    constants.FormatText,
		Status:    constants.StatusRunning,
		ActIndex:  -1,
		CreatedAt: time.Now().UTC(),
	}
	err := p.extract(ctx, text, &ex)
	return ex, err
}

// extract fills ex from text and sets its terminal status.
func (p *Processor) extract(ctx context.Context, text string, ex *entity.Extraction) error {
	log := common.LoggerFrom(ctx, p.logger)

	res, err := p.Engine.Process(text)
	ex.CompanyName = res.Fields.CompanyName
	ex.CompanyIndicator = res.Fields.CompanyIndicator
	ex.BodyText = res.Fields.BodyText
	ex.Purpose = res.Purpose
	ex.Tokens = res.Tokens
	if res.Act.Resolved {
		ex.ActIndex = res.Act.Index
		ex.ActThreshold = res.Act.Threshold
	}
	log.Debug("pipeline.engine.anchors",
		"tokens", res.Tokens,
		"nom", len(res.Anchors[engine.Nom]),
		"entier", len(res.Anchors[engine.Entier]),
		"abrege", len(res.Anchors[engine.Abrege]),
		"dentreprise", len(res.Anchors[engine.DEntreprise]),
		"act_index", ex.ActIndex,
		"act_threshold", ex.ActThreshold,
	)

	if err != nil {
		ex.Status = constants.StatusUnresolved
		ex.ErrorMessage = err.Error()
		log.Warn("pipeline.engine.unresolved", "company_name", ex.CompanyName)
		return common.NewAppError(common.CodeUnresolvedAnchor, "act body not found", err)
	}

	ex.TargetLanguage = p.cfg.Target
	if ex.BodyTextTranslated, err = p.Translator.Translate(ctx, ex.BodyText, p.cfg.Source, p.cfg.Target); err != nil {
		return p.translationFailed(ctx, ex, err)
	}
	if ex.PurposeTranslated, err = p.Translator.Translate(ctx, ex.Purpose, p.cfg.Source, p.cfg.Target); err != nil {
		return p.translationFailed(ctx, ex, err)
	}

	ex.Status = constants.StatusOK
	log.Info("pipeline.extract.ok",
		"company_name", ex.CompanyName,
		"company_indicator", ex.CompanyIndicator,
		"purpose", ex.Purpose,
	)
	return nil
}

func (p *Processor) translationFailed(ctx context.Context, ex *entity.Extraction, err error) error {
	common.LoggerFrom(ctx, p.logger).Error("pipeline.translate.failed", "error", err)
	ex.Status = constants.StatusFailed
	ex.ErrorMessage = err.Error()
	ex.BodyTextTranslated, ex.PurposeTranslated = "", ""
	if errors.Is(err, common.ErrTranslation) {
		return err
	}
	return common.NewAppError(common.CodeTranslation, "translate", errors.Join(common.ErrTranslation, err))
}

// finish stores ex and returns cause, or the storage error if that failed.
func (p *Processor) finish(ctx context.Context, ex *entity.Extraction, cause error) error {
	if p.Repo == nil {
		return cause
	}
	if err := p.Repo.Save(ctx, ex); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}
