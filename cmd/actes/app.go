package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/actes-extractor/internal/common"
	"github.com/joseph-ayodele/actes-extractor/internal/engine"
	"github.com/joseph-ayodele/actes-extractor/internal/ocr"
	"github.com/joseph-ayodele/actes-extractor/internal/pipeline"
	"github.com/joseph-ayodele/actes-extractor/internal/repository"
	"github.com/joseph-ayodele/actes-extractor/internal/translate"
)

// app holds the components shared by the subcommands.
type app struct {
	cfg    *common.Config
	logger *slog.Logger
	db     *repository.DB
	repo   repository.ExtractionRepository
	proc   *pipeline.Processor
}

type appOptions struct {
	store        bool
	skipExisting bool
}

func newApp(ctx context.Context, g *globalFlags, opts appOptions) (*app, error) {
	cfg := common.LoadConfig()
	if g.tuning != "" {
		cfg.Pipeline.TuningFile = g.tuning
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: slog.Default()}

	eng, err := loadEngine(cfg.Pipeline.TuningFile)
	if err != nil {
		return nil, err
	}
	tr, err := translate.New(cfg.Translate, a.logger)
	if err != nil {
		return nil, err
	}
	extractor := ocr.NewExtractor(ocr.Config{
		Pdftoppm:    cfg.OCR.PdftoppmBin,
		Tesseract:   cfg.OCR.TesseractBin,
		Lang:        cfg.OCR.Lang,
		DPI:         cfg.OCR.DPI,
		MaxPages:    cfg.OCR.MaxPages,
		TessdataDir: cfg.OCR.TessdataDir,
		Timeout:     cfg.OCR.Timeout,
	}, nil, a.logger)

	if opts.store {
		if err := a.openStore(ctx); err != nil {
			return nil, err
		}
	}
	a.proc = pipeline.NewProcessor(eng, extractor, tr, a.repo, pipeline.Config{
		Source:       cfg.Translate.Source,
		Target:       cfg.Translate.Target,
		SkipExisting: opts.skipExisting,
	}, a.logger)
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	db, err := repository.Open(ctx, repository.Config{
		DSN:             a.cfg.Database.DSN,
		Path:            a.cfg.Database.Path,
		MaxConns:        a.cfg.Database.MaxConns,
		MinConns:        a.cfg.Database.MinConns,
		MaxConnLifetime: a.cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: a.cfg.Database.MaxConnIdleTime,
		DialTimeout:     a.cfg.Database.DialTimeout,
	}, a.logger)
	if err != nil {
		return err
	}
	if err := db.HealthCheck(ctx, 5*time.Second, a.logger); err != nil {
		db.Close(a.logger)
		return err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close(a.logger)
		return err
	}
	a.db = db
	a.repo = repository.NewExtractionRepository(db, a.logger)
	return nil
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close(a.logger)
	}
}

func loadEngine(tuningFile string) (*engine.Engine, error) {
	if tuningFile == "" {
		return engine.Default(), nil
	}
	t, err := engine.LoadTuning(tuningFile)
	if err != nil {
		return nil, fmt.Errorf("load tuning: %w", err)
	}
	return engine.New(t)
}
