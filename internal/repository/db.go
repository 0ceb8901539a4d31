package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Config struct {
	DSN             string // postgres; takes precedence over Path
	Path            string // sqlite file
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// DB is the ent SQL driver plus the pool behind it, if any.
type DB struct {
	Driver *entsql.Driver
	pool   *pgxpool.Pool
}

// Dialect is dialect.Postgres or dialect.SQLite.
func (db *DB) Dialect() string { return db.Driver.Dialect() }

// Open connects to postgres when cfg.DSN is set and to the sqlite file at
// cfg.Path otherwise. Both are wrapped in an ent driver.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DSN != "" {
		return openPostgres(ctx, cfg, logger)
	}
	return openSQLite(ctx, cfg, logger)
}

func openPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	logger.Info("repository.open", "driver", dialect.Postgres)
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("repository.open.failed", "error", err)
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "actes-extractor"

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		logger.Error("repository.open.failed", "error", err)
		return nil, err
	}

	// Wrap pool as *sql.DB for Ent
	db := stdlib.OpenDBFromPool(pool)
	logger.Info("repository.open.ok", "driver", dialect.Postgres)
	return &DB{Driver: entsql.OpenDB(dialect.Postgres, db), pool: pool}, nil
}

func openSQLite(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required when no DSN is set")
	}
	logger.Info("repository.open", "driver", dialect.SQLite, "path", cfg.Path)
	dsn := "file:" + cfg.Path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		logger.Error("repository.open.failed", "error", err)
		return nil, err
	}
	// A single writer avoids SQLITE_BUSY between the batch workers.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		logger.Error("repository.open.failed", "error", err)
		return nil, err
	}
	logger.Info("repository.open.ok", "driver", dialect.SQLite)
	return &DB{Driver: entsql.OpenDB(dialect.SQLite, db)}, nil
}

// Close closes the database connections gracefully
func (db *DB) Close(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := db.Driver.Close(); err != nil {
		logger.Error("repository.close.failed", "error", err)
	}
	if db.pool != nil {
		db.pool.Close()
	}
	logger.Debug("repository.close.ok")
}

// HealthCheck pings the database to catch DSN issues early.
func (db *DB) HealthCheck(ctx context.Context, timeout time.Duration, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	var err error
	if db.pool != nil {
		err = db.pool.Ping(ctx)
	} else {
		err = db.Driver.DB().PingContext(ctx)
	}
	if err != nil {
		logger.Error("repository.ping.failed", "error", err)
		return err
	}
	logger.Debug("repository.ping.ok")
	return nil
}

// extractionColumnDefs is the DDL of every extractions column. The types are
// understood by both postgres and sqlite.
var extractionColumnDefs = [][2]string{
	{colID, "varchar(36) NOT NULL PRIMARY KEY"},
	{colSourcePath, "text NOT NULL DEFAULT ''"},
	{colContentHash, "varchar(64) NOT NULL DEFAULT ''"},
	{colFormat, "varchar(16) NOT NULL DEFAULT ''"},
	{colStatus, "varchar(16) NOT NULL"},
	{colCompanyName, "text NOT NULL DEFAULT ''"},
	{colCompanyIndicator, "text NOT NULL DEFAULT ''"},
	{colBodyText, "text NOT NULL DEFAULT ''"},
	{colPurpose, "text NOT NULL DEFAULT ''"},
	{colBodyTranslated, "text NOT NULL DEFAULT ''"},
	{colPurposeTranslated, "text NOT NULL DEFAULT ''"},
	{colTargetLanguage, "varchar(16) NOT NULL DEFAULT ''"},
	{colActIndex, "integer NOT NULL DEFAULT -1"},
	{colActThreshold, "integer NOT NULL DEFAULT 0"},
	{colTokens, "integer NOT NULL DEFAULT 0"},
	{colOCRMethod, "varchar(32) NOT NULL DEFAULT ''"},
	{colErrorMessage, "text NOT NULL DEFAULT ''"},
	{colCreatedAt, "varchar(40) NOT NULL"},
}

// Migrate creates the extractions table and its indexes if missing.
func (db *DB) Migrate(ctx context.Context) error {
	defs := make([]string, 0, len(extractionColumnDefs))
	for _, c := range extractionColumnDefs {
		defs = append(defs, c[0]+" "+c[1])
	}
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS " + tableExtractions + " (" + strings.Join(defs, ", ") + ")",
		"CREATE INDEX IF NOT EXISTS extractions_content_hash ON " + tableExtractions + " (" + colContentHash + ")",
		"CREATE INDEX IF NOT EXISTS extractions_created_at ON " + tableExtractions + " (" + colCreatedAt + ")",
	}
	for _, q := range stmts {
		if err := db.Driver.Exec(ctx, q, []any{}, nil); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
