package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	storeconfig "github.com/jonesrussell/planwatch/internal/config/store"
	"github.com/jonesrussell/planwatch/internal/domain"
	"github.com/jonesrussell/planwatch/internal/logger"
)

const (
	// defaultMaxOpenConns is sized for the watcher plus the HTTP API.
	defaultMaxOpenConns = 10
	// defaultMaxIdleConns is the maximum number of idle connections.
	defaultMaxIdleConns = 5
	// defaultConnMaxLifetime is the maximum connection lifetime.
	defaultConnMaxLifetime = 5 * time.Minute
	// defaultPingTimeout is the timeout for the connection check at open.
	defaultPingTimeout = 5 * time.Second
)

const createDocumentsTable = `
CREATE TABLE IF NOT EXISTS planwatch_documents (
	name TEXT PRIMARY KEY,
	body JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps each document as one JSONB row keyed by document name.
type PostgresStore struct {
	db       *sqlx.DB
	log      logger.Interface
	firstRun bool
}

var _ Interface = (*PostgresStore)(nil)

// NewPostgresStore connects to the database, creates the documents table
// when absent, creates any missing document and validates the rest.
func NewPostgresStore(ctx context.Context, cfg *storeconfig.Config, log logger.Interface) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if pingErr := db.PingContext(pingCtx); pingErr != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", pingErr)
	}

	s := &PostgresStore{db: db, log: log}
	if _, execErr := db.ExecContext(ctx, createDocumentsTable); execErr != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create documents table: %w", execErr)
	}
	if ensureErr := ensureDocuments(ctx, s); ensureErr != nil {
		db.Close()
		return nil, ensureErr
	}
	return s, nil
}

// Config returns the watch configuration document.
func (s *PostgresStore) Config(ctx context.Context) (*domain.WatchConfig, error) {
	return loadDocument(ctx, s, DocConfig, domain.DefaultWatchConfig)
}

// SaveConfig writes the watch configuration document.
func (s *PostgresStore) SaveConfig(ctx context.Context, cfg *domain.WatchConfig) error {
	return saveDocument(ctx, s, DocConfig, cfg)
}

// Secret returns the mail credentials document.
func (s *PostgresStore) Secret(ctx context.Context) (*domain.Secret, error) {
	return loadDocument(ctx, s, DocSecret, domain.DefaultSecret)
}

// SaveSecret writes the mail credentials document.
func (s *PostgresStore) SaveSecret(ctx context.Context, secret *domain.Secret) error {
	return saveDocument(ctx, s, DocSecret, secret)
}

// Plan returns the lesson plan snapshot.
func (s *PostgresStore) Plan(ctx context.Context) (*domain.PlanSnapshot, error) {
	return loadDocument(ctx, s, DocPlan, domain.DefaultPlan)
}

// SavePlan writes the lesson plan snapshot.
func (s *PostgresStore) SavePlan(ctx context.Context, plan *domain.PlanSnapshot) error {
	return saveDocument(ctx, s, DocPlan, plan)
}

// Cancel returns the class cancellations snapshot.
func (s *PostgresStore) Cancel(ctx context.Context) (*domain.CancelSnapshot, error) {
	return loadDocument(ctx, s, DocCancel, domain.DefaultCancel)
}

// SaveCancel writes the class cancellations snapshot.
func (s *PostgresStore) SaveCancel(ctx context.Context, cancel *domain.CancelSnapshot) error {
	return saveDocument(ctx, s, DocCancel, cancel)
}

// Reset deletes every document row, then recreates the factory documents.
func (s *PostgresStore) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM planwatch_documents`); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	s.log.Debug("removed all stored documents")
	return ensureDocuments(ctx, s)
}

// FirstRun reports whether opening or resetting the store created any
// document row.
func (s *PostgresStore) FirstRun() bool {
	return s.firstRun
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) readRaw(ctx context.Context, name string) ([]byte, error) {
	var body domain.DocumentJSON
	query := `SELECT body FROM planwatch_documents WHERE name = $1`
	err := s.db.GetContext(ctx, &body, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errDocumentMissing
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select %s document: %w", name, err)
	}
	return []byte(body), nil
}

func (s *PostgresStore) writeRaw(ctx context.Context, name string, body []byte) error {
	query := `INSERT INTO planwatch_documents (name, body, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = now()`

	if _, err := s.db.ExecContext(ctx, query, name, domain.DocumentJSON(body)); err != nil {
		return fmt.Errorf("failed to upsert %s document: %w", name, err)
	}
	return nil
}

func (s *PostgresStore) markFirstRun() {
	s.firstRun = true
}

func (s *PostgresStore) logger() logger.Interface {
	return s.log
}

func (s *PostgresStore) describe(name string) string {
	return "planwatch_documents/" + name
}
