// Package store persists the four planwatch documents: the user-edited
// watch config and mail secret, and the program-owned plan and cancel
// snapshots. Two backends implement the same interface, flat JSON files and
// PostgreSQL. A document that is missing is created from factory defaults;
// one that fails to parse or whose key set no longer matches its schema is
// overwritten with defaults instead of failing the run.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonesrussell/planwatch/internal/domain"
	"github.com/jonesrussell/planwatch/internal/logger"
)

// Document names shared by all backends.
const (
	DocConfig = "config"
	DocSecret = "secret"
	DocPlan   = "plan"
	DocCancel = "cancel"
)

var (
	// ErrUnknownDocument is returned for a document name outside the four
	// known ones.
	ErrUnknownDocument = errors.New("unknown document name")

	// errDocumentMissing is returned by backends when a document was never
	// written.
	errDocumentMissing = errors.New("document missing")
)

// Interface is the document store consumed by the watcher, the notifier and
// the HTTP API.
type Interface interface {
	Config(ctx context.Context) (*domain.WatchConfig, error)
	SaveConfig(ctx context.Context, cfg *domain.WatchConfig) error
	Secret(ctx context.Context) (*domain.Secret, error)
	SaveSecret(ctx context.Context, secret *domain.Secret) error
	Plan(ctx context.Context) (*domain.PlanSnapshot, error)
	SavePlan(ctx context.Context, plan *domain.PlanSnapshot) error
	Cancel(ctx context.Context) (*domain.CancelSnapshot, error)
	SaveCancel(ctx context.Context, cancel *domain.CancelSnapshot) error

	// Reset deletes every document and recreates the factory defaults.
	Reset(ctx context.Context) error
	// FirstRun reports whether opening or resetting the store had to create
	// any document.
	FirstRun() bool
	Close() error
}

// rawStore is the byte-level persistence a backend provides. readRaw
// returns errDocumentMissing for a document that was never written.
type rawStore interface {
	readRaw(ctx context.Context, name string) ([]byte, error)
	writeRaw(ctx context.Context, name string, body []byte) error
	markFirstRun()
	logger() logger.Interface
	describe(name string) string
}

// loadDocument returns the named document in its typed form. A missing
// document is created from defaults. A document that fails decodeStrict is
// healed: defaults are written back and returned, and the failure is only
// logged so a corrupted file never stops a poll cycle.
func loadDocument[T any](ctx context.Context, s rawStore, name string, defaults func() *T) (*T, error) {
	raw, err := s.readRaw(ctx, name)
	if errors.Is(err, errDocumentMissing) {
		value := defaults()
		if saveErr := saveDocument(ctx, s, name, value); saveErr != nil {
			return nil, saveErr
		}
		s.markFirstRun()
		s.logger().Debug("created document with default values",
			"document", name,
			"location", s.describe(name))
		return value, nil
	}
	if err != nil {
		return nil, err
	}

	value := new(T)
	if decodeErr := decodeStrict(raw, value); decodeErr != nil {
		s.logger().Warn("failed to load document, writing default values",
			"document", name,
			"location", s.describe(name),
			"error", decodeErr.Error())
		value = defaults()
		if saveErr := saveDocument(ctx, s, name, value); saveErr != nil {
			s.logger().Warn("failed to write default document, returning default values",
				"document", name,
				"error", saveErr.Error())
		}
		return value, nil
	}
	return value, nil
}

// saveDocument encodes one document and hands it to the backend.
func saveDocument[T any](ctx context.Context, s rawStore, name string, value *T) error {
	body, err := encodeDocument(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s document: %w", name, err)
	}
	if writeErr := s.writeRaw(ctx, name, body); writeErr != nil {
		return fmt.Errorf("failed to write %s document: %w", name, writeErr)
	}
	return nil
}

// ensureDocuments loads all four documents once, creating missing ones and
// healing corrupted ones. Backends call it when opening and after Reset.
func ensureDocuments(ctx context.Context, s rawStore) error {
	if _, err := loadDocument(ctx, s, DocConfig, domain.DefaultWatchConfig); err != nil {
		return err
	}
	if _, err := loadDocument(ctx, s, DocSecret, domain.DefaultSecret); err != nil {
		return err
	}
	if _, err := loadDocument(ctx, s, DocPlan, domain.DefaultPlan); err != nil {
		return err
	}
	if _, err := loadDocument(ctx, s, DocCancel, domain.DefaultCancel); err != nil {
		return err
	}
	return nil
}
