package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	storeconfig "github.com/jonesrussell/planwatch/internal/config/store"
	"github.com/jonesrussell/planwatch/internal/domain"
	"github.com/jonesrussell/planwatch/internal/logger"
)

const (
	storeDirMode  = 0o755
	storeFileMode = 0o644
)

// FileStore keeps each document as an indented JSON file: the user-edited
// config and secret under the config directory, the program-owned plan and
// cancel snapshots under the work directory.
type FileStore struct {
	configDir string
	workDir   string
	log       logger.Interface
	firstRun  bool
}

var _ Interface = (*FileStore)(nil)

// NewFileStore creates both directories and any missing document, and
// validates the documents that already exist.
func NewFileStore(ctx context.Context, cfg *storeconfig.Config, log logger.Interface) (*FileStore, error) {
	s := &FileStore{
		configDir: cfg.ConfigDir,
		workDir:   cfg.WorkDir,
		log:       log,
	}
	if err := s.ensureDirs(); err != nil {
		return nil, err
	}
	if err := ensureDocuments(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Config returns the watch configuration document.
func (s *FileStore) Config(ctx context.Context) (*domain.WatchConfig, error) {
	return loadDocument(ctx, s, DocConfig, domain.DefaultWatchConfig)
}

// SaveConfig writes the watch configuration document.
func (s *FileStore) SaveConfig(ctx context.Context, cfg *domain.WatchConfig) error {
	return saveDocument(ctx, s, DocConfig, cfg)
}

// Secret returns the mail credentials document.
func (s *FileStore) Secret(ctx context.Context) (*domain.Secret, error) {
	return loadDocument(ctx, s, DocSecret, domain.DefaultSecret)
}

// SaveSecret writes the mail credentials document.
func (s *FileStore) SaveSecret(ctx context.Context, secret *domain.Secret) error {
	return saveDocument(ctx, s, DocSecret, secret)
}

// Plan returns the lesson plan snapshot.
func (s *FileStore) Plan(ctx context.Context) (*domain.PlanSnapshot, error) {
	return loadDocument(ctx, s, DocPlan, domain.DefaultPlan)
}

// SavePlan writes the lesson plan snapshot.
func (s *FileStore) SavePlan(ctx context.Context, plan *domain.PlanSnapshot) error {
	return saveDocument(ctx, s, DocPlan, plan)
}

// Cancel returns the class cancellations snapshot.
func (s *FileStore) Cancel(ctx context.Context) (*domain.CancelSnapshot, error) {
	return loadDocument(ctx, s, DocCancel, domain.DefaultCancel)
}

// SaveCancel writes the class cancellations snapshot.
func (s *FileStore) SaveCancel(ctx context.Context, cancel *domain.CancelSnapshot) error {
	return saveDocument(ctx, s, DocCancel, cancel)
}

// Reset deletes both directories with everything in them, then recreates
// the factory documents.
func (s *FileStore) Reset(ctx context.Context) error {
	for _, dir := range []string{s.configDir, s.workDir} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to remove directory %s: %w", dir, err)
		}
		s.log.Debug("removed store directory", "dir", dir)
	}
	if err := s.ensureDirs(); err != nil {
		return err
	}
	return ensureDocuments(ctx, s)
}

// FirstRun reports whether opening or resetting the store created any
// directory or document.
func (s *FileStore) FirstRun() bool {
	return s.firstRun
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) ensureDirs() error {
	for _, dir := range []string{s.configDir, s.workDir} {
		if _, err := os.Stat(dir); err == nil {
			continue
		}
		if err := os.MkdirAll(dir, storeDirMode); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		s.firstRun = true
		s.log.Debug("created store directory", "dir", dir)
	}
	return nil
}

func (s *FileStore) path(name string) (string, error) {
	switch name {
	case DocConfig:
		return filepath.Join(s.configDir, "user.json"), nil
	case DocSecret:
		return filepath.Join(s.configDir, "secret.json"), nil
	case DocPlan:
		return filepath.Join(s.workDir, "plan.json"), nil
	case DocCancel:
		return filepath.Join(s.workDir, "cancel.json"), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownDocument, name)
	}
}

func (s *FileStore) readRaw(_ context.Context, name string) ([]byte, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	body, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errDocumentMissing
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return body, nil
}

// writeRaw replaces the document atomically. Readers in the serve process
// must never see a half-written file, that would trigger the heal path and
// wipe real data.
func (s *FileStore) writeRaw(_ context.Context, name string, body []byte) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	if _, writeErr := tmp.Write(body); writeErr != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", path, writeErr)
	}
	if chmodErr := tmp.Chmod(storeFileMode); chmodErr != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to chmod %s: %w", path, chmodErr)
	}
	if closeErr := tmp.Close(); closeErr != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file for %s: %w", path, closeErr)
	}
	if renameErr := os.Rename(tmp.Name(), path); renameErr != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", path, renameErr)
	}
	return nil
}

func (s *FileStore) markFirstRun() {
	s.firstRun = true
}

func (s *FileStore) logger() logger.Interface {
	return s.log
}

func (s *FileStore) describe(name string) string {
	path, err := s.path(name)
	if err != nil {
		return name
	}
	return path
}
