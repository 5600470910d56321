// Package integration_test verifies the PostgreSQL document store against a
// real database.
package integration_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storeconfig "github.com/jonesrussell/planwatch/internal/config/store"
	"github.com/jonesrussell/planwatch/internal/domain"
	"github.com/jonesrussell/planwatch/internal/logger"
	"github.com/jonesrussell/planwatch/internal/store"
	"github.com/jonesrussell/planwatch/tests/helpers"
)

func TestIntegration_PostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := helpers.StartPostgres(ctx)
	require.NoError(t, err, "failed to start PostgreSQL container")
	defer func() {
		_ = pgContainer.Stop(ctx)
	}()

	cfg := &storeconfig.Config{
		Backend: storeconfig.BackendPostgres,
		DSN:     pgContainer.DSN,
	}
	testLogger := logger.NewNoOp()

	// Opening an empty database creates all four documents
	s, err := store.NewPostgresStore(ctx, cfg, testLogger)
	require.NoError(t, err, "failed to open postgres store")
	assert.True(t, s.FirstRun(), "fresh database should report first run")

	watchCfg, err := s.Config(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultWatchConfig(), watchCfg)

	// Mutate and persist the plan snapshot
	plan, err := s.Plan(ctx)
	require.NoError(t, err)
	plan.Metadata.CurrentIteration = 3
	plan.Metadata.CurrentColor = "00ff00"
	plan.Metadata.PreviousColors["2024-03-01 12:30:05"] = "ff0000"
	plan.Current.Monday[0] = "MATH\nROOM 12"
	require.NoError(t, s.SavePlan(ctx, plan))
	require.NoError(t, s.Close())

	// A fresh store sees the persisted snapshot unchanged
	s2, err := store.NewPostgresStore(ctx, cfg, testLogger)
	require.NoError(t, err, "failed to reopen postgres store")
	defer func() {
		_ = s2.Close()
	}()
	assert.False(t, s2.FirstRun(), "documents already exist on reopen")

	reloaded, err := s2.Plan(ctx)
	require.NoError(t, err)
	assert.Equal(t, plan, reloaded, "plan snapshot should round-trip through jsonb")
}

func TestIntegration_PostgresStoreHealsCorruptedDocument(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := helpers.StartPostgres(ctx)
	require.NoError(t, err, "failed to start PostgreSQL container")
	defer func() {
		_ = pgContainer.Stop(ctx)
	}()

	cfg := &storeconfig.Config{
		Backend: storeconfig.BackendPostgres,
		DSN:     pgContainer.DSN,
	}
	testLogger := logger.NewNoOp()

	s, err := store.NewPostgresStore(ctx, cfg, testLogger)
	require.NoError(t, err, "failed to open postgres store")
	require.NoError(t, s.Close())

	// Damage the cancel document behind the store's back
	db, err := sqlx.ConnectContext(ctx, "postgres", pgContainer.DSN)
	require.NoError(t, err, "failed to connect for corruption")
	_, err = db.ExecContext(ctx,
		`UPDATE planwatch_documents SET body = '{"bogus": true}' WHERE name = $1`, "cancel")
	require.NoError(t, err, "failed to corrupt document")
	require.NoError(t, db.Close())

	// Reopening heals the damaged document with defaults
	s2, err := store.NewPostgresStore(ctx, cfg, testLogger)
	require.NoError(t, err, "failed to reopen postgres store")
	defer func() {
		_ = s2.Close()
	}()
	assert.False(t, s2.FirstRun(), "healing is not document creation")

	cancel, err := s2.Cancel(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCancel(), cancel, "corrupted document should be replaced by defaults")
}

func TestIntegration_PostgresStoreReset(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := helpers.StartPostgres(ctx)
	require.NoError(t, err, "failed to start PostgreSQL container")
	defer func() {
		_ = pgContainer.Stop(ctx)
	}()

	cfg := &storeconfig.Config{
		Backend: storeconfig.BackendPostgres,
		DSN:     pgContainer.DSN,
	}
	testLogger := logger.NewNoOp()

	s, err := store.NewPostgresStore(ctx, cfg, testLogger)
	require.NoError(t, err, "failed to open postgres store")
	defer func() {
		_ = s.Close()
	}()

	watchCfg, err := s.Config(ctx)
	require.NoError(t, err)
	watchCfg.Runtime.LoopSeconds = 600
	require.NoError(t, s.SaveConfig(ctx, watchCfg))

	require.NoError(t, s.Reset(ctx))

	recreated, err := s.Config(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultWatchConfig(), recreated, "reset should discard edits")
	assert.True(t, s.FirstRun(), "reset recreates documents")
}
