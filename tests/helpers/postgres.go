// Package helpers provides testing utilities for integration tests.
package helpers

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultPostgresStartupTimeout is the default timeout for PostgreSQL to start.
	DefaultPostgresStartupTimeout = 60 * time.Second
	// postgresImage is the container image used for integration tests.
	postgresImage = "postgres:16-alpine"
	// postgresReadyLog appears once per startup phase; the server logs it
	// twice because it restarts after initdb.
	postgresReadyLog = "database system is ready to accept connections"
)

// PostgresContainer manages a test PostgreSQL instance.
type PostgresContainer struct {
	Container *postgres.PostgresContainer
	DSN       string
}

// StartPostgres starts a PostgreSQL container for testing.
// It returns a container instance that should be stopped with Stop().
func StartPostgres(ctx context.Context) (*PostgresContainer, error) {
	pgContainer, err := postgres.Run(
		ctx,
		postgresImage,
		postgres.WithDatabase("planwatch"),
		postgres.WithUsername("planwatch"),
		postgres.WithPassword("planwatch"),
		testcontainers.WithWaitStrategy(
			wait.ForLog(postgresReadyLog).
				WithOccurrence(2).
				WithStartupTimeout(DefaultPostgresStartupTimeout),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start PostgreSQL container: %w", err)
	}

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &PostgresContainer{
		Container: pgContainer,
		DSN:       dsn,
	}, nil
}

// Stop stops and removes the PostgreSQL container.
func (p *PostgresContainer) Stop(ctx context.Context) error {
	if p.Container == nil {
		return nil
	}
	return p.Container.Terminate(ctx)
}
