// Package testutil starts throwaway infrastructure for integration and e2e suites.
package testutil

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abgdnv/tienda/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Postgres is a migrated PostgreSQL container with an open pool.
type Postgres struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	URL       string
}

// StartPostgres runs a PostgreSQL container, applies the embedded migrations and connects a pool.
func StartPostgres(ctx context.Context, logger *slog.Logger) (*Postgres, error) {
	// 1. Start a PostgreSQL container and wait for it to be ready.
	container, err := postgres.Run(ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase("products_db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to run PostgreSQL container: %w", err)
	}
	pg := &Postgres{Container: container}

	// 2. Get the connection string from the container
	pg.URL, err = container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		pg.Close(ctx, logger)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	// 3. Create the pool and ping until the database answers
	pg.Pool, err = pgxpool.New(ctx, pg.URL)
	if err != nil {
		pg.Close(ctx, logger)
		return nil, fmt.Errorf("failed to create pgxpool: %w", err)
	}
	for i := range 10 {
		logger.Info("Pinging PostgreSQL database", "attempt", i+1)
		if err = pg.Pool.Ping(ctx); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		pg.Close(ctx, logger)
		return nil, fmt.Errorf("failed to connect to PostgreSQL after retries: %w", err)
	}

	// 4. Database migration
	if err := migrations.Up(pg.URL); err != nil {
		pg.Close(ctx, logger)
		return nil, err
	}
	logger.Info("Migrations applied")
	return pg, nil
}

// Truncate empties the products table and resets its identity.
func (p *Postgres) Truncate(ctx context.Context) error {
	_, err := p.Pool.Exec(ctx, "TRUNCATE TABLE products RESTART IDENTITY")
	return err
}

// Close releases the pool and terminates the container.
func (p *Postgres) Close(ctx context.Context, logger *slog.Logger) {
	if p.Pool != nil {
		p.Pool.Close()
		logger.Info("DB pool closed.")
	}
	if p.Container != nil {
		if err := testcontainers.TerminateContainer(p.Container); err != nil {
			logger.Warn("failed to terminate PostgreSQL container", "error", err)
		} else {
			logger.Info("PostgreSQL container terminated.")
		}
	}
}
