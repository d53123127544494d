// Command migrate applies or rolls back the embedded database migrations.
//
// Usage:
//
//	migrate [up|down|status]
//
// The database DSN comes from the regular service configuration
// (CONFIG_PATH or ENV), the same way cmd/server reads it.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/heartmarshall/painstats-backend/internal/app"
	"github.com/heartmarshall/painstats-backend/internal/config"
	"github.com/heartmarshall/painstats-backend/migrations"
)

// migrator is the subset of *goose.Provider the commands use.
type migrator interface {
	Up(ctx context.Context) ([]*goose.MigrationResult, error)
	Down(ctx context.Context) (*goose.MigrationResult, error)
	Status(ctx context.Context) ([]*goose.MigrationStatus, error)
}

func main() {
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "up"
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	provider, db, err := openProvider(cfg.Database)
	if err != nil {
		logger.Error("open migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := run(ctx, logger, provider, cmd); err != nil {
		logger.Error("migrate failed", slog.String("command", cmd), slog.String("error", err.Error()))
		db.Close()
		os.Exit(1)
	}
}

// openProvider opens the database lazily; no connection is made until a
// command runs.
func openProvider(cfg config.DatabaseConfig) (*goose.Provider, *sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("goose provider: %w", err)
	}
	return provider, db, nil
}

func run(ctx context.Context, logger *slog.Logger, m migrator, cmd string) error {
	switch cmd {
	case "up":
		results, err := m.Up(ctx)
		if err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		for _, r := range results {
			logger.Info("migration applied",
				slog.String("source", r.Source.Path),
				slog.Duration("duration", r.Duration),
			)
		}
		logger.Info("migrate up completed", slog.Int("applied", len(results)))
	case "down":
		r, err := m.Down(ctx)
		if err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		logger.Info("migration rolled back", slog.String("source", r.Source.Path))
	case "status":
		statuses, err := m.Status(ctx)
		if err != nil {
			return fmt.Errorf("migrate status: %w", err)
		}
		for _, s := range statuses {
			logger.Info("migration status",
				slog.String("source", s.Source.Path),
				slog.String("state", string(s.State)),
			)
		}
	default:
		return fmt.Errorf("unknown command %q, want up, down or status", cmd)
	}
	return nil
}
