package store

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

func (c *Config) ConnectionString() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Database,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}
	return u.String()
}

type DB struct {
	Pool   *pgxpool.Pool
	logger *zerolog.Logger
}

func New(ctx context.Context, config Config, logger *zerolog.Logger) (*DB, error) {
	pool, err := pgxpool.New(ctx, config.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DB{Pool: pool, logger: logger}, nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

func (db *DB) Close() {
	db.Pool.Close()
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS jury_runs (
		id          TEXT PRIMARY KEY,
		scenario    TEXT NOT NULL,
		tasks       TEXT[] NOT NULL,
		judges      TEXT[] NOT NULL,
		started_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		finished_at TIMESTAMPTZ,
		report      JSONB
	)`,
	`CREATE TABLE IF NOT EXISTS jury_item_results (
		run_id     TEXT NOT NULL REFERENCES jury_runs(id) ON DELETE CASCADE,
		item_id    TEXT NOT NULL,
		error      TEXT,
		result     JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (run_id, item_id)
	)`,
	`CREATE TABLE IF NOT EXISTS jury_scores (
		run_id              TEXT NOT NULL REFERENCES jury_runs(id) ON DELETE CASCADE,
		item_id             TEXT NOT NULL,
		criterion           TEXT NOT NULL,
		metric              TEXT NOT NULL,
		score               DOUBLE PRECISION NOT NULL,
		coverage            TEXT NOT NULL,
		tied                BOOLEAN NOT NULL DEFAULT FALSE,
		out_of_domain       INTEGER NOT NULL DEFAULT 0,
		contributing_judges TEXT[] NOT NULL,
		PRIMARY KEY (run_id, item_id, criterion)
	)`,
	`CREATE INDEX IF NOT EXISTS jury_scores_run_criterion ON jury_scores (run_id, criterion)`,
}

// EnsureSchema creates the run tables when they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	db.logger.Info().Msg("jury schema ready")
	return nil
}
