package store

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresAnalytics is an optional reporting sink for message traffic.
// The JSON data file remains the source of truth for Store state; losing
// this database loses nothing but report history.
type PostgresAnalytics struct {
	pool *pgxpool.Pool
}

func NewPostgresAnalytics(ctx context.Context, dsn string) (*PostgresAnalytics, error) {
	cfg, err := pgxpool.ParseConfig(strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := &PostgresAnalytics{pool: pool}
	if err := s.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresAnalytics) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresAnalytics) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDB(*s.pool.Config().ConnConfig)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, "migrations")
}

func (s *PostgresAnalytics) UpsertUser(userID int64, username, firstName, lastName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := s.pool.Exec(ctx, `
INSERT INTO users (user_id, username, first_name, last_name)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id) DO UPDATE SET
  username = EXCLUDED.username,
  first_name = EXCLUDED.first_name,
  last_name = EXCLUDED.last_name,
  updated_at = NOW();
`, userID, strings.TrimSpace(username), strings.TrimSpace(firstName), strings.TrimSpace(lastName))
	return err
}

func (s *PostgresAnalytics) RecordMessage(userID, chatID int64, kind string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := s.pool.Exec(ctx, `
INSERT INTO message_events (user_id, chat_id, kind)
VALUES ($1, $2, $3);
`, userID, chatID, strings.TrimSpace(kind))
	return err
}

// MessageCountSince backs the db-stats admin screen.
func (s *PostgresAnalytics) MessageCountSince(since time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var n int64
	err := s.pool.QueryRow(ctx, `
SELECT COUNT(*) FROM message_events WHERE created_at >= $1;
`, since).Scan(&n)
	return n, err
}
