package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/spacesedan/feedbackflow/internal/models"
)

const feedbackSchema = `
CREATE TABLE IF NOT EXISTS feedback (
	id            BIGSERIAL PRIMARY KEY,
	name          TEXT NOT NULL,
	feedback_text TEXT NOT NULL,
	rating        SMALLINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PgxConn is the part of *pgxpool.Pool the store needs.
type PgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type PostgresStore struct {
	conn PgxConn
}

func NewPostgresStore(conn PgxConn) *PostgresStore {
	return &PostgresStore{conn: conn}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.conn.Exec(ctx, feedbackSchema); err != nil {
		return fmt.Errorf("[Postgres] failed to create feedback table: %w", err)
	}
	return nil
}

// ListFeedback returns the whole table in insertion order.
func (s *PostgresStore) ListFeedback(ctx context.Context) ([]models.FeedbackEntry, error) {
	rows, err := s.conn.Query(ctx, `SELECT id, name, feedback_text, rating FROM feedback ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("[Postgres] failed to query feedback: %w", err)
	}
	defer rows.Close()

	entries := []models.FeedbackEntry{}
	for rows.Next() {
		var e models.FeedbackEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Text, &e.Rating); err != nil {
			return nil, fmt.Errorf("[Postgres] failed to scan feedback row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("[Postgres] failed to read feedback rows: %w", err)
	}

	slog.Debug("[Postgres] Loaded feedback snapshot", slog.Int("count", len(entries)))
	return entries, nil
}

// InsertFeedback writes all entries in one multi-row INSERT. Ids are
// assigned by the table.
func (s *PostgresStore) InsertFeedback(ctx context.Context, entries []models.FeedbackEntry) error {
	if len(entries) == 0 {
		return nil
	}

	values := make([]any, 0, len(entries)*3)
	placeholderParts := make([]string, 0, len(entries))
	for i, e := range entries {
		offset := i * 3
		placeholderParts = append(placeholderParts, fmt.Sprintf("($%d, $%d, $%d)", offset+1, offset+2, offset+3))
		values = append(values, e.Name, e.Text, e.Rating)
	}

	query := `INSERT INTO feedback (name, feedback_text, rating) VALUES ` + strings.Join(placeholderParts, ", ")
	if _, err := s.conn.Exec(ctx, query, values...); err != nil {
		return fmt.Errorf("[Postgres] failed to insert feedback: %w", err)
	}

	slog.Info("[Postgres] Inserted feedback", slog.Int("count", len(entries)))
	return nil
}
