package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"supstonad/internal/outbox/models"
	"supstonad/pkg/platform/sentinel"
	"supstonad/pkg/platform/tx"
)

// PostgresStore persists outbox entries. Every method runs in the transaction
// carried by ctx, if any.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Enqueue inserts m. Call it inside the transaction that makes the change m announces.
func (s *PostgresStore) Enqueue(ctx context.Context, m *models.Melding) error {
	query := `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, topic, payload, created_at, next_attempt_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, query,
		m.ID,
		m.AggregateType,
		m.AggregateID,
		m.EventType,
		m.Topic,
		string(m.Payload),
		m.CreatedAt,
		m.NextAttemptAt,
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// Claim locks up to limit due, unpublished entries. The locks are held until the
// surrounding transaction ends; concurrent relays skip locked rows.
func (s *PostgresStore) Claim(ctx context.Context, now time.Time, limit int) ([]*models.Melding, error) {
	query := `
		SELECT id, aggregate_type, aggregate_id, event_type, topic, payload, created_at, attempts, next_attempt_at
		FROM outbox
		WHERE published_at IS NULL AND next_attempt_at <= $1
		ORDER BY next_attempt_at, created_at
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("claim outbox entries: %w", err)
	}
	defer rows.Close()

	var out []*models.Melding
	for rows.Next() {
		var (
			m       models.Melding
			payload []byte
		)
		if err := rows.Scan(&m.ID, &m.AggregateType, &m.AggregateID, &m.EventType, &m.Topic,
			&payload, &m.CreatedAt, &m.Attempts, &m.NextAttemptAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		m.Payload = payload
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox entries: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE outbox
		SET published_at = $2, attempts = attempts + 1, last_error = NULL
		WHERE id = $1 AND published_at IS NULL
	`
	if _, err := tx.Executor(ctx, s.db).ExecContext(ctx, query, id, at); err != nil {
		return fmt.Errorf("mark outbox entry published: %w", err)
	}
	return nil
}

func (s *PostgresStore) MarkFailed(ctx context.Context, id uuid.UUID, lastError string, nextAttempt time.Time) error {
	query := `
		UPDATE outbox
		SET attempts = attempts + 1, last_error = $2, next_attempt_at = $3
		WHERE id = $1 AND published_at IS NULL
	`
	if _, err := tx.Executor(ctx, s.db).ExecContext(ctx, query, id, lastError, nextAttempt); err != nil {
		return fmt.Errorf("mark outbox entry failed: %w", err)
	}
	return nil
}

// DeletePublishedBefore removes published entries older than cutoff.
func (s *PostgresStore) DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`DELETE FROM outbox WHERE published_at IS NOT NULL AND published_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete published outbox entries: %w", err)
	}
	return res.RowsAffected()
}

// CountPending returns the number of unpublished entries.
func (s *PostgresStore) CountPending(ctx context.Context) (int64, error) {
	var n int64
	if err := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT count(*) FROM outbox WHERE published_at IS NULL`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending outbox entries: %w", err)
	}
	return n, nil
}

// Hent loads one entry. Used by tests and the admin CLI.
func (s *PostgresStore) Hent(ctx context.Context, id uuid.UUID) (*models.Melding, error) {
	query := `
		SELECT id, aggregate_type, aggregate_id, event_type, topic, payload, created_at,
		       published_at, attempts, next_attempt_at, last_error
		FROM outbox WHERE id = $1
	`
	var (
		m         models.Melding
		payload   []byte
		published sql.NullTime
		lastError sql.NullString
	)
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx, query, id).Scan(&m.ID, &m.AggregateType, &m.AggregateID,
		&m.EventType, &m.Topic, &payload, &m.CreatedAt, &published, &m.Attempts, &m.NextAttemptAt, &lastError)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load outbox entry: %w", err)
	}
	m.Payload = payload
	if published.Valid {
		t := published.Time
		m.PublishedAt = &t
	}
	m.LastError = lastError.String
	return &m, nil
}
