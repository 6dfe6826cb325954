package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"supstonad/internal/platform/postgres"
	"supstonad/internal/sak/models"
	id "supstonad/pkg/domain"
	"supstonad/pkg/platform/sentinel"
	"supstonad/pkg/platform/tx"
)

// PostgresStore persists saker.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a Postgres-backed sak store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Opprett inserts the sak and assigns its saksnummer from the sequence.
// A second sak for the same fnr gives sentinel.ErrAlreadyUsed.
func (s *PostgresStore) Opprett(ctx context.Context, sak *models.Sak) error {
	var saksnummer int64
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO sak (id, fnr, opprettet) VALUES ($1, $2, $3)
		RETURNING saksnummer`,
		uuid.UUID(sak.ID), string(sak.Fnr), sak.Opprettet,
	).Scan(&saksnummer)
	if _, ok := postgres.UniqueViolation(err); ok {
		return fmt.Errorf("sak for fnr: %w", sentinel.ErrAlreadyUsed)
	}
	if err != nil {
		return fmt.Errorf("insert sak: %w", err)
	}
	sak.Saksnummer = id.Saksnummer(saksnummer)
	return nil
}

func (s *PostgresStore) Hent(ctx context.Context, sakID id.SakID) (*models.Sak, error) {
	return s.one(ctx, `SELECT id, saksnummer, fnr, opprettet FROM sak WHERE id = $1`, uuid.UUID(sakID))
}

func (s *PostgresStore) HentForSaksnummer(ctx context.Context, saksnummer id.Saksnummer) (*models.Sak, error) {
	return s.one(ctx, `SELECT id, saksnummer, fnr, opprettet FROM sak WHERE saksnummer = $1`, int64(saksnummer))
}

// HentFnr returns the person the sak concerns.
func (s *PostgresStore) HentFnr(ctx context.Context, sakID id.SakID) (id.Fnr, error) {
	sak, err := s.Hent(ctx, sakID)
	if err != nil {
		return "", err
	}
	return sak.Fnr, nil
}

func (s *PostgresStore) one(ctx context.Context, query string, arg any) (*models.Sak, error) {
	var (
		sakID      uuid.UUID
		saksnummer int64
		fnr        string
		opprettet  time.Time
	)
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx, query, arg).Scan(&sakID, &saksnummer, &fnr, &opprettet)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select sak: %w", err)
	}
	return &models.Sak{
		ID:         id.SakID(sakID),
		Saksnummer: id.Saksnummer(saksnummer),
		Fnr:        id.Fnr(fnr),
		Opprettet:  opprettet.UTC(),
	}, nil
}
