package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	id "supstonad/pkg/domain"
	"supstonad/pkg/platform/tx"
)

// PostgresStore keeps the register of persons with protected addresses.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ErBeskyttet reports whether fnr is registered as protected.
func (s *PostgresStore) ErBeskyttet(ctx context.Context, fnr id.Fnr) (bool, error) {
	var exists bool
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM beskyttet_person WHERE fnr = $1)`, string(fnr)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("select beskyttet person: %w", err)
	}
	return exists, nil
}

// Registrer marks fnr as protected with the given gradering. Re-registering updates it.
func (s *PostgresStore) Registrer(ctx context.Context, fnr id.Fnr, gradering string, tidspunkt time.Time) error {
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO beskyttet_person (fnr, gradering, registrert) VALUES ($1, $2, $3)
		ON CONFLICT (fnr) DO UPDATE SET gradering = EXCLUDED.gradering, registrert = EXCLUDED.registrert`,
		string(fnr), gradering, tidspunkt)
	if err != nil {
		return fmt.Errorf("upsert beskyttet person: %w", err)
	}
	return nil
}

// Fjern removes the protection. Removing an unknown fnr is a no-op.
func (s *PostgresStore) Fjern(ctx context.Context, fnr id.Fnr) error {
	if _, err := tx.Executor(ctx, s.db).ExecContext(ctx, `DELETE FROM beskyttet_person WHERE fnr = $1`, string(fnr)); err != nil {
		return fmt.Errorf("delete beskyttet person: %w", err)
	}
	return nil
}
