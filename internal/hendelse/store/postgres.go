package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"supstonad/internal/hendelse/models"
	"supstonad/internal/platform/postgres"
	id "supstonad/pkg/domain"
	"supstonad/pkg/platform/sentinel"
	"supstonad/pkg/platform/tx"
)

const hendelseColumns = `hendelse_id, sak_id, versjon, type, entitet_id, tidligere_hendelse_id,
	hendelsestidspunkt, data, meta, melding_id`

// PostgresStore persists the hendelse log and the per-konsument processed set.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a Postgres-backed hendelse store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Append inserts h. A taken (sak, versjon) gives sentinel.ErrConflict; a repeated
// hendelse id or melding id gives sentinel.ErrAlreadyUsed.
func (s *PostgresStore) Append(ctx context.Context, h *models.Hendelse) error {
	meta, err := json.Marshal(h.Meta)
	if err != nil {
		return fmt.Errorf("encode hendelse metadata: %w", err)
	}
	var versjon any
	if h.HarSak() {
		versjon = int64(h.Versjon)
	}
	_, err = tx.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO hendelse (`+hendelseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.UUID(h.ID),
		nullUUID(uuid.UUID(h.SakID)),
		versjon,
		string(h.Type),
		nullUUID(h.EntitetID),
		nullUUID(uuid.UUID(h.TidligereHendelseID)),
		h.Tidspunkt,
		string(h.Data),
		string(meta),
		nullString(h.MeldingID),
	)
	if constraint, ok := postgres.UniqueViolation(err); ok {
		if constraint == "hendelse_sak_versjon_uidx" {
			return fmt.Errorf("sak %s versjon %d: %w", h.SakID, h.Versjon, sentinel.ErrConflict)
		}
		return fmt.Errorf("hendelse %s (%s): %w", h.ID, constraint, sentinel.ErrAlreadyUsed)
	}
	if err != nil {
		return fmt.Errorf("insert hendelse: %w", err)
	}
	return nil
}

// Hent returns one hendelse by id.
func (s *PostgresStore) Hent(ctx context.Context, hendelseID id.HendelseID) (*models.Hendelse, error) {
	row := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+hendelseColumns+` FROM hendelse WHERE hendelse_id = $1`, uuid.UUID(hendelseID))
	h, err := scanHendelse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select hendelse: %w", err)
	}
	return h, nil
}

// HentForSak returns the sak's hendelser ordered by versjon, optionally limited to typer.
func (s *PostgresStore) HentForSak(ctx context.Context, sakID id.SakID, typer ...models.Type) ([]*models.Hendelse, error) {
	query := `SELECT ` + hendelseColumns + ` FROM hendelse WHERE sak_id = $1`
	args := []any{uuid.UUID(sakID)}
	if len(typer) > 0 {
		names := make([]string, len(typer))
		for i, t := range typer {
			names[i] = string(t)
		}
		query += ` AND type = ANY($2)`
		args = append(args, pq.Array(names))
	}
	query += ` ORDER BY versjon`
	return s.query(ctx, query, args...)
}

// HentSisteVersjon returns the highest versjon on the sak, 0 when it has none.
func (s *PostgresStore) HentSisteVersjon(ctx context.Context, sakID id.SakID) (models.Versjon, error) {
	var v int64
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT COALESCE(MAX(versjon), 0) FROM hendelse WHERE sak_id = $1`, uuid.UUID(sakID)).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("select max versjon: %w", err)
	}
	return models.Versjon(v), nil
}

// HentUtenSak returns hendelser of typ not tied to a sak, oldest first.
func (s *PostgresStore) HentUtenSak(ctx context.Context, typ models.Type) ([]*models.Hendelse, error) {
	return s.query(ctx, `SELECT `+hendelseColumns+` FROM hendelse
		WHERE sak_id IS NULL AND type = $1
		ORDER BY hendelsestidspunkt, hendelse_id`, string(typ))
}

// HentUprosesserte returns ids of typ that konsument has not marked, oldest first,
// starting after the hendelse etter. A zero etter starts from the beginning.
func (s *PostgresStore) HentUprosesserte(ctx context.Context, konsument models.KonsumentID, typ models.Type, etter id.HendelseID, limit int) ([]id.HendelseID, error) {
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, `
		SELECT h.hendelse_id FROM hendelse h
		WHERE h.type = $1
		  AND NOT EXISTS (
		    SELECT 1 FROM hendelse_konsument k
		    WHERE k.hendelse_id = h.hendelse_id AND k.konsument_id = $2)
		  AND ($4::uuid IS NULL OR (h.hendelsestidspunkt, h.hendelse_id) >
		    (SELECT e.hendelsestidspunkt, e.hendelse_id FROM hendelse e WHERE e.hendelse_id = $4))
		ORDER BY h.hendelsestidspunkt, h.hendelse_id
		LIMIT $3`, string(typ), string(konsument), limit, nullUUID(uuid.UUID(etter)))
	if err != nil {
		return nil, fmt.Errorf("select unprocessed hendelser: %w", err)
	}
	defer rows.Close()

	var ids []id.HendelseID
	for rows.Next() {
		var u uuid.UUID
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan hendelse id: %w", err)
		}
		ids = append(ids, id.HendelseID(u))
	}
	return ids, rows.Err()
}

// MarkerSomProsessert records that konsument handled the hendelse. Marking twice is a no-op.
func (s *PostgresStore) MarkerSomProsessert(ctx context.Context, konsument models.KonsumentID, hendelseID id.HendelseID, tidspunkt time.Time) error {
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO hendelse_konsument (hendelse_id, konsument_id, prosessert)
		VALUES ($1, $2, $3)
		ON CONFLICT (hendelse_id, konsument_id) DO NOTHING`,
		uuid.UUID(hendelseID), string(konsument), tidspunkt)
	if err != nil {
		return fmt.Errorf("mark hendelse processed: %w", err)
	}
	return nil
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]*models.Hendelse, error) {
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select hendelser: %w", err)
	}
	defer rows.Close()

	var out []*models.Hendelse
	for rows.Next() {
		h, err := scanHendelse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hendelse: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHendelse(row scanner) (*models.Hendelse, error) {
	var (
		hendelseID uuid.UUID
		sakID      uuid.NullUUID
		versjon    sql.NullInt64
		typ        string
		entitetID  uuid.NullUUID
		tidligere  uuid.NullUUID
		tidspunkt  time.Time
		data       []byte
		meta       []byte
		meldingID  sql.NullString
	)
	if err := row.Scan(&hendelseID, &sakID, &versjon, &typ, &entitetID, &tidligere, &tidspunkt, &data, &meta, &meldingID); err != nil {
		return nil, err
	}
	h := &models.Hendelse{
		ID:                  id.HendelseID(hendelseID),
		SakID:               id.SakID(sakID.UUID),
		Versjon:             models.Versjon(versjon.Int64),
		Type:                models.Type(typ),
		EntitetID:           entitetID.UUID,
		TidligereHendelseID: id.HendelseID(tidligere.UUID),
		Tidspunkt:           tidspunkt.UTC(),
		Data:                data,
		MeldingID:           meldingID.String,
	}
	if err := json.Unmarshal(meta, &h.Meta); err != nil {
		return nil, fmt.Errorf("decode hendelse metadata: %w", err)
	}
	return h, nil
}

func nullUUID(u uuid.UUID) any {
	if u == uuid.Nil {
		return nil
	}
	return u
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
