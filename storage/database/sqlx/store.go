package sqlxstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/junaidjmomin/classroom/core"
)

const (
	loadQuery = `SELECT data FROM kv_store WHERE key = $1`
	saveQuery = `
		INSERT INTO kv_store (key, data) VALUES (:key, :data)
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`
)

type kvRow struct {
	Key  string `db:"key"`
	Data string `db:"data"`
}

type store struct {
	db *sqlx.DB
}

// NewStore returns a core.Store backed by the kv_store table. Saved data must be valid JSON.
func NewStore(db *sqlx.DB) core.Store {
	return &store{db: db}
}

func (s *store) Load(ctx context.Context, key string) ([]byte, error) {
	var data string
	if err := s.db.GetContext(ctx, &data, loadQuery, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr(err, "loading", key)
	}
	return []byte(data), nil
}

func (s *store) Save(ctx context.Context, key string, data []byte) error {
	if _, err := s.db.NamedExecContext(ctx, saveQuery, kvRow{Key: key, Data: string(data)}); err != nil {
		return wrapErr(err, "saving", key)
	}
	return nil
}

// wrapErr annotates err. A lost connection becomes a shutdown error.
func wrapErr(err error, op, key string) error {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return core.NewShutdownError(fmt.Sprintf("%s %q: database connection lost: %v", op, key, err))
	}
	return errors.Wrapf(err, "%s %q", op, key)
}
