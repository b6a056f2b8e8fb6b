package pg

import (
	"context"
	"database/sql"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/config"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	shared_pg "github.com/bloodlink-dev/bloodlink/shared/storage/pg"
	_ "github.com/lib/pq"
)

type Querier = shared_pg.Querier

const queryTimeout = 5 * time.Second

type Storage struct {
	db *sql.DB
}

func New(ctx context.Context, cfg *config.Config) (*Storage, error) {
	logger.Log.Info("connecting to db", "host", cfg.Private.Pg.Host, "dbname", cfg.Private.Pg.Dbname)
	db, err := shared_pg.Connect(ctx, cfg, shared_pg.DefaultConnectionConfig())
	if err != nil {
		return nil, err
	}
	logger.Log.Info("successfully connected to db")
	return &Storage{db: db}, nil
}

// NewWithDB wraps an already opened pool.
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return shared_pg.WithTx(ctx, s.db, fn)
}

// Ping backs the readiness probe.
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

// rowsAffectedOrNotFound turns a zero-row update into a 404 so callers can tell
// "nothing to change" from success.
func rowsAffectedOrNotFound(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
