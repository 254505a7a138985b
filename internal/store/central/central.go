// Package central implements the authoritative store client. The
// device only ever appends evidence and reads reference tables here;
// everything else about the central database belongs to the backend.
package central

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"

	"github.com/jicmugot16/fieldsync/internal/logging"
	"github.com/jicmugot16/fieldsync/internal/store/central/migrations"
)

// Store is a client for the central PostgreSQL database.
type Store struct {
	db  *sql.DB
	log logging.Logger
}

// Open prepares a client for the central store. No connection is made
// here: the device regularly boots without coverage, so the handle must
// come up offline and only touch the network once the probe reports
// the backend reachable.
func Open(dsn string, log logging.Logger) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open central db: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// NewWithDB wraps an existing handle. Used by tests.
func NewWithDB(db *sql.DB, log logging.Logger) *Store {
	return &Store{db: db, log: log}
}

// Migrate applies the schema contract to the central database. Run
// during provisioning, not at daemon startup; on a provisioned backend
// it is a no-op.
func (s *Store) Migrate(ctx context.Context) error {
	provider, err := goose.NewProvider(database.DialectPostgres, s.db, migrations.Migrations)
	if err != nil {
		return err
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrate central db: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping is the trivial round trip used by the connectivity probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
