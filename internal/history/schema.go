package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "embed"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion tracks the ledger layout. Bump only with a migration.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by an incompatible
// release and must be migrated or removed by hand.
var ErrSchemaMismatch = errors.New("history schema version mismatch")

func (s *Store) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	var version int
	err := s.db.QueryRowContext(ctx, `SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.db.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case version != schemaVersion:
		return fmt.Errorf("%w: database has %d, this build expects %d", ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}
