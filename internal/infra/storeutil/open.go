// Package storeutil opens a ledger store from its DSN.
package storeutil

import (
	"context"
	"strings"

	"github.com/karstvale/vaultledger/internal/store"
	"github.com/karstvale/vaultledger/internal/store/postgres"
	"github.com/karstvale/vaultledger/internal/store/sqlite"
)

// IsPostgres reports whether dsn selects the PostgreSQL backend.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open opens the backend selected by dsn: a postgres URL, or a filesystem
// path for the embedded SQLite store.
func Open(ctx context.Context, dsn string, start store.StartBalance) (store.Store, error) {
	if IsPostgres(dsn) {
		return postgres.Open(ctx, dsn, start)
	}

	return sqlite.Open(ctx, dsn, start)
}
