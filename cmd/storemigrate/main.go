// The storemigrate binary copies every ledger row verbatim from one
// storage backend into another, surrogate ids included. It is one-time
// migration tooling: the destination is expected to be empty (for
// PostgreSQL, run cmd/migrator against it first).
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/karstvale/vaultledger/internal/infra/logging"
	"github.com/karstvale/vaultledger/internal/infra/pgutils"
	"github.com/karstvale/vaultledger/internal/infra/storeutil"
	"github.com/karstvale/vaultledger/internal/ledger"
	"github.com/karstvale/vaultledger/internal/store/sqlite"
	"github.com/karstvale/vaultledger/pkg/envconf"
)

type migrateConfig struct {
	SourceDSN string     `env:"SRC_STORE_DSN"`
	DestDSN   string     `env:"DST_STORE_DSN"`
	LogLevel  slog.Level `env:"APP_LOG_LEVEL"`
}

func main() {
	err := run(context.Background())
	if err != nil {
		slog.Error("store migration failed", "error", err)
		os.Exit(1)
	}

	slog.Info("store migration finished successfully")
}

func run(ctx context.Context) error {
	cfg := new(migrateConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	src, err := storeutil.Open(ctx, cfg.SourceDSN, nil)
	if err != nil {
		return fmt.Errorf("open source store: %w", err)
	}
	defer func() { _ = src.Close() }()

	accounts, err := src.AccountsRaw(ctx)
	if err != nil {
		return fmt.Errorf("read source accounts: %w", err)
	}

	chests, err := src.ChestsRaw(ctx)
	if err != nil {
		return fmt.Errorf("read source chests: %w", err)
	}

	slog.Info("read source store", "accounts", len(accounts), "chests", len(chests))

	if storeutil.IsPostgres(cfg.DestDSN) {
		err = importPostgres(ctx, cfg.DestDSN, accounts, chests)
	} else {
		err = importSQLite(ctx, cfg.DestDSN, accounts, chests)
	}

	if err != nil {
		return fmt.Errorf("import into destination: %w", err)
	}

	return nil
}

func importPostgres(ctx context.Context, dsn string, accounts []ledger.RawAccount, chests []ledger.RawChest) error {
	db, err := pgutils.OpenDB(ctx, dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return pgutils.WithTx(ctx, db, func(tx *sql.Tx) error {
		for _, a := range accounts {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO account (id, type, owner, cents) VALUES ($1, $2, $3, $4)
			`, a.ID, a.Type, a.Owner, a.Cents)
			if err != nil {
				return fmt.Errorf("insert account %d: %w", a.ID, err)
			}
		}

		for _, c := range chests {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO account_chest (id, world, x, y, z, account)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, c.ID, c.World, c.X, c.Y, c.Z, c.Account)
			if err != nil {
				return fmt.Errorf("insert chest %d: %w", c.ID, err)
			}
		}

		// Explicit-id inserts bypass the sequences; catch them up.
		for _, table := range []string{"account", "account_chest"} {
			_, err := tx.ExecContext(ctx, fmt.Sprintf(`
				SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE(MAX(id), 1))
				FROM %s
			`, table, table))
			if err != nil {
				return fmt.Errorf("reset %s id sequence: %w", table, err)
			}
		}

		return nil
	})
}

func importSQLite(ctx context.Context, path string, accounts []ledger.RawAccount, chests []ledger.RawChest) error {
	db, err := sqlite.OpenDB(path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	err = sqlite.InitSchema(ctx, db)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, a := range accounts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO account (id, type, owner, cents) VALUES (?, ?, ?, ?)
		`, a.ID, a.Type, a.Owner, a.Cents)
		if err != nil {
			return fmt.Errorf("insert account %d: %w", a.ID, err)
		}
	}

	for _, c := range chests {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO account_chest (id, world, x, y, z, account)
			VALUES (?, ?, ?, ?, ?, ?)
		`, c.ID, c.World, c.X, c.Y, c.Z, c.Account)
		if err != nil {
			return fmt.Errorf("insert chest %d: %w", c.ID, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}
