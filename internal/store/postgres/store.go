// Package postgres implements the account ledger store on PostgreSQL.
// Schema is owned by cmd/migrator.
package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/karstvale/vaultledger/internal/holder"
	"github.com/karstvale/vaultledger/internal/infra/pgutils"
	"github.com/karstvale/vaultledger/internal/ledger"
	"github.com/karstvale/vaultledger/internal/store"
)

const (
	codeUniqueViolation = "23505"
)

// Store is the PostgreSQL ledger store. All operations serialize on one
// mutex; a dead connection is re-established once per operation.
type Store struct {
	mu    sync.Mutex
	db    *sql.DB
	dsn   string
	start store.StartBalance
}

var _ store.Store = (*Store)(nil)

// Open connects to the database at dsn and verifies the connection. The
// start hook seeds balances of newly created accounts; nil means zero.
func Open(ctx context.Context, dsn string, start store.StartBalance) (*Store, error) {
	db, err := pgutils.OpenDB(ctx, dsn)
	if err != nil {
		return nil, err
	}

	return &Store{db: db, dsn: dsn, start: start}, nil
}

// New wraps an existing database handle, typically one provisioned by test
// tooling. Reconnection falls back to pinging the pool.
func New(db *sql.DB, start store.StartBalance) *Store {
	return &Store{db: db, start: start}
}

// run executes one storage round-trip under the store mutex, wrapping any
// failure into a StorageError. On connection loss the database is
// re-established once and fn retried before giving up.
func (s *Store) run(ctx context.Context, op, key string, fn func(db *sql.DB) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		err := s.reopen(ctx)
		if err != nil {
			return &ledger.StorageError{Op: op, Key: key, Err: err}
		}
	}

	err := fn(s.db)
	if err == nil {
		return nil
	}

	if !lostConnection(err) {
		return &ledger.StorageError{Op: op, Key: key, Err: err}
	}

	slog.Warn("ledger database connection lost, reconnecting")

	rerr := s.reopen(ctx)
	if rerr != nil {
		return &ledger.StorageError{Op: op, Key: key, Err: errors.Join(err, rerr)}
	}

	err = fn(s.db)
	if err != nil {
		return &ledger.StorageError{Op: op, Key: key, Err: err}
	}

	return nil
}

// reopen re-establishes the connection. With no DSN on record (handle was
// injected) a ping is the best we can do; database/sql re-dials underneath.
// Caller holds the mutex.
func (s *Store) reopen(ctx context.Context) error {
	if s.dsn == "" {
		if s.db == nil {
			return errors.New("postgres: store is closed")
		}

		err := s.db.PingContext(ctx)
		if err != nil {
			return fmt.Errorf("ping database: %w", err)
		}

		return nil
	}

	if s.db != nil {
		_ = s.db.Close()
		s.db = nil
	}

	db, err := pgutils.OpenDB(ctx, s.dsn)
	if err != nil {
		return err
	}

	s.db = db

	return nil
}

func (s *Store) HasAccount(ctx context.Context, h holder.Holder) (bool, error) {
	var exists bool

	err := s.run(ctx, "has account", accountKey(h.Type(), h.ID()), func(db *sql.DB) error {
		return db.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM account WHERE owner = $1 AND type = $2)
		`, h.ID(), h.Type()).Scan(&exists)
	})

	return exists, err
}

func (s *Store) CreateAccount(ctx context.Context, h holder.Holder) (bool, error) {
	key := accountKey(h.Type(), h.ID())

	var created bool

	err := s.run(ctx, "create account", key, func(db *sql.DB) error {
		exists, err := accountExists(ctx, db, h.Type(), h.ID())
		if err != nil {
			return err
		}

		if exists {
			return nil
		}

		// Group holders may still be stored under the synthetic id used
		// before they had a native one; adopt that row instead of
		// creating a duplicate.
		if h.Type() == holder.TypeTown || h.Type() == holder.TypeNation {
			legacy := holder.NewRaw(h.Type(), h.Type()+"-"+h.Name())

			exists, err := accountExists(ctx, db, legacy.Type(), legacy.ID())
			if err != nil {
				return err
			}

			if exists {
				_, err := renameAccountRow(ctx, db, h.Type(), legacy.ID(), h.ID())
				if err != nil {
					return err
				}

				slog.Info("migrated legacy account row",
					"type", h.Type(), "legacy", legacy.ID(), "owner", h.ID())

				return nil
			}
		}

		var cents int64
		if s.start != nil {
			cents, err = s.start(h)
			if err != nil {
				return fmt.Errorf("compute start balance: %w", err)
			}
		}

		_, err = db.ExecContext(ctx, `
			INSERT INTO account (type, owner, cents) VALUES ($1, $2, $3)
		`, h.Type(), h.ID(), cents)
		if err != nil {
			// Lost a race with a concurrent creation; the account exists.
			if isUniqueViolation(err) {
				return nil
			}

			return err
		}

		created = true

		return nil
	})

	return created, err
}

func (s *Store) RenameAccount(ctx context.Context, accountType, oldOwner, newOwner string) (bool, error) {
	var renamed bool

	err := s.run(ctx, "rename account", accountKey(accountType, oldOwner), func(db *sql.DB) error {
		var err error
		renamed, err = renameAccountRow(ctx, db, accountType, oldOwner, newOwner)

		return err
	})

	return renamed, err
}

// DeleteAccount removes the account row and its chest bindings in one
// transaction, so no orphaned binding can survive the deletion.
func (s *Store) DeleteAccount(ctx context.Context, h holder.Holder) (bool, error) {
	key := accountKey(h.Type(), h.ID())

	var deleted bool

	err := s.run(ctx, "delete account", key, func(db *sql.DB) error {
		return pgutils.WithTx(ctx, db, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `
				DELETE FROM account_chest
				WHERE account IN (SELECT id FROM account WHERE owner = $1 AND type = $2)
			`, h.ID(), h.Type())
			if err != nil {
				return fmt.Errorf("delete chest bindings: %w", err)
			}

			res, err := tx.ExecContext(ctx, `
				DELETE FROM account WHERE owner = $1 AND type = $2
			`, h.ID(), h.Type())
			if err != nil {
				return fmt.Errorf("delete account row: %w", err)
			}

			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("rows affected: %w", err)
			}

			deleted = n > 0

			return nil
		})
	})

	return deleted, err
}

func (s *Store) StoreBalance(ctx context.Context, acc ledger.Account, cents int64) (bool, error) {
	var stored bool

	err := s.run(ctx, "store balance", acc.String(), func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, `
			UPDATE account SET cents = $1 WHERE owner = $2 AND type = $3
		`, cents, acc.OwnerID(), acc.Type())
		if err != nil {
			return err
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}

		stored = n > 0

		return nil
	})

	return stored, err
}

func (s *Store) RetrieveBalance(ctx context.Context, acc ledger.Account) (int64, error) {
	var cents int64

	err := s.run(ctx, "retrieve balance", acc.String(), func(db *sql.DB) error {
		err := db.QueryRowContext(ctx, `
			SELECT cents FROM account WHERE owner = $1 AND type = $2
		`, acc.OwnerID(), acc.Type()).Scan(&cents)
		if errors.Is(err, sql.ErrNoRows) {
			// No account yet reads as a zero balance.
			cents = 0
			return nil
		}

		return err
	})

	return cents, err
}

func (s *Store) StoreChestBinding(ctx context.Context, b ledger.ChestBinding) (bool, error) {
	slog.Info("storing account chest binding",
		"binding", b.String(), "type", b.AccountType, "owner", b.AccountOwner)

	var stored bool

	err := s.run(ctx, "store chest binding", b.String(), func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, `
			INSERT INTO account_chest (world, x, y, z, account)
			VALUES ($1, $2, $3, $4, (SELECT id FROM account WHERE owner = $5 AND type = $6))
		`, b.World, b.X, b.Y, b.Z, b.AccountOwner, b.AccountType)
		if err != nil {
			if isUniqueViolation(err) {
				slog.Warn("chest position already bound", "binding", b.String())
				return nil
			}

			return err
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}

		stored = n > 0

		return nil
	})

	return stored, err
}

func (s *Store) DeleteChestBinding(ctx context.Context, world string, x, y, z int) (bool, error) {
	key := fmt.Sprintf("%s:%d,%d,%d", world, x, y, z)

	var deleted bool

	err := s.run(ctx, "delete chest binding", key, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, `
			DELETE FROM account_chest WHERE world = $1 AND x = $2 AND y = $3 AND z = $4
		`, world, x, y, z)
		if err != nil {
			return err
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}

		deleted = n > 0

		return nil
	})

	return deleted, err
}

func (s *Store) DeleteAccountChests(ctx context.Context, owner string) (bool, error) {
	var deleted bool

	err := s.run(ctx, "delete account chests", owner, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, `
			DELETE FROM account_chest
			WHERE account IN (SELECT id FROM account WHERE owner = $1)
		`, owner)
		if err != nil {
			return err
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}

		deleted = n > 0

		return nil
	})

	return deleted, err
}

func (s *Store) AllChestBindings(ctx context.Context) ([]ledger.ChestBinding, error) {
	var bindings []ledger.ChestBinding

	err := s.run(ctx, "retrieve chest bindings", "", func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `
			SELECT ac.world, ac.x, ac.y, ac.z, a.type, a.owner
			FROM account_chest ac
			JOIN account a ON ac.account = a.id
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		bindings = bindings[:0]
		for rows.Next() {
			var b ledger.ChestBinding

			err := rows.Scan(&b.World, &b.X, &b.Y, &b.Z, &b.AccountType, &b.AccountOwner)
			if err != nil {
				return fmt.Errorf("scan binding: %w", err)
			}

			bindings = append(bindings, b)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return bindings, nil
}

func (s *Store) ChestBindingsFor(ctx context.Context, acc ledger.Account) ([]ledger.ChestBinding, error) {
	var bindings []ledger.ChestBinding

	err := s.run(ctx, "retrieve chest bindings for account", acc.String(), func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `
			SELECT ac.world, ac.x, ac.y, ac.z
			FROM account_chest ac
			JOIN account a ON ac.account = a.id
			WHERE a.owner = $1 AND a.type = $2
		`, acc.OwnerID(), acc.Type())
		if err != nil {
			return err
		}
		defer rows.Close()

		bindings = bindings[:0]
		for rows.Next() {
			b := ledger.ChestBinding{AccountType: acc.Type(), AccountOwner: acc.OwnerID()}

			err := rows.Scan(&b.World, &b.X, &b.Y, &b.Z)
			if err != nil {
				return fmt.Errorf("scan binding: %w", err)
			}

			bindings = append(bindings, b)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return bindings, nil
}

func (s *Store) AccountsRaw(ctx context.Context) ([]ledger.RawAccount, error) {
	var accounts []ledger.RawAccount

	err := s.run(ctx, "retrieve raw accounts", "", func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `
			SELECT id, type, owner, cents FROM account ORDER BY id
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		accounts = accounts[:0]
		for rows.Next() {
			var a ledger.RawAccount

			err := rows.Scan(&a.ID, &a.Type, &a.Owner, &a.Cents)
			if err != nil {
				return fmt.Errorf("scan account row: %w", err)
			}

			accounts = append(accounts, a)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return accounts, nil
}

func (s *Store) ChestsRaw(ctx context.Context) ([]ledger.RawChest, error) {
	var chests []ledger.RawChest

	err := s.run(ctx, "retrieve raw chests", "", func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `
			SELECT id, world, x, y, z, account FROM account_chest ORDER BY id
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		chests = chests[:0]
		for rows.Next() {
			var c ledger.RawChest

			err := rows.Scan(&c.ID, &c.World, &c.X, &c.Y, &c.Z, &c.Account)
			if err != nil {
				return fmt.Errorf("scan chest row: %w", err)
			}

			chests = append(chests, c)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return chests, nil
}

// Close disconnects from the database. Safe to call more than once; an
// "already closed" signal classifies as success.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	slog.Info("shutting down ledger database connection")

	err := s.db.Close()
	s.db = nil

	if err == nil || errors.Is(err, sql.ErrConnDone) || strings.Contains(err.Error(), "database is closed") {
		return nil
	}

	return &ledger.StorageError{Op: "close store", Err: err}
}

func accountKey(accountType, owner string) string {
	return accountType + ":" + owner
}

func accountExists(ctx context.Context, db *sql.DB, accountType, owner string) (bool, error) {
	var exists bool

	err := db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM account WHERE owner = $1 AND type = $2)
	`, owner, accountType).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check account exists: %w", err)
	}

	return exists, nil
}

func renameAccountRow(ctx context.Context, db *sql.DB, accountType, oldOwner, newOwner string) (bool, error) {
	res, err := db.ExecContext(ctx, `
		UPDATE account SET owner = $1 WHERE owner = $2 AND type = $3
	`, newOwner, oldOwner, accountType)
	if err != nil {
		return false, fmt.Errorf("rename account row: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return n > 0, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}

	return false
}

func lostConnection(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	msg := err.Error()

	return strings.Contains(msg, "database is closed") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "conn closed")
}
