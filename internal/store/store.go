// Package store defines the persistence contract of the account ledger.
package store

import (
	"context"

	"github.com/karstvale/vaultledger/internal/holder"
	"github.com/karstvale/vaultledger/internal/ledger"
)

// StartBalance computes the opening balance for a newly created account.
// The hook runs exactly once per creation and is never retried; a hook
// error fails the creation.
type StartBalance func(h holder.Holder) (int64, error)

// Store is the account ledger's data access contract.
//
// Implementations are safe for concurrent use: every operation serializes
// against the single underlying connection, and a dropped connection is
// re-established once before an operation gives up.
//
// Absence and duplicates are modeled outcomes, not errors. Reads on missing
// rows return zero values and false, and storing a chest binding at an
// already-bound position returns false. Anything else that goes wrong
// surfaces as a *ledger.StorageError.
type Store interface {
	// HasAccount reports whether a row exists for the holder's
	// (type, id) pair.
	HasAccount(ctx context.Context, h holder.Holder) (bool, error)

	// CreateAccount inserts a row for the holder, seeded by the start
	// balance hook, and reports whether a new row was created. Existing
	// accounts are left untouched. Town and nation holders stored under
	// a legacy "<type>-<name>" id are renamed to the holder's real id
	// instead of creating a duplicate; that also reports false.
	CreateAccount(ctx context.Context, h holder.Holder) (bool, error)

	// RenameAccount rewrites the owner id of a matching (type, oldOwner)
	// row; false if no row matched.
	RenameAccount(ctx context.Context, accountType, oldOwner, newOwner string) (bool, error)

	// DeleteAccount removes the holder's account row together with its
	// chest bindings in one transaction; false if no row matched.
	DeleteAccount(ctx context.Context, h holder.Holder) (bool, error)

	// StoreBalance overwrites the stored balance; false if no row matched.
	StoreBalance(ctx context.Context, acc ledger.Account, cents int64) (bool, error)

	// RetrieveBalance returns the stored balance, or 0 when no account
	// row exists. Absence is a zero balance, not an error.
	RetrieveBalance(ctx context.Context, acc ledger.Account) (int64, error)

	// StoreChestBinding inserts a binding; false when the position is
	// already bound.
	StoreChestBinding(ctx context.Context, b ledger.ChestBinding) (bool, error)

	// DeleteChestBinding removes the binding at a position; false if
	// nothing matched.
	DeleteChestBinding(ctx context.Context, world string, x, y, z int) (bool, error)

	// DeleteAccountChests bulk-removes all bindings owned by the given
	// owner id; false if nothing matched.
	DeleteAccountChests(ctx context.Context, owner string) (bool, error)

	// AllChestBindings returns every stored binding joined with its
	// owning account identity.
	AllChestBindings(ctx context.Context) ([]ledger.ChestBinding, error)

	// ChestBindingsFor returns the bindings owned by one account.
	ChestBindingsFor(ctx context.Context, acc ledger.Account) ([]ledger.ChestBinding, error)

	// AccountsRaw and ChestsRaw return every row verbatim, surrogate ids
	// included, with no validity filtering. For one-time migration
	// tooling only.
	AccountsRaw(ctx context.Context) ([]ledger.RawAccount, error)
	ChestsRaw(ctx context.Context) ([]ledger.RawChest, error)

	// Close disconnects from the storage engine. Safe to call more than
	// once; engine-specific "already shut down" signals classify as
	// success.
	Close() error
}
