// Package ledger holds the domain types owned by the account store: ledger
// accounts, persisted chest bindings, and the raw row shapes consumed by
// migration tooling.
package ledger

import (
	"fmt"

	"github.com/karstvale/vaultledger/internal/holder"
)

// Account is the ledger-side view of a holder's account. Rows are keyed by
// (type, owner id); the surrogate row id never leaves the store.
type Account struct {
	Owner holder.Holder
}

func (a Account) Type() string    { return a.Owner.Type() }
func (a Account) OwnerID() string { return a.Owner.ID() }

func (a Account) String() string {
	return fmt.Sprintf("Account(%s:%s)", a.Owner.Type(), a.Owner.ID())
}

// ChestBinding links one world position to the account whose vault chest
// lives there. A position hosts at most one binding.
type ChestBinding struct {
	World string
	X     int
	Y     int
	Z     int

	AccountType  string
	AccountOwner string
}

func (b ChestBinding) String() string {
	return fmt.Sprintf("%s:%d,%d,%d", b.World, b.X, b.Y, b.Z)
}

// RawAccount is one account row verbatim, surrogate id included. Raw rows
// exist for store-format migration only; runtime logic never sees them.
type RawAccount struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Owner string `json:"owner"`
	Cents int64  `json:"cents"`
}

// RawChest is one account_chest row verbatim.
type RawChest struct {
	ID      int64  `json:"id"`
	World   string `json:"world"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Z       int    `json:"z"`
	Account int64  `json:"account"`
}
