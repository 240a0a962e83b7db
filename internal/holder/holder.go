// Package holder identifies the owners of ledger accounts: players, and
// synthetic group entities such as towns and nations.
package holder

// Account type tags as they appear in the owner column of the store.
const (
	TypePlayer = "player"
	TypeTown   = "town"
	TypeNation = "nation"
)

// Holder is the identity that owns at most one account per type. Identity
// equality is keyed on ID alone: two holders referencing the same underlying
// entity compare equal regardless of how they were constructed.
type Holder interface {
	// ID is the stable unique identifier: a player's persistent UUID
	// string, or a group's native id.
	ID() string
	// Type tags the holder kind ("player", "town", "nation", ...).
	Type() string
	// Name is the display name; empty for offline or synthetic holders.
	Name() string
	// SendMessage delivers text to the holder. No-op if unreachable.
	SendMessage(msg string)
	// HasPermission reports whether the holder carries the permission
	// node. Unreachable holders hold no permissions.
	HasPermission(perm string) bool
}

// Same reports whether two holders reference the same underlying identity.
func Same(a, b Holder) bool {
	if a == nil || b == nil {
		return false
	}

	return a.ID() == b.ID()
}
