package vault

import "github.com/karstvale/vaultledger/internal/holder"

// ContainerRef is the live in-world marker (the vault sign) a binding
// points at, as handed out by the hosting game server.
type ContainerRef interface {
	World() string
	Position() (x, y, z int)
}

// Block is one block position in a loaded world.
type Block interface {
	// ContainerMarker returns the vault marker state carried by this
	// block, if it still carries one.
	ContainerMarker() (ContainerRef, bool)
}

// World is a loaded world on the hosting game server.
type World interface {
	Name() string
	BlockAt(x, y, z int) Block
}

// Universe resolves world names to loaded worlds.
type Universe interface {
	WorldByName(name string) (World, bool)
}

// HolderResolver resolves the account holder behind a stored
// (type, owner id) pair, or reports that the identity is no longer valid
// (for example a disbanded town).
type HolderResolver interface {
	HolderBy(accountType, ownerID string) (holder.Holder, bool)
}
