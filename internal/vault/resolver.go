// Package vault hydrates persisted chest bindings into live, validated
// vault handles, pruning bindings whose world state has gone away.
package vault

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/karstvale/vaultledger/internal/ledger"
	"github.com/karstvale/vaultledger/internal/store"
)

// Vault pairs a validated in-world container marker with its owning
// account. Vaults are rebuilt on demand by resolution and never persisted.
type Vault struct {
	Container ContainerRef
	Account   ledger.Account
}

// Resolver reconciles stored chest bindings against live world state.
// Resolution is self-healing: bindings whose world, marker block, or
// holder no longer exist are deleted from the store as they are found.
type Resolver struct {
	store   store.Store
	worlds  Universe
	holders HolderResolver
}

func NewResolver(st store.Store, worlds Universe, holders HolderResolver) *Resolver {
	return &Resolver{store: st, worlds: worlds, holders: holders}
}

// AllVaults resolves every stored binding. Pruned bindings are excluded
// from the result; only a failed read of the binding list itself fails the
// call.
func (r *Resolver) AllVaults(ctx context.Context) ([]Vault, error) {
	bindings, err := r.store.AllChestBindings(ctx)
	if err != nil {
		return nil, fmt.Errorf("retrieve chest bindings: %w", err)
	}

	vaults := make([]Vault, 0, len(bindings))

	for _, b := range bindings {
		v, ok := r.resolve(ctx, b, nil)
		if ok {
			vaults = append(vaults, v)
		}
	}

	return vaults, nil
}

// VaultsFor resolves the bindings owned by one account. The account is
// already known, so holder resolution is skipped.
func (r *Resolver) VaultsFor(ctx context.Context, acc ledger.Account) ([]Vault, error) {
	bindings, err := r.store.ChestBindingsFor(ctx, acc)
	if err != nil {
		return nil, fmt.Errorf("retrieve chest bindings for %s: %w", acc, err)
	}

	vaults := make([]Vault, 0, len(bindings))

	for _, b := range bindings {
		v, ok := r.resolve(ctx, b, &acc)
		if ok {
			vaults = append(vaults, v)
		}
	}

	return vaults, nil
}

// resolve validates one binding against live world state. A nil known
// account makes resolve look the holder up from the binding's identity.
func (r *Resolver) resolve(ctx context.Context, b ledger.ChestBinding, known *ledger.Account) (Vault, bool) {
	world, ok := r.worlds.WorldByName(b.World)
	if !ok {
		slog.Warn("vault located on a non-existent world, deleting binding",
			"binding", b.String(), "type", b.AccountType, "owner", b.AccountOwner)
		r.prune(ctx, b)

		return Vault{}, false
	}

	marker, ok := world.BlockAt(b.X, b.Y, b.Z).ContainerMarker()
	if !ok {
		// Vault was destroyed in-world without the deletion path running.
		slog.Warn("vault block no longer carries a marker, deleting binding",
			"binding", b.String())
		r.prune(ctx, b)

		return Vault{}, false
	}

	var acc ledger.Account

	if known != nil {
		acc = *known
	} else {
		h, ok := r.holders.HolderBy(b.AccountType, b.AccountOwner)
		if !ok {
			slog.Warn("account holder is no longer valid, deleting binding",
				"binding", b.String(), "type", b.AccountType, "owner", b.AccountOwner)
			r.prune(ctx, b)

			return Vault{}, false
		}

		acc = ledger.Account{Owner: h}
	}

	return Vault{Container: marker, Account: acc}, true
}

// prune deletes a stale binding. Pruning is a repair side effect of a
// read: its failures are logged, never raised.
func (r *Resolver) prune(ctx context.Context, b ledger.ChestBinding) {
	_, err := r.store.DeleteChestBinding(ctx, b.World, b.X, b.Y, b.Z)
	if err != nil {
		slog.Error("failed to prune stale chest binding",
			"binding", b.String(), "error", err)
	}
}
