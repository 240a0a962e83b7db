package ledger

import (
	"errors"
	"testing"

	"github.com/karstvale/vaultledger/internal/holder"
)

func TestChestBindingString(t *testing.T) {
	t.Parallel()

	b := ChestBinding{World: "overworld", X: -4, Y: 64, Z: 12}

	if got, want := b.String(), "overworld:-4,64,12"; got != want {
		t.Fatalf("String: want %s, got %s", want, got)
	}
}

func TestAccountString(t *testing.T) {
	t.Parallel()

	a := Account{Owner: holder.NewRaw("town", "town-Skyhold")}

	if got, want := a.String(), "Account(town:town-Skyhold)"; got != want {
		t.Fatalf("String: want %s, got %s", want, got)
	}
}

func TestStorageError(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")

	withKey := &StorageError{Op: "store balance", Key: "player:alice", Err: cause}
	if got, want := withKey.Error(), "storage: store balance (player:alice): disk full"; got != want {
		t.Errorf("Error: want %q, got %q", want, got)
	}

	if !errors.Is(withKey, cause) {
		t.Error("cause must be reachable through Unwrap")
	}

	noKey := &StorageError{Op: "close store", Err: cause}
	if got, want := noKey.Error(), "storage: close store: disk full"; got != want {
		t.Errorf("Error: want %q, got %q", want, got)
	}
}
