package accounting

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/karstvale/vaultledger/internal/holder"
	"github.com/karstvale/vaultledger/internal/store"
	"github.com/karstvale/vaultledger/internal/store/sqlite"
)

func newService(t *testing.T, start store.StartBalance) *Service {
	t.Helper()

	st, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "ledger.db"), start)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	t.Cleanup(func() { _ = st.Close() })

	return New(st)
}

func mustBalance(t *testing.T, svc *Service, h holder.Holder, want int64) {
	t.Helper()

	cents, err := svc.Balance(context.Background(), h)
	if err != nil {
		t.Fatalf("balance of %s: %v", h.ID(), err)
	}
	if cents != want {
		t.Fatalf("balance of %s: want %d, got %d", h.ID(), want, cents)
	}
}

func TestService_Deposit(t *testing.T) {
	t.Parallel()

	svc := newService(t, nil)
	h := holder.NewRaw("player", "depositor")

	// First deposit creates the account.
	err := svc.Deposit(context.Background(), h, 1_000)
	if err != nil {
		t.Fatalf("first deposit: %v", err)
	}

	mustBalance(t, svc, h, 1_000)

	err = svc.Deposit(context.Background(), h, 250)
	if err != nil {
		t.Fatalf("second deposit: %v", err)
	}

	mustBalance(t, svc, h, 1_250)

	for _, amount := range []int64{0, -5} {
		err := svc.Deposit(context.Background(), h, amount)
		if err == nil {
			t.Fatalf("deposit of %d should be rejected", amount)
		}
	}
}

func TestService_Deposit_OnTopOfStartBalance(t *testing.T) {
	t.Parallel()

	svc := newService(t, func(holder.Holder) (int64, error) { return 500, nil })
	h := holder.NewRaw("player", "newcomer")

	err := svc.Deposit(context.Background(), h, 100)
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}

	mustBalance(t, svc, h, 600)
}

func TestService_Withdraw(t *testing.T) {
	t.Parallel()

	svc := newService(t, nil)
	h := holder.NewRaw("player", "spender")

	err := svc.Deposit(context.Background(), h, 1_000)
	if err != nil {
		t.Fatalf("seed deposit: %v", err)
	}

	err = svc.Withdraw(context.Background(), h, 400)
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	mustBalance(t, svc, h, 600)

	err = svc.Withdraw(context.Background(), h, 601)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("overdraw: want ErrInsufficientFunds, got %v", err)
	}

	mustBalance(t, svc, h, 600)

	// Draining to exactly zero is allowed.
	err = svc.Withdraw(context.Background(), h, 600)
	if err != nil {
		t.Fatalf("drain: %v", err)
	}

	mustBalance(t, svc, h, 0)
}

func TestService_Withdraw_AbsentAccount(t *testing.T) {
	t.Parallel()

	svc := newService(t, nil)
	h := holder.NewRaw("player", "nobody")

	err := svc.Withdraw(context.Background(), h, 1)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds for absent account, got %v", err)
	}
}

func TestService_Transfer(t *testing.T) {
	t.Parallel()

	svc := newService(t, nil)
	from := holder.NewRaw("player", "payer")
	to := holder.NewRaw("player", "payee")

	err := svc.Deposit(context.Background(), from, 1_000)
	if err != nil {
		t.Fatalf("seed deposit: %v", err)
	}

	err = svc.Transfer(context.Background(), from, to, 300)
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	mustBalance(t, svc, from, 700)
	mustBalance(t, svc, to, 300)

	err = svc.Transfer(context.Background(), from, to, 10_000)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("over-transfer: want ErrInsufficientFunds, got %v", err)
	}

	// A failed transfer moves nothing.
	mustBalance(t, svc, from, 700)
	mustBalance(t, svc, to, 300)
}
