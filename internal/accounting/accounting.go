// Package accounting applies balance changes on top of the ledger store.
// The store only replaces whole balances; increments and funds checks live
// here.
package accounting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/karstvale/vaultledger/internal/holder"
	"github.com/karstvale/vaultledger/internal/ledger"
	"github.com/karstvale/vaultledger/internal/store"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

type Service struct {
	store store.Store
}

func New(st store.Store) *Service {
	return &Service{store: st}
}

// Balance returns the holder's current balance in cents. Holders without
// an account read as zero.
func (s *Service) Balance(ctx context.Context, h holder.Holder) (int64, error) {
	cents, err := s.store.RetrieveBalance(ctx, ledger.Account{Owner: h})
	if err != nil {
		return 0, fmt.Errorf("retrieve balance: %w", err)
	}

	return cents, nil
}

// Deposit credits amount cents to the holder, creating the account on
// first touch.
func (s *Service) Deposit(ctx context.Context, h holder.Holder, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("deposit amount must be positive, got %d", amount)
	}

	acc := ledger.Account{Owner: h}

	_, err := s.store.CreateAccount(ctx, h)
	if err != nil {
		return fmt.Errorf("ensure account: %w", err)
	}

	cents, err := s.store.RetrieveBalance(ctx, acc)
	if err != nil {
		return fmt.Errorf("retrieve balance: %w", err)
	}

	ok, err := s.store.StoreBalance(ctx, acc, cents+amount)
	if err != nil {
		return fmt.Errorf("store balance: %w", err)
	}

	if !ok {
		return fmt.Errorf("account %s vanished during deposit", acc)
	}

	return nil
}

// Withdraw debits amount cents from the holder. Missing accounts read as
// zero balances and fail with ErrInsufficientFunds.
func (s *Service) Withdraw(ctx context.Context, h holder.Holder, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("withdraw amount must be positive, got %d", amount)
	}

	acc := ledger.Account{Owner: h}

	cents, err := s.store.RetrieveBalance(ctx, acc)
	if err != nil {
		return fmt.Errorf("retrieve balance: %w", err)
	}

	if cents < amount {
		return ErrInsufficientFunds
	}

	ok, err := s.store.StoreBalance(ctx, acc, cents-amount)
	if err != nil {
		return fmt.Errorf("store balance: %w", err)
	}

	if !ok {
		return fmt.Errorf("account %s vanished during withdrawal", acc)
	}

	return nil
}

// Transfer moves amount cents between two holders. If crediting the
// receiver fails the debit is rolled back best-effort.
func (s *Service) Transfer(ctx context.Context, from, to holder.Holder, amount int64) error {
	err := s.Withdraw(ctx, from, amount)
	if err != nil {
		return fmt.Errorf("debit %s: %w", from.ID(), err)
	}

	err = s.Deposit(ctx, to, amount)
	if err != nil {
		rerr := s.Deposit(ctx, from, amount)
		if rerr != nil {
			slog.Error("failed to roll back transfer debit",
				"from", from.ID(), "to", to.ID(), "amount", amount, "error", rerr)
		}

		return fmt.Errorf("credit %s: %w", to.ID(), err)
	}

	return nil
}
