package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/karstvale/vaultledger/internal/holder"
	"github.com/karstvale/vaultledger/internal/ledger"
	"github.com/karstvale/vaultledger/internal/store"
)

// HandlerProvider wraps a ledger store and exposes inspection handlers.
type HandlerProvider struct {
	store store.Store
}

// NewHandler returns a new handler provider.
func NewHandler(st store.Store) *HandlerProvider {
	return &HandlerProvider{store: st}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
		http.Error(w, `{"error":"internal json encode failure"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ListAccountsHandler handles GET /accounts.
func (h *HandlerProvider) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.store.AccountsRaw(r.Context())
	if err != nil {
		slog.Error("list accounts", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")

		return
	}

	if accounts == nil {
		accounts = []ledger.RawAccount{}
	}

	writeJSON(w, http.StatusOK, accounts)
}

// GetBalanceHandler handles GET /account/{type}/{owner}/balance.
func (h *HandlerProvider) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	accountType := chi.URLParam(r, "type")
	owner := chi.URLParam(r, "owner")

	if accountType == "" || owner == "" {
		writeError(w, http.StatusBadRequest, "missing type or owner in path")

		return
	}

	acc := ledger.Account{Owner: holder.NewRaw(accountType, owner)}

	has, err := h.store.HasAccount(r.Context(), acc.Owner)
	if err != nil {
		slog.Error("check account", "type", accountType, "owner", owner, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")

		return
	}

	if !has {
		writeError(w, http.StatusNotFound, "account not found")

		return
	}

	cents, err := h.store.RetrieveBalance(r.Context(), acc)
	if err != nil {
		slog.Error("retrieve balance", "type", accountType, "owner", owner, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"type":    accountType,
		"owner":   owner,
		"cents":   cents,
		"balance": fmt.Sprintf("%.2f", float64(cents)/100.0),
	})
}

// ListChestsHandler handles GET /chests.
func (h *HandlerProvider) ListChestsHandler(w http.ResponseWriter, r *http.Request) {
	chests, err := h.store.ChestsRaw(r.Context())
	if err != nil {
		slog.Error("list chests", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")

		return
	}

	if chests == nil {
		chests = []ledger.RawChest{}
	}

	writeJSON(w, http.StatusOK, chests)
}
