package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/karstvale/vaultledger/internal/store"
)

// NewRouter registers the inspection endpoints. Everything here is
// read-only: the API exists for operators to look at the ledger, not to
// mutate it.
func NewRouter(st store.Store) http.Handler {
	h := NewHandler(st)
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/accounts", h.ListAccountsHandler)
	r.Get("/account/{type}/{owner}/balance", h.GetBalanceHandler)
	r.Get("/chests", h.ListChestsHandler)

	return r
}
