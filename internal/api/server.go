package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/karstvale/vaultledger/internal/store"
)

// NewServer creates a configured *http.Server for the read-only ledger
// inspection API.
func NewServer(port uint16, st store.Store) *http.Server {
	addr := fmt.Sprintf(":%d", port)

	return &http.Server{
		Addr:              addr,
		Handler:           NewRouter(st),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
