package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/karstvale/vaultledger/internal/holder"
	"github.com/karstvale/vaultledger/internal/ledger"
	"github.com/karstvale/vaultledger/internal/store/sqlite"
)

func newTestRouter(t *testing.T) (http.Handler, *sqlite.Store) {
	t.Helper()

	st, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "ledger.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	t.Cleanup(func() { _ = st.Close() })

	return NewRouter(st), st
}

func doGet(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type: want application/json, got %q", ct)
	}

	err := json.Unmarshal(rec.Body.Bytes(), v)
	if err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	rec := doGet(t, router, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d", rec.Code)
	}
}

func TestListAccounts(t *testing.T) {
	t.Parallel()

	router, st := newTestRouter(t)

	t.Run("empty_store_is_empty_array", func(t *testing.T) {
		rec := doGet(t, router, "/accounts")
		if rec.Code != http.StatusOK {
			t.Fatalf("status: want 200, got %d", rec.Code)
		}

		var accounts []ledger.RawAccount
		decodeJSON(t, rec, &accounts)

		if accounts == nil || len(accounts) != 0 {
			t.Fatalf("want empty array, got %v", accounts)
		}
	})

	t.Run("lists_stored_rows", func(t *testing.T) {
		h := holder.NewRaw("player", "11111111-0000-0000-0000-000000000000")

		_, err := st.CreateAccount(context.Background(), h)
		if err != nil {
			t.Fatalf("create account: %v", err)
		}

		ok, err := st.StoreBalance(context.Background(), ledger.Account{Owner: h}, 2_500)
		if err != nil || !ok {
			t.Fatalf("store balance: ok=%v err=%v", ok, err)
		}

		rec := doGet(t, router, "/accounts")
		if rec.Code != http.StatusOK {
			t.Fatalf("status: want 200, got %d", rec.Code)
		}

		var accounts []ledger.RawAccount
		decodeJSON(t, rec, &accounts)

		if len(accounts) != 1 {
			t.Fatalf("want 1 account, got %d", len(accounts))
		}
		if accounts[0].Owner != h.ID() || accounts[0].Cents != 2_500 {
			t.Fatalf("unexpected row: %+v", accounts[0])
		}
	})
}

func TestGetBalance(t *testing.T) {
	t.Parallel()

	router, st := newTestRouter(t)

	h := holder.NewRaw("player", "balance-owner")

	_, err := st.CreateAccount(context.Background(), h)
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	ok, err := st.StoreBalance(context.Background(), ledger.Account{Owner: h}, 12_345)
	if err != nil || !ok {
		t.Fatalf("store balance: ok=%v err=%v", ok, err)
	}

	t.Run("existing_account", func(t *testing.T) {
		rec := doGet(t, router, "/account/player/balance-owner/balance")
		if rec.Code != http.StatusOK {
			t.Fatalf("status: want 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var body struct {
			Type    string `json:"type"`
			Owner   string `json:"owner"`
			Cents   int64  `json:"cents"`
			Balance string `json:"balance"`
		}
		decodeJSON(t, rec, &body)

		if body.Type != "player" || body.Owner != "balance-owner" {
			t.Fatalf("wrong identity in response: %+v", body)
		}
		if body.Cents != 12_345 {
			t.Fatalf("cents: want 12345, got %d", body.Cents)
		}
		if body.Balance != "123.45" {
			t.Fatalf("balance: want 123.45, got %s", body.Balance)
		}
	})

	t.Run("unknown_account_is_404", func(t *testing.T) {
		rec := doGet(t, router, "/account/player/nobody/balance")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status: want 404, got %d", rec.Code)
		}

		var body map[string]string
		decodeJSON(t, rec, &body)

		if body["error"] == "" {
			t.Fatalf("want error payload, got %v", body)
		}
	})
}

func TestListChests(t *testing.T) {
	t.Parallel()

	router, st := newTestRouter(t)

	h := holder.NewRaw("town", "town-market")

	_, err := st.CreateAccount(context.Background(), h)
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	b := ledger.ChestBinding{
		World: "overworld", X: 8, Y: 64, Z: -12,
		AccountType: h.Type(), AccountOwner: h.ID(),
	}

	stored, err := st.StoreChestBinding(context.Background(), b)
	if err != nil || !stored {
		t.Fatalf("store binding: stored=%v err=%v", stored, err)
	}

	rec := doGet(t, router, "/chests")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d", rec.Code)
	}

	var chests []ledger.RawChest
	decodeJSON(t, rec, &chests)

	if len(chests) != 1 {
		t.Fatalf("want 1 chest, got %d", len(chests))
	}

	c := chests[0]
	if c.World != "overworld" || c.X != 8 || c.Y != 64 || c.Z != -12 {
		t.Fatalf("unexpected chest row: %+v", c)
	}
}
