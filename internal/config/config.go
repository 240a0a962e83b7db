package config

// StoreConfig selects the ledger storage backend. A postgres:// (or
// postgresql://) URL selects the PostgreSQL store; anything else is a
// filesystem path for the embedded SQLite store.
type StoreConfig struct {
	DSN string `env:"STORE_DSN"`
}
