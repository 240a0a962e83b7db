package envconf

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"
)

type nestedConfig struct {
	DSN string `env:"TEST_NESTED_DSN"`
}

type testConfig struct {
	Name     string        `env:"TEST_NAME"`
	Port     uint16        `env:"TEST_PORT"`
	Debug    bool          `env:"TEST_DEBUG"`
	Timeout  time.Duration `env:"TEST_TIMEOUT"`
	LogLevel slog.Level    `env:"TEST_LOG_LEVEL"`
	Nested   nestedConfig
	ignored  string //nolint:unused
}

func setAll(t *testing.T) {
	t.Helper()

	t.Setenv("TEST_NAME", "ledger")
	t.Setenv("TEST_PORT", "8080")
	t.Setenv("TEST_DEBUG", "true")
	t.Setenv("TEST_TIMEOUT", "15s")
	t.Setenv("TEST_LOG_LEVEL", "WARN")
	t.Setenv("TEST_NESTED_DSN", "file:/tmp/ledger.db")
}

func TestLoad(t *testing.T) {
	setAll(t)

	cfg := new(testConfig)

	err := Load(cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Name != "ledger" {
		t.Errorf("Name: want ledger, got %q", cfg.Name)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port: want 8080, got %d", cfg.Port)
	}
	if !cfg.Debug {
		t.Error("Debug: want true")
	}
	if cfg.Timeout != 15*time.Second {
		t.Errorf("Timeout: want 15s, got %s", cfg.Timeout)
	}
	if cfg.LogLevel != slog.LevelWarn {
		t.Errorf("LogLevel: want WARN, got %s", cfg.LogLevel)
	}
	if cfg.Nested.DSN != "file:/tmp/ledger.db" {
		t.Errorf("Nested.DSN: want file:/tmp/ledger.db, got %q", cfg.Nested.DSN)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setAll(t)

	// Unset one tagged variable; the load must fail on it. t.Setenv in
	// setAll already registered the restore.
	err := os.Unsetenv("TEST_PORT")
	if err != nil {
		t.Fatalf("unset TEST_PORT: %v", err)
	}

	err = Load(new(testConfig))
	if !errors.Is(err, ErrMissingRequired) {
		t.Fatalf("want ErrMissingRequired, got %v", err)
	}
}

func TestLoad_ParseFailure(t *testing.T) {
	setAll(t)
	t.Setenv("TEST_PORT", "not-a-number")

	err := Load(new(testConfig))
	if err == nil {
		t.Fatal("want parse error for malformed uint")
	}
}

func TestLoad_BadDestination(t *testing.T) {
	t.Parallel()

	if err := Load(nil); err == nil {
		t.Error("nil destination must be rejected")
	}

	var s string
	if err := Load(&s); err == nil {
		t.Error("non-struct destination must be rejected")
	}

	if err := Load(testConfig{}); err == nil {
		t.Error("non-pointer destination must be rejected")
	}
}
