package main

import (
	"log/slog"
	"time"

	"github.com/karstvale/vaultledger/internal/config"
)

type adminConfig struct {
	Port            uint16        `env:"ADMIN_PORT"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT"`
	Store           config.StoreConfig
}
