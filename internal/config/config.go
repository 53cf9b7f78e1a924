// Package config содержит логику чтения конфигурации сервиса заказов.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

const (
	defaultLogLevel   = "info"
	defaultTxRetries  = 3
	unsetEnvTxRetries = -1
)

// Config содержит параметры конфигурации сервиса заказов.
type Config struct {
	DatabaseURI  string `env:"DATABASE_URI"`
	LogLevel     string `env:"LOG_LEVEL"`
	TxMaxRetries int    `env:"TX_MAX_RETRIES" envDefault:"-1"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envDatabaseURI := cfg.DatabaseURI
	envLogLevel := cfg.LogLevel
	envTxRetries := cfg.TxMaxRetries

	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level (debug, info, warn, error)")
	flag.IntVar(&cfg.TxMaxRetries, "retries", defaultTxRetries, "transaction retries on serialization failure")

	flag.Parse()

	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envLogLevel != "" {
		cfg.LogLevel = envLogLevel
	}
	if envTxRetries != unsetEnvTxRetries {
		cfg.TxMaxRetries = envTxRetries
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.TxMaxRetries < 0 {
		return nil, fmt.Errorf("transaction retries must not be negative: %d", cfg.TxMaxRetries)
	}

	return cfg, nil
}
