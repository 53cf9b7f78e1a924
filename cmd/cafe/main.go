// Package main запускает консольную утилиту сотрудника кафе.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mmeshcher/cafe-orders/internal/auth"
	"github.com/mmeshcher/cafe-orders/internal/config"
	"github.com/mmeshcher/cafe-orders/internal/model"
	"github.com/mmeshcher/cafe-orders/internal/repository"
	"github.com/mmeshcher/cafe-orders/internal/service"
)

const usage = `usage: cafe [-d uri] [-l level] [-retries n] <command> [flags]

commands:
  migrate                                   apply schema migrations
  register   -name -email -password         register a customer
  login      -email -password               check customer credentials
  menu-add   -name -desc -price             add a menu item
  menu       [-all]                         list menu items
  place      -user -items id:qty,... [-pickup 30m] [-pay ACCOUNT|OTHER]
  finalize   -order [-success=false]        complete or cancel an order
  points     -user -value                   set loyalty points
  block      -user                          block an account
  unblock    -user                          unblock an account
  grant-staff -user                         grant the staff role
  orders                                    list orders, newest first
  order      -id                            show one order
  users                                     list accounts
`

func main() {
	cfg, err := config.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger error:", err)
		os.Exit(2)
	}
	defer logger.Sync()

	sugar := logger.Sugar()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	repo, err := repository.NewPostgresRepository(cfg.DatabaseURI, cfg.TxMaxRetries)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}

	svc := service.NewService(repo, auth.NewBcryptHasher(0), logger)
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, svc, os.Stdout, args); err != nil {
		sugar.Errorw("command failed", "command", args[0], "error", err)
		svc.Close()
		os.Exit(exitCode(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)

	return zcfg.Build()
}

// exitCode отображает тип ошибки в код завершения процесса.
func exitCode(err error) int {
	switch {
	case errors.Is(err, errUsage), errors.Is(err, model.ErrValidation):
		return 2
	case errors.Is(err, model.ErrNotFound):
		return 3
	case errors.Is(err, model.ErrAccessDenied), errors.Is(err, model.ErrInvalidCredentials):
		return 4
	case errors.Is(err, model.ErrInsufficientFunds):
		return 5
	case errors.Is(err, model.ErrConflict), errors.Is(err, model.ErrInvalidState):
		return 6
	default:
		return 1
	}
}
