// Package main runs the lightgraph debug server: health, metrics and
// evaluation of stored scripts.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	_ "net/http/pprof" // register /debug/pprof
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lightgraph/lightgraph/internal/adapters/repository/memory"
	"github.com/lightgraph/lightgraph/internal/adapters/repository/postgres"
	"github.com/lightgraph/lightgraph/internal/adapters/repository/sqlite"
	"github.com/lightgraph/lightgraph/internal/core/store"
	"github.com/lightgraph/lightgraph/internal/infrastructure/config"
	"github.com/lightgraph/lightgraph/pkg/serialization"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	if err := serve(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func serve(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serializer, err := cfg.Serializer.Build()
	if err != nil {
		return err
	}
	st, closeStore, err := openStore(ctx, cfg.Store, serializer)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newServer(st, serializer, logger).routes(cfg.Server.RequestTimeout),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("starting lightgraph server", "addr", cfg.Server.Addr, "store", cfg.Store.Driver)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdown)
}

// openStore builds the configured script store and the func releasing it
func openStore(ctx context.Context, cfg config.StoreConfig, serializer *serialization.Serializer) (store.ScriptStore, func(), error) {
	switch cfg.Driver {
	case "sqlite":
		db, err := sqlite.Open(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		s := sqlite.NewScriptStore(db, serializer).WithTableName(cfg.Table)
		if err := s.CreateTables(ctx); err != nil {
			_ = s.Close()
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		s := postgres.NewScriptStore(pool, serializer).WithTableName(cfg.Table)
		if err := s.CreateTables(ctx); err != nil {
			s.Close()
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		s := memory.NewScriptStore(memory.Config{Serializer: serializer})
		return s, func() { _ = s.Close() }, nil
	}
}
