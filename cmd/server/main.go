// The palate server ingests interaction signals over HTTP and maintains
// per-user taste profiles.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/platefeed/palate/internal/aggregator"
	"github.com/platefeed/palate/internal/api"
	"github.com/platefeed/palate/internal/config"
	"github.com/platefeed/palate/internal/logging"
	"github.com/platefeed/palate/internal/scoring"
	"github.com/platefeed/palate/internal/store"
)

// #region main

func main() {
	configPath := flag.String("config", "", "path to config.yaml (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("open store")
	}
	defer st.Close()

	agg := aggregator.New(st, st, aggregator.Config{
		Smoothing:         scoring.Config{Alpha: cfg.Engine.Alpha},
		PersonaMinSignals: cfg.Engine.PersonaMinSignals,
		LogAppendTimeout:  cfg.Engine.LogAppendTimeout,
	}, logger)

	handlers := api.NewHandlers(agg, st, logger)
	router := api.NewRouter(handlers, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("db", cfg.Database.Path).Msg("palate server listening")
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server failed")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}

	// Drain in-flight audit appends before the store closes.
	agg.Close()
}

// #endregion main
