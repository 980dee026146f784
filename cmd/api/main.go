package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/accountd/accountd/internal/config"
	"github.com/accountd/accountd/internal/db"
	httpx "github.com/accountd/accountd/internal/http"
	"github.com/accountd/accountd/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()

	if err != nil {
		// no logger yet; this is the fail-fast path for a missing secret
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.Env)

	if cfg.UsingDevSecret() {
		log.Warn("running with the built-in dev signing secret; set JWT_SECRET for anything real")
	}

	// tracing is opt-in via OTEL_EXPORTER_OTLP_ENDPOINT
	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(context.Background(), "accountd", cfg.OTLPEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}

		defer func() {
			ctx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
	}

	var pool *pgxpool.Pool

	pool, err = db.NewPool(cfg.DBURL)

	if err != nil {
		if cfg.Env == "dev" {
			// keep the dev loop alive on the in-memory store
			log.Warn("postgres unreachable, falling back to in-memory store", "err", err)
			pool = nil
		} else {
			log.Error("postgres connection failed", "err", err)
			os.Exit(1)
		}
	}

	if pool != nil {
		defer pool.Close()

		ctx, cancel := config.WithTimeout(10 * time.Second)
		err = db.EnsureSchema(ctx, pool)
		cancel()

		if err != nil {
			log.Error("schema bootstrap failed", "err", err)
			os.Exit(1)
		}
	}

	router := httpx.NewRouter(log, pool, cfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
