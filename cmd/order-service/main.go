package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Tykillita/LaCocinadeAnitaMenu/internal/order/application"
	orderhttp "github.com/Tykillita/LaCocinadeAnitaMenu/internal/order/infrastructure/http"
	"github.com/Tykillita/LaCocinadeAnitaMenu/internal/order/infrastructure/memory"
	orderpg "github.com/Tykillita/LaCocinadeAnitaMenu/internal/order/infrastructure/postgres"
	"github.com/Tykillita/LaCocinadeAnitaMenu/pkg/idempotency"
	"github.com/Tykillita/LaCocinadeAnitaMenu/pkg/logging"
	"github.com/Tykillita/LaCocinadeAnitaMenu/pkg/shutdown"
)

func main() {
	log := logging.New("order-service")

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	// Configuration
	httpAddr := env("HTTP_ADDR", ":8080")
	pgURL := env("PG_URL", "")
	redisAddr := env("REDIS_ADDR", "")

	// Store: postgres when configured, in-memory otherwise
	var repo application.OrderRepository
	if pgURL != "" {
		pool, err := pgxpool.New(ctx, pgURL)
		if err != nil {
			log.Error("pg connect failed", "err", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := orderpg.EnsureSchema(ctx, pool); err != nil {
			log.Error("pg schema failed", "err", err)
			os.Exit(1)
		}
		repo = orderpg.NewRepository(log, pool)
		log.Info("using postgres store")
	} else {
		repo = memory.NewRepository()
		log.Info("using in-memory store")
	}

	// Duplicate-submission guard, enabled when redis is configured
	var idem func(http.Handler) http.Handler
	if redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		defer rdb.Close()
		store := idempotency.NewStore(rdb, 24*time.Hour)
		idem = idempotency.Middleware(store, "order")
		log.Info("idempotency guard enabled")
	}

	handler := orderhttp.NewHandler(log, repo, idem)

	r := chi.NewRouter()
	r.Mount("/", handler.Routes())
	srv := &http.Server{
		Addr:         httpAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http listening", "addr", httpAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("order-service shutdown complete")
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
