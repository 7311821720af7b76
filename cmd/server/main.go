// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in internal/registry.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"vouchnet/internal/jwttoken"
	"vouchnet/internal/platform/config"
	"vouchnet/internal/platform/httpserver"
	"vouchnet/internal/platform/logger"
	"vouchnet/internal/platform/middleware"
	platformredis "vouchnet/internal/platform/redis"
	"vouchnet/internal/registry/cache"
	"vouchnet/internal/registry/handler"
	regmetrics "vouchnet/internal/registry/metrics"
	"vouchnet/internal/registry/service"
	"vouchnet/internal/registry/store"
	id "vouchnet/pkg/domain"
	"vouchnet/pkg/platform/events"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	sink, cleanup, err := buildEventSink(ctx, cfg, log)
	if err != nil {
		log.Error("event sink setup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	queue := events.NewChannelPublisher(1024)
	worker := events.NewWorker(sink, queue.Inbox(), log)

	opts := []service.Option{
		service.WithPublisher(queue),
		service.WithMetrics(regmetrics.New()),
		service.WithLogger(log),
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis setup failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, service.WithCache(cache.New(redisClient.Client, cfg.Redis.CacheTTL, log)))
	}

	admin := id.BankID(cfg.AdminIdentity)
	registry := service.New(admin, store.NewInMemory(), opts...)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "vouchnet", "vouchnet-registry")
	h := handler.New(registry, log, cfg.AdminToken, admin, jwtService)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				log.WarnContext(r.Context(), "health check degraded", "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())
	h.Register(router)

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting vouchnet registry", "addr", cfg.Addr)

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// buildEventSink picks the delivery backend: Kafka when brokers are set,
// otherwise the postgres outbox when a database is configured, otherwise an
// in-process store.
func buildEventSink(ctx context.Context, cfg config.Server, log *slog.Logger) (events.Publisher, func(), error) {
	if len(cfg.KafkaBrokers) > 0 {
		pub, err := events.NewKafkaPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			return nil, nil, err
		}
		return pub, func() { _ = pub.Close() }, nil
	}

	if cfg.PostgresURL != "" {
		db, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		outbox := events.NewPostgres(db)
		if err := outbox.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return events.NewStorePublisher(outbox), func() { _ = db.Close() }, nil
	}

	return events.NewStorePublisher(events.NewInMemoryStore()), func() {}, nil
}
