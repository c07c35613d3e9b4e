package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rollcall/internal/account"
	"rollcall/internal/account/handler"
	"rollcall/internal/account/metrics"
	"rollcall/internal/account/service"
	eventstore "rollcall/internal/account/store/events"
	viewstore "rollcall/internal/account/store/views"
	"rollcall/internal/notify"
	notifykafka "rollcall/internal/notify/kafka"
	"rollcall/internal/platform/config"
	"rollcall/internal/platform/httpserver"
	"rollcall/internal/platform/kafka"
	"rollcall/internal/platform/logger"
	"rollcall/internal/platform/postgres"
	"rollcall/internal/platform/redis"
	"rollcall/pkg/platform/middleware/requesttime"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	var events account.EventStore
	if cfg.PostgresDSN != "" {
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer db.Close()

		pg := eventstore.NewPostgres(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			return err
		}
		events = pg
		log.Info("event store: postgres")
	} else {
		events = eventstore.NewInMemory()
		log.Warn("event store: in-memory, history is not durable")
	}

	var views account.ViewStore
	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		views = viewstore.NewRedis(redisClient)
		log.Info("view store: redis")
	} else {
		views = viewstore.NewInMemory()
		log.Warn("view store: in-memory")
	}

	registry := notify.NewRegistry()
	kafkaClient, err := kafka.New(ctx, cfg.KafkaBrokers)
	if err != nil {
		return err
	}
	if kafkaClient != nil {
		defer kafkaClient.Close()
		publisher := notifykafka.NewPublisher(kafkaClient)
		if err := publisher.EnsureTopic(ctx); err != nil {
			return err
		}
		registry.Subscribe(account.KindRegistered, publisher)
		log.Info("integration events: kafka", "topic", notifykafka.TopicAccountRegistered)
	}
	sink := notify.NewDispatcher(registry)

	svc := service.New(events, views, sink, log, metrics.New())
	accountHandler := handler.New(svc, log)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(requesttime.Middleware)
	accountHandler.Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, r)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting rollcall", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
