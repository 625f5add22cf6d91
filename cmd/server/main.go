package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iliyamo/sakila-rental-service/internal/config"
	"github.com/iliyamo/sakila-rental-service/internal/database"
	"github.com/iliyamo/sakila-rental-service/internal/logger"
	"github.com/iliyamo/sakila-rental-service/internal/observability"
	"github.com/iliyamo/sakila-rental-service/internal/queue"
	"github.com/iliyamo/sakila-rental-service/internal/router"
	"github.com/iliyamo/sakila-rental-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger is not up yet
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, config.LoadTracingConfig(), cfg.Env, log)
	if err != nil {
		log.Warn("tracing disabled", "error", err)
	}

	store, err := database.Open(database.Options{
		User:         cfg.DBUser,
		Pass:         cfg.DBPass,
		Host:         cfg.DBHost,
		Port:         cfg.DBPort,
		Name:         cfg.DBName,
		MaxOpenConns: cfg.DBMaxOpenConns,
		OpTimeout:    cfg.DBOpTimeout,
	})
	if err != nil {
		log.Fatal("open database", "host", cfg.DBHost, "db", cfg.DBName, "error", err)
	}
	defer store.Close()

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		log.Warn("redis unavailable; cache and rate limit disabled")
	} else {
		defer rdb.Close()
	}

	opts := []service.Option{}
	events := config.LoadEventsConfig()
	if events.Enabled {
		amqpPub := queue.NewAMQPPublisher(events.URL, events.Queue, events.DialTimeout, log)
		defer amqpPub.Close()
		pub := queue.NewAsyncPublisher(amqpPub, events.Backlog, events.PublishTimeout, log)
		defer pub.Close()
		opts = append(opts, service.WithPublisher(pub))

		consumer := &queue.AuditConsumer{
			URL:         events.URL,
			Queue:       events.Queue,
			LogPath:     events.AuditLogPath,
			DialTimeout: events.DialTimeout,
			Log:         log,
		}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("audit consumer stopped", "error", err)
			}
		}()
	}

	e := router.New(router.Deps{
		Config:    cfg,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Redis:     rdb,
		DB:        store,
		Catalog:   service.NewCatalog(store, log),
		Lifecycle: service.NewLifecycle(store, log, opts...),
		Log:       log,
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "error", err)
	}
	if shutdownTracing != nil {
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn("tracing shutdown", "error", err)
		}
	}
}
