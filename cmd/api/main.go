package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adam2504/devevent/internal/auth"
	"github.com/adam2504/devevent/internal/cache"
	"github.com/adam2504/devevent/internal/config"
	httpx "github.com/adam2504/devevent/internal/http"
	"github.com/adam2504/devevent/internal/notifications"
	"github.com/adam2504/devevent/internal/observability"
	"github.com/adam2504/devevent/internal/repo"
	"github.com/adam2504/devevent/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		if errors.Is(err, config.ErrConfigurationMissing) {
			os.Exit(2)
		}
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.Env, cfg.LogLevel)
	slog.SetDefault(log)

	shutdownTracer, err := observability.InitTracer(context.Background(), observability.TracerConfig{
		ServiceName: "devevent-api",
		Env:         cfg.Env,
		Endpoint:    cfg.OTLPEndpoint,
		SampleRatio: cfg.TraceSampleRatio,
	})
	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	backend, err := repo.Open(cfg, prom)
	if err != nil {
		log.Error("store setup failed", "err", err)
		os.Exit(1)
	}

	// the first connection attempt happens here; a store that is down at boot is not fatal,
	// readyz reports it and the next request retries
	schemaCtx, cancel := config.WithTimeout(cfg.ConnectTimeout + 5*time.Second)
	if err := backend.EnsureSchema(schemaCtx); err != nil {
		log.Warn("ensure schema failed", "store", backend.Name, "err", err)
	}
	cancel()

	var readCache cache.Store
	if cfg.RedisAddr != "" {
		rc := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		}, log)
		defer rc.Close()
		readCache = rc
	} else {
		readCache = cache.NewMemory(cfg.CacheTTL)
	}

	events := service.NewEvents(backend.Events, readCache, prom, log)
	notifier := notifications.NewProtectedNotifier(notifications.NewLogNotifier(log), notifications.ProtectedNotifierConfig{})
	bookings := service.NewBookings(backend.Bookings, backend.Events, notifier, prom, log)

	var verifier *auth.Manager
	if cfg.JWTSecret != "" {
		verifier = auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	} else {
		log.Warn("JWT_SECRET not set, write endpoints are unauthenticated")
	}

	deps := httpx.RouterDeps{
		Env:                cfg.Env,
		Logger:             log,
		Events:             events,
		Bookings:           bookings,
		Ping:               backend.Ping,
		Prom:               prom,
		Gatherer:           reg,
		Tracing:            cfg.OTLPEndpoint != "",
		CORSOrigins:        cfg.CORSOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		MaxBodyBytes:       cfg.MaxBodyBytes,
	}
	if verifier != nil {
		deps.Verifier = verifier
	}

	router := httpx.NewRouter(deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "store", backend.Name)
		err := srv.ListenAndServe()

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}

	backend.Close()
}
