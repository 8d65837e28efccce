package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"hospital-ops/internal/admission"
	"hospital-ops/internal/api"
	"hospital-ops/internal/audit"
	"hospital-ops/internal/config"
	"hospital-ops/internal/db"
	"hospital-ops/internal/redisclient"
	"hospital-ops/internal/registry"
	"hospital-ops/internal/scheduling"
	"hospital-ops/internal/visit"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("config load error")
	}

	log := newLogger(cfg)
	log.Info().Str("env", cfg.Env).Str("http_port", cfg.HTTPPort).Msg("api-server starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	log.Info().Msg("connected to Postgres")

	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection error")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("error closing redis")
		}
	}()
	log.Info().Msg("connected to Redis")

	locker := redisclient.NewRedisLocker(rdb, cfg.LockTTL)

	reg := registry.NewPgRepository(pgPool)
	recorder := audit.NewRecorder(audit.NewPgRepository(pgPool), log)

	apptRepo := scheduling.NewPgRepository(pgPool)
	schedSvc := scheduling.NewService(apptRepo, reg, recorder, locker, log)
	admSvc := admission.NewService(admission.NewPgRepository(pgPool), reg, recorder, locker, log)
	visitSvc := visit.NewService(visit.NewPgRepository(pgPool), reg, apptRepo, recorder, log)

	handler := api.NewRouter(api.RouterConfig{
		Scheduling: schedSvc,
		Admissions: admSvc,
		Visits:     visitSvc,
		Audit:      recorder,
		Registry:   reg,
		PgPool:     pgPool,
		Redis:      rdb,
		JWTSecret:  []byte(cfg.JWTSecret),
		Log:        log,
		Env:        cfg.Env,
		Version:    version,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	case <-rootCtx.Done():
		log.Info().Msg("shutting down api-server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown error")
		}
	}

	log.Info().Msg("api-server stopped")
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out = zerolog.New(os.Stdout)
	if cfg.Env == "dev" {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return out.Level(level).With().Timestamp().Str("service", "api-server").Logger()
}
