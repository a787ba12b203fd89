package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"double-paws/internal/adapters/auth/jwt"
	rediscache "double-paws/internal/adapters/cache/redis"
	"double-paws/internal/adapters/notify/rabbitmq"
	pg "double-paws/internal/adapters/storage/postgres"
	"double-paws/internal/config"
	"double-paws/internal/domain/geocoding"
	"double-paws/internal/platform/httpclient"
	"double-paws/internal/platform/logger"
	"double-paws/internal/ports/auth"
	"double-paws/internal/router"
)

const purgeEvery = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.AppName,
	})
	if zl, ok := log.(*logger.ZapLogger); ok {
		defer func() { _ = zl.Sync() }()
	}

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := router.Options{
		Logger:         log,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		SessionTTL:     cfg.SessionTTL(),
		ErrorDisplay:   cfg.ErrorDisplay(),
		GeocodingRate:  cfg.Geocoding.RatePerSecond,
		Geocoding: geocoding.Options{
			Debounce: cfg.DebounceWait(),
			Limit:    cfg.Geocoding.Limit,
			CacheTTL: cfg.GeocodeCacheTTL(),
		},
	}

	// Auth: sin secret queda el modo dev del middleware.
	if cfg.Auth.JWTSecret != "" {
		opts.AuthVerifier = jwt.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	} else {
		if cfg.IsProduction() {
			return errors.New("AUTH_JWT_SECRET is required in production")
		}
		log.Warn("auth disabled, using X-Debug-User-ID", nil)
	}

	api, err := httpclient.NewWithBaseURL(cfg.API.BaseURL, cfg.APITimeout())
	if err != nil {
		return fmt.Errorf("double paws api: %w", err)
	}
	opts.API = api

	geo, err := httpclient.NewWithBaseURL(cfg.Geocoding.BaseURL, cfg.GeocodingTimeout())
	if err != nil {
		return fmt.Errorf("geocoding: %w", err)
	}
	geo.UserAgent = cfg.Geocoding.UserAgent
	opts.GeocodingClient = geo

	if cfg.Database.DSN != "" {
		dbCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Database.ConnectTimeout)*time.Second)
		db, err := pg.Open(dbCtx, cfg.Database.DSN)
		if err == nil {
			err = pg.EnsureSchema(dbCtx, db)
		}
		cancel()
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer db.Close()
		opts.DB = db
		log.Info("registration sessions in postgres", nil)
	}

	if cfg.Redis.Addr != "" {
		rdb, err := rediscache.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			// Sin cache se sigue funcionando, solo con más llamadas al geocoder.
			log.Warn("redis unavailable, geocode cache disabled", map[string]any{"error": err.Error()})
		} else {
			defer rdb.Close()
			opts.GeocodeCache = rediscache.NewGeocodeCache(rdb)
		}
	}

	if cfg.RabbitMQ.DSN != "" {
		pub, conn, err := rabbitmq.Dial(cfg.RabbitMQ.DSN, cfg.RabbitMQ.Exchange, cfg.PublishTimeout())
		if err != nil {
			log.Warn("rabbitmq unavailable, registration events disabled", map[string]any{"error": err.Error()})
		} else {
			defer conn.Close()
			defer pub.Close()
			opts.Notifier = pub
		}
	}

	app := router.New(opts)
	go purgeLoop(ctx, app, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app.Handler,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  cfg.IdleTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "auth": authMode(opts.AuthVerifier)})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// purgeLoop borra sesiones de registro abandonadas.
func purgeLoop(ctx context.Context, app router.App, log logger.Logger) {
	t := time.NewTicker(purgeEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			// El service ya loguea cuántas borró.
			if _, err := app.Registrations.PurgeIdle(ctx); err != nil {
				log.Warn("purge idle registrations", map[string]any{"error": err.Error()})
			}
		}
	}
}

func authMode(v auth.AuthVerifier) string {
	if v == nil {
		return "dev"
	}
	return "jwt"
}
