package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"EventRegistration/internal/config"
	"EventRegistration/internal/handlers"
	"EventRegistration/internal/kv"
	"EventRegistration/internal/log"
	"EventRegistration/internal/services"
	"EventRegistration/internal/sessions"
	"EventRegistration/internal/store"
	"EventRegistration/internal/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default command)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	tp, err := tracing.NewProvider(tracing.Config{
		Enabled:      cfg.TracingEnabled,
		Exporter:     cfg.TracingExporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
	})
	if err != nil {
		return err
	}

	limiter, err := kv.New(ctx, cfg.RedisURL, int64(cfg.LoginRateLimit), cfg.LoginRateWindow)
	if err != nil {
		return err
	}
	defer limiter.Close()

	regs := store.NewRegistrations(d)
	tracer := tp.Tracer()
	if !tp.Enabled() {
		tracer = nil
	}

	h := handlers.New(handlers.Deps{
		Registrations: services.NewRegistration(regs, cfg.DuplicatePaymentPolicy),
		Admin:         services.NewAdmin(regs, cfg.StatsLocation),
		Auth:          newAuth(cfg, store.NewAdmins(d)),
		DB:            d,
		Sessions:      sessions.New(cfg.SessionSecret, cfg.JWTExpire, cfg.HTTPS),
		LoginLimiter:  limiter,
		Tracer:        tracer,
		FrontendURL:   cfg.FrontendURL,
		MaxBodyBytes:  cfg.MaxBodyBytes,
		Location:      cfg.StatsLocation,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(log.CatHTTP, "listening", "addr", srv.Addr, "env", cfg.Env)
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

	log.Info(log.CatHTTP, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorErr(log.CatHTTP, "shutdown", err)
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.ErrorErr(log.CatHTTP, "tracing shutdown", err)
	}
	return nil
}

func newAuth(cfg *config.Config, admins services.AdminLookup) *services.Auth {
	if cfg.AdminAuthSource == config.AuthSourceConfig && cfg.AdminUsername == "" {
		log.Warn(log.CatConfig, "ADMIN_USERNAME is empty; admin login is disabled")
	}
	return services.NewAuth(services.AuthOptions{
		Secret:   cfg.JWTSecret,
		Expiry:   cfg.JWTExpire,
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
		Source:   cfg.AdminAuthSource,
		Admins:   admins,
	})
}
