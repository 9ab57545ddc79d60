package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/restaurante/backend/internal/api"
	"github.com/restaurante/backend/internal/auth"
	"github.com/restaurante/backend/internal/config"
	"github.com/restaurante/backend/internal/jobs"
	"github.com/restaurante/backend/internal/metrics"
	"github.com/restaurante/backend/internal/middleware"
	"github.com/restaurante/backend/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", cfg.Database.Driver)

	m := metrics.New()
	catalog := service.NewCatalogService(store)
	apiCfg := api.Config{
		Store:          store,
		Customers:      service.NewCustomerService(store),
		Catalog:        catalog,
		Orders:         service.NewOrderService(store),
		Payments:       service.NewPaymentService(store),
		Metrics:        m,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}

	if cfg.Auth.Enabled {
		jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		authService := service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, slog.Default())
		if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminName, cfg.Auth.AdminPassword); err != nil {
			return fmt.Errorf("failed to provision admin account: %w", err)
		}
		apiCfg.JWT = jwtManager
		apiCfg.Auth = authService
		slog.Info("Authentication enabled", "token_ttl", cfg.Auth.TokenTTL)
	}

	if cfg.RateLimit.RPS > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		limiter.StartCleanup(ctx, 5*time.Minute)
		apiCfg.Limiter = limiter
		slog.Info("Rate limiting enabled", "rps", cfg.RateLimit.RPS, "burst", cfg.RateLimit.Burst)
	}

	scheduler := jobs.NewScheduler()
	if spec := cfg.Jobs.LowStockSchedule; spec != "" {
		if err := scheduler.AddLowStock(spec, jobs.NewLowStockJob(catalog, m)); err != nil {
			return err
		}
		slog.Info("Low stock job scheduled", "schedule", spec)
	}
	scheduler.Start()

	server := &http.Server{
		Addr: cfg.Server.Addr(),
		// h2c serves HTTP/2 without TLS next to HTTP/1.1.
		Handler:      h2c.NewHandler(api.NewHandler(apiCfg), &http2.Server{}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	scheduler.Stop(shutdownCtx)
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}
