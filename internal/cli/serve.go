package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/p28/portal/internal/auth"
	"github.com/p28/portal/internal/middleware"
	"github.com/p28/portal/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := a.logger

	stores, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	srvCfg := server.Config{
		SiteURL:      cfg.SiteURL,
		Version:      cfg.Version(),
		AuthCookie:   cfg.AuthCookie,
		AdminEmails:  cfg.AdminEmails,
		CookieSecure: cfg.CookieSecure,
		Resolver:     auth.NewSupabaseResolver(cfg.SupabaseJWTSecret, auth.WithAccessCookie(cfg.AuthCookie)),
	}

	if cfg.RedisURL != "" {
		rdb, err := middleware.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		srvCfg.Limiter = middleware.NewRedisLimiter(rdb, "portal:rl:", logger.With("component", "ratelimit"))
		logger.Info("using redis rate limiter")
	}

	srv, err := server.New(stores, srvCfg, logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Background cleanup goroutine
	cleanupCtx, cleanupCancel := context.WithCancel(ctx)
	defer cleanupCancel()
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			case <-cleanupCtx.Done():
				return
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("portal starting", "addr", httpServer.Addr, "version", srvCfg.Version, "postgres", cfg.UsesPostgres())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	cleanupCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
