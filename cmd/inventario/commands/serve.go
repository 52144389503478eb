package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/inventario-agricola/inventario/internal/app"
	"github.com/inventario-agricola/inventario/internal/backend"
	"github.com/inventario-agricola/inventario/internal/bridge"
	"github.com/inventario-agricola/inventario/internal/console"
	"github.com/inventario-agricola/inventario/internal/observability"
	"github.com/inventario-agricola/inventario/internal/platform/cache"
	"github.com/inventario-agricola/inventario/internal/shared"
	"github.com/inventario-agricola/inventario/internal/view"
)

const shutdownTimeout = 10 * time.Second

func serveCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:         "serve",
		Usage:        "servir la consola web",
		OnUsageError: usageError,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "dirección de escucha, p. ej. :8090"},
		},
		Action: func(c *cli.Context) error {
			if c.IsSet("addr") {
				st.cfg.AppAddr = c.String("addr")
			}
			if err := st.cfg.ValidateServer(); err != nil {
				return cli.Exit(fmt.Sprintf("inventario: %v", err), ExitUsage)
			}
			if app.InTestMode() {
				st.logger.Info("test mode detected, skipping server startup")
				return nil
			}
			if err := serve(c.Context, st.cfg, app.NewLogger(st.cfg)); err != nil {
				return cli.Exit(fmt.Sprintf("inventario: %v", err), ExitError)
			}
			return nil
		},
	}
}

func serve(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	redisClient, err := cache.New(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	handler, err := buildRouter(cfg, logger, redisClient)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      handler,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("backend", cfg.BackendBaseURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func buildRouter(cfg *app.Config, logger *slog.Logger, redisClient *redis.Client) (http.Handler, error) {
	resources, err := cfg.Resources()
	if err != nil {
		return nil, err
	}
	endpoints := cfg.Endpoints()
	metrics := observability.NewMetrics()

	sessionManager := shared.NewSessionManager(redisClient, "inventario_session", cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	forms := bridge.NewFromDirectory(
		backend.NewDirectory(endpoints, backend.WithTimeout(cfg.BackendTimeout), backend.WithObserver(metrics)),
		bridge.Config{Resources: resources, Toasts: cfg.ConsoleToast, Language: cfg.ConsoleLang},
		bridge.WithSequencer(shared.NewRedisSequencer(redisClient, cfg.TokenTTL)),
		bridge.WithRecorder(metrics),
		bridge.WithLogger(logger),
	)

	templates, err := view.NewEngine()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	consoleHandler := console.NewHandler(logger, forms, templates, csrfManager, console.Settings{
		Lang:      cfg.ConsoleLang,
		Toasts:    cfg.ConsoleToast,
		Endpoints: endpoints,
	})

	return app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		Console:        consoleHandler,
		Metrics:        metrics,
		Health: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
	}), nil
}
