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

	"personal-task-manager/config"
	"personal-task-manager/handlers"
	"personal-task-manager/logging"
	"personal-task-manager/repositories"
	"personal-task-manager/services"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var envFile string

func main() {
	root := &cobra.Command{
		Use:           "taskmanager",
		Short:         "Personal task manager web application",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE:  runServe,
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the storage schema and exit",
		RunE:  runMigrate,
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if err := logging.InitLogger(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel}); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg *config.Config) (repositories.Store, error) {
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	store, err := repositories.Open(openCtx, cfg)
	if err != nil {
		logging.Logger.Errorf("Event ID: DB_CONNECTION_FAILED, Description: Opening %s store failed: %v", cfg.StoreDriver, err)
		return nil, err
	}
	if err := store.Migrate(openCtx); err != nil {
		store.Close()
		logging.Logger.Errorf("Event ID: DB_MIGRATION_FAILED, Description: Schema migration failed: %v", err)
		return nil, err
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Using %s store", cfg.StoreDriver)
	return store, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	store, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	logging.Logger.Info("Event ID: DB_MIGRATED, Description: Schema is up to date")
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting personal task manager...")
	if cfg.GeneratedSecret {
		logging.Logger.Warn("Event ID: CONFIG_WARNING, Description: SESSION_SECRET is not set, using a random secret; sessions will not survive a restart")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	raw, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	store := repositories.NewBreakerStore(raw, repositories.DefaultBreakerSettings)
	defer store.Close()

	views, err := handlers.NewViews()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	var blacklist services.PasswordBlacklist
	if cfg.PasswordBlacklistFile != "" {
		if blacklist, err = services.LoadPasswordBlacklist(cfg.PasswordBlacklistFile); err != nil {
			logging.Logger.Errorf("Event ID: BLACKLIST_LOAD_FAILED, Description: %v", err)
			return err
		}
		logging.Logger.Infof("Event ID: BLACKLIST_LOADED, Description: Loaded %d blacklisted passwords", len(blacklist))
	}

	sessions := services.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL)
	authService := services.NewAuthService(store, cfg.BcryptCost, blacklist)
	taskService := services.NewTaskService(store)
	exportService := services.NewExportService(taskService)

	router := handlers.NewRouter(handlers.RouterConfig{
		Auth:     handlers.NewAuthHandler(authService, sessions, views, cfg.CookieSecure),
		Tasks:    handlers.NewTaskHandler(taskService, exportService, views),
		Sessions: sessions,
		Store:    store,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Errorf("Event ID: SERVER_FATAL_ERROR, Description: Server failed: %v", err)
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logging.Logger.Info("Event ID: SERVER_SHUTDOWN, Description: Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logging.Logger.Info("Event ID: SERVER_STOPPED, Description: Server stopped")
	return nil
}
