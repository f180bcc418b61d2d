package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/inventario/internal/config"
	"github.com/deppfellow/inventario/internal/database"
	"github.com/deppfellow/inventario/internal/handler"
	"github.com/deppfellow/inventario/internal/logger"
	"github.com/deppfellow/inventario/internal/repository"
	"github.com/deppfellow/inventario/internal/router"
	"github.com/deppfellow/inventario/internal/server"
	"github.com/deppfellow/inventario/internal/service"
	"github.com/spf13/cobra"
)

const DefaultContextTimeout = 30

var (
	// serve flags
	skipMigrate bool

	// migrate flags
	targetVersion int32
)

var rootCmd = &cobra.Command{
	Use:   "inventario",
	Short: "Inventory API for environments, sheets, laptops and reports",
	Long: `inventario serves the REST API for the laptop inventory.

Configuration is read from defaults, an optional YAML file
(INVENTARIO_CONFIG_FILE) and INVENTARIO_* environment variables.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Migrates the schema to --to. A negative version migrates to the
latest embedded migration; 0 drops everything.`,
	RunE: runMigrate,
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not migrate to the latest version before serving")
	migrateCmd.Flags().Int32Var(&targetVersion, "to", -1, "target migration version, negative for latest")

	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize New Relic logger service
	// server.Shutdown flushes it once the server exists.
	loggerService := logger.NewLoggerService(cfg.Observability)

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	if !skipMigrate {
		ctx, cancel := context.WithTimeout(cmd.Context(), DefaultContextTimeout*time.Second)
		err := database.Migrate(ctx, &log, cfg, -1)
		cancel()
		if err != nil {
			log.Error().Err(err).Msg("failed to migrate database")
			loggerService.Shutdown()
			return err
		}
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize server")
		loggerService.Shutdown()
		return err
	}

	repos := repository.NewRepositories(srv)
	services, err := service.NewServices(srv, repos)
	if err != nil {
		log.Error().Err(err).Msg("could not create services")
		return errors.Join(err, srv.Shutdown(context.Background()))
	}

	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("server stopped")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout*time.Second)
		defer cancel()
		return errors.Join(err, srv.Shutdown(shutdownCtx))
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	log.Info().Msg("server exited properly")
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewLogger(cfg.Observability)

	ctx, cancel := context.WithTimeout(cmd.Context(), DefaultContextTimeout*time.Second)
	defer cancel()

	if err := database.Migrate(ctx, &log, cfg, targetVersion); err != nil {
		log.Error().Err(err).Int32("target", targetVersion).Msg("failed to migrate database")
		return err
	}
	return nil
}
