package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/loanwise/internal/api"
	"github.com/jon4hz/loanwise/internal/auth"
	"github.com/jon4hz/loanwise/internal/cache"
	"github.com/jon4hz/loanwise/internal/config"
	"github.com/jon4hz/loanwise/internal/database"
	"github.com/jon4hz/loanwise/internal/model"
	"github.com/jon4hz/loanwise/internal/predict"
	"github.com/jon4hz/loanwise/internal/session"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Loanwise server",
	Long:  `Start the Loanwise web server. This is also what runs when no subcommand is given.`,
	Example: `loanwise serve --config config.yml
loanwise serve -c /path/to/config.yml --log-level debug
`,
	Run: startServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func startServer(cmd *cobra.Command, _ []string) {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// the model has to be usable before we accept any request
	artifacts, err := model.LoadArtifacts(cfg.Model.Path, cfg.Model.ColumnsPath)
	if err != nil {
		log.Fatalf("failed to load model: %v", err)
	}

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close() //nolint: errcheck

	sessions := session.NewCacheStore(
		cache.NewByType(cfg.SessionStore),
		time.Duration(cfg.SessionMaxAge)*time.Second,
	)
	authService := auth.New(db, sessions, cfg.BcryptCost)
	predictor := predict.New(artifacts)

	server, err := api.New(cfg, authService, predictor, log.GetLevel() == log.DebugLevel)
	if err != nil {
		log.Fatalf("failed to create API server: %v", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("loanwise started successfully", "session_store", cfg.SessionStore.Type, "backend", sessions.Backend())
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("API server error", "error", err)
		return
	}
	log.Info("shutting down gracefully...")
}

// runWithDB opens the configured database for one-shot commands.
func runWithDB(ctx context.Context, fn func(context.Context, *database.Client) error) error {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		return err
	}
	db, err := database.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close() //nolint: errcheck
	return fn(ctx, db)
}
