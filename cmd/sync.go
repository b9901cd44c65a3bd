package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"anime-sync/core/config"
	"anime-sync/core/database"
	"anime-sync/core/logger"
	"anime-sync/feature/anime/client"
	"anime-sync/feature/anime/models"
	animesync "anime-sync/feature/anime/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fullSync bool

// syncCmd runs a single sync pass and exits.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one sync pass and exit",
	Long: `Runs a single incremental sync pass against the catalog API.

Examples:
  # Incremental pass from the last checkpoint
  sync

  # Ignore the checkpoint and walk the whole feed
  sync --full`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&fullSync, "full", false, "Discard the checkpoint and resync the full feed")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	api := client.NewClient(cfg.API, l)
	state := animesync.NewStateStore(cfg.Sync.StateFile, l)
	syncer := animesync.NewSyncer(db, api, state, cfg.Sync, l)

	if fullSync {
		if err := state.Clear(); err != nil {
			return fmt.Errorf("failed to clear checkpoint: %w", err)
		}
		l.Info("Checkpoint cleared, running full resync")
	}

	// Ctrl-C stops the pass at the next item boundary; committed work stays.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics, err := syncer.RunPass(ctx)
	if err != nil {
		return fmt.Errorf("sync pass failed: %w", err)
	}

	l.Info("Sync pass finished",
		zap.Int("added", metrics.Added),
		zap.Int("updated", metrics.Updated),
		zap.Int("unchanged", metrics.Unchanged),
		zap.Int("errors", metrics.Errors))
	return nil
}
