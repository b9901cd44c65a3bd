package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anime-sync/core/config"
	"anime-sync/core/database"
	"anime-sync/core/loader"
	"anime-sync/core/logger"
	"anime-sync/core/middleware/auth"
	"anime-sync/core/middleware/requestid"
	"anime-sync/feature/anime/client"
	"anime-sync/feature/anime/models"
	animesync "anime-sync/feature/anime/sync"
	"anime-sync/feature/status"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the sync daemon",
	Long:  `Runs periodic sync passes against the catalog API and serves the status endpoints.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := db.AutoMigrate(models.All()...); err != nil {
			logg.Fatal("Failed to migrate schema", zap.Error(err))
		}
		logg.Info("Connected to catalog database", zap.String("driver", cfg.Database.Driver))

		// 4. Build the Sync Engine
		api := client.NewClient(cfg.API, logg)
		state := animesync.NewStateStore(cfg.Sync.StateFile, logg)
		syncer := animesync.NewSyncer(db, api, state, cfg.Sync, logg)

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// Middleware Registration
		// 1. RequestID (Must be first to trace everything)
		app.Use(requestid.New())

		// 2. Logging Middleware (Custom to use Zap + RequestID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRequest(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Auth (Protect the status API; /healthz stays public)
		app.Use("/status", auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 6. Load Features
		mgr := loader.NewManager()
		mgr.Register(status.NewFeature(syncer, logg))
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 7. Start the Sync Loop
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go syncer.RunPeriodic(ctx, time.Duration(cfg.Sync.IntervalSeconds)*time.Second)

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down...")
		cancel()
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
