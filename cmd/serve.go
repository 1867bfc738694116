package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/voxlate/dubber-api/api"
	"github.com/voxlate/dubber-api/api/types"
	"github.com/voxlate/dubber-api/internal/database"
	"github.com/voxlate/dubber-api/internal/models"
	"github.com/voxlate/dubber-api/internal/services/cleanup"
	"github.com/voxlate/dubber-api/internal/services/workers"
	"github.com/voxlate/dubber-api/pkg/config"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the Dubber API server with the configured settings.

The server handles timeline review requests directly and runs the
dubbing pipeline on a background worker pool.

Example:
  dubber-api serve
  dubber-api serve --port 9090
  dubber-api serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server flags
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Use config values if flags not provided
	if serverHost == "" {
		serverHost = cfg.Server.Host
	}
	if serverPort == 0 {
		serverPort = cfg.Server.Port
	}

	db, err := database.Initialize(cfg.Database.Path, cfg.Database.Verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.AutoMigrate(
		&models.Timeline{},
		&models.Segment{},
		&models.DubbingConfig{},
		&models.SpeakerVoice{},
		&models.Job{},
	); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	srv := api.NewServer(fmt.Sprintf("%s:%d", serverHost, serverPort))
	srv.SetDependencies(&types.Dependencies{DB: db})
	if err := srv.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	deps := srv.Dependencies()

	// Worker pool processes pipeline jobs claimed from the queue
	pool := workers.NewWorkerPool(deps.JobService, cfg.Processing.Workers, cfg.Processing.PollInterval)
	pool.RegisterProcessor(workers.NewDubbingProcessor(deps.JobService, deps.Orchestrator, deps.StatusStore))
	pool.RegisterProcessor(workers.NewSeparationProcessor(deps.JobService, deps.Orchestrator))
	deps.WorkerPool = pool

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	if err := pool.Start(workerCtx); err != nil {
		return fmt.Errorf("failed to start worker pool: %w", err)
	}

	// Prune staged downloads and finished jobs in the background
	janitor := cleanup.NewService(deps.JobService, cfg.Storage.TempDir, cfg.Storage.MaxTempAge, cfg.Processing.JobRetention, time.Hour)
	janitor.Start(workerCtx)
	defer janitor.Stop()

	fmt.Printf("Starting Dubber API server on %s:%d\n", serverHost, serverPort)

	// Channel to listen for interrupt signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Channel to receive server errors
	serverErr := make(chan error, 1)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	fmt.Printf("Server is ready to handle requests at %s:%d\n", serverHost, serverPort)

	// Wait for interrupt signal or server error
	select {
	case <-stop:
		fmt.Println("\nShutting down server...")
	case err := <-serverErr:
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		fmt.Println("Shutting down server...")
	}

	// Stop claiming new jobs before shutting the HTTP surface down
	pool.Stop()
	cancelWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server forced to shutdown: %v\n", err)
		return err
	}

	fmt.Println("Server gracefully stopped")
	return nil
}
