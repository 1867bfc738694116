package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/voxlate/dubber-api/internal/database"
	"github.com/voxlate/dubber-api/internal/models"
	"github.com/voxlate/dubber-api/pkg/config"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Apply the database schema for the Dubber API.

Runs GORM auto-migration over all models, creating or altering tables
to match the current schema. Safe to run repeatedly.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().Bool("verbose", false, "log every executed statement")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Initialize(cfg.Database.Path, verbose || cfg.Database.Verbose)
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
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Printf("Schema migrated at %s\n", cfg.Database.Path)
	return nil
}
