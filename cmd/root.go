package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/voxlate/dubber-api/pkg/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dubber-api",
	Short: "Dubber API server",
	Long: `Dubber API - transcript review and video dubbing with cloned voices

This API manages transcript timelines for segment-level review, then runs
a dubbing pipeline over the reviewed timeline: the source audio is split
into vocal, music and effects stems, each speaker's voice is sampled and
cloned, translated segments are synthesized and placed back at their
original positions, and the mixed track is muxed into the source video.

Features:
  • Timeline import from VTT, SRT and JSON transcripts
  • Segment review (keep/drop, trims, splits, text edits)
  • Stem separation and voice cloning via external engines
  • Per-segment synthesis preview
  • Background job queue for pipeline runs`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	// Set up configuration loading with lazy initialization
	cobra.OnInitialize(loadConfig)
}

// loadConfig loads the configuration when a command needs it
func loadConfig() {
	// Skip config loading for commands that don't need it
	cmd, _, _ := rootCmd.Find(os.Args[1:])
	if cmd != nil && (cmd.Name() == "version" || cmd.Name() == "help") {
		return
	}

	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}
