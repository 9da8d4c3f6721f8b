package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// Version information set via ldflags during build
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
	builtBy   = "unknown"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long: `Print the version, commit hash, and build date for track.

This information is injected at build time via ldflags.`,
	Args: validArgs(cobra.NoArgs),
	Run:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) {
	out := printer(cmd)
	out.Printf("track %s\n", version)
	out.Printf("  commit: %s\n", commit)
	out.Printf("  built: %s\n", buildDate)
	out.Printf("  by: %s\n", builtBy)
	out.Printf("  go: %s\n", runtime.Version())
	out.Printf("  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
