// Package main provides the axs CLI entry point.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "axs",
	Short: "Semantic search over an arXiv metadata snapshot",
	Long: `axs embeds arXiv paper titles and abstracts into a persistent
vector collection and serves nearest-neighbor search over it.

The embed command reads a metadata snapshot and fills the collection;
the serve command exposes /health and /search over HTTP. Both sides use
the same embedding model, so query vectors live in the same space as
the stored papers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// mustGetRoot returns the working root for data and config files.
// AXS_ROOT overrides the current directory.
func mustGetRoot() string {
	if root := os.Getenv("AXS_ROOT"); root != "" {
		return root
	}

	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}
	return cwd
}
