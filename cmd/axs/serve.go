package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/matsen/arxiv-search/internal/collection"
	"github.com/matsen/arxiv-search/internal/config"
	"github.com/matsen/arxiv-search/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default "+config.DefaultAddr+")")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the paper search API over HTTP",
	Long: `Serve the paper search API over HTTP.

The service loads the persistent collection written by 'axs embed' and
answers /health and /search requests. Search embeds the query with the
same model used at ingest time and returns the nearest stored papers by
cosine distance.

Cross-origin access is limited to the configured allow-list; set
CORS_ORIGINS to a comma-separated origin list to override it.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()
	root := mustGetRoot()

	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	provider := newProvider(cfg)

	if err := os.MkdirAll(config.DataPath(root), 0755); err != nil {
		exitWithError(ExitError, "creating data directory: %v", err)
	}

	store, err := collection.Open(config.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "opening collection database: %v", err)
	}
	defer store.Close()

	// Get-or-create so /health answers before the first ingest
	if err := store.Ensure(config.CollectionName, provider.ModelName(), provider.Dimensions()); err != nil {
		exitWithError(ExitError, "preparing collection: %v", err)
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Addr
	}

	srv := server.New(store, provider, config.CollectionName)

	log.Printf("serving arXiv paper search on %s", addr)
	log.Printf("collection: %s (%s)", config.CollectionName, config.DBPath(root))
	log.Printf("allowed origins: %s", strings.Join(cfg.CORSOrigins, ", "))

	if err := srv.Run(addr, cfg.CORSOrigins); err != nil && err != http.ErrServerClosed {
		exitWithError(ExitError, "server: %v", err)
	}
	return nil
}
