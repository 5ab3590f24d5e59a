package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/matsen/arxiv-search/internal/arxiv"
	"github.com/matsen/arxiv-search/internal/collection"
	"github.com/matsen/arxiv-search/internal/config"
	"github.com/matsen/arxiv-search/internal/ingest"
	"github.com/spf13/cobra"
)

var (
	embedLimit     int
	embedClean     bool
	embedYear      int
	embedDataFile  string
	embedBatchSize int
	noProgress     bool
)

func init() {
	rootCmd.AddCommand(embedCmd)

	embedCmd.Flags().IntVarP(&embedLimit, "limit", "l", 1000, "Number of papers to embed (0 for all)")
	embedCmd.Flags().BoolVarP(&embedClean, "clean", "c", false, "Delete the existing collection before embedding")
	embedCmd.Flags().IntVarP(&embedYear, "year", "y", 0, "Only include papers from this year onwards (0 for any)")
	embedCmd.Flags().StringVar(&embedDataFile, "data", "", "Metadata snapshot path (default: "+config.DefaultSnapshotFile+")")
	embedCmd.Flags().IntVar(&embedBatchSize, "batch-size", ingest.DefaultBatchSize, "Papers per embedding batch")
	embedCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Suppress progress output")
}

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Embed snapshot papers into the vector collection",
	Long: `Embed papers from an arXiv metadata snapshot into the persistent
vector collection used by the query service.

Papers are read from a newline-delimited JSON snapshot, embedded from
title + abstract in fixed-size batches, and upserted by arXiv id.
Re-running updates existing papers in place; --clean drops the whole
collection first.

Requires Ollama to be running with the embedding model available.
Run 'ollama pull all-minilm:l6-v2' to download the model.

Examples:
  axs embed --limit 1000       Embed 1000 papers (default)
  axs embed -l 0               Embed ALL papers
  axs embed --year 2010        Embed papers from 2010 onwards
  axs embed --clean -l 5000    Drop the collection and embed 5000 papers`,
	RunE: runEmbed,
}

// EmbedResult is the response for the embed command.
type EmbedResult struct {
	Status          string  `json:"status"`
	PapersRead      int     `json:"papers_read"`
	PapersEmbedded  int     `json:"papers_embedded"`
	Batches         int     `json:"batches"`
	DurationSeconds float64 `json:"duration_seconds"`
	Model           string  `json:"model"`
	CollectionCount int     `json:"collection_count"`
}

func runEmbed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	_ = godotenv.Load()
	root := mustGetRoot()

	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	provider := newProvider(cfg)
	mustCheckProvider(ctx, provider)

	if humanOutput {
		limitStr := "all"
		if embedLimit > 0 {
			limitStr = fmt.Sprintf("%d", embedLimit)
		}
		yearStr := "any"
		if embedYear > 0 {
			yearStr = fmt.Sprintf("%d onwards", embedYear)
		}
		fmt.Fprintf(os.Stderr, "arXiv embeddings generator\n")
		fmt.Fprintf(os.Stderr, "Using model %s\n", provider.ModelName())
		fmt.Fprintf(os.Stderr, "  limit: %s\n", limitStr)
		fmt.Fprintf(os.Stderr, "  year: %s\n", yearStr)
		fmt.Fprintf(os.Stderr, "  clean: %v\n\n", embedClean)
	}

	if err := os.MkdirAll(config.DataPath(root), 0755); err != nil {
		exitWithError(ExitError, "creating data directory: %v", err)
	}

	store, err := collection.Open(config.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "opening collection database: %v", err)
	}
	defer store.Close()

	if embedClean {
		switch err := store.Drop(config.CollectionName); {
		case errors.Is(err, collection.ErrCollectionNotFound):
			if humanOutput {
				fmt.Fprintln(os.Stderr, "No existing collection to delete")
			}
		case err != nil:
			exitWithError(ExitError, "deleting collection: %v", err)
		default:
			if humanOutput {
				fmt.Fprintf(os.Stderr, "Deleted existing collection '%s'\n", config.CollectionName)
			}
		}
	}

	dataFile := embedDataFile
	if dataFile == "" {
		dataFile = cfg.DataFile
	}

	if humanOutput {
		fmt.Fprintf(os.Stderr, "Reading papers from %s...\n", dataFile)
	}

	papers, err := arxiv.LoadPapers(dataFile, embedLimit, embedYear)
	if err != nil {
		exitWithError(ExitDataError, "loading papers: %v", err)
	}

	if humanOutput {
		fmt.Fprintf(os.Stderr, "Read %d papers\n", len(papers))
	}

	ing := ingest.NewIngestor(provider, store, config.CollectionName)
	if cfg.BatchSize > 0 && !cmd.Flags().Changed("batch-size") {
		ing.SetBatchSize(cfg.BatchSize)
	} else {
		ing.SetBatchSize(embedBatchSize)
	}

	if humanOutput && !noProgress {
		fmt.Fprintln(os.Stderr, "Generating embeddings...")
		ing.SetProgressReporter(ingest.ProgressFunc(printProgress))
	}

	stats, err := ing.Run(ctx, papers)
	if err != nil {
		exitWithError(ExitError, "embedding papers: %v", err)
	}

	if humanOutput && !noProgress {
		fmt.Fprintf(os.Stderr, "\r%s\r", "                                                  ")
	}

	count, err := store.Count(config.CollectionName)
	if err != nil {
		exitWithError(ExitError, "counting collection: %v", err)
	}

	if humanOutput {
		fmt.Printf("Successfully embedded %d papers\n", stats.PapersEmbedded)
		fmt.Printf("  Batches: %d\n", stats.Batches)
		fmt.Printf("  Time elapsed: %s\n", formatDuration(stats.Duration))
		fmt.Printf("  Model: %s\n", provider.ModelName())
		fmt.Printf("Collection count: %d\n", count)
	} else {
		outputJSON(EmbedResult{
			Status:          "complete",
			PapersRead:      len(papers),
			PapersEmbedded:  stats.PapersEmbedded,
			Batches:         stats.Batches,
			DurationSeconds: stats.Duration.Seconds(),
			Model:           provider.ModelName(),
			CollectionCount: count,
		})
	}

	return nil
}
