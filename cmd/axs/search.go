package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/matsen/arxiv-search/internal/collection"
	"github.com/matsen/arxiv-search/internal/config"
	"github.com/spf13/cobra"
)

var searchN int

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVarP(&searchN, "n-results", "n", 10, "Maximum number of results")
}

// PaperResult represents a paper in search results.
type PaperResult struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Categories string  `json:"categories"`
	Distance   float64 `json:"distance"`
}

// SearchResponse is the response for the search command.
type SearchResponse struct {
	Query   string        `json:"query"`
	Results []PaperResult `json:"results"`
	Total   int           `json:"total"`
	Model   string        `json:"model"`
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search papers by semantic similarity",
	Long: `Search the embedded papers by semantic similarity to a query.

The query is embedded with the same model used at ingest time; results
are ordered by ascending cosine distance (nearest first).

Requires the collection to be populated first with 'axs embed'.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	_ = godotenv.Load()
	query := strings.TrimSpace(args[0])

	if query == "" {
		exitWithError(ExitError, "Search query cannot be empty")
	}

	root := mustGetRoot()
	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	provider := newProvider(cfg)
	if err := provider.IsAvailable(ctx); err != nil {
		exitWithError(ExitDataError, "Ollama is not running\n\nStart Ollama with 'ollama serve' or install from https://ollama.ai")
	}

	store, err := collection.Open(config.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "opening collection database: %v", err)
	}
	defer store.Close()

	queryEmb, err := provider.Embed(ctx, query)
	if err != nil {
		exitWithError(ExitError, "generating query embedding: %v", err)
	}

	matches, err := store.Search(config.CollectionName, queryEmb.Vector, searchN)
	if err != nil {
		if err == collection.ErrCollectionNotFound {
			exitWithError(ExitConfigError, "Collection not found\n\nRun 'axs embed' to create it.")
		}
		exitWithError(ExitError, "searching collection: %v", err)
	}

	results := make([]PaperResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, PaperResult{
			ID:         m.ID,
			Title:      m.Title,
			Categories: m.Categories,
			Distance:   m.Distance,
		})
	}

	if humanOutput {
		fmt.Printf("Search: \"%s\"\n", query)
		fmt.Printf("Found %d papers\n\n", len(results))

		for i, r := range results {
			fmt.Printf("%d. [%.3f] %s\n", i+1, r.Distance, r.ID)
			fmt.Printf("   %s\n", truncateString(r.Title, 70))
			fmt.Printf("   %s\n\n", r.Categories)
		}
	} else {
		outputJSON(SearchResponse{
			Query:   query,
			Results: results,
			Total:   len(results),
			Model:   provider.ModelName(),
		})
	}

	return nil
}
