package main

import (
	"fmt"
	"os"
	"time"

	"github.com/matsen/arxiv-search/internal/collection"
	"github.com/matsen/arxiv-search/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

// StatusResult is the response for the status command.
type StatusResult struct {
	Status      string `json:"status"`
	Collection  string `json:"collection"`
	Count       int    `json:"count"`
	Model       string `json:"model"`
	Dimensions  int    `json:"dimensions"`
	Created     string `json:"created"`
	DBSizeBytes int64  `json:"db_size_bytes"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show collection status",
	Long:  `Show the item count, model, and size of the vector collection.`,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	root := mustGetRoot()

	store, err := collection.Open(config.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "opening collection database: %v", err)
	}
	defer store.Close()

	info, err := store.Info(config.CollectionName)
	if err != nil {
		if err == collection.ErrCollectionNotFound {
			exitWithError(ExitConfigError, "Collection not found\n\nRun 'axs embed' to create it.")
		}
		exitWithError(ExitError, "reading collection info: %v", err)
	}

	var dbSize int64
	if fi, err := os.Stat(config.DBPath(root)); err == nil {
		dbSize = fi.Size()
	}

	if humanOutput {
		fmt.Printf("Collection: %s\n", info.Name)
		fmt.Printf("  Papers: %d\n", info.Count)
		fmt.Printf("  Model: %s (%d dimensions)\n", info.ModelName, info.Dimensions)
		fmt.Printf("  Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("  Database size: %s\n", formatBytes(dbSize))
	} else {
		outputJSON(StatusResult{
			Status:      "healthy",
			Collection:  info.Name,
			Count:       info.Count,
			Model:       info.ModelName,
			Dimensions:  info.Dimensions,
			Created:     info.CreatedAt.Format(time.RFC3339),
			DBSizeBytes: dbSize,
		})
	}

	return nil
}
