// Package ingest embeds paper batches into a persistent collection.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/matsen/arxiv-search/internal/arxiv"
	"github.com/matsen/arxiv-search/internal/collection"
	"github.com/matsen/arxiv-search/internal/embedding"
)

// DefaultBatchSize is the number of papers embedded and upserted per batch.
const DefaultBatchSize = 100

// ProgressReporter receives progress updates during ingestion.
type ProgressReporter interface {
	// OnProgress is called after each batch with the current progress.
	OnProgress(current, total int)
}

// ProgressFunc is a function adapter for ProgressReporter.
type ProgressFunc func(current, total int)

// OnProgress implements ProgressReporter.
func (f ProgressFunc) OnProgress(current, total int) {
	f(current, total)
}

// Stats contains statistics from an ingestion run.
type Stats struct {
	PapersEmbedded int           `json:"papers_embedded"`
	Batches        int           `json:"batches"`
	Duration       time.Duration `json:"duration"`
}

// Ingestor embeds papers and upserts them into a collection.
type Ingestor struct {
	provider  embedding.Provider
	store     *collection.Store
	name      string
	batchSize int
	progress  ProgressReporter
}

// NewIngestor creates an ingestor writing to the named collection.
func NewIngestor(provider embedding.Provider, store *collection.Store, name string) *Ingestor {
	return &Ingestor{
		provider:  provider,
		store:     store,
		name:      name,
		batchSize: DefaultBatchSize,
	}
}

// SetProgressReporter sets the progress reporter for the ingestor.
func (in *Ingestor) SetProgressReporter(reporter ProgressReporter) {
	in.progress = reporter
}

// SetBatchSize overrides the default batch size.
func (in *Ingestor) SetBatchSize(size int) {
	if size > 0 {
		in.batchSize = size
	}
}

// Run embeds the papers in fixed-size batches and upserts each batch into
// the collection. Batches are sequential; a failure aborts the whole run.
// Re-ingesting an id that is already stored replaces it.
func (in *Ingestor) Run(ctx context.Context, papers []arxiv.Paper) (*Stats, error) {
	startTime := time.Now()
	stats := &Stats{}
	total := len(papers)

	for start := 0; start < total; start += in.batchSize {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		end := start + in.batchSize
		if end > total {
			end = total
		}
		batch := papers[start:end]

		texts := make([]string, len(batch))
		for i, p := range batch {
			texts[i] = p.EmbeddingText()
		}

		embeddings, err := in.provider.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embedding batch %d: %w", stats.Batches+1, err)
		}

		items := make([]collection.Item, len(batch))
		for i, p := range batch {
			items[i] = collection.Item{
				ID:         p.ID,
				Title:      p.Title,
				Categories: p.Categories,
				Embedding:  embeddings[i].Vector,
			}
		}

		if err := in.store.Upsert(in.name, in.provider.ModelName(), in.provider.Dimensions(), items); err != nil {
			return nil, fmt.Errorf("upserting batch %d: %w", stats.Batches+1, err)
		}

		stats.Batches++
		stats.PapersEmbedded += len(batch)

		if in.progress != nil {
			in.progress.OnProgress(end, total)
		}
	}

	stats.Duration = time.Since(startTime)
	return stats, nil
}
