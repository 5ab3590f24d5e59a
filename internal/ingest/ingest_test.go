package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/matsen/arxiv-search/internal/arxiv"
	"github.com/matsen/arxiv-search/internal/collection"
	"github.com/matsen/arxiv-search/internal/embedding"
)

// stubProvider returns deterministic vectors and records batch sizes.
type stubProvider struct {
	dims       int
	batchSizes []int
	failAfter  int // fail on the nth EmbedBatch call, 0 disables
	calls      int
}

func (s *stubProvider) Embed(ctx context.Context, text string) (embedding.Embedding, error) {
	vecs, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return embedding.Embedding{}, err
	}
	return vecs[0], nil
}

func (s *stubProvider) EmbedBatch(ctx context.Context, texts []string) ([]embedding.Embedding, error) {
	s.calls++
	if s.failAfter > 0 && s.calls >= s.failAfter {
		return nil, errors.New("model unavailable")
	}
	s.batchSizes = append(s.batchSizes, len(texts))
	out := make([]embedding.Embedding, len(texts))
	for i := range texts {
		vec := make([]float32, s.dims)
		vec[0] = float32(len(texts[i]))
		out[i] = embedding.Embedding{Vector: vec}
	}
	return out, nil
}

func (s *stubProvider) ModelName() string { return "stub-model" }

func (s *stubProvider) Dimensions() int { return s.dims }

func makePapers(n int) []arxiv.Paper {
	papers := make([]arxiv.Paper, n)
	for i := range papers {
		papers[i] = arxiv.Paper{
			ID:       fmt.Sprintf("2301.%05d", i),
			Title:    fmt.Sprintf("Paper %d", i),
			Abstract: "An abstract.",
		}
	}
	return papers
}

func openTestStore(t *testing.T) *collection.Store {
	t.Helper()
	store, err := collection.Open(filepath.Join(t.TempDir(), "papers.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRun_Batching(t *testing.T) {
	provider := &stubProvider{dims: 3}
	store := openTestStore(t)

	ingestor := NewIngestor(provider, store, "papers")
	ingestor.SetBatchSize(4)

	stats, err := ingestor.Run(context.Background(), makePapers(10))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats.PapersEmbedded != 10 {
		t.Errorf("PapersEmbedded = %d, want 10", stats.PapersEmbedded)
	}
	if stats.Batches != 3 {
		t.Errorf("Batches = %d, want 3", stats.Batches)
	}
	want := []int{4, 4, 2}
	if len(provider.batchSizes) != len(want) {
		t.Fatalf("batch sizes = %v, want %v", provider.batchSizes, want)
	}
	for i := range want {
		if provider.batchSizes[i] != want[i] {
			t.Errorf("batch %d size = %d, want %d", i, provider.batchSizes[i], want[i])
		}
	}

	count, err := store.Count("papers")
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 10 {
		t.Errorf("Count() = %d, want 10", count)
	}
}

func TestRun_Progress(t *testing.T) {
	provider := &stubProvider{dims: 3}
	store := openTestStore(t)

	ingestor := NewIngestor(provider, store, "papers")
	ingestor.SetBatchSize(4)

	var updates [][2]int
	ingestor.SetProgressReporter(ProgressFunc(func(current, total int) {
		updates = append(updates, [2]int{current, total})
	}))

	if _, err := ingestor.Run(context.Background(), makePapers(10)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := [][2]int{{4, 10}, {8, 10}, {10, 10}}
	if len(updates) != len(want) {
		t.Fatalf("progress updates = %v, want %v", updates, want)
	}
	for i := range want {
		if updates[i] != want[i] {
			t.Errorf("update %d = %v, want %v", i, updates[i], want[i])
		}
	}
}

func TestRun_Empty(t *testing.T) {
	provider := &stubProvider{dims: 3}
	store := openTestStore(t)

	stats, err := NewIngestor(provider, store, "papers").Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.PapersEmbedded != 0 || stats.Batches != 0 {
		t.Errorf("stats = %+v, want zeroes", stats)
	}
}

func TestRun_EmbedFailureAborts(t *testing.T) {
	provider := &stubProvider{dims: 3, failAfter: 2}
	store := openTestStore(t)

	ingestor := NewIngestor(provider, store, "papers")
	ingestor.SetBatchSize(4)

	_, err := ingestor.Run(context.Background(), makePapers(10))
	if err == nil {
		t.Fatal("Run() should fail when embedding fails")
	}

	// Only the first batch made it into the store
	count, err := store.Count("papers")
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 4 {
		t.Errorf("Count() = %d after failed run, want 4", count)
	}
}

func TestRun_Cancelled(t *testing.T) {
	provider := &stubProvider{dims: 3}
	store := openTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewIngestor(provider, store, "papers").Run(ctx, makePapers(10))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

func TestRun_ReingestReplaces(t *testing.T) {
	provider := &stubProvider{dims: 3}
	store := openTestStore(t)

	ingestor := NewIngestor(provider, store, "papers")
	papers := makePapers(5)

	for i := 0; i < 2; i++ {
		if _, err := ingestor.Run(context.Background(), papers); err != nil {
			t.Fatalf("Run() %d error = %v", i, err)
		}
	}

	count, err := store.Count("papers")
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 5 {
		t.Errorf("Count() = %d after re-ingest, want 5", count)
	}
}
