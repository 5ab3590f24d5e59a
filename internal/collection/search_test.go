package collection

import (
	"math"
	"testing"
)

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{
			name:     "identical vectors",
			a:        []float32{1, 0, 0},
			b:        []float32{1, 0, 0},
			expected: 0.0,
		},
		{
			name:     "orthogonal vectors",
			a:        []float32{1, 0},
			b:        []float32{0, 1},
			expected: 1.0,
		},
		{
			name:     "opposite vectors",
			a:        []float32{1, 0},
			b:        []float32{-1, 0},
			expected: 2.0,
		},
		{
			name:     "45 degrees",
			a:        []float32{1, 1},
			b:        []float32{1, 0},
			expected: 1 - 0.7071067811865475,
		},
		{
			name:     "zero vector",
			a:        []float32{0, 0},
			b:        []float32{1, 0},
			expected: 1.0,
		},
		{
			name:     "scaled vectors have zero distance",
			a:        []float32{2, 4},
			b:        []float32{1, 2},
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineDistance(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 0.0001 {
				t.Errorf("CosineDistance(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func seedSearchStore(t *testing.T) *Store {
	t.Helper()
	store := openTestStore(t)
	err := store.Upsert("papers", testModel, 3, []Item{
		{ID: "exact", Title: "Exact match", Categories: "cs.LG", Embedding: []float32{1, 0, 0}},
		{ID: "close", Title: "Close match", Embedding: []float32{0.9, 0.1, 0}},
		{ID: "orthogonal", Title: "Unrelated", Embedding: []float32{0, 1, 0}},
		{ID: "far", Title: "Also unrelated", Embedding: []float32{0, 0, 1}},
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	return store
}

func TestSearch_OrderedByDistance(t *testing.T) {
	store := seedSearchStore(t)

	results, err := store.Search("papers", []float32{1, 0, 0}, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("Search() returned %d results, want 4", len(results))
	}

	if results[0].ID != "exact" {
		t.Errorf("nearest = %s, want exact", results[0].ID)
	}
	if results[0].Distance > 0.0001 {
		t.Errorf("nearest distance = %v, want ~0", results[0].Distance)
	}
	if results[1].ID != "close" {
		t.Errorf("second = %s, want close", results[1].ID)
	}

	for i := 1; i < len(results); i++ {
		if results[i].Distance < results[i-1].Distance {
			t.Errorf("results not sorted ascending at %d: %v > %v", i, results[i-1].Distance, results[i].Distance)
		}
	}
}

func TestSearch_Limit(t *testing.T) {
	store := seedSearchStore(t)

	results, err := store.Search("papers", []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Search() returned %d results with n=2, want 2", len(results))
	}
}

func TestSearch_CarriesMetadata(t *testing.T) {
	store := seedSearchStore(t)

	results, err := store.Search("papers", []float32{1, 0, 0}, 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if results[0].Title != "Exact match" || results[0].Categories != "cs.LG" {
		t.Errorf("result metadata = %+v, want stored title and categories", results[0])
	}
}

func TestSearch_DimensionMismatch(t *testing.T) {
	store := seedSearchStore(t)

	if _, err := store.Search("papers", []float32{1, 0}, 10); err == nil {
		t.Error("Search() should reject a wrong-sized query vector")
	}
}

func TestSearch_UnknownCollection(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.Search("papers", []float32{1, 0}, 10); err != ErrCollectionNotFound {
		t.Errorf("Search() = %v, want ErrCollectionNotFound", err)
	}
}

func TestSearch_EmptyCollection(t *testing.T) {
	store := openTestStore(t)
	if err := store.Ensure("papers", testModel, 3); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	results, err := store.Search("papers", []float32{1, 0, 0}, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Search() returned %d results from empty collection, want 0", len(results))
	}
}

func TestVectorRoundTrip(t *testing.T) {
	in := []float32{0.1, -2.5, 3.75, 0, 1e-6}
	out, err := decodeVector(encodeVector(in), len(in))
	if err != nil {
		t.Fatalf("decodeVector() error = %v", err)
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("round trip changed element %d: %v != %v", i, in[i], out[i])
		}
	}
}

func TestDecodeVector_WrongSize(t *testing.T) {
	if _, err := decodeVector([]byte{1, 2, 3}, 1); err == nil {
		t.Error("decodeVector() should reject a truncated blob")
	}
}
