package collection

import (
	"fmt"
	"math"
	"sort"
)

// Result is a single nearest-neighbor match.
type Result struct {
	ID         string
	Title      string
	Categories string
	Distance   float64
}

// Search returns the n items of the named collection nearest to the query
// vector, ordered by ascending cosine distance. The scan is brute force over
// all stored vectors; collections here are small enough that this beats
// maintaining an ANN structure.
func (s *Store) Search(name string, query []float32, n int) ([]Result, error) {
	info, err := s.Info(name)
	if err != nil {
		return nil, err
	}
	if len(query) != info.Dimensions {
		return nil, fmt.Errorf("query dimension mismatch: got %d, want %d", len(query), info.Dimensions)
	}

	rows, err := s.db.Query(`
		SELECT id, title, categories, embedding FROM items WHERE collection = ?
	`, name)
	if err != nil {
		return nil, fmt.Errorf("scanning items: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var blob []byte
		if err := rows.Scan(&r.ID, &r.Title, &r.Categories, &blob); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		vec, err := decodeVector(blob, info.Dimensions)
		if err != nil {
			return nil, fmt.Errorf("decoding embedding for %s: %w", r.ID, err)
		}
		r.Distance = CosineDistance(query, vec)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scanning items: %w", err)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if n > 0 && len(results) > n {
		results = results[:n]
	}
	return results, nil
}

// CosineDistance computes 1 - cosine similarity between two vectors.
// Lower means more similar; identical directions give 0.
func CosineDistance(a, b []float32) float64 {
	return 1 - cosineSimilarity(a, b)
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denominator := math.Sqrt(normA) * math.Sqrt(normB)
	if denominator == 0 {
		return 0
	}

	return dot / denominator
}
