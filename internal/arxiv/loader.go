package arxiv

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// MaxLineCapacity is the maximum buffer size for reading snapshot lines.
// Some abstracts run long, but nowhere near 1MB per record.
const MaxLineCapacity = 1024 * 1024

// LoadPapers reads papers from a newline-delimited JSON snapshot file.
//
// The file is scanned in a single forward pass. A limit of 0 means unlimited;
// once the limit is satisfied no further lines are read. When minYear is
// nonzero, records whose identifier resolves to an earlier year are skipped,
// as are records whose identifier cannot be parsed at all. A malformed JSON
// line is an error, not a skip.
func LoadPapers(path string, limit, minYear int) ([]Paper, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	buf := make([]byte, MaxLineCapacity)
	scanner.Buffer(buf, MaxLineCapacity)

	var papers []Paper
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		if limit > 0 && len(papers) >= limit {
			break
		}

		var rec Paper
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}

		if minYear > 0 {
			year, ok := YearFromID(rec.ID)
			if !ok || year < minYear {
				continue
			}
		}

		papers = append(papers, Paper{
			ID:         rec.ID,
			Title:      normalizeText(rec.Title),
			Abstract:   normalizeText(rec.Abstract),
			Categories: rec.Categories,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	return papers, nil
}
