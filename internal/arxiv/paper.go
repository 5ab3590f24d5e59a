// Package arxiv loads paper metadata from arXiv snapshot files.
package arxiv

import (
	"strconv"
	"strings"
)

// Paper is a single arXiv paper record, reduced to the fields we embed.
type Paper struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Abstract   string `json:"abstract"`
	Categories string `json:"categories"`
}

// EmbeddingText returns the text that is embedded for this paper.
func (p Paper) EmbeddingText() string {
	return p.Title + " " + p.Abstract
}

// YearFromID derives the 4-digit submission year from an arXiv identifier.
//
// New-scheme identifiers look like YYMM.NNNNN (2301.12345 = Jan 2023), the
// old scheme is category/YYMMNNN (hep-th/9901001 = Jan 1999). arXiv began in
// 1991, so a two-digit year >= 91 is 19xx and anything below is 20xx.
// Returns false for identifiers that don't match either scheme.
func YearFromID(id string) (int, bool) {
	var yymm string
	switch {
	case strings.Contains(id, "."):
		yymm = id[:strings.Index(id, ".")]
	case strings.Contains(id, "/"):
		yymm = id[strings.Index(id, "/")+1:]
	default:
		return 0, false
	}

	if len(yymm) > 2 {
		yymm = yymm[:2]
	}
	yy, err := strconv.Atoi(yymm)
	if err != nil || yy < 0 {
		return 0, false
	}

	if yy >= 91 {
		return 1900 + yy, true
	}
	return 2000 + yy, true
}

// normalizeText collapses newlines to spaces and trims surrounding whitespace.
// Snapshot titles and abstracts are hard-wrapped with embedded newlines.
func normalizeText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}
