package domain

import (
	"math"
	"sort"
)

// LexicalSimilarity is the sentinel score assigned to lexical fallback
// matches: matched, but unranked.
const LexicalSimilarity = 0.5

// SearchMode tags which retrieval path produced a result set.
type SearchMode string

const (
	// SearchModeRanked means vector similarity ranking was used.
	SearchModeRanked SearchMode = "ranked"

	// SearchModeLexical means the substring fallback was used.
	SearchModeLexical SearchMode = "lexical"
)

// SearchResult is a chunk plus its similarity to the query, in [0,1].
type SearchResult struct {
	Chunk Chunk

	// Similarity is cosine similarity for ranked results and exactly
	// LexicalSimilarity for lexical fallback matches.
	Similarity float64
}

// SearchOutcome is the tagged result of a similarity search. Search
// never fails: a broken embedding service or vector-incapable store
// degrades to the lexical path, and Mode records which path ran.
type SearchOutcome struct {
	Mode    SearchMode
	Results []SearchResult
}

// SortResults orders results descending by similarity, ties broken by
// ascending chunk index.
func SortResults(results []SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].Chunk.Metadata.Index < results[j].Chunk.Metadata.Index
	})
}

// CosineSimilarity computes the cosine similarity of two vectors.
// Returns 0 for mismatched or zero-length vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
