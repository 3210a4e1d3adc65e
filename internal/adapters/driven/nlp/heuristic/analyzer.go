// Package heuristic provides a vocabulary- and frequency-based
// implementation of the NLP analyzer port. It needs no external
// service, which keeps enrichment available offline.
package heuristic

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/talentstack/docpipe/internal/core/domain"
	"github.com/talentstack/docpipe/internal/core/ports/driven"
	"github.com/talentstack/docpipe/internal/parser"
)

// Entity types emitted by this analyzer.
const (
	EntityTypeSkill        = "skill"
	EntityTypeDegree       = "degree"
	EntityTypeOrganization = "organization"
)

// maxKeyPhrases bounds the key phrase list.
const maxKeyPhrases = 10

var (
	wordToken    = regexp.MustCompile(`[A-Za-z][A-Za-z0-9+#.\-]*`)
	sentenceEnd  = regexp.MustCompile(`[.!?]+`)
	organization = regexp.MustCompile(`\b[A-Z][A-Za-z&.\- ]{1,40}(?:Inc|LLC|Ltd|Corp|Corporation|Company)\b`)
)

// Ensure Analyzer implements the port.
var _ driven.Analyzer = (*Analyzer)(nil)

// term is one compiled vocabulary entry with the canonical text to
// emit on a hit.
type term struct {
	canonical string
	re        *regexp.Regexp
}

// Analyzer scans text against the extraction vocabulary and simple
// frequency statistics.
type Analyzer struct {
	skillTerms  []term
	degreeTerms []term
	stopwords   map[string]bool
}

// New creates an analyzer from a vocabulary. Pass nil for the built-in
// defaults.
func New(vocab *parser.Vocabulary) *Analyzer {
	if vocab == nil {
		vocab = parser.DefaultVocabulary()
	}

	var skills []term
	for _, s := range vocab.Skills {
		skills = append(skills, term{canonical: s, re: compileTerm(s)})
	}
	for alias, canonical := range vocab.SkillSynonyms {
		skills = append(skills, term{canonical: canonical, re: compileTerm(alias)})
	}

	var degrees []term
	for _, d := range vocab.DegreeKeywords {
		degrees = append(degrees, term{canonical: d, re: compileTerm(d)})
	}

	return &Analyzer{
		skillTerms:  skills,
		degreeTerms: degrees,
		stopwords:   defaultStopwords(),
	}
}

// Entities extracts skill, degree and organization entities from text.
// Skill hits are emitted under their canonical names, deduplicated.
func (a *Analyzer) Entities(_ context.Context, text string) ([]domain.Entity, error) {
	var entities []domain.Entity
	seen := make(map[string]bool)

	add := func(entityType, value string) {
		key := entityType + "\x00" + strings.ToLower(value)
		if seen[key] {
			return
		}
		seen[key] = true
		entities = append(entities, domain.Entity{Type: entityType, Text: value})
	}

	for _, t := range a.skillTerms {
		if t.re.MatchString(text) {
			add(EntityTypeSkill, t.canonical)
		}
	}
	for _, t := range a.degreeTerms {
		if t.re.MatchString(text) {
			add(EntityTypeDegree, t.canonical)
		}
	}
	for _, m := range organization.FindAllString(text, -1) {
		add(EntityTypeOrganization, strings.TrimSpace(m))
	}

	return entities, nil
}

// KeyPhrases returns the most frequent non-stopword unigrams and
// bigrams, most frequent first.
func (a *Analyzer) KeyPhrases(_ context.Context, text string) ([]string, error) {
	tokens := wordToken.FindAllString(strings.ToLower(text), -1)

	freq := make(map[string]int)
	var prev string
	for _, tok := range tokens {
		if len(tok) < 3 || a.stopwords[tok] {
			prev = ""
			continue
		}
		freq[tok]++
		if prev != "" {
			freq[prev+" "+tok]++
		}
		prev = tok
	}

	type scored struct {
		phrase string
		count  int
	}
	ranked := make([]scored, 0, len(freq))
	for phrase, count := range freq {
		if count < 2 {
			continue
		}
		ranked = append(ranked, scored{phrase, count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].phrase < ranked[j].phrase
	})

	limit := maxKeyPhrases
	if limit > len(ranked) {
		limit = len(ranked)
	}
	phrases := make([]string, limit)
	for i := 0; i < limit; i++ {
		phrases[i] = ranked[i].phrase
	}
	return phrases, nil
}

// Complexity computes named numeric metrics over text.
func (a *Analyzer) Complexity(_ context.Context, text string) (map[string]float64, error) {
	tokens := wordToken.FindAllString(text, -1)
	sentences := sentenceEnd.Split(text, -1)

	sentenceCount := 0
	for _, s := range sentences {
		if strings.TrimSpace(s) != "" {
			sentenceCount++
		}
	}

	unique := make(map[string]bool, len(tokens))
	totalLen := 0
	for _, tok := range tokens {
		unique[strings.ToLower(tok)] = true
		totalLen += len(tok)
	}

	metrics := map[string]float64{
		"word_count":     float64(len(tokens)),
		"sentence_count": float64(sentenceCount),
		"unique_words":   float64(len(unique)),
	}
	if len(tokens) > 0 {
		metrics["avg_word_length"] = float64(totalLen) / float64(len(tokens))
		metrics["vocabulary_richness"] = float64(len(unique)) / float64(len(tokens))
	}
	if sentenceCount > 0 {
		metrics["avg_sentence_length"] = float64(len(tokens)) / float64(sentenceCount)
	}
	return metrics, nil
}

// compileTerm builds a case-insensitive, word-bounded pattern. Terms
// ending in symbol characters ("C++", "C#") get no trailing boundary.
func compileTerm(s string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(s)
	prefix, suffix := "", ""
	if isWordByte(s[0]) {
		prefix = `\b`
	}
	if isWordByte(s[len(s)-1]) {
		suffix = `\b`
	}
	return regexp.MustCompile(`(?i)` + prefix + quoted + suffix)
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

func defaultStopwords() map[string]bool {
	words := []string{
		"the", "and", "for", "with", "that", "this", "from", "are",
		"was", "were", "been", "have", "has", "had", "will", "would",
		"can", "could", "should", "our", "your", "their", "its", "all",
		"any", "not", "but", "you", "they", "them", "his", "her", "who",
		"what", "when", "where", "which", "while", "about", "into",
		"over", "under", "more", "most", "other", "some", "such", "than",
		"then", "there", "these", "those", "through", "very", "just",
	}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
