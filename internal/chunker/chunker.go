// Package chunker splits text into overlapping token-bounded chunks.
// Token counts are approximated as character length divided by four.
package chunker

import (
	"regexp"
	"strings"

	"github.com/talentstack/docpipe/internal/core/domain"
	"github.com/talentstack/docpipe/internal/core/ports/driven"
)

// DefaultChunkSize is the default chunk budget in approximate tokens.
const DefaultChunkSize = 512

// DefaultOverlapWords is the default number of trailing words carried
// into the next chunk.
const DefaultOverlapWords = 50

var paragraphSplit = regexp.MustCompile(`\n[ \t]*\n`)

// Ensure Engine implements the port.
var _ driven.Chunker = (*Engine)(nil)

// Engine accumulates paragraphs into token-bounded chunks, seeding each
// new chunk with the trailing words of the previous one. Part of the
// budget is reserved for that carried overlap, so chunk content
// including the seed stays within the chunk size.
type Engine struct {
	chunkSize    int
	overlapWords int
}

// Option configures the engine.
type Option func(*Engine)

// WithChunkSize sets the chunk budget in approximate tokens.
func WithChunkSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.chunkSize = size
		}
	}
}

// WithOverlapWords sets the overlap carried between chunks, in words.
func WithOverlapWords(words int) Option {
	return func(e *Engine) {
		if words >= 0 {
			e.overlapWords = words
		}
	}
}

// New creates a chunking engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		chunkSize:    DefaultChunkSize,
		overlapWords: DefaultOverlapWords,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Chunks splits undifferentiated text into chunks for a document.
// Indices are dense and zero-based; chunk content, including the
// overlap carried from the previous chunk, stays within the token
// budget.
func (e *Engine) Chunks(text, documentID string) []domain.Chunk {
	return e.chunk(text, documentID, "", 0)
}

// SemanticChunks chunks each named section separately in the supplied
// order, tagging every chunk with its section, then renumbers indices
// contiguously across the whole document.
func (e *Engine) SemanticChunks(sections []driven.Section, documentID string) []domain.Chunk {
	var all []domain.Chunk
	for _, section := range sections {
		if strings.TrimSpace(section.Content) == "" {
			continue
		}
		all = append(all, e.chunk(section.Content, documentID, section.Name, len(all))...)
	}
	return all
}

// contentBudget is the token budget available to accumulated text.
// Six characters per overlap word (including the joining space) are
// reserved so the seed prepended to the next chunk still fits the
// chunk size.
func (e *Engine) contentBudget() int {
	reserve := (e.overlapWords * 6) / 4
	if reserve > e.chunkSize/2 {
		reserve = e.chunkSize / 2
	}
	return e.chunkSize - reserve
}

// chunk runs the paragraph accumulator. startIndex offsets the dense
// numbering so section-wise runs stay contiguous document-wide.
func (e *Engine) chunk(text, documentID, section string, startIndex int) []domain.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	budget := e.contentBudget()
	units := e.units(budget, text)

	var chunks []domain.Chunk
	emit := func(content string) {
		index := startIndex + len(chunks)
		chunks = append(chunks, domain.Chunk{
			ID:         domain.ChunkID(documentID, index),
			DocumentID: documentID,
			Content:    content,
			Metadata: domain.ChunkMetadata{
				Section:    section,
				Index:      index,
				TokenCount: domain.EstimateTokens(content),
			},
		})
	}

	var buf string
	for _, unit := range units {
		switch {
		case buf == "":
			buf = unit
		case domain.EstimateTokens(buf)+domain.EstimateTokens(unit) > budget:
			emit(buf)
			if seed := e.overlapOf(buf); seed != "" {
				buf = seed + "\n\n" + unit
			} else {
				buf = unit
			}
		default:
			buf += "\n\n" + unit
		}
	}
	if strings.TrimSpace(buf) != "" {
		emit(buf)
	}
	return chunks
}

// units splits text on blank-line paragraph boundaries. Paragraphs
// whose token estimate alone exceeds the budget are word-split so the
// budget invariant holds.
func (e *Engine) units(budget int, text string) []string {
	var units []string
	for _, para := range paragraphSplit.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if domain.EstimateTokens(para) <= budget {
			units = append(units, para)
			continue
		}
		units = append(units, splitLongParagraph(budget, para)...)
	}
	return units
}

// splitLongParagraph breaks an oversized paragraph into word windows
// that each fit the token budget.
func splitLongParagraph(tokenBudget int, para string) []string {
	words := strings.Fields(para)
	budget := tokenBudget * 4

	var pieces []string
	var sb strings.Builder
	for _, word := range words {
		if sb.Len() > 0 && sb.Len()+1+len(word) > budget {
			pieces = append(pieces, sb.String())
			sb.Reset()
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(word)
	}
	if sb.Len() > 0 {
		pieces = append(pieces, sb.String())
	}
	return pieces
}

// overlapOf returns the trailing overlap words of an emitted chunk,
// joined by single spaces.
func (e *Engine) overlapOf(content string) string {
	if e.overlapWords == 0 {
		return ""
	}
	words := strings.Fields(content)
	if len(words) > e.overlapWords {
		words = words[len(words)-e.overlapWords:]
	}
	return strings.Join(words, " ")
}
