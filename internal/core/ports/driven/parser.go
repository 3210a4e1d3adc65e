package driven

import "github.com/talentstack/docpipe/internal/core/domain"

// ResumeParser produces a best-effort structured parse of raw text.
// Parsing never fails: unrecognisable input yields near-empty fields
// and a low confidence score.
type ResumeParser interface {
	Parse(text, sourceFile string) *domain.ParsedResume

	// LooksLikeResume reports whether the file name or content shape
	// suggests a resume worth structured parsing.
	LooksLikeResume(fileName, text string) bool
}

// Section is a named span of document text in caller-supplied order.
type Section struct {
	Name    string
	Content string
}

// Chunker splits text into overlapping token-bounded chunks.
type Chunker interface {
	// Chunks splits undifferentiated text.
	Chunks(text, documentID string) []domain.Chunk

	// SemanticChunks chunks each named section separately, tagging
	// chunk metadata with the section name, with indices renumbered
	// contiguously across the document.
	SemanticChunks(sections []Section, documentID string) []domain.Chunk
}
