package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSections(t *testing.T) {
	p := New(nil)
	text := "Jane Doe\n\nSummary\nBuilds things.\n\nWork Experience\nAcme Corp\n\nEducation:\nStanford"

	sections := p.SplitSections(text)

	assert.Equal(t, "Builds things.", sections[SectionSummary])
	assert.Equal(t, "Acme Corp", sections[SectionExperience])
	assert.Equal(t, "Stanford", sections[SectionEducation])
}

func TestSplitSectionsHeaderVariants(t *testing.T) {
	p := New(nil)

	tests := []struct {
		name   string
		header string
	}{
		{"plain", "Skills"},
		{"uppercase", "SKILLS"},
		{"trailing colon", "Skills:"},
		{"synonym", "Technical Skills"},
		{"indented", "  Skills"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections := p.SplitSections(tt.header + "\nGo, Rust")
			assert.Equal(t, "Go, Rust", sections[SectionSkills])
		})
	}
}

func TestSplitSectionsNoHeaders(t *testing.T) {
	p := New(nil)
	text := "just some text\nwith no structure"

	sections := p.SplitSections(text)

	require.Len(t, sections, 1)
	assert.Equal(t, text, sections[SectionFull])
}

func TestSplitSectionsLastOccurrenceWins(t *testing.T) {
	p := New(nil)
	text := "Skills\nold list\n\nSkills\nGo, Rust"

	sections := p.SplitSections(text)

	assert.Equal(t, "Go, Rust", sections[SectionSkills])
}

func TestSplitSectionsHeaderInsideLineIgnored(t *testing.T) {
	p := New(nil)
	text := "I have broad experience in consulting.\nNothing here is a header."

	sections := p.SplitSections(text)

	assert.Equal(t, text, sections[SectionFull])
}
