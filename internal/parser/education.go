package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/talentstack/docpipe/internal/core/domain"
)

// minEducationEntryLen discards noise blocks below this size.
const minEducationEntryLen = 10

var (
	// An institution keyword with capitalised words around it, e.g.
	// "Stanford University" or "University of Washington".
	institutionPattern = regexp.MustCompile(`\b(?:[A-Z][A-Za-z.&']+ )*(?:University|College|Institute|School|Academy)(?: (?:of|for) [A-Z][A-Za-z]+(?: [A-Z][A-Za-z]+)*)?`)

	yearPattern = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
)

// degreePattern is one compiled degree keyword; the table preserves the
// vocabulary order so more specific keywords win.
type degreePattern struct {
	keyword string
	re      *regexp.Regexp
}

func compileDegreePatterns(vocab *Vocabulary) []degreePattern {
	patterns := make([]degreePattern, 0, len(vocab.DegreeKeywords))
	for _, kw := range vocab.DegreeKeywords {
		patterns = append(patterns, degreePattern{
			keyword: kw,
			re:      wordBoundedPattern(kw),
		})
	}
	return patterns
}

// ExtractEducation splits the education section on blank-line
// boundaries and detects degree, institution and year per entry.
// Entries under 10 characters are discarded.
func (p *Parser) ExtractEducation(section string) []domain.Education {
	if strings.TrimSpace(section) == "" {
		return nil
	}

	var entries []domain.Education
	for _, block := range blankLinePattern.Split(section, -1) {
		block = strings.TrimSpace(block)
		if len(block) < minEducationEntryLen {
			continue
		}
		entries = append(entries, p.parseEducationEntry(block))
	}
	return entries
}

func (p *Parser) parseEducationEntry(block string) domain.Education {
	edu := domain.Education{Raw: block}

	for _, dp := range p.degreePatterns {
		if dp.re.MatchString(block) {
			edu.Degree = dp.keyword
			break
		}
	}

	if m := institutionPattern.FindString(block); m != "" {
		edu.Institution = strings.TrimSpace(m)
	}

	if m := yearPattern.FindString(block); m != "" {
		year, err := strconv.Atoi(m)
		if err == nil {
			edu.Year = year
		}
	}

	return edu
}
