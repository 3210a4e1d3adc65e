package parser

import (
	"regexp"
	"sort"
	"strings"
)

// sectionRule is one compiled header pattern: a section name, the
// header synonym it came from, and the line-matching pattern.
type sectionRule struct {
	section string
	header  string
	re      *regexp.Regexp
}

// headerMatch records where a header line matched in the text.
type headerMatch struct {
	section      string
	start        int
	contentStart int
}

// compileSectionRules builds the ordered rule table from a vocabulary.
// A header matches a whole line equal to the synonym, case-insensitive,
// optionally followed by a colon.
func compileSectionRules(vocab *Vocabulary) []sectionRule {
	sections := make([]string, 0, len(vocab.SectionHeaders))
	for section := range vocab.SectionHeaders {
		sections = append(sections, section)
	}
	sort.Strings(sections)

	var rules []sectionRule
	for _, section := range sections {
		for _, header := range vocab.SectionHeaders[section] {
			pattern := `(?mi)^[ \t]*` + regexp.QuoteMeta(header) + `[ \t]*:?[ \t]*\r?$`
			rules = append(rules, sectionRule{
				section: section,
				header:  header,
				re:      regexp.MustCompile(pattern),
			})
		}
	}
	return rules
}

// SplitSections segments raw text into named sections by header-keyword
// matching. A section's content runs from just after its header line to
// the next matching header of any type, or end of text. When the same
// section type matches more than once, the last occurrence wins. If no
// header matches at all, the entire text is returned as the single
// section SectionFull.
func (p *Parser) SplitSections(text string) map[string]string {
	var matches []headerMatch
	for _, rule := range p.sectionRules {
		for _, loc := range rule.re.FindAllStringIndex(text, -1) {
			matches = append(matches, headerMatch{
				section:      rule.section,
				start:        loc[0],
				contentStart: loc[1],
			})
		}
	}

	if len(matches) == 0 {
		return map[string]string{SectionFull: text}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].start < matches[j].start
	})

	sections := make(map[string]string, len(matches))
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1].start
		}
		sections[m.section] = strings.TrimSpace(text[m.contentStart:end])
	}
	return sections
}
