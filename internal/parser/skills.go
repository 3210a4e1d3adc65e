package parser

import (
	"regexp"
	"sort"
	"strings"
)

var (
	skillDelimiters = regexp.MustCompile(`[,/|;•·‣]`)
	bulletPrefix    = regexp.MustCompile(`^[\s\-–—•*‣·>]+`)
)

// skillPattern is one compiled vocabulary entry for document-wide
// scanning.
type skillPattern struct {
	skill string
	re    *regexp.Regexp
}

// compileSkillPatterns precompiles a word-bounded, case-insensitive
// pattern per vocabulary skill. Names ending in symbol characters
// ("C++", "C#") get no trailing boundary since \b does not apply.
func compileSkillPatterns(vocab *Vocabulary) []skillPattern {
	patterns := make([]skillPattern, 0, len(vocab.Skills))
	for _, skill := range vocab.Skills {
		patterns = append(patterns, skillPattern{
			skill: skill,
			re:    wordBoundedPattern(skill),
		})
	}
	return patterns
}

func wordBoundedPattern(s string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(s)
	prefix, suffix := "", ""
	if isWordChar(rune(s[0])) {
		prefix = `\b`
	}
	if isWordChar(rune(s[len(s)-1])) {
		suffix = `\b`
	}
	return regexp.MustCompile(`(?i)` + prefix + quoted + suffix)
}

func isWordChar(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// ExtractSkills unions tokens from the skills section with document-wide
// vocabulary hits, normalised, deduplicated and sorted
// lexicographically.
func (p *Parser) ExtractSkills(fullText string, sections map[string]string) []string {
	seen := make(map[string]string)

	if section, ok := sections[SectionSkills]; ok {
		for _, line := range strings.Split(section, "\n") {
			for _, token := range skillDelimiters.Split(line, -1) {
				token = strings.TrimSpace(bulletPrefix.ReplaceAllString(token, ""))
				if !acceptSkillToken(token) {
					continue
				}
				addSkill(seen, p.NormalizeSkill(token))
			}
		}
	}

	for _, sp := range p.skillPatterns {
		if sp.re.MatchString(fullText) {
			addSkill(seen, sp.skill)
		}
	}

	skills := make([]string, 0, len(seen))
	for _, display := range seen {
		skills = append(skills, display)
	}
	sort.Strings(skills)
	return skills
}

// acceptSkillToken keeps tokens of length 2-50 that contain no "@" and
// are not themselves a URL.
func acceptSkillToken(token string) bool {
	if len(token) < 2 || len(token) > 50 {
		return false
	}
	if strings.Contains(token, "@") {
		return false
	}
	return !urlPattern.MatchString(token)
}

// NormalizeSkill maps a raw token to its canonical skill name via the
// synonym table, falling back to vocabulary casing, then to the token
// itself.
func (p *Parser) NormalizeSkill(token string) string {
	lower := strings.ToLower(strings.TrimSpace(token))
	if canonical, ok := p.vocab.SkillSynonyms[lower]; ok {
		return canonical
	}
	for _, skill := range p.vocab.Skills {
		if strings.EqualFold(skill, lower) {
			return skill
		}
	}
	return strings.TrimSpace(token)
}

// NormalizeSkills normalises and deduplicates a skill list. Known
// synonyms collapse case-insensitively: "js", "JS" and "JavaScript"
// all become the single entry "JavaScript".
func (p *Parser) NormalizeSkills(skills []string) []string {
	seen := make(map[string]string)
	for _, s := range skills {
		if strings.TrimSpace(s) == "" {
			continue
		}
		addSkill(seen, p.NormalizeSkill(s))
	}
	out := make([]string, 0, len(seen))
	for _, display := range seen {
		out = append(out, display)
	}
	sort.Strings(out)
	return out
}

func addSkill(seen map[string]string, skill string) {
	key := strings.ToLower(skill)
	if _, ok := seen[key]; !ok {
		seen[key] = skill
	}
}
