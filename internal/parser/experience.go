package parser

import (
	"regexp"
	"strings"

	"github.com/talentstack/docpipe/internal/core/domain"
)

// minExperienceEntryLen discards noise blocks below this size.
const minExperienceEntryLen = 20

var (
	blankLinePattern = regexp.MustCompile(`\n[ \t]*\n`)

	// Date tokens: month-name + year, bare 4-digit year, or an
	// ongoing-role marker.
	datePattern = regexp.MustCompile(`(?i)\b(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:t(?:ember)?)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\.?\s+(?:19|20)\d{2}|\b(?:19|20)\d{2}\b|\bPresent\b|\bCurrent\b`)
)

// titleCompanyRule is one first-line pattern for separating job title
// from company. Rules are tried in order; the first match wins.
type titleCompanyRule struct {
	label string
	re    *regexp.Regexp
}

var titleCompanyRules = []titleCompanyRule{
	{"at", regexp.MustCompile(`^(.{1,80}?)\s+(?:at|@)\s+(.+)$`)},
	{"dash", regexp.MustCompile(`^(.{1,80}?)\s+[-–]\s+(.+)$`)},
	{"pipe", regexp.MustCompile(`^(.{1,80}?)\s+\|\s+(.+)$`)},
}

// ExtractExperience splits the experience section on blank-line
// boundaries into entries and parses each one. Entries under 20
// characters are discarded.
func ExtractExperience(section string) []domain.WorkExperience {
	if strings.TrimSpace(section) == "" {
		return nil
	}

	var experiences []domain.WorkExperience
	for _, entry := range blankLinePattern.Split(section, -1) {
		entry = strings.TrimSpace(entry)
		if len(entry) < minExperienceEntryLen {
			continue
		}
		experiences = append(experiences, parseExperienceEntry(entry))
	}
	return experiences
}

func parseExperienceEntry(entry string) domain.WorkExperience {
	exp := domain.WorkExperience{Raw: entry}

	if tokens := datePattern.FindAllString(entry, -1); len(tokens) > 0 {
		exp.Dates = strings.Join(tokens, " - ")
	}

	lines := nonEmptyLines(entry)
	if len(lines) == 0 {
		return exp
	}

	rest := lines[1:]
	matched := false
	for _, rule := range titleCompanyRules {
		if m := rule.re.FindStringSubmatch(lines[0]); m != nil {
			exp.Title = strings.TrimSpace(m[1])
			exp.Company = strings.TrimSpace(m[2])
			matched = true
			break
		}
	}
	if !matched {
		exp.Title = lines[0]
		if len(lines) > 1 {
			exp.Company = lines[1]
			rest = lines[2:]
		}
	}

	exp.Description = strings.Join(rest, "\n")
	return exp
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
