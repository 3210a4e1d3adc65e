package parser

import (
	"regexp"
	"strings"
)

const (
	minCertLen        = 5
	maxCertLen        = 200
	maxCertPatternLen = 100
)

// Document-wide certification patterns: "Certified X" and
// "X Certified/Professional/Expert/Associate".
var certPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bCertified +[A-Z][A-Za-z0-9+#./&\- ]{2,80}[A-Za-z0-9+#)]`),
	regexp.MustCompile(`\b[A-Z][A-Za-z0-9+#./&\- ]{2,60} (?:Certified|Professional|Expert|Associate)\b`),
}

// ExtractCertifications unions the certifications section's lines with
// document-wide pattern matches, deduplicated in order of appearance.
func ExtractCertifications(fullText string, sections map[string]string) []string {
	seen := make(map[string]bool)
	var certs []string

	add := func(cert string) {
		cert = strings.TrimSpace(cert)
		key := strings.ToLower(cert)
		if seen[key] {
			return
		}
		seen[key] = true
		certs = append(certs, cert)
	}

	if section, ok := sections[SectionCertifications]; ok {
		for _, line := range strings.Split(section, "\n") {
			line = strings.TrimSpace(bulletPrefix.ReplaceAllString(line, ""))
			if len(line) < minCertLen || len(line) > maxCertLen {
				continue
			}
			add(line)
		}
	}

	for _, re := range certPatterns {
		for _, m := range re.FindAllString(fullText, -1) {
			if len(m) >= maxCertPatternLen {
				continue
			}
			add(m)
		}
	}

	return certs
}
