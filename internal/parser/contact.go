package parser

import (
	"regexp"
	"strings"

	"github.com/talentstack/docpipe/internal/core/domain"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	// North-American-style numbering; captures area, exchange and
	// subscriber for canonical display formatting.
	phonePattern = regexp.MustCompile(`(?:\+?1[\s.\-]?)?\(?(\d{3})\)?[\s.\-]?(\d{3})[\s.\-]?(\d{4})\b`)

	urlPattern = regexp.MustCompile(`(?i)(?:https?://|www\.)[^\s<>()\[\]{}"',]+`)

	// "City, ST" and "City, Country" capitalised patterns.
	locationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b([A-Z][a-z]+(?: [A-Z][a-z]+)*), ([A-Z]{2})\b`),
		regexp.MustCompile(`\b([A-Z][a-z]+(?: [A-Z][a-z]+)*), ([A-Z][a-z]{2,}(?: [A-Z][a-z]+)*)\b`),
	}
)

// urlRule classifies a URL into exactly one contact field. Rules are
// checked in priority order; the first match wins.
type urlRule struct {
	label  string
	match  func(url string) bool
	assign func(c *domain.ContactInfo, url string)
}

var urlRules = []urlRule{
	{
		label: "professional network",
		match: func(u string) bool { return strings.Contains(u, "linkedin.com") },
		assign: func(c *domain.ContactInfo, u string) {
			if c.LinkedIn == "" {
				c.LinkedIn = u
			}
		},
	},
	{
		label: "code hosting",
		match: func(u string) bool {
			return strings.Contains(u, "github.com") ||
				strings.Contains(u, "gitlab.com") ||
				strings.Contains(u, "bitbucket.org")
		},
		assign: func(c *domain.ContactInfo, u string) {
			if c.GitHub == "" {
				c.GitHub = u
			}
		},
	},
	{
		label: "portfolio",
		match: func(u string) bool {
			host := urlHost(u)
			return strings.HasSuffix(host, ".io") ||
				strings.HasSuffix(host, ".dev") ||
				strings.HasSuffix(host, ".me") ||
				strings.Contains(u, "portfolio")
		},
		assign: func(c *domain.ContactInfo, u string) {
			if c.Portfolio == "" {
				c.Portfolio = u
			}
		},
	},
}

// ExtractContact applies the contact patterns over the raw full text.
// Emails, phones, locations and URLs are deduplicated; each URL lands
// in exactly one classification.
func ExtractContact(text string) domain.ContactInfo {
	var contact domain.ContactInfo

	seen := make(map[string]bool)
	for _, email := range emailPattern.FindAllString(text, -1) {
		key := strings.ToLower(email)
		if seen[key] {
			continue
		}
		seen[key] = true
		contact.Emails = append(contact.Emails, email)
	}

	seen = make(map[string]bool)
	for _, m := range phonePattern.FindAllStringSubmatch(text, -1) {
		formatted := "(" + m[1] + ") " + m[2] + "-" + m[3]
		if seen[formatted] {
			continue
		}
		seen[formatted] = true
		contact.Phones = append(contact.Phones, formatted)
	}

	seen = make(map[string]bool)
	for _, raw := range urlPattern.FindAllString(text, -1) {
		url := strings.TrimRight(raw, ".,;:")
		key := strings.ToLower(url)
		if seen[key] {
			continue
		}
		seen[key] = true
		classifyURL(&contact, key, url)
	}

	contact.Name = detectName(text)

	seen = make(map[string]bool)
	for _, re := range locationPatterns {
		for _, loc := range re.FindAllString(text, -1) {
			if seen[loc] {
				continue
			}
			seen[loc] = true
			contact.Locations = append(contact.Locations, loc)
		}
	}

	return contact
}

func classifyURL(c *domain.ContactInfo, key, url string) {
	for _, rule := range urlRules {
		if rule.match(key) {
			rule.assign(c, url)
			return
		}
	}
	c.OtherURLs = append(c.OtherURLs, url)
}

// detectName scans at most the first 10 non-empty lines and accepts the
// first line that is short enough, tokenises into 2-4 words, and
// contains no email, phone or URL.
func detectName(text string) string {
	checked := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		checked++
		if checked > 10 {
			break
		}
		if len(line) > 50 {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		if containsContactPattern(line) {
			continue
		}
		return line
	}
	return ""
}

func containsContactPattern(line string) bool {
	return emailPattern.MatchString(line) ||
		phonePattern.MatchString(line) ||
		urlPattern.MatchString(line)
}

func urlHost(u string) string {
	host := strings.TrimPrefix(strings.TrimPrefix(u, "https://"), "http://")
	host = strings.TrimPrefix(host, "www.")
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	return host
}
