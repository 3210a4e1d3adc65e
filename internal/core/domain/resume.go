package domain

import "time"

// ContactInfo holds contact details extracted from a document.
// Emails, phones and URLs are deduplicated; a URL is classified into
// exactly one of LinkedIn, GitHub, Portfolio or OtherURLs.
type ContactInfo struct {
	// Name is the candidate's full name, empty if undetectable.
	Name string

	// Emails is the deduplicated set of email addresses, in order of
	// first appearance.
	Emails []string

	// Phones is the deduplicated set of phone numbers, normalised to
	// "(area) exchange-subscriber" display form where detectable.
	Phones []string

	// Locations is the deduplicated set of free-text locations.
	Locations []string

	// LinkedIn is the professional-network profile URL, if any.
	LinkedIn string

	// GitHub is the code-hosting profile URL, if any.
	GitHub string

	// Portfolio is the personal site URL, if any.
	Portfolio string

	// OtherURLs holds URLs that match none of the above classes.
	OtherURLs []string
}

// WorkExperience is one entry from the experience section.
// Created once per detected entry and never mutated after parse.
type WorkExperience struct {
	// Title is the job title, empty if undetectable.
	Title string

	// Company is the employer name, empty if undetectable.
	Company string

	// Dates is a free-text date range built from detected date tokens.
	Dates string

	// Description is the remaining entry text.
	Description string

	// Raw is the original unprocessed entry block.
	Raw string
}

// Education is one entry from the education section.
type Education struct {
	// Degree is the detected degree keyword, empty if none matched.
	Degree string

	// Institution is the detected school name, empty if none matched.
	Institution string

	// Year is the four-digit graduation year, 0 if undetected.
	Year int

	// Raw is the original entry block.
	Raw string
}

// DocumentMetadata describes where a parsed document came from and how
// complete the parse was.
type DocumentMetadata struct {
	// SourceFile is the original file name.
	SourceFile string

	// ParsedAt is when the parse ran.
	ParsedAt time.Time

	// Confidence is 0-100, a deterministic function of which fields
	// were populated. Never set independently.
	Confidence int
}

// ParsedResume is the structured representation of a parsed document.
// It is the unit consumed by chunking, persistence and matching.
type ParsedResume struct {
	// ID is the unique document identifier.
	ID string

	// Contact holds extracted contact details.
	Contact ContactInfo

	// Summary is the professional summary text.
	Summary string

	// Skills is the deduplicated, lexicographically sorted skill set.
	Skills []string

	// Experience lists detected work history entries.
	Experience []WorkExperience

	// Education lists detected education entries.
	Education []Education

	// Certifications is the deduplicated certification set.
	Certifications []string

	// RawText is the full original text.
	RawText string

	// Metadata describes the parse.
	Metadata DocumentMetadata
}

// Entity is a typed span of text produced by an analyzer.
type Entity struct {
	// Type classifies the entity ("skill", "degree", "organization").
	Type string

	// Text is the matched text.
	Text string
}

// MatchResult scores a parsed resume against a job requirements text.
// All scores are in [0,1].
type MatchResult struct {
	// OverallScore is the combined fit figure. It increases
	// monotonically with each sub-score.
	OverallScore float64

	// SkillScore is the fraction of required skills the candidate has.
	SkillScore float64

	// ExperienceScore reflects detected years of experience against
	// what the job text asks for.
	ExperienceScore float64

	// EducationScore reflects the candidate's highest degree against
	// what the job text asks for.
	EducationScore float64

	// MatchedSkills are required skills present in the resume.
	MatchedSkills []string

	// MissingSkills are required skills absent from the resume.
	MissingSkills []string
}

// FileRef identifies a file handed to the pipeline. Text extraction is
// delegated to a TextExtractor; the pipeline never reads bytes itself.
type FileRef struct {
	// Name is the file name, used by the resume-shape heuristic.
	Name string

	// Path is the location the extractor reads from.
	Path string
}
