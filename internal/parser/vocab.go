package parser

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Section names produced by the splitter.
const (
	SectionSummary        = "summary"
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionSkills         = "skills"
	SectionCertifications = "certifications"

	// SectionFull is returned when no headers are found anywhere, so
	// downstream extractors always have an input.
	SectionFull = "full"
)

// Vocabulary holds the lookup tables the extraction rules run against.
// All tables are data, not code: swapping the file swaps the domain or
// locale without recompilation.
type Vocabulary struct {
	// SectionHeaders maps a section name to its synonym header lines.
	SectionHeaders map[string][]string `toml:"section_headers"`

	// Skills is the canonical skills list scanned for document-wide.
	Skills []string `toml:"skills"`

	// SkillSynonyms maps lowercase aliases to canonical skill names.
	SkillSynonyms map[string]string `toml:"skill_synonyms"`

	// DegreeKeywords is the ordered degree detection list; earlier
	// entries win.
	DegreeKeywords []string `toml:"degree_keywords"`

	// ResumeIndicators are keywords the resume-shape heuristic counts.
	ResumeIndicators []string `toml:"resume_indicators"`
}

// DefaultVocabulary returns the built-in English tables.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		SectionHeaders: map[string][]string{
			SectionSummary: {
				"summary", "professional summary", "profile",
				"objective", "career objective", "about", "about me",
			},
			SectionExperience: {
				"experience", "work experience", "professional experience",
				"employment", "employment history", "work history",
			},
			SectionEducation: {
				"education", "academic background", "qualifications",
				"education and training",
			},
			SectionSkills: {
				"skills", "technical skills", "core competencies",
				"technologies", "skills and abilities",
			},
			SectionCertifications: {
				"certifications", "certificates", "licenses",
				"certifications and licenses",
			},
		},
		Skills: []string{
			"Python", "Java", "JavaScript", "TypeScript", "Go", "Rust",
			"C", "C++", "C#", "Ruby", "PHP", "Swift", "Kotlin", "Scala",
			"SQL", "HTML", "CSS", "R", "MATLAB", "Perl",
			"React", "Angular", "Vue", "Node.js", "Django", "Flask",
			"Spring", "Rails", "Express", ".NET",
			"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Terraform",
			"Jenkins", "Git", "Linux", "CI/CD",
			"PostgreSQL", "MySQL", "MongoDB", "Redis", "Elasticsearch",
			"Kafka", "RabbitMQ", "GraphQL", "REST",
			"Machine Learning", "Deep Learning", "TensorFlow", "PyTorch",
			"NLP", "Pandas", "NumPy", "Spark", "Hadoop",
			"Agile", "Scrum", "Project Management",
		},
		SkillSynonyms: map[string]string{
			"js":         "JavaScript",
			"javascript": "JavaScript",
			"ts":         "TypeScript",
			"typescript": "TypeScript",
			"py":         "Python",
			"python":     "Python",
			"golang":     "Go",
			"reactjs":    "React",
			"react.js":   "React",
			"node":       "Node.js",
			"nodejs":     "Node.js",
			"node.js":    "Node.js",
			"k8s":        "Kubernetes",
			"postgres":   "PostgreSQL",
			"postgresql": "PostgreSQL",
			"mongo":      "MongoDB",
			"ml":         "Machine Learning",
			"tf":         "TensorFlow",
			"amazon web services": "AWS",
			"google cloud":        "GCP",
		},
		DegreeKeywords: []string{
			"Ph.D.", "PhD", "Doctorate",
			"Master of Science", "Master of Arts",
			"Master of Business Administration", "MBA",
			"M.S.", "MSc", "M.A.", "Master",
			"Bachelor of Science", "Bachelor of Arts",
			"Bachelor of Engineering",
			"B.S.", "BSc", "B.A.", "B.E.", "Bachelor",
			"Associate", "Diploma",
		},
		ResumeIndicators: []string{
			"experience", "education", "skills", "summary",
			"employment", "objective", "certifications",
			"references", "work history", "professional",
		},
	}
}

// LoadVocabulary reads a TOML vocabulary file. Tables absent from the
// file fall back to the defaults, so a file can override just one
// table.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vocabulary: %w", err)
	}

	var loaded Vocabulary
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parsing vocabulary: %w", err)
	}

	vocab := DefaultVocabulary()
	if len(loaded.SectionHeaders) > 0 {
		vocab.SectionHeaders = loaded.SectionHeaders
	}
	if len(loaded.Skills) > 0 {
		vocab.Skills = loaded.Skills
	}
	if len(loaded.SkillSynonyms) > 0 {
		vocab.SkillSynonyms = loaded.SkillSynonyms
	}
	if len(loaded.DegreeKeywords) > 0 {
		vocab.DegreeKeywords = loaded.DegreeKeywords
	}
	if len(loaded.ResumeIndicators) > 0 {
		vocab.ResumeIndicators = loaded.ResumeIndicators
	}
	vocab.sanitize()
	return vocab, nil
}

// sanitize drops blank entries a hand-written file may contain; an
// empty term cannot compile into a match pattern.
func (v *Vocabulary) sanitize() {
	v.Skills = dropBlank(v.Skills)
	v.DegreeKeywords = dropBlank(v.DegreeKeywords)
	v.ResumeIndicators = dropBlank(v.ResumeIndicators)
	for name, headers := range v.SectionHeaders {
		v.SectionHeaders[name] = dropBlank(headers)
	}
	for alias, canonical := range v.SkillSynonyms {
		if strings.TrimSpace(alias) == "" || strings.TrimSpace(canonical) == "" {
			delete(v.SkillSynonyms, alias)
		}
	}
}

// dropBlank trims entries in place and removes the empty ones.
func dropBlank(entries []string) []string {
	out := entries[:0]
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}
