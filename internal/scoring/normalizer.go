package scoring

import (
	"sort"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// JobDescriptor holds the scoring relevant part of a job posting.
type JobDescriptor struct {
	Title        string   `json:"title" yaml:"title"`
	Description  string   `json:"description" yaml:"description"`
	Requirements string   `json:"requirements" yaml:"requirements"`
	Skills       []string `json:"skills" yaml:"skills"`
}

// TalentDescriptor holds the scoring relevant part of a talent profile.
type TalentDescriptor struct {
	Experience string   `json:"experience" yaml:"experience"`
	Skills     []string `json:"skills" yaml:"skills"`
}

var stopwords = lo.SliceToMap([]string{
	"a", "an", "and", "the", "of", "in", "on", "at", "to", "for", "with", "by", "from", "as",
	"is", "are", "was", "were", "be", "been", "has", "have", "had", "this", "that", "these",
	"those", "it", "its", "or", "but", "not", "all", "any", "can", "will", "our", "your",
	"their", "who", "whom", "which", "what", "into", "over", "under", "about", "including",
	"using", "use", "years", "year", "experience", "experienced", "required", "requirements",
	"knowledge", "skills", "skill", "ability", "strong", "excellent", "proficient", "expert",
	"familiar", "valid", "now", "high", "level", "plus", "work", "working", "also", "etc",
	"such", "other", "new", "more", "most", "very", "well", "within", "across", "basic",
}, func(word string) (string, struct{}) {
	return word, struct{}{}
})

// NormalizeSkill lowercases a skill and collapses its whitespace.
func NormalizeSkill(skill string) string {
	return strings.Join(strings.Fields(strings.ToLower(skill)), " ")
}

// NormalizeSkills returns the skills as a sorted set of normalized values.
// Two lists that differ only in casing, spacing, duplicates or order normalize equally.
func NormalizeSkills(skills []string) []string {
	normalized := lo.Uniq(lo.FilterMap(skills, func(skill string, _ int) (string, bool) {
		s := NormalizeSkill(skill)
		return s, s != ""
	}))
	sort.Strings(normalized)
	return normalized
}

// NormalizeText lowercases free text, turns / - _ into spaces, drops other punctuation
// and collapses whitespace.
func NormalizeText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r == '/' || r == '-' || r == '_':
			b.WriteRune(' ')
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Keywords returns the distinct content words of text in order of first appearance.
func Keywords(text string) []string {
	return lo.Uniq(lo.Filter(strings.Fields(NormalizeText(text)), func(token string, _ int) bool {
		if len([]rune(token)) < 3 || isNumber(token) {
			return false
		}
		_, stop := stopwords[token]
		return !stop
	}))
}

func isNumber(token string) bool {
	for _, r := range token {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// NormalizeJob returns a normalized copy of job.
func NormalizeJob(job JobDescriptor) JobDescriptor {
	return JobDescriptor{
		Title:        NormalizeText(job.Title),
		Description:  NormalizeText(job.Description),
		Requirements: NormalizeText(job.Requirements),
		Skills:       NormalizeSkills(job.Skills),
	}
}

// NormalizeTalent returns a normalized copy of talent.
func NormalizeTalent(talent TalentDescriptor) TalentDescriptor {
	return TalentDescriptor{
		Experience: NormalizeText(talent.Experience),
		Skills:     NormalizeSkills(talent.Skills),
	}
}

// ValidateJob rejects a job that misses fields the pipeline needs.
func ValidateJob(job JobDescriptor) error {
	if strings.TrimSpace(job.Title) == "" {
		return NewInvalidInput("job.title", "is required")
	}
	if job.Skills == nil {
		return NewInvalidInput("job.skills", "is required")
	}
	return nil
}

// ValidateTalent rejects a talent that misses fields the pipeline needs.
func ValidateTalent(talent TalentDescriptor) error {
	if strings.TrimSpace(talent.Experience) == "" {
		return NewInvalidInput("talent.experience", "is required")
	}
	if talent.Skills == nil {
		return NewInvalidInput("talent.skills", "is required")
	}
	return nil
}
