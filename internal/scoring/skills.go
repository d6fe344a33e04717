package scoring

import (
	"sort"
	"strings"
	"unicode"
)

const (
	// NeutralScore is returned by a scorer that has nothing to compare against.
	NeutralScore = 0.5

	ExactCredit   = 1.0
	SynonymCredit = 0.7
	PartialCredit = 0.5
)

// synonymGroups maps interchangeable words onto one group. Matching happens word by
// word, so "customer service" and "patient care" share a signature.
var synonymGroups = map[string][]string{
	"retail":        {"retail", "store", "shop"},
	"pharmacy":      {"drug", "pharmacy", "pharmaceutical", "pharmacist", "pharmaceuticals"},
	"medical":       {"medical", "healthcare", "clinical", "health"},
	"communication": {"communication", "communications", "interpersonal"},
	"customer":      {"customer", "client", "patient"},
	"service":       {"service", "care", "support"},
	"javascript":    {"javascript", "js", "node", "nodejs"},
	"typescript":    {"typescript", "ts"},
	"database":      {"database", "db", "mongodb", "sql", "mysql", "postgresql"},
	"inventory":     {"inventory", "stock"},
	"teaching":      {"teaching", "mentoring", "training", "tutoring", "coaching", "instruction"},
}

var wordGroup = func() map[string]string {
	index := make(map[string]string)
	for group, words := range synonymGroups {
		for _, word := range words {
			index[word] = group
		}
	}
	return index
}()

// SkillOverlap scores how much of the job's skill set the talent covers. Each job
// skill earns its best credit over all talent skills, so no skill counts twice.
func SkillOverlap(jobSkills, talentSkills []string) float64 {
	job := NormalizeSkills(jobSkills)
	if len(job) == 0 {
		return NeutralScore
	}
	talent := NormalizeSkills(talentSkills)

	total := 0.0
	for _, required := range job {
		best := 0.0
		for _, owned := range talent {
			if credit := skillCredit(required, owned); credit > best {
				best = credit
			}
			if best >= ExactCredit {
				break
			}
		}
		total += best
	}
	return clamp01(total / float64(len(job)))
}

func skillCredit(required, owned string) float64 {
	if required == owned || compact(required) == compact(owned) {
		return ExactCredit
	}

	reqSig, ownSig := signature(required), signature(owned)
	shared := 0
	for word := range reqSig {
		if _, ok := ownSig[word]; ok {
			shared++
		}
	}
	if shared == 0 {
		return 0
	}
	if shared == len(reqSig) && shared == len(ownSig) {
		return SynonymCredit
	}
	union := len(reqSig) + len(ownSig) - shared
	return PartialCredit * float64(shared) / float64(union)
}

func signature(skill string) map[string]struct{} {
	sig := make(map[string]struct{})
	for _, word := range strings.Fields(skill) {
		word = compact(word)
		if word == "" {
			continue
		}
		if group, ok := wordGroup[word]; ok {
			word = "#" + group
		}
		sig[word] = struct{}{}
	}
	return sig
}

// compact drops spacing and punctuation so "node.js" equals "nodejs", but spells out
// the symbols that tell languages apart: "c++", "c#" and "c" stay distinct, as do
// ".net" and "net".
func compact(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	wordStart := true
	for _, r := range value {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '+':
			b.WriteString("plus")
		case r == '#':
			b.WriteString("sharp")
		case r == '.' && wordStart:
			b.WriteString("dot")
		}
		wordStart = unicode.IsSpace(r)
	}
	return b.String()
}

// SynonymGroups returns the group names known to the skill scorer, sorted.
func SynonymGroups() []string {
	names := make([]string, 0, len(synonymGroups))
	for name := range synonymGroups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
