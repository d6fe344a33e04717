package scoring

import (
	"regexp"
	"strconv"
	"strings"
)

// yearsPatterns are tried in order; the first one that matches gives the count.
var yearsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\+?\s*(?:years?|yrs?)\s+(?:of\s+)?experience`),
	regexp.MustCompile(`(?i)experience.*?(\d+)\+?\s*(?:years?|yrs?)`),
	regexp.MustCompile(`(?i)(\d+)\s*-\s*(\d+)\s*(?:years?|yrs?)`),
	regexp.MustCompile(`(?i)(\d+)\+?\s*(?:years?|yrs?)`),
}

// relevantExperienceWords mark a narrative that describes hands-on work even when
// it states no duration.
var relevantExperienceWords = []string{"experience", "worked", "proficient", "skilled"}

// YearsOfExperience returns the number of years stated in text, or 0 when none is.
func YearsOfExperience(text string) int {
	for _, pattern := range yearsPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		if years, err := strconv.Atoi(match[1]); err == nil {
			return years
		}
	}
	return 0
}

// ExperienceMatch compares the years a job asks for with what the talent narrative
// states. It expects raw text: normalization would turn "3-5 years" into "3 5 years".
func ExperienceMatch(requirement, experience string) float64 {
	required := YearsOfExperience(requirement)
	stated := YearsOfExperience(experience)

	lower := strings.ToLower(experience)
	relevant := false
	for _, word := range relevantExperienceWords {
		if strings.Contains(lower, word) {
			relevant = true
			break
		}
	}

	switch {
	case required == 0:
		return openRequirementCredit(stated, relevant)
	case stated == 0:
		return unstatedYearsCredit(required, relevant)
	case stated >= required:
		return surplusCredit(stated - required)
	}
	return shortfallCredit(required - stated)
}

func openRequirementCredit(stated int, relevant bool) float64 {
	switch {
	case relevant && stated > 0:
		return 1.0
	case relevant:
		return 0.8
	case stated > 0:
		return 0.9
	}
	return 0.6
}

func unstatedYearsCredit(required int, relevant bool) float64 {
	if relevant {
		switch {
		case required <= 1:
			return 0.85
		case required <= 3:
			return 0.65
		}
		return 0.4
	}
	switch {
	case required <= 1:
		return 0.7
	case required <= 2:
		return 0.4
	}
	return 0.2
}

// surplusCredit eases off slightly for heavy overqualification.
func surplusCredit(excess int) float64 {
	switch {
	case excess <= 2:
		return 1.0
	case excess <= 5:
		return 0.95
	}
	return 0.9
}

func shortfallCredit(gap int) float64 {
	switch gap {
	case 1:
		return 0.75
	case 2:
		return 0.6
	case 3:
		return 0.45
	}
	return 0.3
}
