package scoring

import (
	"strings"
)

// Domain is a professional field recognised by keyword phrases.
type Domain struct {
	Name     string
	Keywords []string
}

// Domains is ordered; the order breaks ties between equally strong domains.
var Domains = []Domain{
	{Name: "pharmacy", Keywords: []string{"pharmacy", "pharmacist", "pharmaceutical", "prescription", "drug store", "medication"}},
	{Name: "nursing", Keywords: []string{"nurse", "nursing", "patient care", "healthcare", "medical", "clinical"}},
	{Name: "it", Keywords: []string{"software", "developer", "programmer", "coding", "javascript", "python", "react",
		"nodejs", "web development", "full stack", "frontend", "backend", "database", "mongodb",
		"information technology", "it instructor", "computer science", "networking", "cybersecurity",
		"java", "html", "css", "api", "restful", "git", "software engineer"}},
	{Name: "hr", Keywords: []string{"human resource", "human resources", "recruitment", "hiring", "hr", "talent acquisition", "employee relations"}},
	{Name: "accounting", Keywords: []string{"accountant", "accounting", "bookkeeping", "financial", "audit", "tax", "cpa"}},
	{Name: "teaching", Keywords: []string{"teacher", "instructor", "professor", "education", "teaching", "trainer", "mentor", "educator"}},
	{Name: "administrative", Keywords: []string{"administrative", "admin", "office management", "secretary", "clerical",
		"executive assistant", "office assistant", "receptionist", "scheduling", "correspondence", "filing", "data entry"}},
	{Name: "customer_service", Keywords: []string{"customer service", "customer support", "client relations", "call center",
		"customer care", "help desk", "support specialist"}},
	{Name: "sales", Keywords: []string{"sales", "selling", "business development", "account manager", "sales representative"}},
	{Name: "marketing", Keywords: []string{"marketing", "digital marketing", "social media", "content", "branding", "seo"}},
	{Name: "design", Keywords: []string{"designer", "design", "ux", "ui", "graphic design", "creative", "illustrator", "photoshop"}},
	{Name: "engineering", Keywords: []string{"engineer", "engineering", "mechanical", "electrical", "civil", "industrial"}},
	{Name: "management", Keywords: []string{"manager", "management", "supervisor", "director", "lead", "coordinator"}},
}

// RoleTypes are matched against the job title and the talent narrative.
var RoleTypes = []Domain{
	{Name: "developer", Keywords: []string{"developer", "engineer", "programmer", "software", "coder", "full stack", "frontend", "backend"}},
	{Name: "instructor", Keywords: []string{"instructor", "teacher", "professor", "trainer", "educator"}},
	{Name: "designer", Keywords: []string{"designer", "ux", "ui", "graphic"}},
	{Name: "analyst", Keywords: []string{"analyst", "data", "business intelligence"}},
}

// TransferIndicators are word prefixes showing a skill that carries into another role.
var TransferIndicators = map[string][]string{
	"teaching":      {"teach", "train", "mentor", "coach", "educat", "tutor", "instruct", "explain"},
	"leadership":    {"leader", "manag", "lead", "supervis", "coordinat"},
	"communication": {"communicat", "presentat", "speak", "writing"},
}

// Adjustment is the affinity rule outcome for one pair. Affinity is the raw score of
// the domain_affinity component and Factor scales the skill and text scores.
type Adjustment struct {
	Rule     string
	Affinity float64
	Factor   float64
}

// AffinityContext is what the rules look at.
type AffinityContext struct {
	JobDomain     string
	JobRole       string
	TalentDomain  string
	TalentRole    string
	TalentDomains map[string]int
	Indicators    map[string]bool
}

// AffinityRule is one named entry of the rule set.
type AffinityRule struct {
	Name     string
	Affinity float64
	Factor   float64
	Matches  func(c AffinityContext) bool
}

// AffinityRules is evaluated in order and the first match wins.
type AffinityRules []AffinityRule

var transferPairs = map[[2]string]bool{
	{"instructor", "developer"}: true,
	{"instructor", "designer"}:  true,
	{"instructor", "analyst"}:   true,
}

var relatedDomains = map[[2]string]bool{
	{"nursing", "pharmacy"}:                true,
	{"pharmacy", "nursing"}:                true,
	{"it", "design"}:                       true,
	{"design", "it"}:                       true,
	{"it", "teaching"}:                     true,
	{"teaching", "it"}:                     true,
	{"it", "engineering"}:                  true,
	{"engineering", "it"}:                  true,
	{"design", "engineering"}:              true,
	{"engineering", "design"}:              true,
	{"administrative", "customer_service"}: true,
	{"customer_service", "administrative"}: true,
	{"hr", "management"}:                   true,
	{"management", "hr"}:                   true,
	{"sales", "marketing"}:                 true,
	{"marketing", "sales"}:                 true,
	{"accounting", "administrative"}:       true,
	{"administrative", "accounting"}:       true,
	{"sales", "customer_service"}:          true,
	{"customer_service", "sales"}:          true,
}

// businessDomains hold skills that carry into most office roles, so a business job
// or a business talent is never scored as fully unrelated.
var businessDomains = map[string]bool{
	"administrative":   true,
	"customer_service": true,
	"sales":            true,
	"marketing":        true,
	"hr":               true,
	"management":       true,
}

// DefaultAffinityRules is the production rule set.
var DefaultAffinityRules = AffinityRules{
	{
		Name:     "cross_functional_transfer",
		Affinity: 0.9,
		Factor:   1.35,
		Matches: func(c AffinityContext) bool {
			return transferPairs[[2]string{c.JobRole, c.TalentRole}] && c.Indicators["teaching"]
		},
	},
	{
		Name:     "same_domain",
		Affinity: 1.0,
		Factor:   1.0,
		Matches: func(c AffinityContext) bool {
			return c.JobDomain != "" && c.JobDomain == c.TalentDomain
		},
	},
	{
		Name:     "secondary_domain",
		Affinity: 0.8,
		Factor:   1.0,
		Matches: func(c AffinityContext) bool {
			return c.JobDomain != "" && c.TalentDomains[c.JobDomain] > 0
		},
	},
	{
		Name:     "related_domain",
		Affinity: 0.8,
		Factor:   1.0,
		Matches: func(c AffinityContext) bool {
			return relatedDomains[[2]string{c.JobDomain, c.TalentDomain}]
		},
	},
	{
		Name:     "transferable_generalist",
		Affinity: 0.75,
		Factor:   1.0,
		Matches: func(c AffinityContext) bool {
			return businessDomains[c.JobDomain] || businessDomains[c.TalentDomain]
		},
	},
	{
		Name:     "no_job_domain",
		Affinity: NeutralScore,
		Factor:   1.0,
		Matches: func(c AffinityContext) bool {
			return c.JobDomain == ""
		},
	},
	{
		Name:     "unrelated_domain",
		Affinity: 0.0,
		Factor:   0.6,
		Matches: func(AffinityContext) bool {
			return true
		},
	},
}

// Names lists the rule names in evaluation order.
func (r AffinityRules) Names() []string {
	names := make([]string, 0, len(r))
	for _, rule := range r {
		names = append(names, rule.Name)
	}
	return names
}

// Adjust evaluates the rules for a normalized pair.
func (r AffinityRules) Adjust(job JobDescriptor, talent TalentDescriptor) Adjustment {
	return r.Evaluate(NewAffinityContext(job, talent))
}

// Evaluate returns the first matching rule's adjustment.
func (r AffinityRules) Evaluate(ctx AffinityContext) Adjustment {
	for _, rule := range r {
		if rule.Matches(ctx) {
			return Adjustment{Rule: rule.Name, Affinity: rule.Affinity, Factor: rule.Factor}
		}
	}
	return Adjustment{Rule: "none", Affinity: NeutralScore, Factor: 1.0}
}

// NewAffinityContext detects domains and roles on both sides.
func NewAffinityContext(job JobDescriptor, talent TalentDescriptor) AffinityContext {
	title := NormalizeText(job.Title)
	jobText := strings.Join([]string{title, NormalizeText(job.Description),
		NormalizeText(job.Requirements), NormalizeText(strings.Join(job.Skills, " , "))}, " ")
	talentText := NormalizeText(talent.Experience) + " " + NormalizeText(strings.Join(talent.Skills, " , "))

	jobHits := matchDomains(Domains, jobText)
	talentHits := matchDomains(Domains, talentText)

	return AffinityContext{
		JobDomain:     primary(Domains, jobHits, matchDomains(Domains, title)),
		JobRole:       primary(RoleTypes, matchDomains(RoleTypes, title), nil),
		TalentDomain:  primary(Domains, talentHits, nil),
		TalentRole:    primary(RoleTypes, matchDomains(RoleTypes, NormalizeText(talent.Experience)), nil),
		TalentDomains: talentHits,
		Indicators:    indicators(Keywords(talentText)),
	}
}

func matchDomains(domains []Domain, text string) map[string]int {
	padded := " " + text + " "
	hits := make(map[string]int)
	for _, d := range domains {
		for _, kw := range d.Keywords {
			if strings.Contains(padded, " "+kw+" ") {
				hits[d.Name]++
			}
		}
	}
	return hits
}

// primary picks the domain with most hits. When preferred is not empty only its
// domains are eligible. Ties go to the earlier domain in the table.
func primary(domains []Domain, hits map[string]int, preferred map[string]int) string {
	best, bestHits := "", 0
	for _, d := range domains {
		if len(preferred) > 0 && preferred[d.Name] == 0 {
			continue
		}
		if hits[d.Name] > bestHits {
			best, bestHits = d.Name, hits[d.Name]
		}
	}
	return best
}

func indicators(words []string) map[string]bool {
	found := make(map[string]bool)
	for kind, prefixes := range TransferIndicators {
		for _, prefix := range prefixes {
			for _, word := range words {
				if strings.HasPrefix(word, prefix) {
					found[kind] = true
				}
			}
		}
	}
	return found
}
