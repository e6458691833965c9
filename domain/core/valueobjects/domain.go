package valueobjects

// Domain is one of the fixed subject areas used to classify datasets and
// queries. The vocabulary is small and closed; anything else coming out of a
// store is ignored rather than rejected.
type Domain string

const (
	DomainLabour     Domain = "labour"
	DomainHealth     Domain = "health"
	DomainHousing    Domain = "housing"
	DomainEducation  Domain = "education"
	DomainAgeing     Domain = "ageing"
	DomainInequality Domain = "inequality"
	DomainPopulation Domain = "population"
)

// DomainEntry pairs a domain with the curated terms used for detection.
type DomainEntry struct {
	Domain Domain
	Terms  []string
}

// DomainVocabulary is the ordered detection table. Order matters: when two
// domains tie on score the earlier entry wins, so the list goes from the
// broadest catalog categories to the narrowest.
var DomainVocabulary = []DomainEntry{
	{DomainLabour, []string{
		"employment", "unemployment", "jobs", "workforce", "wages", "salary",
		"income", "occupation", "industry", "labour force", "earnings",
	}},
	{DomainHealth, []string{
		"hospital", "medical", "disease", "mortality", "aged care",
		"mental health", "disability", "medicare", "doctors", "illness",
		"wellbeing",
	}},
	{DomainHousing, []string{
		"rent", "rental", "mortgage", "property", "dwelling", "dwellings",
		"homelessness", "affordability", "housing stress", "tenancy",
		"real estate",
	}},
	{DomainEducation, []string{
		"school", "schools", "university", "student", "students", "literacy",
		"qualification", "teachers", "enrolment", "training", "tafe",
	}},
	{DomainAgeing, []string{
		"aged", "elderly", "retirement", "pension", "seniors", "aged care",
		"older australians", "superannuation", "life expectancy",
	}},
	{DomainInequality, []string{
		"poverty", "disadvantage", "gini", "income distribution",
		"wealth gap", "socioeconomic", "welfare", "deprivation",
	}},
	{DomainPopulation, []string{
		"census", "migration", "demographics", "births", "deaths",
		"fertility", "population growth", "regional population", "ancestry",
	}},
}

// KnownDomains returns the vocabulary's domain names in table order.
func KnownDomains() []Domain {
	domains := make([]Domain, 0, len(DomainVocabulary))
	for _, entry := range DomainVocabulary {
		domains = append(domains, entry.Domain)
	}
	return domains
}

// IsKnownDomain reports whether a string names a vocabulary domain.
func IsKnownDomain(s string) bool {
	for _, entry := range DomainVocabulary {
		if string(entry.Domain) == s {
			return true
		}
	}
	return false
}
