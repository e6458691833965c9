package services

import (
	"regexp"
	"strings"

	"datascout-backend/domain/core/valueobjects"
)

// Intent classifies what a query is trying to do. The set is closed so the
// routing switch downstream gets compile-time coverage.
type Intent string

const (
	IntentSearch   Intent = "search"
	IntentQuestion Intent = "question"
	IntentLookup   Intent = "lookup"
	IntentCompare  Intent = "compare"
	IntentTrend    Intent = "trend"
)

// StructuredQuery is the interpreter's output: one per request, immutable
// once built, discarded after the response. Confidence is a heuristic
// diagnostic signal in [0.5, 0.9], not a probability, and is never
// renormalized.
type StructuredQuery struct {
	OriginalText string                `json:"original_text"`
	Keywords     []string              `json:"keywords"`
	Domains      []valueobjects.Domain `json:"domains"`
	Intent       Intent                `json:"intent"`
	Entities     []string              `json:"entities"`
	Confidence   float64               `json:"confidence"`
}

// PrimaryDomain returns the highest-scoring detected domain, or "".
func (q StructuredQuery) PrimaryDomain() string {
	if len(q.Domains) == 0 {
		return ""
	}
	return string(q.Domains[0])
}

// CandidateTerms returns the hint terms a store should match candidates
// against: extracted keywords plus detected domain names.
func (q StructuredQuery) CandidateTerms() []string {
	terms := make([]string, 0, len(q.Keywords)+len(q.Domains))
	terms = append(terms, q.Keywords...)
	for _, d := range q.Domains {
		terms = append(terms, string(d))
	}
	return terms
}

var intentPatterns = []struct {
	intent  Intent
	pattern *regexp.Regexp
}{
	{IntentQuestion, regexp.MustCompile(`^(what|how|where|when|why|which|who)\b`)},
	{IntentLookup, regexp.MustCompile(`\b(show me|tell me|give me|find me|list all)\b`)},
	{IntentCompare, regexp.MustCompile(`\b(compare|comparison|versus|vs|difference between|compared)\b`)},
	{IntentTrend, regexp.MustCompile(`\b(trend|trends|over time|since|history|historical|growth|changes?)\b`)},
}

var entityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(nsw|vic|qld|wa|sa|tas|act|nt)\b`),
	regexp.MustCompile(`\b20[12][0-9]\b`),
	regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`),
}

const tokenPunctuation = ".,!?;:\"'()[]{}#@$%^&*+=<>/\\|~-"

// Interpreter turns free-text queries into StructuredQuery values. It is
// pure and stateless after construction; one instance serves any number of
// concurrent requests.
type Interpreter struct {
	stopWords map[string]bool
}

// NewInterpreter creates an interpreter with the default stop-word list.
func NewInterpreter() *Interpreter {
	return &Interpreter{stopWords: defaultStopWords()}
}

// Interpret turns raw query text into a structured query. It never fails:
// any internal panic degrades to a whitespace-split keyword query so the
// caller always receives a usable result.
func (i *Interpreter) Interpret(text string) (result StructuredQuery) {
	defer func() {
		if r := recover(); r != nil {
			result = fallbackQuery(text)
		}
	}()

	normalized := strings.ToLower(strings.TrimSpace(text))

	keywords := i.extractKeywords(normalized)
	domains := detectDomains(normalized, keywords)
	intent := detectIntent(normalized)
	entities := extractEntities(normalized)

	return StructuredQuery{
		OriginalText: text,
		Keywords:     keywords,
		Domains:      domains,
		Intent:       intent,
		Entities:     entities,
		Confidence:   confidence(len(keywords), len(domains), len(entities)),
	}
}

// extractKeywords strips punctuation, splits on whitespace, and drops short
// tokens and stop words. The result is deduplicated; encounter order is kept
// for determinism but carries no meaning.
func (i *Interpreter) extractKeywords(normalized string) []string {
	seen := make(map[string]bool)
	keywords := make([]string, 0)

	for _, token := range strings.Fields(normalized) {
		cleaned := strings.Trim(token, tokenPunctuation)
		if len(cleaned) <= 2 {
			continue
		}
		if i.stopWords[cleaned] || seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		keywords = append(keywords, cleaned)
	}

	return keywords
}

// detectDomains scores every vocabulary domain against the query. A keyword
// counts when it and one of the domain's terms contain each other; a literal
// mention of the domain name adds 2. Domains scoring zero are dropped; the
// rest sort by score descending with ties keeping vocabulary order.
func detectDomains(normalized string, keywords []string) []valueobjects.Domain {
	type scored struct {
		domain valueobjects.Domain
		score  int
	}

	matches := make([]scored, 0)
	for _, entry := range valueobjects.DomainVocabulary {
		score := 0
		for _, kw := range keywords {
			for _, term := range entry.Terms {
				if strings.Contains(term, kw) || strings.Contains(kw, term) {
					score++
					break
				}
			}
		}
		if strings.Contains(normalized, string(entry.Domain)) {
			score += 2
		}
		if score > 0 {
			matches = append(matches, scored{entry.Domain, score})
		}
	}

	// Insertion sort keeps ties in vocabulary order.
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j].score > matches[j-1].score; j-- {
			matches[j], matches[j-1] = matches[j-1], matches[j]
		}
	}

	domains := make([]valueobjects.Domain, len(matches))
	for i, m := range matches {
		domains[i] = m.domain
	}
	return domains
}

// detectIntent tests the ordered pattern list; the first match wins.
func detectIntent(normalized string) Intent {
	for _, p := range intentPatterns {
		if p.pattern.MatchString(normalized) {
			return p.intent
		}
	}
	return IntentSearch
}

// extractEntities collects state codes, years and month names, deduplicated
// in match order.
func extractEntities(normalized string) []string {
	seen := make(map[string]bool)
	entities := make([]string, 0)

	for _, pattern := range entityPatterns {
		for _, match := range pattern.FindAllString(normalized, -1) {
			if !seen[match] {
				seen[match] = true
				entities = append(entities, match)
			}
		}
	}

	return entities
}

// confidence is base 0.5 plus capped keyword, domain and entity bonuses,
// never exceeding 0.9.
func confidence(keywordCount, domainCount, entityCount int) float64 {
	c := 0.5

	keywordBonus := float64(keywordCount) * 0.1
	if keywordBonus > 0.3 {
		keywordBonus = 0.3
	}
	c += keywordBonus
	c += float64(domainCount) * 0.1
	c += float64(entityCount) * 0.1

	if c > 0.9 {
		c = 0.9
	}
	return c
}

// fallbackQuery is the degraded result the interpreter contract guarantees.
func fallbackQuery(text string) StructuredQuery {
	return StructuredQuery{
		OriginalText: text,
		Keywords:     strings.Fields(text),
		Domains:      []valueobjects.Domain{},
		Intent:       IntentSearch,
		Entities:     []string{},
		Confidence:   0.5,
	}
}

// defaultStopWords covers articles, conjunctions and the common auxiliary
// verbs and modals that carry no retrieval signal.
func defaultStopWords() map[string]bool {
	words := []string{
		"the", "a", "an", "and", "or", "but", "nor", "yet", "for", "from",
		"with", "about", "into", "over", "under", "between", "through",
		"during", "before", "after", "above", "below", "this", "that",
		"these", "those", "there", "their", "them", "they", "what", "which",
		"is", "are", "was", "were", "be", "been", "being", "have", "has",
		"had", "does", "did", "will", "would", "can", "could", "should",
		"may", "might", "must", "shall",
	}
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
