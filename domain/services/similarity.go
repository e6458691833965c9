package services

import (
	"strings"

	"datascout-backend/domain/core/entities"
)

// Similarity weights, shared by the domain and agency recommendation
// strategies. Preserved exactly for behavioral compatibility.
const (
	similarityDomainWeight  = 0.3
	similarityKeywordWeight = 0.2
	similarityTagWeight     = 0.25
	similarityAgencyBonus   = 0.1
	similarityAPIBonus      = 0.15
)

// Similarity computes the cross-dataset affinity used for recommendations.
// It is an unbounded additive score, not normalized to [0,1]: callers must
// not assume an upper bound. Empty sets on either side contribute zero.
func Similarity(a, b *entities.Dataset) float64 {
	if a == nil || b == nil {
		return 0
	}

	score := similarityDomainWeight * float64(intersectionCount(a.Domains(), b.Domains()))
	score += similarityKeywordWeight * float64(mutualKeywordCount(a.Keywords(), b.Keywords()))
	score += similarityTagWeight * float64(intersectionCount(a.Tags(), b.Tags()))

	if a.SameAgency(b) {
		score += similarityAgencyBonus
	}
	if a.IsAPIAccessible() && b.IsAPIAccessible() {
		score += similarityAPIBonus
	}

	return score
}

// intersectionCount counts exact (case-insensitive) overlaps between two
// string sets.
func intersectionCount(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	set := make(map[string]bool, len(b))
	for _, s := range b {
		set[strings.ToLower(s)] = true
	}

	count := 0
	seen := make(map[string]bool, len(a))
	for _, s := range a {
		s = strings.ToLower(s)
		if set[s] && !seen[s] {
			seen[s] = true
			count++
		}
	}
	return count
}

// mutualKeywordCount counts keywords of a that have a mutual-substring match
// against at least one keyword of b. Looser than exact intersection so
// "employment" still matches "unemployment".
func mutualKeywordCount(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	count := 0
	for _, ka := range a {
		ka = strings.ToLower(ka)
		if ka == "" {
			continue
		}
		for _, kb := range b {
			kb = strings.ToLower(kb)
			if strings.Contains(ka, kb) || strings.Contains(kb, ka) {
				count++
				break
			}
		}
	}
	return count
}
