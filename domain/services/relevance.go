package services

import (
	"sort"
	"strings"

	"datascout-backend/domain/core/entities"
)

// Relevance weights. The 100:50:25:20:10 ratios are load-bearing: callers
// depend on the relative ordering they produce, so they must not be tuned.
const (
	weightNameMatch        = 100
	weightDescriptionMatch = 50
	weightKeywordMatch     = 25
	weightTagMatch         = 20
	weightRelation         = 10
)

// ScoreRelevance scores a candidate dataset against a raw query and its
// extracted keywords. Pure, side-effect free, and total: malformed or empty
// dataset fields simply contribute zero. All containment tests are
// case-insensitive substring checks. Name and description matches outrank
// the fuzzier signals, and well-connected datasets get a connectivity bonus.
func ScoreRelevance(d *entities.Dataset, rawQuery string, keywords []string) int {
	if d == nil {
		return 0
	}

	query := strings.ToLower(strings.TrimSpace(rawQuery))
	score := 0

	if query != "" {
		if strings.Contains(strings.ToLower(d.Name()), query) {
			score += weightNameMatch
		}
		if strings.Contains(strings.ToLower(d.Description()), query) {
			score += weightDescriptionMatch
		}
		for _, tag := range d.Tags() {
			if strings.Contains(strings.ToLower(tag), query) {
				score += weightTagMatch
			}
		}
	}

	datasetKeywords := d.Keywords()
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		for _, dkw := range datasetKeywords {
			dkw = strings.ToLower(dkw)
			if strings.Contains(dkw, kw) || strings.Contains(kw, dkw) {
				score += weightKeywordMatch
				break
			}
		}
	}

	score += weightRelation * d.RelationCount()

	return score
}

// ScoredDataset pairs a dataset with its relevance score for ranking.
type ScoredDataset struct {
	Dataset *entities.Dataset
	Score   int
}

// RankByRelevance scores and sorts candidates descending. The sort is
// stable: ties keep the store's return order, which is typically
// most-recently-updated first.
func RankByRelevance(candidates []*entities.Dataset, rawQuery string, keywords []string) []ScoredDataset {
	ranked := make([]ScoredDataset, 0, len(candidates))
	for _, d := range candidates {
		ranked = append(ranked, ScoredDataset{
			Dataset: d,
			Score:   ScoreRelevance(d, rawQuery, keywords),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}
