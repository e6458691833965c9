package recommendations

import (
	"context"
	"sort"

	"datascout-backend/domain/core/entities"
	"datascout-backend/domain/core/valueobjects"
	"datascout-backend/domain/services"
)

// Tag identifies which strategy produced a recommendation. Closed set; the
// complementary strategy emits TagRelated since it is a union of
// direct-relation lookups.
type Tag string

const (
	TagRelated  Tag = "related"
	TagDomain   Tag = "domain"
	TagKeyword  Tag = "keyword"
	TagAgency   Tag = "agency"
	TagTrending Tag = "trending"
)

// DefaultLimit is the result-list size when the caller does not supply one.
const DefaultLimit = 5

// Recommendation is one ranked suggestion. Constructed during strategy
// execution, merged and sorted, then serialized to the caller; never
// persisted.
type Recommendation struct {
	Dataset  *entities.Dataset
	Score    float64
	Reason   string
	Strategy Tag
}

// Seed is the uniform strategy input. Exactly one field is populated per
// request kind; strategies that cannot serve a given seed return an empty
// list rather than an error.
type Seed struct {
	Dataset *entities.Dataset
	Query   *services.StructuredQuery
	IDs     []valueobjects.DatasetID
}

// Strategy is one independent recommendation-generation algorithm. Produce
// is a read-only operation against the store: a failure means this
// strategy's candidates are lost, never the whole merge.
type Strategy interface {
	Tag() Tag
	Produce(ctx context.Context, seed Seed) ([]Recommendation, error)
}

// Merge deduplicates strategy outputs by dataset identity (first occurrence
// wins), sorts by non-increasing score with a stable tie order, and
// truncates to limit. Inputs are concatenated in strategy order, so a
// dataset recommended by two strategies keeps the earlier strategy's score
// and reason.
func Merge(lists [][]Recommendation, limit int) []Recommendation {
	if limit <= 0 {
		limit = DefaultLimit
	}

	seen := make(map[string]bool)
	merged := make([]Recommendation, 0)
	for _, list := range lists {
		for _, rec := range list {
			if rec.Dataset == nil {
				continue
			}
			id := rec.Dataset.ID().String()
			if seen[id] {
				continue
			}
			seen[id] = true
			merged = append(merged, rec)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
