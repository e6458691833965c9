package recommendations

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"datascout-backend/application/ports"
	"datascout-backend/domain/core/entities"
	"datascout-backend/domain/core/valueobjects"
	"datascout-backend/domain/services"
)

// Strategy constants. Magic numbers are preserved exactly from the original
// ranking behavior; callers depend on the relative ordering they produce.
const (
	relatedScore            = 1.0
	domainSimilarityFloor   = 0.3
	domainScoreFactor       = 0.8
	domainContextScore      = 0.7
	agencyScoreFactor       = 0.6
	keywordBaseScore        = 0.5
	keywordMatchBonus       = 0.1
	apiBoostScore           = 0.6
	trendingScoreFactor     = 10.0
	domainCandidateLimit    = 10
	agencyCandidateLimit    = 5
	keywordCandidateLimit   = 8
	apiBoostLimit           = 3
	trendingCandidateLimit  = 10
	complementaryPerSeed    = 2
	complementaryTotalLimit = 5
)

const (
	apiBoostReason = "Live data available"
	trendingReason = "Trending dataset based on relationships"
)

// relatedStrategy recommends the datasets directly connected to the seed,
// either direction, at a fixed score.
type relatedStrategy struct {
	store  ports.DatasetStore
	logger *zap.Logger
}

func (s *relatedStrategy) Tag() Tag { return TagRelated }

func (s *relatedStrategy) Produce(ctx context.Context, seed Seed) ([]Recommendation, error) {
	if seed.Dataset == nil {
		return nil, nil
	}
	return s.forDataset(ctx, seed.Dataset.ID(), 0)
}

// forDataset emits one recommendation per relation touching the dataset.
// max == 0 means unbounded; the complementary strategy reuses this with a
// per-seed cap.
func (s *relatedStrategy) forDataset(ctx context.Context, id valueobjects.DatasetID, max int) ([]Recommendation, error) {
	relations, err := s.store.GetRelations(ctx, id)
	if err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0, len(relations))
	for _, rel := range relations {
		if max > 0 && len(recs) >= max {
			break
		}
		otherID, ok := rel.OtherEnd(id)
		if !ok {
			continue
		}
		other, err := s.store.FindByID(ctx, otherID)
		if err != nil {
			// A dangling relation loses one candidate, not the strategy.
			s.logger.Debug("related endpoint not resolvable",
				zap.String("datasetID", otherID.String()),
				zap.Error(err),
			)
			continue
		}
		recs = append(recs, Recommendation{
			Dataset:  other,
			Score:    relatedScore,
			Reason:   relationReason(rel),
			Strategy: TagRelated,
		})
	}
	return recs, nil
}

// relationReason builds the display text from the relation's kind and
// description, falling back to a generic description.
func relationReason(rel *entities.DatasetRelation) string {
	desc := rel.Description
	if desc == "" {
		desc = "Direct relationship"
	}
	return fmt.Sprintf("%s: %s", rel.Kind, desc)
}

// domainStrategy recommends datasets sharing the seed's primary domain. A
// dataset seed is filtered by similarity; a search-context seed scores flat.
type domainStrategy struct {
	store  ports.DatasetStore
	logger *zap.Logger
}

func (s *domainStrategy) Tag() Tag { return TagDomain }

func (s *domainStrategy) Produce(ctx context.Context, seed Seed) ([]Recommendation, error) {
	switch {
	case seed.Dataset != nil:
		return s.forDataset(ctx, seed.Dataset)
	case seed.Query != nil:
		return s.forContext(ctx, seed.Query)
	default:
		return nil, nil
	}
}

func (s *domainStrategy) forDataset(ctx context.Context, seed *entities.Dataset) ([]Recommendation, error) {
	primary := seed.PrimaryDomain()
	if primary == "" {
		return nil, nil
	}

	candidates, err := s.store.FindByDomain(ctx, primary, seed.ID(), domainCandidateLimit)
	if err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0, len(candidates))
	for _, cand := range candidates {
		sim := services.Similarity(seed, cand)
		if sim <= domainSimilarityFloor {
			continue
		}
		recs = append(recs, Recommendation{
			Dataset:  cand,
			Score:    sim * domainScoreFactor,
			Reason:   fmt.Sprintf("Shares the %s domain", primary),
			Strategy: TagDomain,
		})
	}
	return recs, nil
}

func (s *domainStrategy) forContext(ctx context.Context, query *services.StructuredQuery) ([]Recommendation, error) {
	primary := query.PrimaryDomain()
	if primary == "" {
		return nil, nil
	}

	candidates, err := s.store.FindByDomain(ctx, primary, valueobjects.DatasetID{}, domainCandidateLimit)
	if err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0, len(candidates))
	for _, cand := range candidates {
		recs = append(recs, Recommendation{
			Dataset:  cand,
			Score:    domainContextScore,
			Reason:   fmt.Sprintf("Matches the %s domain of your search", primary),
			Strategy: TagDomain,
		})
	}
	return recs, nil
}

// agencyStrategy recommends other datasets from the seed's owning agency,
// weighted by similarity.
type agencyStrategy struct {
	store  ports.DatasetStore
	logger *zap.Logger
}

func (s *agencyStrategy) Tag() Tag { return TagAgency }

func (s *agencyStrategy) Produce(ctx context.Context, seed Seed) ([]Recommendation, error) {
	if seed.Dataset == nil || seed.Dataset.Agency().IsZero() {
		return nil, nil
	}

	agency := seed.Dataset.Agency()
	candidates, err := s.store.FindByAgency(ctx, agency.ID, seed.Dataset.ID(), agencyCandidateLimit)
	if err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0, len(candidates))
	for _, cand := range candidates {
		recs = append(recs, Recommendation{
			Dataset:  cand,
			Score:    services.Similarity(seed.Dataset, cand) * agencyScoreFactor,
			Reason:   fmt.Sprintf("Also published by %s", agency.Name),
			Strategy: TagAgency,
		})
	}
	return recs, nil
}

// keywordStrategy recommends datasets whose keywords intersect the search
// keywords, plus a constant boost for API-accessible datasets so live data
// sources stay discoverable regardless of the query.
type keywordStrategy struct {
	store  ports.DatasetStore
	logger *zap.Logger
}

func (s *keywordStrategy) Tag() Tag { return TagKeyword }

func (s *keywordStrategy) Produce(ctx context.Context, seed Seed) ([]Recommendation, error) {
	recs := make([]Recommendation, 0)

	// The two fetches degrade independently: losing one must not drop the
	// other's candidates.
	if seed.Query != nil && len(seed.Query.Keywords) > 0 {
		keywords := seed.Query.Keywords
		candidates, err := s.store.FindByKeywords(ctx, keywords, keywordCandidateLimit)
		if err != nil {
			s.logger.Warn("keyword fetch failed", zap.Error(err))
		} else {
			for _, cand := range candidates {
				matched := matchedKeywords(keywords, cand.Keywords())
				if len(matched) == 0 {
					continue
				}
				recs = append(recs, Recommendation{
					Dataset:  cand,
					Score:    keywordBaseScore + keywordMatchBonus*float64(len(matched)),
					Reason:   fmt.Sprintf("Matches keywords: %s", strings.Join(matched, ", ")),
					Strategy: TagKeyword,
				})
			}
		}
	}

	apiDatasets, err := s.store.FindAPIAccessible(ctx, apiBoostLimit)
	if err != nil {
		s.logger.Warn("api-accessible fetch failed", zap.Error(err))
	} else {
		for _, cand := range apiDatasets {
			recs = append(recs, Recommendation{
				Dataset:  cand,
				Score:    apiBoostScore,
				Reason:   apiBoostReason,
				Strategy: TagKeyword,
			})
		}
	}

	return recs, nil
}

// matchedKeywords returns the seed keywords that have a mutual-substring
// match against the candidate's keyword set.
func matchedKeywords(seedKeywords, candidateKeywords []string) []string {
	matched := make([]string, 0, len(seedKeywords))
	for _, kw := range seedKeywords {
		lkw := strings.ToLower(kw)
		if lkw == "" {
			continue
		}
		for _, ckw := range candidateKeywords {
			ckw = strings.ToLower(ckw)
			if strings.Contains(ckw, lkw) || strings.Contains(lkw, ckw) {
				matched = append(matched, kw)
				break
			}
		}
	}
	return matched
}

// trendingStrategy recommends the most recently updated datasets, scored by
// how connected they are.
type trendingStrategy struct {
	store  ports.DatasetStore
	logger *zap.Logger
}

func (s *trendingStrategy) Tag() Tag { return TagTrending }

func (s *trendingStrategy) Produce(ctx context.Context, _ Seed) ([]Recommendation, error) {
	candidates, err := s.store.FindRecentlyUpdated(ctx, trendingCandidateLimit)
	if err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0, len(candidates))
	for _, cand := range candidates {
		recs = append(recs, Recommendation{
			Dataset:  cand,
			Score:    trendingScoreFactor * float64(cand.RelationCount()),
			Reason:   trendingReason,
			Strategy: TagTrending,
		})
	}
	return recs, nil
}

// complementaryStrategy recommends the union of direct relations of a set of
// datasets, excluding the seeds themselves. Used for "datasets that go well
// with your selection".
type complementaryStrategy struct {
	related *relatedStrategy
	logger  *zap.Logger
}

func (s *complementaryStrategy) Tag() Tag { return TagRelated }

func (s *complementaryStrategy) Produce(ctx context.Context, seed Seed) ([]Recommendation, error) {
	if len(seed.IDs) == 0 {
		return nil, nil
	}

	seedSet := make(map[string]bool, len(seed.IDs))
	for _, id := range seed.IDs {
		seedSet[id.String()] = true
	}

	recs := make([]Recommendation, 0)
	for _, id := range seed.IDs {
		perSeed, err := s.related.forDataset(ctx, id, complementaryPerSeed)
		if err != nil {
			// One unreachable seed must not sink the rest of the set.
			s.logger.Warn("complementary seed fetch failed",
				zap.String("datasetID", id.String()),
				zap.Error(err),
			)
			continue
		}
		for _, rec := range perSeed {
			if seedSet[rec.Dataset.ID().String()] {
				continue
			}
			recs = append(recs, rec)
			if len(recs) >= complementaryTotalLimit {
				return recs, nil
			}
		}
	}
	return recs, nil
}
