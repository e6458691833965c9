package recommendations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"datascout-backend/domain/core/entities"
	"datascout-backend/domain/core/valueobjects"
	"datascout-backend/domain/services"
	"datascout-backend/infrastructure/persistence/memory"
)

func catalogDataset(id, name string, domains, keywords, tags []string, agency entities.Agency, access entities.Accessibility, incoming, outgoing int, updated time.Time) *entities.Dataset {
	return entities.ReconstructDataset(
		valueobjects.MustDatasetID(id),
		name,
		"",
		keywords,
		domains,
		tags,
		agency,
		access,
		incoming,
		outgoing,
		updated,
	)
}

// seedCatalog builds a small aged-care corner of the catalog:
//
//	aged-care-services --feeds-into--> aged-care-workforce --depends-on--> live-occupancy
//	retirement-villages --related-to--> aged-care-services
func seedCatalog() *memory.DatasetStore {
	store := memory.NewDatasetStore()

	health := entities.Agency{ID: "health-dept", Code: "DOH", Name: "Department of Health"}
	housing := entities.Agency{ID: "housing-dept", Code: "DOH2", Name: "Department of Housing"}

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	store.AddDataset(catalogDataset("aged-care-services", "Aged Care Services",
		[]string{"ageing", "health"}, []string{"aged", "care", "services"}, []string{"community"},
		health, entities.AccessPublic, 1, 1, base))

	store.AddDataset(catalogDataset("aged-care-workforce", "Aged Care Workforce",
		[]string{"ageing", "labour"}, []string{"aged", "care", "workforce"}, nil,
		health, entities.AccessAPI, 2, 1, base.Add(3*time.Hour)))

	store.AddDataset(catalogDataset("retirement-villages", "Retirement Villages",
		[]string{"ageing"}, []string{"retirement", "seniors"}, []string{"community"},
		housing, entities.AccessPublic, 0, 1, base.Add(time.Hour)))

	store.AddDataset(catalogDataset("live-occupancy", "Live Occupancy Feed",
		[]string{"health"}, []string{"occupancy"}, nil,
		health, entities.AccessAPI, 1, 0, base.Add(2*time.Hour)))

	store.AddRelation(&entities.DatasetRelation{
		ID:          "rel-1",
		SourceID:    valueobjects.MustDatasetID("aged-care-services"),
		TargetID:    valueobjects.MustDatasetID("aged-care-workforce"),
		Kind:        entities.RelationFeedsInto,
		Description: "Workforce planning input",
	})
	store.AddRelation(&entities.DatasetRelation{
		ID:       "rel-2",
		SourceID: valueobjects.MustDatasetID("retirement-villages"),
		TargetID: valueobjects.MustDatasetID("aged-care-services"),
		Kind:     entities.RelationRelatedTo,
	})
	store.AddRelation(&entities.DatasetRelation{
		ID:          "rel-3",
		SourceID:    valueobjects.MustDatasetID("aged-care-workforce"),
		TargetID:    valueobjects.MustDatasetID("live-occupancy"),
		Kind:        entities.RelationDependsOn,
		Description: "Occupancy source feed",
	})

	return store
}

func newTestEngine(store *memory.DatasetStore) *Engine {
	return NewEngine(store, zap.NewNop(), time.Second)
}

func TestEngineRelated(t *testing.T) {
	engine := newTestEngine(seedCatalog())

	recs, err := engine.Related(context.Background(), valueobjects.MustDatasetID("aged-care-services"), 10)
	require.NoError(t, err)
	require.NotEmpty(t, recs)

	// Directly related datasets outrank everything else.
	top := recs[0]
	assert.Equal(t, 1.0, top.Score)
	assert.Equal(t, TagRelated, top.Strategy)
	assert.Equal(t, "feeds-into: Workforce planning input", top.Reason)
	assert.Equal(t, "aged-care-workforce", top.Dataset.ID().String())

	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Score, recs[i].Score)
	}
	for _, r := range recs {
		assert.NotEqual(t, "aged-care-services", r.Dataset.ID().String())
	}
}

func TestEngineRelatedMissingDescription(t *testing.T) {
	engine := newTestEngine(seedCatalog())

	recs, err := engine.Related(context.Background(), valueobjects.MustDatasetID("retirement-villages"), 10)
	require.NoError(t, err)
	require.NotEmpty(t, recs)

	assert.Equal(t, "related-to: Direct relationship", recs[0].Reason)
}

func TestEngineRelatedUnknownSeed(t *testing.T) {
	engine := newTestEngine(seedCatalog())

	_, err := engine.Related(context.Background(), valueobjects.MustDatasetID("missing"), 10)
	assert.Error(t, err)
}

func TestEngineRelatedDeduplicates(t *testing.T) {
	engine := newTestEngine(seedCatalog())

	recs, err := engine.Related(context.Background(), valueobjects.MustDatasetID("aged-care-services"), 10)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, r := range recs {
		id := r.Dataset.ID().String()
		assert.False(t, seen[id], "dataset %s recommended twice", id)
		seen[id] = true
	}

	// The workforce dataset is reachable via relation, domain and agency;
	// the direct relation's score and reason must win.
	assert.Equal(t, 1.0, recs[0].Score)
}

func TestEngineForSearch(t *testing.T) {
	engine := newTestEngine(seedCatalog())

	query := services.StructuredQuery{
		OriginalText: "aged care",
		Keywords:     []string{"aged", "care"},
		Domains:      []valueobjects.Domain{valueobjects.DomainAgeing},
		Intent:       services.IntentSearch,
		Confidence:   0.8,
	}

	recs := engine.ForSearch(context.Background(), query, 10)
	require.NotEmpty(t, recs)

	byID := make(map[string]Recommendation)
	for _, r := range recs {
		byID[r.Dataset.ID().String()] = r
	}

	// Domain context matches score a flat 0.7.
	domainRec, ok := byID["retirement-villages"]
	require.True(t, ok)
	assert.InDelta(t, 0.7, domainRec.Score, 1e-9)
	assert.Equal(t, "Matches the ageing domain of your search", domainRec.Reason)

	// An API-accessible dataset outside the domain and keywords still
	// surfaces through the live-data boost.
	apiRec, ok := byID["live-occupancy"]
	require.True(t, ok)
	assert.InDelta(t, 0.6, apiRec.Score, 1e-9)
	assert.Equal(t, "Live data available", apiRec.Reason)

	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Score, recs[i].Score)
	}
}

func TestEngineTrending(t *testing.T) {
	engine := newTestEngine(seedCatalog())

	recs := engine.Trending(context.Background(), 10)
	require.NotEmpty(t, recs)

	// Scored by connectivity: the workforce dataset carries 3 relations.
	assert.Equal(t, "aged-care-workforce", recs[0].Dataset.ID().String())
	assert.InDelta(t, 30.0, recs[0].Score, 1e-9)
	assert.Equal(t, "Trending dataset based on relationships", recs[0].Reason)
	assert.Equal(t, TagTrending, recs[0].Strategy)
}

func TestEngineComplementary(t *testing.T) {
	engine := newTestEngine(seedCatalog())

	seedIDs := []valueobjects.DatasetID{
		valueobjects.MustDatasetID("aged-care-services"),
		valueobjects.MustDatasetID("aged-care-workforce"),
	}

	recs, err := engine.Complementary(context.Background(), seedIDs, 10)
	require.NoError(t, err)

	got := make([]string, 0, len(recs))
	for _, r := range recs {
		// Seeds never appear in their own complement.
		assert.NotEqual(t, "aged-care-services", r.Dataset.ID().String())
		assert.NotEqual(t, "aged-care-workforce", r.Dataset.ID().String())
		got = append(got, r.Dataset.ID().String())
	}

	assert.ElementsMatch(t, []string{"retirement-villages", "live-occupancy"}, got)
}

func TestEngineComplementaryRequiresSeeds(t *testing.T) {
	engine := newTestEngine(seedCatalog())

	_, err := engine.Complementary(context.Background(), nil, 10)
	assert.Error(t, err)
}

// failingStore wraps the in-memory store and fails selected operations.
type failingStore struct {
	*memory.DatasetStore
	failDomain bool
	failAgency bool
	blockAll   bool
}

func (s *failingStore) FindByDomain(ctx context.Context, domain string, excludeID valueobjects.DatasetID, limit int) ([]*entities.Dataset, error) {
	if s.failDomain {
		return nil, errors.New("domain index offline")
	}
	return s.DatasetStore.FindByDomain(ctx, domain, excludeID, limit)
}

func (s *failingStore) FindByAgency(ctx context.Context, agencyID string, excludeID valueobjects.DatasetID, limit int) ([]*entities.Dataset, error) {
	if s.failAgency {
		return nil, errors.New("agency index offline")
	}
	return s.DatasetStore.FindByAgency(ctx, agencyID, excludeID, limit)
}

func (s *failingStore) GetRelations(ctx context.Context, id valueobjects.DatasetID) ([]*entities.DatasetRelation, error) {
	if s.blockAll {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.DatasetStore.GetRelations(ctx, id)
}

func TestEngineStrategyFailureIsolation(t *testing.T) {
	store := &failingStore{
		DatasetStore: seedCatalog(),
		failDomain:   true,
		failAgency:   true,
	}
	engine := NewEngine(store, zap.NewNop(), time.Second)

	recs, err := engine.Related(context.Background(), valueobjects.MustDatasetID("aged-care-services"), 10)
	require.NoError(t, err)

	// Only the direct-relation strategy survives, and it still delivers.
	require.NotEmpty(t, recs)
	for _, r := range recs {
		assert.Equal(t, TagRelated, r.Strategy)
	}
}

func TestEngineStrategyTimeout(t *testing.T) {
	store := &failingStore{
		DatasetStore: seedCatalog(),
		blockAll:     true,
	}
	engine := NewEngine(store, zap.NewNop(), 20*time.Millisecond)

	start := time.Now()
	recs, err := engine.Related(context.Background(), valueobjects.MustDatasetID("aged-care-services"), 10)
	require.NoError(t, err)

	// The blocked relation lookup times out; domain and agency results
	// still come back promptly.
	assert.Less(t, time.Since(start), time.Second)
	for _, r := range recs {
		assert.NotEqual(t, TagRelated, r.Strategy)
	}
}
