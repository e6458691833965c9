package queries

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"datascout-backend/application/recommendations"
	"datascout-backend/domain/core/entities"
	"datascout-backend/domain/core/valueobjects"
	"datascout-backend/domain/services"
	"datascout-backend/infrastructure/persistence/memory"
)

func recommendFixture() *memory.DatasetStore {
	store := searchFixture()
	store.AddRelation(&entities.DatasetRelation{
		ID:          "rel-1",
		SourceID:    valueobjects.MustDatasetID("hospital-admissions"),
		TargetID:    valueobjects.MustDatasetID("hospital-funding"),
		Kind:        entities.RelationFeedsInto,
		Description: "Admissions drive funding allocations",
	})
	return store
}

func newRecommendHandler(store *memory.DatasetStore) *RecommendDatasetsHandler {
	engine := recommendations.NewEngine(store, zap.NewNop(), time.Second)
	return NewRecommendDatasetsHandler(engine, services.NewInterpreter(), zap.NewNop())
}

func TestRecommendDatasetsQueryValidate(t *testing.T) {
	cases := []struct {
		name    string
		query   RecommendDatasetsQuery
		wantErr bool
	}{
		{"related with dataset id", RecommendDatasetsQuery{Kind: KindRelated, DatasetID: "d1"}, false},
		{"related without dataset id", RecommendDatasetsQuery{Kind: KindRelated}, true},
		{"search with text", RecommendDatasetsQuery{Kind: KindSearch, Text: "hospitals"}, false},
		{"search without text", RecommendDatasetsQuery{Kind: KindSearch}, true},
		{"trending needs no seed", RecommendDatasetsQuery{Kind: KindTrending}, false},
		{"complementary with ids", RecommendDatasetsQuery{Kind: KindComplementary, IDs: []string{"d1"}}, false},
		{"complementary without ids", RecommendDatasetsQuery{Kind: KindComplementary}, true},
		{"missing kind", RecommendDatasetsQuery{}, true},
		{"unknown kind", RecommendDatasetsQuery{Kind: "popular"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.query.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecommendDatasetsRelated(t *testing.T) {
	handler := newRecommendHandler(recommendFixture())

	result, err := handler.Handle(context.Background(), RecommendDatasetsQuery{
		Kind:      KindRelated,
		DatasetID: "hospital-admissions",
	})
	require.NoError(t, err)

	assert.Equal(t, KindRelated, result.Kind)
	require.NotEmpty(t, result.Recommendations)
	assert.Equal(t, len(result.Recommendations), result.Total)

	top := result.Recommendations[0]
	assert.Equal(t, "hospital-funding", top.Dataset.ID)
	assert.Equal(t, 1.0, top.Score)
	assert.Equal(t, "feeds-into: Admissions drive funding allocations", top.Reason)
}

func TestRecommendDatasetsRelatedInvalidID(t *testing.T) {
	handler := newRecommendHandler(recommendFixture())

	_, err := handler.Handle(context.Background(), RecommendDatasetsQuery{
		Kind:      KindRelated,
		DatasetID: "not a valid id",
	})
	assert.Error(t, err)
}

func TestRecommendDatasetsRelatedUnknownID(t *testing.T) {
	handler := newRecommendHandler(recommendFixture())

	_, err := handler.Handle(context.Background(), RecommendDatasetsQuery{
		Kind:      KindRelated,
		DatasetID: "no-such-dataset",
	})
	assert.Error(t, err)
}

func TestRecommendDatasetsSearch(t *testing.T) {
	handler := newRecommendHandler(recommendFixture())

	result, err := handler.Handle(context.Background(), RecommendDatasetsQuery{
		Kind: KindSearch,
		Text: "hospital admissions",
	})
	require.NoError(t, err)

	assert.Equal(t, KindSearch, result.Kind)
	require.NotEmpty(t, result.Recommendations)
	for i := 1; i < len(result.Recommendations); i++ {
		assert.GreaterOrEqual(t, result.Recommendations[i-1].Score, result.Recommendations[i].Score)
	}
}

func TestRecommendDatasetsTrending(t *testing.T) {
	handler := newRecommendHandler(recommendFixture())

	result, err := handler.Handle(context.Background(), RecommendDatasetsQuery{Kind: KindTrending})
	require.NoError(t, err)

	assert.Equal(t, KindTrending, result.Kind)
	require.NotEmpty(t, result.Recommendations)
	// Connectivity drives trending: the admissions dataset carries the most
	// relations in the fixture.
	assert.Equal(t, "hospital-admissions", result.Recommendations[0].Dataset.ID)
}

func TestRecommendDatasetsComplementary(t *testing.T) {
	handler := newRecommendHandler(recommendFixture())

	result, err := handler.Handle(context.Background(), RecommendDatasetsQuery{
		Kind: KindComplementary,
		IDs:  []string{"hospital-admissions"},
	})
	require.NoError(t, err)

	require.NotEmpty(t, result.Recommendations)
	for _, rec := range result.Recommendations {
		assert.NotEqual(t, "hospital-admissions", rec.Dataset.ID)
	}
}

func TestRecommendDatasetsComplementaryInvalidID(t *testing.T) {
	handler := newRecommendHandler(recommendFixture())

	_, err := handler.Handle(context.Background(), RecommendDatasetsQuery{
		Kind: KindComplementary,
		IDs:  []string{"hospital-admissions", "bad id"},
	})
	assert.Error(t, err)
}
