package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"datascout-backend/application/ports"
	"datascout-backend/domain/core/entities"
	"datascout-backend/domain/core/valueobjects"
	"datascout-backend/domain/services"
	"datascout-backend/infrastructure/persistence/memory"
)

func fixtureDataset(id, name, description string, domains, keywords, tags []string, agency entities.Agency, access entities.Accessibility, incoming, outgoing int) *entities.Dataset {
	return entities.ReconstructDataset(
		valueobjects.MustDatasetID(id),
		name,
		description,
		keywords,
		domains,
		tags,
		agency,
		access,
		incoming,
		outgoing,
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	)
}

func searchFixture() *memory.DatasetStore {
	store := memory.NewDatasetStore()

	aihw := entities.Agency{ID: "aihw", Code: "AIHW", Name: "Australian Institute of Health and Welfare"}
	abs := entities.Agency{ID: "abs", Code: "ABS", Name: "Australian Bureau of Statistics"}
	edu := entities.Agency{ID: "edu-dept", Code: "DOE", Name: "Department of Education"}

	store.AddDataset(fixtureDataset("hospital-admissions",
		"Hospital Admissions",
		"Annual hospital admissions by state and territory",
		[]string{"health"}, []string{"hospital", "admissions"}, []string{"annual"},
		aihw, entities.AccessPublic, 2, 0))

	store.AddDataset(fixtureDataset("hospital-funding",
		"Hospital Funding",
		"Recurrent expenditure on public hospitals",
		[]string{"health"}, []string{"hospital", "funding"}, nil,
		aihw, entities.AccessPublic, 0, 0))

	store.AddDataset(fixtureDataset("school-funding",
		"School Funding",
		"Commonwealth and state school funding",
		[]string{"education"}, []string{"school", "funding"}, nil,
		edu, entities.AccessPublic, 0, 0))

	store.AddDataset(fixtureDataset("labour-force",
		"Labour Force Survey",
		"Monthly employment and unemployment estimates",
		[]string{"labour"}, []string{"employment", "unemployment"}, []string{"monthly"},
		abs, entities.AccessAPI, 1, 1))

	return store
}

func newSearchHandler(store ports.DatasetStore) *SearchDatasetsHandler {
	return NewSearchDatasetsHandler(services.NewInterpreter(), store, zap.NewNop())
}

func TestSearchDatasetsQueryValidate(t *testing.T) {
	t.Run("requires text", func(t *testing.T) {
		assert.Error(t, SearchDatasetsQuery{}.Validate())
		assert.Error(t, SearchDatasetsQuery{Text: "   "}.Validate())
	})

	t.Run("rejects unknown domain filter", func(t *testing.T) {
		q := SearchDatasetsQuery{Text: "hospitals", Domain: "astrology"}
		assert.Error(t, q.Validate())
	})

	t.Run("accepts known domain filter", func(t *testing.T) {
		q := SearchDatasetsQuery{Text: "hospitals", Domain: "health"}
		assert.NoError(t, q.Validate())
	})
}

func TestSearchDatasetsHandle(t *testing.T) {
	handler := newSearchHandler(searchFixture())

	result, err := handler.Handle(context.Background(), SearchDatasetsQuery{Text: "hospital admissions"})
	require.NoError(t, err)
	require.NotEmpty(t, result.Results)

	// Name, description and both keywords match the admissions dataset; the
	// funding dataset only matches partially and must rank below it.
	assert.Equal(t, "hospital-admissions", result.Results[0].Dataset.ID)
	assert.Positive(t, result.Results[0].Score)
	for i := 1; i < len(result.Results); i++ {
		assert.GreaterOrEqual(t, result.Results[i-1].Score, result.Results[i].Score)
	}

	assert.Equal(t, len(result.Results), result.Total)
	assert.Equal(t, "hospital admissions", result.Query.OriginalText)
	assert.Contains(t, result.Query.Keywords, "hospital")
}

func TestSearchDatasetsDomainFilter(t *testing.T) {
	handler := newSearchHandler(searchFixture())

	result, err := handler.Handle(context.Background(), SearchDatasetsQuery{
		Text:   "funding",
		Domain: "education",
	})
	require.NoError(t, err)

	require.Len(t, result.Results, 1)
	assert.Equal(t, "school-funding", result.Results[0].Dataset.ID)
}

func TestSearchDatasetsAgencyFilter(t *testing.T) {
	handler := newSearchHandler(searchFixture())

	result, err := handler.Handle(context.Background(), SearchDatasetsQuery{
		Text:   "funding",
		Agency: "aihw",
	})
	require.NoError(t, err)

	require.Len(t, result.Results, 1)
	assert.Equal(t, "hospital-funding", result.Results[0].Dataset.ID)
}

func TestSearchDatasetsLimit(t *testing.T) {
	handler := newSearchHandler(searchFixture())

	result, err := handler.Handle(context.Background(), SearchDatasetsQuery{
		Text:  "hospital",
		Limit: 1,
	})
	require.NoError(t, err)

	assert.Len(t, result.Results, 1)
	assert.Equal(t, 1, result.Total)
}

func TestSearchDatasetsNoMatches(t *testing.T) {
	handler := newSearchHandler(searchFixture())

	result, err := handler.Handle(context.Background(), SearchDatasetsQuery{Text: "volcanology"})
	require.NoError(t, err)

	assert.Empty(t, result.Results)
	assert.Zero(t, result.Total)
	assert.Equal(t, "volcanology", result.Query.OriginalText)
}

// textMatchFailStore simulates a catalog outage on the candidate fetch.
type textMatchFailStore struct {
	*memory.DatasetStore
}

func (s *textMatchFailStore) FindByTextMatch(ctx context.Context, terms []string, filter ports.SearchFilter) ([]*entities.Dataset, error) {
	return nil, errors.New("catalog unavailable")
}

func TestSearchDatasetsStoreFailureDegrades(t *testing.T) {
	handler := newSearchHandler(&textMatchFailStore{DatasetStore: searchFixture()})

	result, err := handler.Handle(context.Background(), SearchDatasetsQuery{Text: "hospital admissions"})
	require.NoError(t, err)

	// The caller still gets the interpreted query with an empty result list.
	assert.Empty(t, result.Results)
	assert.Zero(t, result.Total)
	assert.Contains(t, result.Query.Keywords, "hospital")
}
