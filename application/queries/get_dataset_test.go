package queries

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"datascout-backend/domain/core/entities"
	"datascout-backend/domain/core/valueobjects"
	"datascout-backend/infrastructure/persistence/memory"
)

func TestGetDatasetQueryValidate(t *testing.T) {
	assert.Error(t, GetDatasetQuery{}.Validate())
	assert.NoError(t, GetDatasetQuery{ID: "d1"}.Validate())
}

func TestGetDatasetHandle(t *testing.T) {
	store := recommendFixture()
	handler := NewGetDatasetHandler(store, zap.NewNop())

	result, err := handler.Handle(context.Background(), GetDatasetQuery{ID: "hospital-admissions"})
	require.NoError(t, err)

	assert.Equal(t, "hospital-admissions", result.Dataset.ID)
	assert.Equal(t, "Hospital Admissions", result.Dataset.Name)
	assert.Equal(t, "aihw", result.Dataset.Agency.ID)

	require.Len(t, result.Relations, 1)
	assert.Equal(t, "rel-1", result.Relations[0].ID)
	assert.Equal(t, "feeds-into", result.Relations[0].Kind)
}

func TestGetDatasetHandleNotFound(t *testing.T) {
	handler := NewGetDatasetHandler(recommendFixture(), zap.NewNop())

	_, err := handler.Handle(context.Background(), GetDatasetQuery{ID: "no-such-dataset"})
	assert.Error(t, err)
}

func TestGetDatasetHandleInvalidID(t *testing.T) {
	handler := NewGetDatasetHandler(recommendFixture(), zap.NewNop())

	_, err := handler.Handle(context.Background(), GetDatasetQuery{ID: "not a valid id"})
	assert.Error(t, err)
}

// relationsFailStore simulates a partial outage on the relation lookup.
type relationsFailStore struct {
	*memory.DatasetStore
}

func (s *relationsFailStore) GetRelations(ctx context.Context, id valueobjects.DatasetID) ([]*entities.DatasetRelation, error) {
	return nil, errors.New("relation index unavailable")
}

func TestGetDatasetHandleRelationFailureDegrades(t *testing.T) {
	handler := NewGetDatasetHandler(&relationsFailStore{DatasetStore: recommendFixture()}, zap.NewNop())

	result, err := handler.Handle(context.Background(), GetDatasetQuery{ID: "hospital-admissions"})
	require.NoError(t, err)

	// The detail view survives without its relation list.
	assert.Equal(t, "hospital-admissions", result.Dataset.ID)
	assert.Empty(t, result.Relations)
}
