package queries

import (
	"context"

	"go.uber.org/zap"

	"datascout-backend/application/ports"
	"datascout-backend/domain/core/valueobjects"
	pkgerrors "datascout-backend/pkg/errors"
)

// GetDatasetQuery retrieves one dataset with its relations.
type GetDatasetQuery struct {
	ID string `json:"id"`
}

// Validate validates the query
func (q GetDatasetQuery) Validate() error {
	if q.ID == "" {
		return pkgerrors.NewValidationError("dataset ID is required")
	}
	return nil
}

// GetDatasetResult is the dataset detail view.
type GetDatasetResult struct {
	Dataset   DatasetDTO    `json:"dataset"`
	Relations []RelationDTO `json:"relations"`
}

// GetDatasetHandler handles the GetDatasetQuery
type GetDatasetHandler struct {
	store  ports.DatasetStore
	logger *zap.Logger
}

// NewGetDatasetHandler creates a new handler instance
func NewGetDatasetHandler(store ports.DatasetStore, logger *zap.Logger) *GetDatasetHandler {
	return &GetDatasetHandler{store: store, logger: logger}
}

// Handle executes the query
func (h *GetDatasetHandler) Handle(ctx context.Context, query GetDatasetQuery) (*GetDatasetResult, error) {
	id, err := valueobjects.NewDatasetIDFromString(query.ID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	dataset, err := h.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	relations, err := h.store.GetRelations(ctx, id)
	if err != nil {
		// The detail view survives without its relation list.
		h.logger.Warn("relation fetch failed for dataset detail",
			zap.String("datasetID", id.String()),
			zap.Error(err),
		)
		relations = nil
	}

	dtos := make([]RelationDTO, 0, len(relations))
	for _, rel := range relations {
		dtos = append(dtos, toRelationDTO(rel))
	}

	return &GetDatasetResult{
		Dataset:   toDatasetDTO(dataset),
		Relations: dtos,
	}, nil
}
