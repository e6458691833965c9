package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"datascout-backend/application/queries"
	querybus "datascout-backend/application/queries/bus"
	"datascout-backend/pkg/common"
)

// DatasetHandler handles dataset detail requests
type DatasetHandler struct {
	queryBus *querybus.QueryBus
	logger   *zap.Logger
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(queryBus *querybus.QueryBus, logger *zap.Logger) *DatasetHandler {
	return &DatasetHandler{
		queryBus: queryBus,
		logger:   logger,
	}
}

// GetDataset handles GET /datasets/{datasetID}
func (h *DatasetHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	query := queries.GetDatasetQuery{
		ID: chi.URLParam(r, "datasetID"),
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// GetRelated handles GET /datasets/{datasetID}/related
func (h *DatasetHandler) GetRelated(w http.ResponseWriter, r *http.Request) {
	query := queries.RecommendDatasetsQuery{
		Kind:      queries.KindRelated,
		DatasetID: chi.URLParam(r, "datasetID"),
		Limit:     parseLimit(r),
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Warn("Related lookup failed",
			zap.String("datasetID", query.DatasetID),
			zap.Error(err),
		)
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
