package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"datascout-backend/application/queries"
	querybus "datascout-backend/application/queries/bus"
	"datascout-backend/pkg/common"
	pkgerrors "datascout-backend/pkg/errors"
	"datascout-backend/pkg/utils"
)

// RecommendationHandler handles recommendation requests
type RecommendationHandler struct {
	queryBus *querybus.QueryBus
	logger   *zap.Logger
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(queryBus *querybus.QueryBus, logger *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		queryBus: queryBus,
		logger:   logger,
	}
}

// RecommendRequest represents the request body for recommendations
type RecommendRequest struct {
	Kind      string   `json:"kind" validate:"required,oneof=related search trending complementary"`
	DatasetID string   `json:"dataset_id,omitempty"`
	Text      string   `json:"text,omitempty" validate:"omitempty,max=500"`
	IDs       []string `json:"ids,omitempty" validate:"omitempty,max=20,dive,max=100"`
	Limit     int      `json:"limit,omitempty" validate:"omitempty,min=1,max=50"`
}

// Recommend handles POST /recommendations
func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondAppError(w, pkgerrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondAppError(w, pkgerrors.NewValidationError(err.Error()))
		return
	}

	query := queries.RecommendDatasetsQuery{
		Kind:      queries.RecommendationKind(req.Kind),
		DatasetID: req.DatasetID,
		Text:      req.Text,
		IDs:       req.IDs,
		Limit:     req.Limit,
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Warn("Recommendation failed",
			zap.String("kind", req.Kind),
			zap.Error(err),
		)
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// Trending handles GET /recommendations/trending
func (h *RecommendationHandler) Trending(w http.ResponseWriter, r *http.Request) {
	query := queries.RecommendDatasetsQuery{
		Kind:  queries.KindTrending,
		Limit: parseLimit(r),
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
