package queries

import (
	"context"

	"go.uber.org/zap"

	"datascout-backend/application/recommendations"
	"datascout-backend/domain/core/valueobjects"
	"datascout-backend/domain/services"
	pkgerrors "datascout-backend/pkg/errors"
)

// RecommendationKind selects which strategies the engine runs.
type RecommendationKind string

const (
	KindRelated       RecommendationKind = "related"
	KindSearch        RecommendationKind = "search"
	KindTrending      RecommendationKind = "trending"
	KindComplementary RecommendationKind = "complementary"
)

// RecommendDatasetsQuery represents a recommendation request. The seed
// fields required depend on Kind; Validate enforces that so invalid
// requests are rejected before any store access.
type RecommendDatasetsQuery struct {
	Kind      RecommendationKind `json:"kind"`
	DatasetID string             `json:"dataset_id,omitempty"`
	Text      string             `json:"text,omitempty"`
	IDs       []string           `json:"ids,omitempty"`
	Limit     int                `json:"limit,omitempty"`
}

// Validate validates the query
func (q RecommendDatasetsQuery) Validate() error {
	switch q.Kind {
	case KindRelated:
		if q.DatasetID == "" {
			return pkgerrors.NewValidationError("dataset_id is required for related recommendations")
		}
	case KindSearch:
		if q.Text == "" {
			return pkgerrors.NewValidationError("text is required for search recommendations")
		}
	case KindTrending:
		// No seed.
	case KindComplementary:
		if len(q.IDs) == 0 {
			return pkgerrors.NewValidationError("ids are required for complementary recommendations")
		}
	case "":
		return pkgerrors.NewValidationError("recommendation kind is required")
	default:
		return pkgerrors.NewValidationError("unknown recommendation kind: " + string(q.Kind))
	}
	return nil
}

// RecommendDatasetsResult represents the ranked recommendation list.
type RecommendDatasetsResult struct {
	Kind            RecommendationKind  `json:"kind"`
	Recommendations []RecommendationDTO `json:"recommendations"`
	Total           int                 `json:"total"`
}

// RecommendDatasetsHandler routes a recommendation request to the engine.
type RecommendDatasetsHandler struct {
	engine      *recommendations.Engine
	interpreter *services.Interpreter
	logger      *zap.Logger
}

// NewRecommendDatasetsHandler creates a new handler instance
func NewRecommendDatasetsHandler(engine *recommendations.Engine, interpreter *services.Interpreter, logger *zap.Logger) *RecommendDatasetsHandler {
	return &RecommendDatasetsHandler{
		engine:      engine,
		interpreter: interpreter,
		logger:      logger,
	}
}

// Handle executes the recommendation query
func (h *RecommendDatasetsHandler) Handle(ctx context.Context, query RecommendDatasetsQuery) (*RecommendDatasetsResult, error) {
	var (
		recs []recommendations.Recommendation
		err  error
	)

	switch query.Kind {
	case KindRelated:
		var id valueobjects.DatasetID
		id, err = valueobjects.NewDatasetIDFromString(query.DatasetID)
		if err != nil {
			return nil, pkgerrors.NewValidationError(err.Error())
		}
		recs, err = h.engine.Related(ctx, id, query.Limit)

	case KindSearch:
		structured := h.interpreter.Interpret(query.Text)
		recs = h.engine.ForSearch(ctx, structured, query.Limit)

	case KindTrending:
		recs = h.engine.Trending(ctx, query.Limit)

	case KindComplementary:
		ids := make([]valueobjects.DatasetID, 0, len(query.IDs))
		for _, raw := range query.IDs {
			id, parseErr := valueobjects.NewDatasetIDFromString(raw)
			if parseErr != nil {
				return nil, pkgerrors.NewValidationError(parseErr.Error())
			}
			ids = append(ids, id)
		}
		recs, err = h.engine.Complementary(ctx, ids, query.Limit)
	}

	if err != nil {
		return nil, err
	}

	return &RecommendDatasetsResult{
		Kind:            query.Kind,
		Recommendations: toRecommendationDTOs(recs),
		Total:           len(recs),
	}, nil
}
