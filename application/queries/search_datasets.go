package queries

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"datascout-backend/application/ports"
	"datascout-backend/domain/core/valueobjects"
	"datascout-backend/domain/services"
	pkgerrors "datascout-backend/pkg/errors"
)

// DefaultSearchLimit caps search result lists when the caller does not
// supply a limit.
const DefaultSearchLimit = 20

// SearchDatasetsQuery represents a free-text dataset search.
type SearchDatasetsQuery struct {
	Text   string `json:"text"`
	Domain string `json:"domain,omitempty"`
	Agency string `json:"agency,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// Validate validates the query
func (q SearchDatasetsQuery) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return pkgerrors.NewValidationError("search text is required")
	}
	if q.Domain != "" && !valueobjects.IsKnownDomain(q.Domain) {
		return pkgerrors.NewValidationError("unknown domain filter: " + q.Domain)
	}
	return nil
}

// SearchDatasetsResult represents the search outcome: the interpreted query
// plus relevance-ranked results.
type SearchDatasetsResult struct {
	Query   StructuredQueryDTO `json:"query"`
	Results []ScoredDatasetDTO `json:"results"`
	Total   int                `json:"total"`
}

// SearchDatasetsHandler interprets the text, fetches candidates using the
// interpreter's keyword and domain hints, and ranks them.
type SearchDatasetsHandler struct {
	interpreter *services.Interpreter
	store       ports.DatasetStore
	logger      *zap.Logger
}

// NewSearchDatasetsHandler creates a new handler instance
func NewSearchDatasetsHandler(interpreter *services.Interpreter, store ports.DatasetStore, logger *zap.Logger) *SearchDatasetsHandler {
	return &SearchDatasetsHandler{
		interpreter: interpreter,
		store:       store,
		logger:      logger,
	}
}

// Handle executes the search query
func (h *SearchDatasetsHandler) Handle(ctx context.Context, query SearchDatasetsQuery) (*SearchDatasetsResult, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	structured := h.interpreter.Interpret(query.Text)

	terms := structured.CandidateTerms()
	if len(terms) == 0 {
		// Every token was a stop word or too short; match on the raw text.
		terms = []string{strings.ToLower(strings.TrimSpace(query.Text))}
	}

	candidates, err := h.store.FindByTextMatch(ctx, terms, ports.SearchFilter{
		Domain:   query.Domain,
		AgencyID: query.Agency,
		Limit:    limit * 2, // over-fetch so ranking has room to reorder
	})
	if err != nil {
		// A store failure degrades to an empty result list, never a failed
		// request: the caller still gets the interpreted query.
		h.logger.Warn("candidate fetch failed, returning empty results",
			zap.String("text", query.Text),
			zap.Error(err),
		)
		candidates = nil
	}

	ranked := services.RankByRelevance(candidates, query.Text, structured.Keywords)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	results := make([]ScoredDatasetDTO, 0, len(ranked))
	for _, r := range ranked {
		results = append(results, ScoredDatasetDTO{
			Dataset: toDatasetDTO(r.Dataset),
			Score:   r.Score,
		})
	}

	return &SearchDatasetsResult{
		Query:   toStructuredQueryDTO(structured),
		Results: results,
		Total:   len(results),
	}, nil
}
