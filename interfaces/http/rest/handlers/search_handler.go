package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"datascout-backend/application/queries"
	querybus "datascout-backend/application/queries/bus"
	"datascout-backend/pkg/common"
)

// SearchHandler handles dataset search requests
type SearchHandler struct {
	queryBus *querybus.QueryBus
	logger   *zap.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(queryBus *querybus.QueryBus, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		queryBus: queryBus,
		logger:   logger,
	}
}

// Search handles GET /search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := queries.SearchDatasetsQuery{
		Text:   r.URL.Query().Get("q"),
		Domain: r.URL.Query().Get("domain"),
		Agency: r.URL.Query().Get("agency"),
		Limit:  parseLimit(r),
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Warn("Search failed",
			zap.String("text", query.Text),
			zap.Error(err),
		)
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// parseLimit reads the limit query parameter, zero when absent or malformed
func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
