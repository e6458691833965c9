package recommendations

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"datascout-backend/application/ports"
	"datascout-backend/domain/core/valueobjects"
	"datascout-backend/domain/services"
	pkgerrors "datascout-backend/pkg/errors"
)

// DefaultStrategyTimeout bounds each strategy's store access when the
// config does not override it.
const DefaultStrategyTimeout = 2 * time.Second

// Engine runs recommendation strategies and merges their output. Strategies
// are independent read-only branches: they fan out concurrently, each under
// its own timeout, and a strategy that fails or times out degrades to an
// empty candidate list without disturbing the others. The engine holds no
// state beyond its collaborators and is safe for concurrent use.
type Engine struct {
	store   ports.DatasetStore
	logger  *zap.Logger
	timeout time.Duration

	related       *relatedStrategy
	domain        *domainStrategy
	agency        *agencyStrategy
	keyword       *keywordStrategy
	trending      *trendingStrategy
	complementary *complementaryStrategy
}

// NewEngine creates a recommendation engine. A non-positive timeout falls
// back to DefaultStrategyTimeout.
func NewEngine(store ports.DatasetStore, logger *zap.Logger, timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = DefaultStrategyTimeout
	}

	related := &relatedStrategy{store: store, logger: logger}
	return &Engine{
		store:         store,
		logger:        logger,
		timeout:       timeout,
		related:       related,
		domain:        &domainStrategy{store: store, logger: logger},
		agency:        &agencyStrategy{store: store, logger: logger},
		keyword:       &keywordStrategy{store: store, logger: logger},
		trending:      &trendingStrategy{store: store, logger: logger},
		complementary: &complementaryStrategy{related: related, logger: logger},
	}
}

// Related recommends datasets connected to one seed dataset: its direct
// relations, datasets in its primary domain, and other datasets from its
// agency, merged. A missing seed dataset is surfaced to the caller.
func (e *Engine) Related(ctx context.Context, id valueobjects.DatasetID, limit int) ([]Recommendation, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("dataset ID is required for related recommendations")
	}

	dataset, err := e.store.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to load seed dataset")
	}

	seed := Seed{Dataset: dataset}
	return e.run(ctx, seed, limit, e.related, e.domain, e.agency), nil
}

// ForSearch recommends datasets for a search context: domain matches for
// the query's primary domain plus keyword matches with the API-accessibility
// boost.
func (e *Engine) ForSearch(ctx context.Context, query services.StructuredQuery, limit int) []Recommendation {
	seed := Seed{Query: &query}
	return e.run(ctx, seed, limit, e.domain, e.keyword)
}

// Trending recommends the most recently updated, most connected datasets.
func (e *Engine) Trending(ctx context.Context, limit int) []Recommendation {
	return e.run(ctx, Seed{}, limit, e.trending)
}

// Complementary recommends datasets related to any of the given seed ids,
// never including the seeds themselves.
func (e *Engine) Complementary(ctx context.Context, ids []valueobjects.DatasetID, limit int) ([]Recommendation, error) {
	if len(ids) == 0 {
		return nil, pkgerrors.NewValidationError("at least one dataset ID is required for complementary recommendations")
	}
	return e.run(ctx, Seed{IDs: ids}, limit, e.complementary), nil
}

// run fans the strategies out concurrently, each bounded by the engine
// timeout, and merges whatever survives. Output slots are indexed by
// strategy so merge order stays deterministic regardless of completion
// order.
func (e *Engine) run(ctx context.Context, seed Seed, limit int, strategies ...Strategy) []Recommendation {
	results := make([][]Recommendation, len(strategies))

	var wg sync.WaitGroup
	for i, strategy := range strategies {
		wg.Add(1)
		go func(i int, strategy Strategy) {
			defer wg.Done()

			strategyCtx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()

			recs, err := strategy.Produce(strategyCtx, seed)
			if err != nil {
				e.logger.Warn("recommendation strategy degraded to empty result",
					zap.String("strategy", string(strategy.Tag())),
					zap.Error(err),
				)
				return
			}
			results[i] = recs
		}(i, strategy)
	}
	wg.Wait()

	return Merge(results, limit)
}
