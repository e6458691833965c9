package ports

import (
	"context"

	"datascout-backend/domain/core/entities"
	"datascout-backend/domain/core/valueobjects"
)

// SearchFilter narrows text-match candidates. Zero values mean no filter.
type SearchFilter struct {
	Domain   string
	AgencyID string
	Limit    int
}

// DatasetStore is the read-only port to the catalog. This is the core's
// single external collaborator; transport and schema are the
// implementation's concern. Implementations own deserialization: a dataset
// with a malformed stored field arrives here with that field as an empty
// set, never as an error.
type DatasetStore interface {
	// FindByTextMatch returns candidates whose name, description, keywords,
	// tags or domains contain any of the given terms.
	FindByTextMatch(ctx context.Context, terms []string, filter SearchFilter) ([]*entities.Dataset, error)

	// FindByID retrieves a single dataset. Missing datasets are a not-found
	// error, not a nil result.
	FindByID(ctx context.Context, id valueobjects.DatasetID) (*entities.Dataset, error)

	// FindByDomain returns datasets tagged with the domain, excluding
	// excludeID when set.
	FindByDomain(ctx context.Context, domain string, excludeID valueobjects.DatasetID, limit int) ([]*entities.Dataset, error)

	// FindByAgency returns datasets owned by the agency, excluding excludeID
	// when set.
	FindByAgency(ctx context.Context, agencyID string, excludeID valueobjects.DatasetID, limit int) ([]*entities.Dataset, error)

	// FindByKeywords returns datasets whose keyword set intersects any of
	// the given keywords (OR semantics).
	FindByKeywords(ctx context.Context, keywords []string, limit int) ([]*entities.Dataset, error)

	// FindAPIAccessible returns datasets served through a live API.
	FindAPIAccessible(ctx context.Context, limit int) ([]*entities.Dataset, error)

	// FindRecentlyUpdated returns the most recently updated datasets, newest
	// first, with relation counts attached.
	FindRecentlyUpdated(ctx context.Context, limit int) ([]*entities.Dataset, error)

	// GetRelations returns every relation touching the dataset, both
	// directions.
	GetRelations(ctx context.Context, id valueobjects.DatasetID) ([]*entities.DatasetRelation, error)
}

// Cache is the generic cache port used by the query bus middleware. The
// scoring core itself holds no caches; this lives strictly outside it.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttl int) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
