package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"datascout-backend/application/ports"
	"datascout-backend/domain/core/entities"
	"datascout-backend/domain/core/valueobjects"
	pkgerrors "datascout-backend/pkg/errors"
)

// DatasetStore is an in-memory ports.DatasetStore used by tests and local
// development. Safe for concurrent use.
type DatasetStore struct {
	mu        sync.RWMutex
	datasets  map[string]*entities.Dataset
	relations []*entities.DatasetRelation
}

// NewDatasetStore creates an empty in-memory store
func NewDatasetStore() *DatasetStore {
	return &DatasetStore{
		datasets: make(map[string]*entities.Dataset),
	}
}

// AddDataset stores or replaces a dataset
func (s *DatasetStore) AddDataset(d *entities.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[d.ID().String()] = d
}

// AddRelation stores a relation
func (s *DatasetStore) AddRelation(rel *entities.DatasetRelation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relations = append(s.relations, rel)
}

// FindByID retrieves a single dataset by its identifier
func (s *DatasetStore) FindByID(ctx context.Context, id valueobjects.DatasetID) (*entities.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.datasets[id.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("dataset %s", id.String()))
	}
	return d, nil
}

// FindByTextMatch returns datasets whose searchable text contains any of the
// given terms
func (s *DatasetStore) FindByTextMatch(ctx context.Context, terms []string, filter ports.SearchFilter) ([]*entities.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]*entities.Dataset, 0)
	for _, d := range s.sorted() {
		if filter.Domain != "" && !d.HasDomain(filter.Domain) {
			continue
		}
		if filter.AgencyID != "" && d.Agency().ID != filter.AgencyID {
			continue
		}
		if !matchesAnyTerm(d, terms) {
			continue
		}
		matches = append(matches, d)
		if filter.Limit > 0 && len(matches) >= filter.Limit {
			break
		}
	}
	return matches, nil
}

// FindByDomain returns datasets tagged with the given domain
func (s *DatasetStore) FindByDomain(ctx context.Context, domain string, excludeID valueobjects.DatasetID, limit int) ([]*entities.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]*entities.Dataset, 0)
	for _, d := range s.sorted() {
		if !excludeID.IsZero() && d.ID().Equals(excludeID) {
			continue
		}
		if !d.HasDomain(domain) {
			continue
		}
		matches = append(matches, d)
		if limit > 0 && len(matches) >= limit {
			break
		}
	}
	return matches, nil
}

// FindByAgency returns datasets published by the given agency
func (s *DatasetStore) FindByAgency(ctx context.Context, agencyID string, excludeID valueobjects.DatasetID, limit int) ([]*entities.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]*entities.Dataset, 0)
	for _, d := range s.sorted() {
		if !excludeID.IsZero() && d.ID().Equals(excludeID) {
			continue
		}
		if d.Agency().ID != agencyID {
			continue
		}
		matches = append(matches, d)
		if limit > 0 && len(matches) >= limit {
			break
		}
	}
	return matches, nil
}

// FindByKeywords returns datasets whose keyword set intersects any of the
// given keywords
func (s *DatasetStore) FindByKeywords(ctx context.Context, keywords []string, limit int) ([]*entities.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]*entities.Dataset, 0)
	for _, d := range s.sorted() {
		if !keywordIntersects(d.Keywords(), keywords) {
			continue
		}
		matches = append(matches, d)
		if limit > 0 && len(matches) >= limit {
			break
		}
	}
	return matches, nil
}

// FindAPIAccessible returns datasets served through a live API
func (s *DatasetStore) FindAPIAccessible(ctx context.Context, limit int) ([]*entities.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]*entities.Dataset, 0)
	for _, d := range s.sorted() {
		if !d.IsAPIAccessible() {
			continue
		}
		matches = append(matches, d)
		if limit > 0 && len(matches) >= limit {
			break
		}
	}
	return matches, nil
}

// FindRecentlyUpdated returns the most recently updated datasets, newest
// first
func (s *DatasetStore) FindRecentlyUpdated(ctx context.Context, limit int) ([]*entities.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*entities.Dataset, 0, len(s.datasets))
	for _, d := range s.datasets {
		all = append(all, d)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].UpdatedAt().Equal(all[j].UpdatedAt()) {
			return all[i].UpdatedAt().After(all[j].UpdatedAt())
		}
		return all[i].ID().String() < all[j].ID().String()
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// GetRelations returns every relation touching the dataset, both directions
func (s *DatasetStore) GetRelations(ctx context.Context, id valueobjects.DatasetID) ([]*entities.DatasetRelation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]*entities.DatasetRelation, 0)
	for _, rel := range s.relations {
		if rel.Touches(id) {
			matches = append(matches, rel)
		}
	}
	return matches, nil
}

// sorted returns datasets in a deterministic order so limits and ranking
// ties behave the same across runs.
func (s *DatasetStore) sorted() []*entities.Dataset {
	all := make([]*entities.Dataset, 0, len(s.datasets))
	for _, d := range s.datasets {
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].ID().String() < all[j].ID().String()
	})
	return all
}

func matchesAnyTerm(d *entities.Dataset, terms []string) bool {
	var sb strings.Builder
	sb.WriteString(d.Name())
	sb.WriteString(" ")
	sb.WriteString(d.Description())
	for _, kw := range d.Keywords() {
		sb.WriteString(" ")
		sb.WriteString(kw)
	}
	for _, tag := range d.Tags() {
		sb.WriteString(" ")
		sb.WriteString(tag)
	}
	haystack := strings.ToLower(sb.String())

	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" && strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

func keywordIntersects(have, want []string) bool {
	for _, w := range want {
		w = strings.ToLower(w)
		for _, h := range have {
			if strings.ToLower(h) == w {
				return true
			}
		}
	}
	return false
}
