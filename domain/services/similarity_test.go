package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"datascout-backend/domain/core/entities"
	"datascout-backend/domain/core/valueobjects"
)

func similarityDataset(id string, domains, keywords, tags []string, agencyID string, access entities.Accessibility) *entities.Dataset {
	return entities.ReconstructDataset(
		valueobjects.MustDatasetID(id),
		"Dataset "+id,
		"",
		keywords,
		domains,
		tags,
		entities.Agency{ID: agencyID, Code: agencyID, Name: agencyID},
		access,
		0,
		0,
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	)
}

func TestSimilarityComponents(t *testing.T) {
	t.Run("shared domain contributes 0.3", func(t *testing.T) {
		a := similarityDataset("a", []string{"health"}, nil, nil, "abs", entities.AccessPublic)
		b := similarityDataset("b", []string{"health"}, nil, nil, "aihw", entities.AccessPublic)
		assert.InDelta(t, 0.3, Similarity(a, b), 1e-9)
	})

	t.Run("mutual keyword contributes 0.2", func(t *testing.T) {
		a := similarityDataset("a", nil, []string{"employment"}, nil, "abs", entities.AccessPublic)
		b := similarityDataset("b", nil, []string{"unemployment"}, nil, "aihw", entities.AccessPublic)
		assert.InDelta(t, 0.2, Similarity(a, b), 1e-9)
	})

	t.Run("shared tag contributes 0.25", func(t *testing.T) {
		a := similarityDataset("a", nil, nil, []string{"quarterly"}, "abs", entities.AccessPublic)
		b := similarityDataset("b", nil, nil, []string{"quarterly"}, "aihw", entities.AccessPublic)
		assert.InDelta(t, 0.25, Similarity(a, b), 1e-9)
	})

	t.Run("same agency contributes 0.1", func(t *testing.T) {
		a := similarityDataset("a", nil, nil, nil, "abs", entities.AccessPublic)
		b := similarityDataset("b", nil, nil, nil, "abs", entities.AccessPublic)
		assert.InDelta(t, 0.1, Similarity(a, b), 1e-9)
	})

	t.Run("both API accessible contributes 0.15", func(t *testing.T) {
		a := similarityDataset("a", nil, nil, nil, "abs", entities.AccessAPI)
		b := similarityDataset("b", nil, nil, nil, "aihw", entities.AccessAPI)
		assert.InDelta(t, 0.15, Similarity(a, b), 1e-9)
	})

	t.Run("one-sided API access contributes nothing", func(t *testing.T) {
		a := similarityDataset("a", nil, nil, nil, "abs", entities.AccessAPI)
		b := similarityDataset("b", nil, nil, nil, "aihw", entities.AccessPublic)
		assert.InDelta(t, 0.0, Similarity(a, b), 1e-9)
	})
}

func TestSimilarityAdditive(t *testing.T) {
	a := similarityDataset("a",
		[]string{"health", "ageing"},
		[]string{"aged", "care"},
		[]string{"annual"},
		"aihw",
		entities.AccessAPI,
	)
	b := similarityDataset("b",
		[]string{"health"},
		[]string{"aged"},
		[]string{"annual"},
		"aihw",
		entities.AccessAPI,
	)

	// 0.3 domain + 0.2 keyword + 0.25 tag + 0.1 agency + 0.15 API.
	assert.InDelta(t, 1.0, Similarity(a, b), 1e-9)
}

func TestSimilarityCanExceedOne(t *testing.T) {
	domains := []string{"health", "ageing", "population"}
	a := similarityDataset("a", domains, []string{"aged", "care", "pension"}, nil, "abs", entities.AccessPublic)
	b := similarityDataset("b", domains, []string{"aged", "care", "pension"}, nil, "abs", entities.AccessPublic)

	// 3*0.3 + 3*0.2 + 0.1 agency: the score is additive, not normalized.
	assert.InDelta(t, 1.6, Similarity(a, b), 1e-9)
}

func TestSimilarityEmptyAndNil(t *testing.T) {
	a := similarityDataset("a", nil, nil, nil, "", entities.AccessPublic)
	b := similarityDataset("b", nil, nil, nil, "", entities.AccessPublic)

	assert.Zero(t, Similarity(nil, b))
	assert.Zero(t, Similarity(a, nil))
	assert.Zero(t, Similarity(a, b))
}

func TestSimilarityIntersectionIgnoresDuplicates(t *testing.T) {
	a := similarityDataset("a", []string{"health", "health"}, nil, nil, "abs", entities.AccessPublic)
	b := similarityDataset("b", []string{"health"}, nil, nil, "aihw", entities.AccessPublic)

	assert.InDelta(t, 0.3, Similarity(a, b), 1e-9)
}
