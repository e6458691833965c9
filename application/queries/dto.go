package queries

import (
	"time"

	"datascout-backend/application/recommendations"
	"datascout-backend/domain/core/entities"
	"datascout-backend/domain/services"
)

// DatasetDTO is the wire representation of a dataset.
type DatasetDTO struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Description       string           `json:"description,omitempty"`
	Keywords          []string         `json:"keywords"`
	Domains           []string         `json:"domains"`
	Tags              []string         `json:"tags"`
	Agency            entities.Agency  `json:"agency"`
	Accessibility     string           `json:"accessibility"`
	IncomingRelations int              `json:"incoming_relations"`
	OutgoingRelations int              `json:"outgoing_relations"`
	UpdatedAt         string           `json:"updated_at"`
}

// RelationDTO is the wire representation of a dataset relation.
type RelationDTO struct {
	ID          string `json:"id"`
	SourceID    string `json:"source_id"`
	TargetID    string `json:"target_id"`
	Kind        string `json:"kind"`
	Description string `json:"description,omitempty"`
}

// ScoredDatasetDTO pairs a dataset with its relevance score.
type ScoredDatasetDTO struct {
	Dataset DatasetDTO `json:"dataset"`
	Score   int        `json:"score"`
}

// RecommendationDTO is the wire representation of one recommendation.
type RecommendationDTO struct {
	Dataset  DatasetDTO `json:"dataset"`
	Score    float64    `json:"score"`
	Reason   string     `json:"reason"`
	Strategy string     `json:"strategy"`
}

// StructuredQueryDTO mirrors the interpreter output for the caller.
type StructuredQueryDTO struct {
	OriginalText string   `json:"original_text"`
	Keywords     []string `json:"keywords"`
	Domains      []string `json:"domains"`
	Intent       string   `json:"intent"`
	Entities     []string `json:"entities"`
	Confidence   float64  `json:"confidence"`
}

func toDatasetDTO(d *entities.Dataset) DatasetDTO {
	return DatasetDTO{
		ID:                d.ID().String(),
		Name:              d.Name(),
		Description:       d.Description(),
		Keywords:          d.Keywords(),
		Domains:           d.Domains(),
		Tags:              d.Tags(),
		Agency:            d.Agency(),
		Accessibility:     string(d.Accessibility()),
		IncomingRelations: d.IncomingRelations(),
		OutgoingRelations: d.OutgoingRelations(),
		UpdatedAt:         d.UpdatedAt().Format(time.RFC3339),
	}
}

func toRelationDTO(r *entities.DatasetRelation) RelationDTO {
	return RelationDTO{
		ID:          r.ID,
		SourceID:    r.SourceID.String(),
		TargetID:    r.TargetID.String(),
		Kind:        string(r.Kind),
		Description: r.Description,
	}
}

func toRecommendationDTOs(recs []recommendations.Recommendation) []RecommendationDTO {
	dtos := make([]RecommendationDTO, 0, len(recs))
	for _, rec := range recs {
		dtos = append(dtos, RecommendationDTO{
			Dataset:  toDatasetDTO(rec.Dataset),
			Score:    rec.Score,
			Reason:   rec.Reason,
			Strategy: string(rec.Strategy),
		})
	}
	return dtos
}

func toStructuredQueryDTO(q services.StructuredQuery) StructuredQueryDTO {
	domains := make([]string, 0, len(q.Domains))
	for _, d := range q.Domains {
		domains = append(domains, string(d))
	}
	return StructuredQueryDTO{
		OriginalText: q.OriginalText,
		Keywords:     q.Keywords,
		Domains:      domains,
		Intent:       string(q.Intent),
		Entities:     q.Entities,
		Confidence:   q.Confidence,
	}
}
