package entities

import (
	"datascout-backend/domain/core/valueobjects"
)

// RelationKind is the semantic label on a directed edge between datasets.
// The vocabulary is open but small; unknown kinds are carried through as-is.
type RelationKind string

const (
	RelationFeedsInto RelationKind = "feeds-into"
	RelationRelatedTo RelationKind = "related-to"
	RelationDependsOn RelationKind = "depends-on"
)

// DatasetRelation is a directed, typed edge between two datasets. Direction
// matters only for display text; a dataset's related set is the union of
// edges where it is source or target.
type DatasetRelation struct {
	ID          string                 `json:"id"`
	SourceID    valueobjects.DatasetID `json:"source_id"`
	TargetID    valueobjects.DatasetID `json:"target_id"`
	Kind        RelationKind           `json:"kind"`
	Description string                 `json:"description,omitempty"`
}

// Touches reports whether the relation has the given dataset at either end.
func (r *DatasetRelation) Touches(id valueobjects.DatasetID) bool {
	return r.SourceID.Equals(id) || r.TargetID.Equals(id)
}

// OtherEnd returns the endpoint opposite to the given dataset. The second
// return value is false when the relation does not touch the dataset at all.
func (r *DatasetRelation) OtherEnd(id valueobjects.DatasetID) (valueobjects.DatasetID, bool) {
	switch {
	case r.SourceID.Equals(id):
		return r.TargetID, true
	case r.TargetID.Equals(id):
		return r.SourceID, true
	default:
		return valueobjects.DatasetID{}, false
	}
}
