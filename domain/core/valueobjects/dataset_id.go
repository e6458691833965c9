package valueobjects

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// DatasetID is a value object representing a unique dataset identifier.
// Catalog identifiers are either UUIDs minted by this service or slugs
// carried over from the source catalog, so any non-empty token is accepted.
type DatasetID struct {
	value string
}

// NewDatasetID creates a new random DatasetID
func NewDatasetID() DatasetID {
	return DatasetID{value: uuid.New().String()}
}

// NewDatasetIDFromString creates a DatasetID from an existing identifier
func NewDatasetIDFromString(id string) (DatasetID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return DatasetID{}, errors.New("dataset ID cannot be empty")
	}
	if strings.ContainsAny(id, " \t\n") {
		return DatasetID{}, errors.New("dataset ID cannot contain whitespace")
	}
	return DatasetID{value: id}, nil
}

// MustDatasetID wraps a stored identifier without validation. Reserved for
// values read back from the store, which were validated on the way in.
func MustDatasetID(id string) DatasetID {
	return DatasetID{value: id}
}

// String returns the string representation of the DatasetID
func (id DatasetID) String() string {
	return id.value
}

// Equals checks if two DatasetIDs are equal
func (id DatasetID) Equals(other DatasetID) bool {
	return id.value == other.value
}

// IsZero checks if the DatasetID is the zero value
func (id DatasetID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id DatasetID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *DatasetID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("DatasetID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}
