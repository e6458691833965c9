package entities

import (
	"strings"
	"time"

	"datascout-backend/domain/core/valueobjects"
	pkgerrors "datascout-backend/pkg/errors"
)

// Accessibility classifies how a dataset can be obtained.
type Accessibility string

const (
	AccessPublic      Accessibility = "public"
	AccessAPI         Accessibility = "api"
	AccessRequestOnly Accessibility = "request-only"
)

// Dataset is the catalog entity this service discovers and ranks. It is
// read-only to the core: stores reconstruct it, the scoring pipeline only
// inspects it. Keyword, domain and tag sets may legitimately be empty (a
// store substitutes an empty set when a stored field is malformed), and
// every method here must tolerate that.
type Dataset struct {
	id            valueobjects.DatasetID
	name          string
	description   string
	keywords      []string
	domains       []string
	tags          []string
	agency        Agency
	accessibility Accessibility
	incoming      int
	outgoing      int
	updatedAt     time.Time
}

// NewDataset creates a dataset with validation. Used by fixtures and the
// in-memory store; the catalog itself is ingested elsewhere.
func NewDataset(id valueobjects.DatasetID, name string, agency Agency) (*Dataset, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("dataset ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, pkgerrors.NewValidationError("dataset name cannot be empty")
	}
	return &Dataset{
		id:            id,
		name:          name,
		agency:        agency,
		accessibility: AccessPublic,
		updatedAt:     time.Now(),
	}, nil
}

// ReconstructDataset rebuilds a dataset from store data without validation
// side effects. Nil slices are normalized to empty ones so downstream set
// operations never observe a nil.
func ReconstructDataset(
	id valueobjects.DatasetID,
	name string,
	description string,
	keywords []string,
	domains []string,
	tags []string,
	agency Agency,
	accessibility Accessibility,
	incoming int,
	outgoing int,
	updatedAt time.Time,
) *Dataset {
	if keywords == nil {
		keywords = []string{}
	}
	if domains == nil {
		domains = []string{}
	}
	if tags == nil {
		tags = []string{}
	}
	if accessibility == "" {
		accessibility = AccessPublic
	}
	return &Dataset{
		id:            id,
		name:          name,
		description:   description,
		keywords:      keywords,
		domains:       domains,
		tags:          tags,
		agency:        agency,
		accessibility: accessibility,
		incoming:      incoming,
		outgoing:      outgoing,
		updatedAt:     updatedAt,
	}
}

func (d *Dataset) ID() valueobjects.DatasetID { return d.id }
func (d *Dataset) Name() string               { return d.name }
func (d *Dataset) Description() string        { return d.description }
func (d *Dataset) Agency() Agency             { return d.agency }
func (d *Dataset) UpdatedAt() time.Time       { return d.updatedAt }

// Keywords returns the dataset's keyword set. Order carries no meaning.
func (d *Dataset) Keywords() []string { return d.keywords }

// Domains returns the dataset's domain tags. The first entry is treated as
// the primary domain by the recommendation engine.
func (d *Dataset) Domains() []string { return d.domains }

// Tags returns the dataset's free-form tags.
func (d *Dataset) Tags() []string { return d.tags }

// Accessibility returns the dataset's accessibility class.
func (d *Dataset) Accessibility() Accessibility { return d.accessibility }

// IsAPIAccessible reports whether the dataset is served through a live API.
func (d *Dataset) IsAPIAccessible() bool { return d.accessibility == AccessAPI }

// IncomingRelations returns the count of relations targeting this dataset.
func (d *Dataset) IncomingRelations() int { return d.incoming }

// OutgoingRelations returns the count of relations originating here.
func (d *Dataset) OutgoingRelations() int { return d.outgoing }

// RelationCount is the connectivity signal used by scoring: incoming plus
// outgoing, direction ignored.
func (d *Dataset) RelationCount() int { return d.incoming + d.outgoing }

// PrimaryDomain returns the first domain tag, or "" when the dataset carries
// none.
func (d *Dataset) PrimaryDomain() string {
	if len(d.domains) == 0 {
		return ""
	}
	return d.domains[0]
}

// HasDomain reports whether the dataset carries the given domain tag.
func (d *Dataset) HasDomain(domain string) bool {
	for _, dom := range d.domains {
		if dom == domain {
			return true
		}
	}
	return false
}

// SameAgency reports whether both datasets reference the same agency.
func (d *Dataset) SameAgency(other *Dataset) bool {
	if other == nil || d.agency.IsZero() || other.agency.IsZero() {
		return false
	}
	return d.agency.ID == other.agency.ID
}
