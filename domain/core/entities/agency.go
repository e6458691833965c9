package entities

// Agency is the government body that owns a dataset. Many datasets reference
// one agency; the agency itself carries no back-references.
type Agency struct {
	ID   string `json:"id"`
	Code string `json:"code"` // short acronym, e.g. "ABS"
	Name string `json:"name"`
}

// IsZero reports whether the agency reference is unset.
func (a Agency) IsZero() bool {
	return a.ID == "" && a.Code == ""
}
