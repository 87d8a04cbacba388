package domain

// FieldSettings holds the per-form field visibility map for one company.
// The map is open: unknown field names are neither rejected nor normalized.
type FieldSettings struct {
	CompanyID string          `json:"companyID"` // Owning scope
	FormType  string          `json:"formType"`
	Fields    map[string]bool `json:"fields"`
}

// Visible reports whether the named field should be shown.
// Absent keys default to visible.
func (fs FieldSettings) Visible(field string) bool {
	v, ok := fs.Fields[field]
	if !ok {
		return true
	}
	return v
}

// Set records the visibility for a field, allocating the map if needed.
func (fs *FieldSettings) Set(field string, visible bool) {
	if fs.Fields == nil {
		fs.Fields = make(map[string]bool)
	}
	fs.Fields[field] = visible
}
