package vendorcatalog

import "strings"

// VariantRecord is one flat (style, color, size) row from a vendor response,
// keyed by the vendor's own field names. Fields the vendor did not send are
// absent from the map; nothing is null-filled.
type VariantRecord map[string]string

// Get returns the trimmed value of a field. Missing and blank fields are
// reported as absent.
func (r VariantRecord) Get(field string) (string, bool) {
	if field == "" || r == nil {
		return "", false
	}
	v, ok := r[field]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	return v, true
}

// Value returns the trimmed value of a field, or "" when absent
func (r VariantRecord) Value(field string) string {
	v, _ := r.Get(field)
	return v
}

// FieldMap tells the aggregator which vendor field carries each canonical
// product attribute. An empty entry means the vendor never sends it.
type FieldMap struct {
	StyleID     string
	Brand       string
	Title       string
	Description string
	Category    string
	Color       string
	Size        string

	PiecePrice string
	CasePrice  string
	SalePrice  string

	ImageURL     string
	ThumbnailURL string
	SpecSheetURL string
}
