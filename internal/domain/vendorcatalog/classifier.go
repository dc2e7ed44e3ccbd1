package vendorcatalog

import "strings"

// QueryKind is the classification of a free-text catalog query
type QueryKind string

const (
	// QueryKindStyleCode means the query looks like a vendor style code
	QueryKindStyleCode QueryKind = "STYLE_CODE"
	// QueryKindBrandName means the query looks like a brand name
	QueryKindBrandName QueryKind = "BRAND_NAME"
)

// String returns the string representation of QueryKind
func (k QueryKind) String() string {
	return string(k)
}

// NormalizeQuery trims surrounding whitespace and rejects empty queries
func NormalizeQuery(query string) (string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", ErrEmptyQuery
	}
	return q, nil
}

// ClassifyQuery classifies a query. Any ASCII digit makes it a style code:
// "5000", "PC54" and "G500" are style codes, "Nike" is a brand name.
func ClassifyQuery(query string) QueryKind {
	for i := 0; i < len(query); i++ {
		if query[i] >= '0' && query[i] <= '9' {
			return QueryKindStyleCode
		}
	}
	return QueryKindBrandName
}

// PlanFor returns the ordered lookups to attempt for a query kind. A style
// code tries the style lookup first and falls back to the brand lookup with
// the same query text; a brand name never attempts the style lookup.
func PlanFor(kind QueryKind) []Operation {
	if kind == QueryKindStyleCode {
		return []Operation{OperationStyleLookup, OperationBrandLookup}
	}
	return []Operation{OperationBrandLookup}
}
