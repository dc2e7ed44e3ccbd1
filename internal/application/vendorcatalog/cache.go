package vendorcatalog

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/promoerp/backend/internal/domain/vendorcatalog"
	"golang.org/x/text/cases"
)

// ResultCache stores aggregated lookup results. It is advisory: the service
// logs and ignores its errors. Implementations must be safe for concurrent use.
type ResultCache interface {
	// Get returns the cached products and true on a hit
	Get(ctx context.Context, key string) ([]ProductResponse, bool, error)

	// Set stores products under key for ttl
	Set(ctx context.Context, key string, products []ProductResponse, ttl time.Duration) error
}

// CacheKey builds the result cache key of one lookup. The query is
// case-folded so "Gildan" and "GILDAN" share an entry. Secrets never enter
// the key; only the account identifier does.
func CacheKey(vendor vendorcatalog.VendorCode, accountID string, op vendorcatalog.Operation, query string, limit int) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(vendor.String()))
	b.WriteByte('|')
	b.WriteString(accountID)
	b.WriteByte('|')
	b.WriteString(strings.ToLower(op.String()))
	b.WriteByte('|')
	b.WriteString(cases.Fold().String(strings.TrimSpace(query)))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(limit))
	return b.String()
}
