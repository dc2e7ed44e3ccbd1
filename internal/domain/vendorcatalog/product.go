package vendorcatalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ProductAggregate is the canonical, de-duplicated representation of one
// vendor product family. StyleID is unique within a single result set.
type ProductAggregate struct {
	// Vendor is the supplier the product came from
	Vendor VendorCode
	// StyleID is the vendor's product-family key
	StyleID string
	// Brand is the brand name, taken from the first variant
	Brand string
	// Title is the product title, taken from the first variant
	Title string
	// Description is the long description, taken from the first variant
	Description string
	// Category is the vendor category, taken from the first variant
	Category string
	// Colors is the set of colors seen across all variants, in first-seen order
	Colors []string
	// Sizes is the set of sizes seen across all variants, in first-seen order
	Sizes []string
	// Pricing is taken from the first variant; unsupplied prices stay unset
	Pricing Pricing
	// Media holds image and document URLs from the first variant
	Media Media
	// VariantCount is the number of variant records merged into this aggregate
	VariantCount int
}

// Pricing holds optional vendor prices. A price the vendor did not supply
// has Valid == false; it is never reported as zero.
type Pricing struct {
	PiecePrice decimal.NullDecimal
	CasePrice  decimal.NullDecimal
	SalePrice  decimal.NullDecimal
}

// HasAny returns true if at least one price is set
func (p Pricing) HasAny() bool {
	return p.PiecePrice.Valid || p.CasePrice.Valid || p.SalePrice.Valid
}

// Media holds product media URLs; an empty string means absent
type Media struct {
	ImageURL     string
	ThumbnailURL string
	SpecSheetURL string
}

// HasColor returns true if the aggregate carries the color
func (p *ProductAggregate) HasColor(color string) bool {
	return containsFold(p.Colors, color)
}

// HasSize returns true if the aggregate carries the size
func (p *ProductAggregate) HasSize(size string) bool {
	return containsFold(p.Sizes, size)
}

func containsFold(values []string, v string) bool {
	for _, existing := range values {
		if strings.EqualFold(existing, v) {
			return true
		}
	}
	return false
}

// ParsePrice parses a vendor price string. Blank or unparseable values yield
// an unset NullDecimal. Currency symbols and thousands separators are removed.
func ParsePrice(raw string) decimal.NullDecimal {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
