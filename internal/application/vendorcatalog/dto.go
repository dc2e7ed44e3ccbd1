package vendorcatalog

import (
	"github.com/promoerp/backend/internal/domain/vendorcatalog"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Product DTOs
// ---------------------------------------------------------------------------

// ProductResponse represents an aggregated vendor product in API responses
type ProductResponse struct {
	Vendor       vendorcatalog.VendorCode `json:"vendor"`
	StyleID      string                   `json:"style_id"`
	Brand        string                   `json:"brand,omitempty"`
	Title        string                   `json:"title,omitempty"`
	Description  string                   `json:"description,omitempty"`
	Category     string                   `json:"category,omitempty"`
	Colors       []string                 `json:"colors"`
	Sizes        []string                 `json:"sizes"`
	Pricing      PricingResponse          `json:"pricing"`
	Media        MediaResponse            `json:"media"`
	VariantCount int                      `json:"variant_count"`
}

// PricingResponse holds vendor prices; unsupplied prices are null
type PricingResponse struct {
	PiecePrice decimal.NullDecimal `json:"piece_price"`
	CasePrice  decimal.NullDecimal `json:"case_price"`
	SalePrice  decimal.NullDecimal `json:"sale_price"`
}

// MediaResponse holds product media URLs
type MediaResponse struct {
	ImageURL     string `json:"image_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	SpecSheetURL string `json:"spec_sheet_url,omitempty"`
}

// VendorResponse describes a configured vendor connection
type VendorResponse struct {
	Code        vendorcatalog.VendorCode `json:"code"`
	DisplayName string                   `json:"display_name"`
}

// ---------------------------------------------------------------------------
// Conversion Functions
// ---------------------------------------------------------------------------

// ToProductResponse converts a domain aggregate to a response DTO
func ToProductResponse(p vendorcatalog.ProductAggregate) ProductResponse {
	return ProductResponse{
		Vendor:      p.Vendor,
		StyleID:     p.StyleID,
		Brand:       p.Brand,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Colors:      nonNil(p.Colors),
		Sizes:       nonNil(p.Sizes),
		Pricing: PricingResponse{
			PiecePrice: p.Pricing.PiecePrice,
			CasePrice:  p.Pricing.CasePrice,
			SalePrice:  p.Pricing.SalePrice,
		},
		Media: MediaResponse{
			ImageURL:     p.Media.ImageURL,
			ThumbnailURL: p.Media.ThumbnailURL,
			SpecSheetURL: p.Media.SpecSheetURL,
		},
		VariantCount: p.VariantCount,
	}
}

// ToProductResponses converts a list of aggregates; the result is never nil
func ToProductResponses(products []vendorcatalog.ProductAggregate) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}

// ToDomain converts the DTO back to a domain aggregate
func (r ProductResponse) ToDomain() vendorcatalog.ProductAggregate {
	return vendorcatalog.ProductAggregate{
		Vendor:      r.Vendor,
		StyleID:     r.StyleID,
		Brand:       r.Brand,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Colors:      nonNil(r.Colors),
		Sizes:       nonNil(r.Sizes),
		Pricing: vendorcatalog.Pricing{
			PiecePrice: r.Pricing.PiecePrice,
			CasePrice:  r.Pricing.CasePrice,
			SalePrice:  r.Pricing.SalePrice,
		},
		Media: vendorcatalog.Media{
			ImageURL:     r.Media.ImageURL,
			ThumbnailURL: r.Media.ThumbnailURL,
			SpecSheetURL: r.Media.SpecSheetURL,
		},
		VariantCount: r.VariantCount,
	}
}

// ToVendorResponses converts vendor codes to response DTOs
func ToVendorResponses(codes []vendorcatalog.VendorCode) []VendorResponse {
	responses := make([]VendorResponse, len(codes))
	for i, code := range codes {
		responses[i] = VendorResponse{
			Code:        code,
			DisplayName: code.DisplayName(),
		}
	}
	return responses
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
