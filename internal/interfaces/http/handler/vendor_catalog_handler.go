package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/promoerp/backend/internal/application/vendorcatalog"
	"github.com/promoerp/backend/internal/domain/vendorcatalog"
	"github.com/promoerp/backend/internal/interfaces/http/dto"
	"github.com/promoerp/backend/internal/interfaces/http/middleware"
)

// CatalogQueryService is the subset of the catalog service used by the handler
type CatalogQueryService interface {
	Search(ctx context.Context, vendor vendorcatalog.VendorCode, query string, creds vendorcatalog.Credentials) ([]vendorcatalog.ProductAggregate, error)
	LookupByStyle(ctx context.Context, vendor vendorcatalog.VendorCode, styleCode string, creds vendorcatalog.Credentials) ([]vendorcatalog.ProductAggregate, error)
	LookupByBrand(ctx context.Context, vendor vendorcatalog.VendorCode, brandName string, creds vendorcatalog.Credentials, maxProducts int) ([]vendorcatalog.ProductAggregate, error)
	Vendors() []vendorcatalog.VendorCode
	Credentials(vendor vendorcatalog.VendorCode) (vendorcatalog.Credentials, error)
}

// VendorCatalogHandler handles vendor catalog API endpoints
type VendorCatalogHandler struct {
	BaseHandler
	catalogService CatalogQueryService
}

// NewVendorCatalogHandler creates a new VendorCatalogHandler
func NewVendorCatalogHandler(catalogService CatalogQueryService) *VendorCatalogHandler {
	return &VendorCatalogHandler{
		catalogService: catalogService,
	}
}

// SearchQuery holds the query string of a search request
type SearchQuery struct {
	Query string `form:"q" binding:"required,max=128"`
}

// BrandQuery holds the query string of a brand lookup
type BrandQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// ListVendors returns the configured vendors
func (h *VendorCatalogHandler) ListVendors(c *gin.Context) {
	List(c, catalogapp.ToVendorResponses(h.catalogService.Vendors()), dto.Meta{})
}

// Search runs a free-text catalog query. Queries containing a digit are
// looked up as a style code first and fall back to a brand lookup.
func (h *VendorCatalogHandler) Search(c *gin.Context) {
	var query SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	vendor, creds, ok := h.resolveVendor(c)
	if !ok {
		return
	}

	products, err := h.catalogService.Search(c.Request.Context(), vendor, query.Query, creds)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	List(c, catalogapp.ToProductResponses(products), dto.Meta{
		Vendor:    vendor.String(),
		QueryKind: vendorcatalog.ClassifyQuery(strings.TrimSpace(query.Query)).String(),
	})
}

// LookupByStyle looks a style code up without fallback
func (h *VendorCatalogHandler) LookupByStyle(c *gin.Context) {
	vendor, creds, ok := h.resolveVendor(c)
	if !ok {
		return
	}

	products, err := h.catalogService.LookupByStyle(c.Request.Context(), vendor, c.Param("style"), creds)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	List(c, catalogapp.ToProductResponses(products), dto.Meta{
		Vendor:    vendor.String(),
		QueryKind: vendorcatalog.QueryKindStyleCode.String(),
	})
}

// LookupByBrand returns at most limit styles of a brand; the vendor's
// configured limit applies when limit is omitted.
func (h *VendorCatalogHandler) LookupByBrand(c *gin.Context) {
	var query BrandQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	vendor, creds, ok := h.resolveVendor(c)
	if !ok {
		return
	}

	products, err := h.catalogService.LookupByBrand(c.Request.Context(), vendor, c.Param("brand"), creds, query.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	List(c, catalogapp.ToProductResponses(products), dto.Meta{
		Vendor:    vendor.String(),
		QueryKind: vendorcatalog.QueryKindBrandName.String(),
		Limit:     query.Limit,
	})
}

// resolveVendor reads the vendor path parameter and its configured
// credentials. It writes the error response and returns false on failure.
func (h *VendorCatalogHandler) resolveVendor(c *gin.Context) (vendorcatalog.VendorCode, vendorcatalog.Credentials, bool) {
	vendor := vendorcatalog.VendorCode(strings.ToUpper(c.Param(middleware.VendorParam)))
	if !vendor.IsValid() {
		h.NotFound(c, "Unknown vendor")
		return "", vendorcatalog.Credentials{}, false
	}

	creds, err := h.catalogService.Credentials(vendor)
	if err != nil {
		h.HandleError(c, err)
		return "", vendorcatalog.Credentials{}, false
	}
	return vendor, creds, true
}
