package vendorcatalog

import "context"

// ---------------------------------------------------------------------------
// VendorCode identifies an external supplier
// ---------------------------------------------------------------------------

// VendorCode identifies an external supplier catalog
type VendorCode string

const (
	// VendorCodeSanMar represents the SanMar SOAP web services
	VendorCodeSanMar VendorCode = "SANMAR"
	// VendorCodeSSActivewear represents the S&S Activewear REST API
	VendorCodeSSActivewear VendorCode = "SSACTIVEWEAR"
)

// IsValid returns true if the vendor code is known
func (c VendorCode) IsValid() bool {
	switch c {
	case VendorCodeSanMar, VendorCodeSSActivewear:
		return true
	default:
		return false
	}
}

// String returns the string representation of VendorCode
func (c VendorCode) String() string {
	return string(c)
}

// DisplayName returns a human-readable name for the vendor
func (c VendorCode) DisplayName() string {
	switch c {
	case VendorCodeSanMar:
		return "SanMar"
	case VendorCodeSSActivewear:
		return "S&S Activewear"
	default:
		return string(c)
	}
}

// ---------------------------------------------------------------------------
// Operation identifies a vendor lookup
// ---------------------------------------------------------------------------

// Operation is a vendor-neutral lookup identifier. Each adapter maps it 1:1
// onto its own upstream endpoint or SOAP action.
type Operation string

const (
	// OperationStyleLookup looks products up by style code
	OperationStyleLookup Operation = "STYLE_LOOKUP"
	// OperationBrandLookup looks products up by brand name
	OperationBrandLookup Operation = "BRAND_LOOKUP"
)

// IsValid returns true if the operation is known
func (o Operation) IsValid() bool {
	return o == OperationStyleLookup || o == OperationBrandLookup
}

// String returns the string representation of Operation
func (o Operation) String() string {
	return string(o)
}

// ---------------------------------------------------------------------------
// CatalogSource Port Interface
// ---------------------------------------------------------------------------

// CatalogSource is the port implemented by each vendor adapter. Fetch performs
// exactly one outbound call and returns the flat variant records of the
// response. An empty slice with a nil error means the vendor had no match.
type CatalogSource interface {
	// Vendor returns the vendor this source talks to
	Vendor() VendorCode

	// FieldMap returns how the vendor names the canonical product fields
	FieldMap() FieldMap

	// Fetch runs one lookup. Errors are *TransportError or *MalformedResponseError.
	Fetch(ctx context.Context, op Operation, query string, creds Credentials) ([]VariantRecord, error)
}

// SourceRegistry provides access to configured vendor sources
type SourceRegistry interface {
	// Source returns the source for the vendor, or ErrVendorNotConfigured
	Source(vendor VendorCode) (CatalogSource, error)

	// Credentials returns the configured credentials for the vendor connection
	Credentials(vendor VendorCode) (Credentials, error)

	// Vendors lists the configured vendors
	Vendors() []VendorCode
}
