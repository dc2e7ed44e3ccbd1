package vendorcatalog

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Vendor Catalog Errors
// ---------------------------------------------------------------------------

var (
	// Vendor call errors
	ErrTransport            = errors.New("vendorcatalog: vendor transport failed")
	ErrMalformedResponse    = errors.New("vendorcatalog: malformed vendor response")
	ErrVendorNotConfigured  = errors.New("vendorcatalog: vendor not configured")
	ErrUnsupportedOperation = errors.New("vendorcatalog: operation not supported by vendor")

	// Input errors
	ErrEmptyQuery         = errors.New("vendorcatalog: query text is required")
	ErrInvalidCredentials = errors.New("vendorcatalog: invalid vendor credentials")
)

// TransportError reports a failed outbound call to a vendor endpoint:
// network failure, timeout, cancellation or a non-success HTTP status.
type TransportError struct {
	Vendor    VendorCode
	Operation Operation
	// StatusCode is the HTTP status returned by the vendor, 0 when no response arrived
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.StatusCode != 0 && e.Err != nil {
		return fmt.Sprintf("%s: %s %s: HTTP %d: %v", ErrTransport.Error(), e.Vendor, e.Operation, e.StatusCode, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s %s: HTTP %d", ErrTransport.Error(), e.Vendor, e.Operation, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s %s: %v", ErrTransport.Error(), e.Vendor, e.Operation, e.Err)
	}
	return fmt.Sprintf("%s: %s %s", ErrTransport.Error(), e.Vendor, e.Operation)
}

// Unwrap returns the underlying cause
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrTransport
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// NewTransportError creates a TransportError for a failed call
func NewTransportError(vendor VendorCode, op Operation, statusCode int, err error) *TransportError {
	return &TransportError{
		Vendor:     vendor,
		Operation:  op,
		StatusCode: statusCode,
		Err:        err,
	}
}

// MalformedResponseError reports a vendor payload that is not well-formed
// structured data at all. Missing fields never produce this error.
type MalformedResponseError struct {
	Vendor    VendorCode
	Operation Operation
	Err       error
}

// Error implements the error interface
func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s %s: %v", ErrMalformedResponse.Error(), e.Vendor, e.Operation, e.Err)
	}
	return fmt.Sprintf("%s: %s %s", ErrMalformedResponse.Error(), e.Vendor, e.Operation)
}

// Unwrap returns the underlying decode error
func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrMalformedResponse
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// NewMalformedResponseError creates a MalformedResponseError
func NewMalformedResponseError(vendor VendorCode, op Operation, err error) *MalformedResponseError {
	return &MalformedResponseError{
		Vendor:    vendor,
		Operation: op,
		Err:       err,
	}
}

// IsVendorFailure returns true for errors that come from talking to a vendor
// (transport or payload), as opposed to caller input errors.
func IsVendorFailure(err error) bool {
	return errors.Is(err, ErrTransport) || errors.Is(err, ErrMalformedResponse)
}
