// Package vendorcatalog contains the Vendor Catalog bounded context.
// This context turns the per-variant product feeds of external suppliers into
// canonical product aggregates for the catalog screens.
//
// Key concepts:
//   - VariantRecord: one flat (style, color, size) row as returned by a vendor API
//   - ProductAggregate: de-duplicated product family built from variant records
//   - Aggregator: groups variant records by style identifier, optionally bounded
//   - Credentials: immutable vendor account credentials passed to every call
//   - CatalogSource: port interface implemented by each vendor adapter
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (SanMar SOAP, S&S Activewear REST) are in the infrastructure layer
package vendorcatalog
