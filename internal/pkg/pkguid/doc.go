// Package pkguid provides helpers for generating unique identifiers.
//
// The codebase depends on the StringID and NumberID interfaces instead of a
// concrete strategy:
//   - UUIDv7 strings for request correlation.
//   - Snowflake numbers, rendered as "tx-<n>" for wallet transactions.
//   - Short base-36 codes for payment receipts.
package pkguid
