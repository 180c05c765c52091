// Package store holds the point-of-sale document and its persistence.
//
// The document (products, categories, sales and an opaque cart) lives in
// memory and is rewritten wholesale to the configured backend on every commit:
//
//   - file: JSON file replaced through a temp file and rename
//   - sqlite, postgres: one row of the pos_document table
//   - bolt: one key of a bbolt bucket
//
// Consistency is "last write wins". A failed commit is reported to the caller
// but the in-memory document is not rolled back.
package store
