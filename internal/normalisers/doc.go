// Package normalisers turns raw domain sources into retrievable units.
// Each Source variant has its own subpackage; Normaliser dispatches on the
// variant and fails on anything it does not know.
package normalisers
