// Package pricesync pushes locally edited prices back to the external commerce
// channels they came from.
//
// It runs as a commit hook: pending price changes are filtered down to the
// significant ones, deduplicated per price slot, and each surviving candidate
// is exported only to channels where it is the final price.
package pricesync
