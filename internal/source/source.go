// Package source provides tabular data sources for registration data. A
// source supplies a rectangular block of string cells (header row plus data
// rows) for a named range; all parsing and validation happens downstream.
package source

import "context"

// TabularSource fetches raw string cells for a named range. A refresh is a
// full re-fetch; sources never return partial blocks.
type TabularSource interface {
	Fetch(ctx context.Context, rangeName string) (header []string, rows [][]string, err error)
}
