// Package catalog implements the per-table storage layer: Column, Row,
// and Table (spec §3, §4.2 — C1/C2/C3). A Table owns its Columns, Rows,
// and Indexes exclusively; nothing outside this package mutates them
// directly.
package catalog

import "github.com/moyashi/reldb/pkg/value"

// MaxIdentifierLen bounds table/column/index/constraint names (spec §6):
// 63 characters, 64 including the source's NUL terminator convention.
const MaxIdentifierLen = 63

// Column describes one column definition: name, type tag, and flags.
// A table has at most one PrimaryKey column (spec §3).
type Column struct {
	Name       string
	Kind       value.Kind
	Nullable   bool
	PrimaryKey bool
	Unique     bool
	Default    string // textual default literal, spec §3
}
