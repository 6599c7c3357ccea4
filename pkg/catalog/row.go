package catalog

import "github.com/moyashi/reldb/pkg/value"

// Row is one tuple of a Table: a stable RowID (assigned once, never
// reused, never reordered — spec §3) plus its Values in column order.
// Version is a per-row counter bumped on every UPDATE (starting at 1 on
// INSERT); it is the version stamp spec §4.7 asks a REPEATABLE_READ/
// SERIALIZABLE transaction to validate its reads against at commit.
type Row struct {
	RowID   uint64
	Values  []value.Value
	Version uint64
}

// Copy returns a deep copy of r, safe to retain past the original's
// next mutation (needed by undo-log entries and by MVCC-style snapshot
// reads, spec §4.7).
func (r *Row) Copy() *Row {
	if r == nil {
		return nil
	}
	values := make([]value.Value, len(r.Values))
	for i, v := range r.Values {
		values[i] = v.Copy()
	}
	return &Row{RowID: r.RowID, Values: values, Version: r.Version}
}

func copyValues(values []value.Value) []value.Value {
	out := make([]value.Value, len(values))
	for i, v := range values {
		out[i] = v.Copy()
	}
	return out
}
