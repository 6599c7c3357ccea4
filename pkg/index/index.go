// Package index implements the engine's secondary indexes (spec §4.3,
// C4): an ordered multiset of column Values, rebuildable from a table's
// rows at any time. Indexes are derived views; the table is the source
// of truth.
package index

import (
	"sort"

	"github.com/moyashi/reldb/pkg/value"
)

// Kind tags which index implementation backs an Index.
type Kind int

const (
	Ordered Kind = iota
	FullText
)

// Info describes an index's identity, independent of its backing
// implementation.
type Info struct {
	Name   string
	Table  string
	Column string
	Unique bool
	Kind   Kind
}

// Index is the common surface every index implementation exposes.
// Lookup by equality or range is O(log n) for Ordered indexes.
type Index interface {
	// Insert records that key maps to rowID.
	Insert(key value.Value, rowID uint64)
	// Delete removes the (key, rowID) pair, if present.
	Delete(key value.Value, rowID uint64)
	// Find returns every rowID recorded under key.
	Find(key value.Value) ([]uint64, bool)
	// FindRange returns every rowID whose key lies in [min, max]
	// (inclusive), ordered by key. Only Ordered indexes support this;
	// FullText indexes return an error via ErrRangeUnsupported.
	FindRange(min, max value.Value) ([]uint64, error)
	// Info reports the index's identity.
	Info() Info
	// Len reports how many (key, rowID) entries are recorded.
	Len() int
}

// ErrRangeUnsupported is returned by FindRange on indexes that cannot
// support ordered range scans (e.g. FullText).
type ErrRangeUnsupported struct{ IndexName string }

func (e *ErrRangeUnsupported) Error() string {
	return "index " + e.IndexName + " does not support range queries"
}

// entry is one (key, rowID) pair in an OrderedIndex's sorted slice.
type entry struct {
	key   value.Value
	rowID uint64
}

// OrderedIndex is an ordered multiset over a single column's Values,
// backed by a sorted slice with binary-search insertion — the idiomatic
// Go stand-in for the source's simplified B-tree (spec §4.3 permits any
// implementation that preserves the ordered-multiset semantics).
type OrderedIndex struct {
	info    Info
	entries []entry
}

// NewOrderedIndex builds an empty ordered index.
func NewOrderedIndex(info Info) *OrderedIndex {
	info.Kind = Ordered
	return &OrderedIndex{info: info}
}

// BuildOrderedIndex walks rows (as (key, rowID) pairs, in any order) and
// returns a populated OrderedIndex — the "create" operation of spec
// §4.3: walk rows and insert the projected column Value into a fresh
// ordered multiset.
func BuildOrderedIndex(info Info, pairs []struct {
	Key   value.Value
	RowID uint64
}) *OrderedIndex {
	idx := NewOrderedIndex(info)
	for _, p := range pairs {
		idx.Insert(p.Key, p.RowID)
	}
	return idx
}

func (idx *OrderedIndex) Info() Info { return idx.info }

func (idx *OrderedIndex) Len() int { return len(idx.entries) }

func (idx *OrderedIndex) lowerBound(key value.Value) int {
	return sort.Search(len(idx.entries), func(i int) bool {
		return value.Compare(idx.entries[i].key, key) >= 0
	})
}

// Insert keeps entries sorted by key, breaking ties on rowID ascending
// so that ranges and equality scans produce a stable order.
func (idx *OrderedIndex) Insert(key value.Value, rowID uint64) {
	i := idx.lowerBound(key)
	for i < len(idx.entries) && value.Equal(idx.entries[i].key, key) && idx.entries[i].rowID < rowID {
		i++
	}
	idx.entries = append(idx.entries, entry{})
	copy(idx.entries[i+1:], idx.entries[i:])
	idx.entries[i] = entry{key: key, rowID: rowID}
}

func (idx *OrderedIndex) Delete(key value.Value, rowID uint64) {
	i := idx.lowerBound(key)
	for i < len(idx.entries) && value.Equal(idx.entries[i].key, key) {
		if idx.entries[i].rowID == rowID {
			idx.entries = append(idx.entries[:i], idx.entries[i+1:]...)
			return
		}
		i++
	}
}

func (idx *OrderedIndex) Find(key value.Value) ([]uint64, bool) {
	i := idx.lowerBound(key)
	var rowIDs []uint64
	for i < len(idx.entries) && value.Equal(idx.entries[i].key, key) {
		rowIDs = append(rowIDs, idx.entries[i].rowID)
		i++
	}
	return rowIDs, len(rowIDs) > 0
}

func (idx *OrderedIndex) FindRange(min, max value.Value) ([]uint64, error) {
	lo := idx.lowerBound(min)
	var rowIDs []uint64
	for i := lo; i < len(idx.entries); i++ {
		if value.Compare(idx.entries[i].key, max) > 0 {
			break
		}
		rowIDs = append(rowIDs, idx.entries[i].rowID)
	}
	return rowIDs, nil
}

// Rebuild discards all entries and re-walks the given pairs — the
// rebuild-on-next-use policy spec §4.3 permits as the simplest correct
// maintenance strategy.
func (idx *OrderedIndex) Rebuild(pairs []struct {
	Key   value.Value
	RowID uint64
}) {
	idx.entries = idx.entries[:0]
	for _, p := range pairs {
		idx.Insert(p.Key, p.RowID)
	}
}
