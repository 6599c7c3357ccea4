package value

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator orders VARCHAR/TEXT values using a locale collation table
// instead of raw byte-wise comparison. Spec §4.1 mandates byte-wise
// comparison as the engine default; a Collator is a standalone
// comparator for callers that want locale ordering. Tables, columns and
// indexes have no way to attach one: they always order with Compare.
type Collator struct {
	col *collate.Collator
}

// NewCollator builds a Collator for the given BCP 47 language tag, e.g.
// "en", "ja", "de".
func NewCollator(tag string) (*Collator, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return nil, err
	}
	return &Collator{col: collate.New(t)}, nil
}

// Compare orders two VARCHAR/TEXT values by locale collation. NULL
// handling matches the default Compare: NULLs sort first, and a Kind
// mismatch falls back to the tag comparison used by Compare.
func (c *Collator) Compare(a, b Value) int {
	if a.isNull || b.isNull || a.kind != b.kind {
		return Compare(a, b)
	}
	if a.kind != Varchar && a.kind != Text {
		return Compare(a, b)
	}
	return c.col.CompareString(a.s, b.s)
}
