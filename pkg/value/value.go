// Package value implements the engine's tagged scalar type: a Value is
// one of {INT, FLOAT, VARCHAR, TEXT, BOOLEAN} with an orthogonal NULL
// marker, plus the total ordering spec §4.1 defines over it.
package value

import (
	"fmt"
	"strings"
)

// Kind tags the variant a Value holds.
type Kind int

const (
	Int Kind = iota
	Float
	Varchar
	Text
	Boolean
)

// String returns the textual name of a Kind, used in diagnostics.
func (k Kind) String() string {
	switch k {
	case Int:
		return "INT"
	case Float:
		return "FLOAT"
	case Varchar:
		return "VARCHAR"
	case Text:
		return "TEXT"
	case Boolean:
		return "BOOLEAN"
	default:
		return "UNKNOWN"
	}
}

// MaxVarcharLen bounds VARCHAR payloads per spec §4.2 (63 chars is the
// column/identifier bound; VARCHAR payload is bounded separately at 255
// per spec §6's default-literal bound, reused here as the general cap).
const MaxVarcharLen = 255

// Value is a tagged scalar with an orthogonal NULL flag. The zero Value
// is a non-NULL INT 0; prefer the constructors below.
type Value struct {
	kind    Kind
	isNull  bool
	i       int64
	f       float64
	s       string
	b       bool
}

// NewInt builds a non-NULL INT value.
func NewInt(v int64) Value { return Value{kind: Int, i: v} }

// NewFloat builds a non-NULL FLOAT value.
func NewFloat(v float64) Value { return Value{kind: Float, f: v} }

// NewVarchar builds a non-NULL VARCHAR value, truncated to MaxVarcharLen
// bytes (the engine additionally rejects over-length identifiers via
// dberr.NameTooLong; payload truncation here mirrors the column bound).
func NewVarchar(v string) Value {
	if len(v) > MaxVarcharLen {
		v = v[:MaxVarcharLen]
	}
	return Value{kind: Varchar, s: v}
}

// NewText builds a non-NULL TEXT value (unbounded length).
func NewText(v string) Value { return Value{kind: Text, s: v} }

// NewBool builds a non-NULL BOOLEAN value.
func NewBool(v bool) Value { return Value{kind: Boolean, b: v} }

// NewNull builds a typed NULL of the given Kind. The payload is
// unobservable per spec §4.1.
func NewNull(k Kind) Value { return Value{kind: k, isNull: true} }

// Kind reports the value's tagged variant.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is NULL.
func (v Value) IsNull() bool { return v.isNull }

// Int returns the INT payload; panics on type mismatch, matching the
// engine's policy of validating Kind before extraction.
func (v Value) Int() int64 {
	if v.kind != Int {
		panic(fmt.Sprintf("value: Int() called on %s", v.kind))
	}
	return v.i
}

// Float returns the FLOAT payload.
func (v Value) Float() float64 {
	if v.kind != Float {
		panic(fmt.Sprintf("value: Float() called on %s", v.kind))
	}
	return v.f
}

// Str returns the VARCHAR/TEXT payload. Named Str rather than String to
// avoid accidentally satisfying fmt.Stringer (GoString below is the
// diagnostic renderer).
func (v Value) Str() string {
	if v.kind != Varchar && v.kind != Text {
		panic(fmt.Sprintf("value: Str() called on %s", v.kind))
	}
	return v.s
}

// Bool returns the BOOLEAN payload.
func (v Value) Bool() bool {
	if v.kind != Boolean {
		panic(fmt.Sprintf("value: Bool() called on %s", v.kind))
	}
	return v.b
}

// Copy returns a deep copy of v. Value holds no pointers/slices internally
// (Go strings are immutable), so copy is a plain value copy — exposed as
// a named method so call sites crossing ownership boundaries (row
// insertion, undo image capture, join projection) are explicit about it
// per spec §4.1's deep-copy discipline.
func (v Value) Copy() Value { return v }

// Compare implements the total order spec §4.1 describes: NULLs sort
// first (NULL == NULL), else differing Kinds compare by tag, else payloads
// compare naturally (ints/floats numerically, strings byte-wise, bool
// FALSE < TRUE). Returns -1, 0, or 1.
func Compare(a, b Value) int {
	if a.isNull && b.isNull {
		return 0
	}
	if a.isNull {
		return -1
	}
	if b.isNull {
		return 1
	}
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}
	switch a.kind {
	case Int:
		switch {
		case a.i < b.i:
			return -1
		case a.i > b.i:
			return 1
		default:
			return 0
		}
	case Float:
		switch {
		case a.f < b.f:
			return -1
		case a.f > b.f:
			return 1
		default:
			return 0
		}
	case Varchar, Text:
		return strings.Compare(a.s, b.s)
	case Boolean:
		if a.b == b.b {
			return 0
		}
		if !a.b {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// Equal reports whether Compare(a, b) == 0.
func Equal(a, b Value) bool { return Compare(a, b) == 0 }

// Less reports whether Compare(a, b) < 0.
func Less(a, b Value) bool { return Compare(a, b) < 0 }

// GoString renders the value for diagnostics/logging.
func (v Value) GoString() string {
	if v.isNull {
		return "NULL"
	}
	switch v.kind {
	case Int:
		return fmt.Sprintf("%d", v.i)
	case Float:
		return fmt.Sprintf("%g", v.f)
	case Varchar, Text:
		return v.s
	case Boolean:
		return fmt.Sprintf("%t", v.b)
	default:
		return "?"
	}
}

// ZeroFor returns the type-default (non-NULL) value for Kind k, used by
// ADD COLUMN when no default literal/NULL is requested.
func ZeroFor(k Kind) Value {
	switch k {
	case Int:
		return NewInt(0)
	case Float:
		return NewFloat(0)
	case Varchar:
		return NewVarchar("")
	case Text:
		return NewText("")
	case Boolean:
		return NewBool(false)
	default:
		return NewNull(k)
	}
}
