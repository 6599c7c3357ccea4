package catalog

import (
	"regexp"
	"strings"
	"sync"

	"github.com/moyashi/reldb/pkg/stmt"
	"github.com/moyashi/reldb/pkg/value"
)

// Matches reports whether row satisfies where, given columns describes
// row's shape. Conditions are evaluated left to right and grouped into
// OR-separated clauses of AND'ed predicates — AND binds tighter than OR
// (spec §4.2) — rather than the source's single-predicate match-all
// stub.
func Matches(columns []Column, row *Row, where stmt.Where) bool {
	if len(where) == 0 {
		return true
	}

	result := false
	clause := true
	for i, cond := range where {
		clause = clause && evalCondition(columns, row, cond)
		if cond.Connector != stmt.And || i == len(where)-1 {
			result = result || clause
			clause = true
		}
	}
	return result
}

func evalCondition(columns []Column, row *Row, cond stmt.Condition) bool {
	idx := columnIndex(columns, cond.Column)
	if idx < 0 {
		return false
	}
	v := row.Values[idx]

	switch cond.Op {
	case stmt.Eq:
		return value.Equal(v, cond.Value)
	case stmt.Neq:
		return !value.Equal(v, cond.Value)
	case stmt.Lt:
		return value.Less(v, cond.Value)
	case stmt.Gt:
		return value.Less(cond.Value, v)
	case stmt.Lte:
		return !value.Less(cond.Value, v)
	case stmt.Gte:
		return !value.Less(v, cond.Value)
	case stmt.Like:
		return likeMatch(v, cond.Value)
	case stmt.IsNull:
		return v.IsNull()
	case stmt.IsNotNull:
		return !v.IsNull()
	case stmt.In:
		for _, candidate := range cond.Values {
			if value.Equal(v, candidate) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func columnIndex(columns []Column, name string) int {
	for i, c := range columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

var (
	likeCacheMu sync.Mutex
	likeCache   = make(map[string]*regexp.Regexp)
)

// likeMatch implements SQL LIKE with % (any run) and _ (single char)
// wildcards over VARCHAR/TEXT columns. Non-string operands never match,
// mirroring the source's behavior of treating LIKE as string-only.
func likeMatch(v, pattern value.Value) bool {
	if v.IsNull() || pattern.IsNull() {
		return false
	}
	if (v.Kind() != value.Varchar && v.Kind() != value.Text) ||
		(pattern.Kind() != value.Varchar && pattern.Kind() != value.Text) {
		return false
	}

	re := compileLike(pattern.Str())
	return re.MatchString(v.Str())
}

func compileLike(pattern string) *regexp.Regexp {
	likeCacheMu.Lock()
	defer likeCacheMu.Unlock()
	if re, ok := likeCache[pattern]; ok {
		return re
	}

	var b strings.Builder
	b.WriteString("(?s)^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	re := regexp.MustCompile(b.String())
	likeCache[pattern] = re
	return re
}
