package index

import (
	"testing"

	"github.com/moyashi/reldb/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedIndexInsertFindDelete(t *testing.T) {
	idx := NewOrderedIndex(Info{Name: "idx_id", Table: "t", Column: "id"})
	idx.Insert(value.NewInt(1), 10)
	idx.Insert(value.NewInt(2), 20)
	idx.Insert(value.NewInt(1), 11)

	ids, ok := idx.Find(value.NewInt(1))
	require.True(t, ok)
	assert.ElementsMatch(t, []uint64{10, 11}, ids)

	idx.Delete(value.NewInt(1), 10)
	ids, ok = idx.Find(value.NewInt(1))
	require.True(t, ok)
	assert.Equal(t, []uint64{11}, ids)

	_, ok = idx.Find(value.NewInt(99))
	assert.False(t, ok)
}

func TestOrderedIndexFindRange(t *testing.T) {
	idx := NewOrderedIndex(Info{Name: "idx", Table: "t", Column: "n"})
	for i := int64(1); i <= 10; i++ {
		idx.Insert(value.NewInt(i), uint64(i))
	}
	ids, err := idx.FindRange(value.NewInt(3), value.NewInt(6))
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 4, 5, 6}, ids)
}

func TestOrderedIndexRebuildMatchesLiveIndex(t *testing.T) {
	idx := NewOrderedIndex(Info{Name: "idx", Table: "t", Column: "n"})
	idx.Insert(value.NewInt(5), 1)
	idx.Insert(value.NewInt(3), 2)
	idx.Insert(value.NewInt(5), 3)

	type pair struct {
		Key   value.Value
		RowID uint64
	}
	pairs := []pair{{value.NewInt(5), 1}, {value.NewInt(3), 2}, {value.NewInt(5), 3}}
	converted := make([]struct {
		Key   value.Value
		RowID uint64
	}, len(pairs))
	for i, p := range pairs {
		converted[i] = p
	}

	rebuilt := NewOrderedIndex(Info{Name: "idx2", Table: "t", Column: "n"})
	rebuilt.Rebuild(converted)

	assert.Equal(t, idx.entries, rebuilt.entries)
}

func TestFullTextIndexInsertFind(t *testing.T) {
	idx := NewFullTextIndex(Info{Name: "ft", Table: "docs", Column: "body"})
	defer idx.Close()

	idx.Insert(value.NewText("the quick brown fox"), 1)
	idx.Insert(value.NewText("the lazy dog"), 2)

	ids, ok := idx.Find(value.NewText("fox"))
	require.True(t, ok)
	assert.Contains(t, ids, uint64(1))
	assert.NotContains(t, ids, uint64(2))

	idx.Delete(value.NewText("the quick brown fox"), 1)
	_, ok = idx.Find(value.NewText("fox"))
	assert.False(t, ok)
}

func TestFullTextIndexRangeUnsupported(t *testing.T) {
	idx := NewFullTextIndex(Info{Name: "ft", Table: "docs", Column: "body"})
	defer idx.Close()
	_, err := idx.FindRange(value.NewInt(0), value.NewInt(1))
	assert.Error(t, err)
}
