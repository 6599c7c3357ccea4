package index

import (
	"sync"

	"github.com/moyashi/reldb/pkg/value"
	"github.com/yanyiwu/gojieba"
)

// FullTextIndex is a keyword-search secondary index over TEXT/VARCHAR
// columns, segmenting indexed strings into tokens with gojieba (a
// Chinese-aware tokenizer that degrades to whitespace/punctuation
// splitting for other scripts) and maintaining an inverted token ->
// rowID postings list. It is additive to the ordered-multiset Index
// spec §4.3 describes, not a replacement — equality/range semantics for
// non-text columns still go through OrderedIndex.
type FullTextIndex struct {
	info     Info
	mu       sync.Mutex
	seg      *gojieba.Jieba
	postings map[string]map[uint64]bool // token -> set of rowIDs
	terms    map[uint64][]string        // rowID -> tokens, for Delete
}

// NewFullTextIndex builds an empty FullTextIndex. Callers must call
// Close when done to release the underlying tokenizer dictionary.
func NewFullTextIndex(info Info) *FullTextIndex {
	info.Kind = FullText
	return &FullTextIndex{
		info:     info,
		seg:      gojieba.NewJieba(),
		postings: make(map[string]map[uint64]bool),
		terms:    make(map[uint64][]string),
	}
}

// Close releases the tokenizer's native dictionary resources.
func (idx *FullTextIndex) Close() {
	if idx.seg != nil {
		idx.seg.Free()
		idx.seg = nil
	}
}

func (idx *FullTextIndex) Info() Info { return idx.info }

func (idx *FullTextIndex) Len() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return len(idx.terms)
}

func (idx *FullTextIndex) tokenize(text string) []string {
	return idx.seg.CutForSearch(text, true)
}

// Insert tokenizes the VARCHAR/TEXT value and records rowID under every
// resulting token. Non-string values are ignored (a full-text index on a
// non-text column has no tokens to index).
func (idx *FullTextIndex) Insert(key value.Value, rowID uint64) {
	if key.IsNull() || (key.Kind() != value.Varchar && key.Kind() != value.Text) {
		return
	}
	tokens := idx.tokenize(key.Str())

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.terms[rowID] = tokens
	for _, tok := range tokens {
		set, ok := idx.postings[tok]
		if !ok {
			set = make(map[uint64]bool)
			idx.postings[tok] = set
		}
		set[rowID] = true
	}
}

// Delete removes every posting recorded for rowID under key's tokens.
func (idx *FullTextIndex) Delete(key value.Value, rowID uint64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	tokens, ok := idx.terms[rowID]
	if !ok {
		return
	}
	for _, tok := range tokens {
		if set, ok := idx.postings[tok]; ok {
			delete(set, rowID)
			if len(set) == 0 {
				delete(idx.postings, tok)
			}
		}
	}
	delete(idx.terms, rowID)
}

// Find tokenizes key and returns the rowIDs containing every resulting
// token (an AND of single-token postings lookups).
func (idx *FullTextIndex) Find(key value.Value) ([]uint64, bool) {
	if key.IsNull() || (key.Kind() != value.Varchar && key.Kind() != value.Text) {
		return nil, false
	}
	tokens := idx.tokenize(key.Str())
	if len(tokens) == 0 {
		return nil, false
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	var result map[uint64]bool
	for i, tok := range tokens {
		set := idx.postings[tok]
		if i == 0 {
			result = make(map[uint64]bool, len(set))
			for id := range set {
				result[id] = true
			}
			continue
		}
		for id := range result {
			if !set[id] {
				delete(result, id)
			}
		}
	}
	if len(result) == 0 {
		return nil, false
	}
	ids := make([]uint64, 0, len(result))
	for id := range result {
		ids = append(ids, id)
	}
	return ids, true
}

// FindRange is not meaningful for a token postings list.
func (idx *FullTextIndex) FindRange(min, max value.Value) ([]uint64, error) {
	return nil, &ErrRangeUnsupported{IndexName: idx.info.Name}
}
