package suggest

import (
	"sort"
	"time"

	"github.com/bastiangx/prefixserve/pkg/dictionary"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Suggestion is a dictionary word offered for a prefix. Count is the number
// of dictionary words sharing the prefix it was found for.
type Suggestion struct {
	Word       string
	Frequency  int
	Definition string `json:",omitempty"`
	Count      int
}

// Completer answers prefix queries over one dictionary store.
// It is immutable after NewCompleter and safe for concurrent use.
type Completer struct {
	store *dictionary.Store
	trie  *Trie
	index *patricia.Trie
}

// NewCompleter builds the prefix trie and the word index for store.
func NewCompleter(store *dictionary.Store) *Completer {
	start := time.Now()
	trie := Build(store)

	index := patricia.NewTrie()
	for i := 0; i < store.Len(); i++ {
		key := patricia.Prefix(store.Word(i))
		prev := index.Get(key)
		if prev == nil {
			index.Insert(key, i)
			continue
		}
		// same preference as the trie: higher frequency, else the earlier entry
		log.Debugf("Duplicate word '%s' at index %d", store.Word(i), i)
		if store.Frequency(i) > store.Frequency(prev.(int)) {
			index.Set(key, i)
		}
	}

	log.Debugf("Built trie: words=[%d], nodes=[%d] in %v", trie.Len(), trie.NodeCount(), time.Since(start))
	return &Completer{store: store, trie: trie, index: index}
}

// Trie returns the underlying frozen trie.
func (c *Completer) Trie() *Trie {
	return c.trie
}

// Store returns the dictionary the completer was built from.
func (c *Completer) Store() *dictionary.Store {
	return c.store
}

// Suggest returns the best word for prefix, or false when no word has it.
func (c *Completer) Suggest(prefix string) (Suggestion, bool) {
	m, ok := c.trie.Query(prefix)
	if !ok {
		return Suggestion{}, false
	}
	s := c.suggestion(m.WordIndex)
	s.Count = m.PrefixCount
	return s, true
}

// Complete lists distinct words starting with prefix, by frequency then
// alphabetically, at most limit of them (no limit when limit <= 0).
func (c *Completer) Complete(prefix string, limit int) []Suggestion {
	m, ok := c.trie.Query(prefix)
	if !ok {
		return nil
	}

	var indices []int
	err := c.index.VisitSubtree(patricia.Prefix(prefix), func(_ patricia.Prefix, item patricia.Item) error {
		indices = append(indices, item.(int))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting word index subtree: %v", err)
		return nil
	}

	sort.Slice(indices, func(i, j int) bool {
		fi, fj := c.store.Frequency(indices[i]), c.store.Frequency(indices[j])
		if fi != fj {
			return fi > fj
		}
		return c.store.Word(indices[i]) < c.store.Word(indices[j])
	})
	if limit > 0 && len(indices) > limit {
		indices = indices[:limit]
	}

	suggestions := make([]Suggestion, len(indices))
	for i, idx := range indices {
		suggestions[i] = c.suggestion(idx)
		suggestions[i].Count = m.PrefixCount
	}
	return suggestions
}

// Define looks up word exactly.
func (c *Completer) Define(word string) (Suggestion, bool) {
	item := c.index.Get(patricia.Prefix(word))
	if item == nil {
		return Suggestion{}, false
	}
	s := c.suggestion(item.(int))
	s.Count = 1
	return s, true
}

// Stats returns statistics about the loaded dictionary.
func (c *Completer) Stats() map[string]int {
	return map[string]int{
		"totalWords":   c.trie.Len(),
		"trieNodes":    c.trie.NodeCount(),
		"maxFrequency": c.store.MaxFrequency(),
	}
}

func (c *Completer) suggestion(idx int) Suggestion {
	e := c.store.Entry(idx)
	return Suggestion{
		Word:       e.Word,
		Frequency:  e.Frequency,
		Definition: e.Definition,
	}
}
