package suggest

import (
	"fmt"

	"github.com/bastiangx/prefixserve/internal/utils"
)

const alphabetSize = 26

// WordSource is the read side of a word store the trie is built from.
// Indices run from 0 to Len()-1 and never change.
type WordSource interface {
	Len() int
	Word(i int) string
	Frequency(i int) int
}

// node is one arena slot. Children hold arena indices, 0 meaning absent:
// slot 0 is the root and never anyone's child.
type node struct {
	children      [alphabetSize]int32
	isWordEnd     bool
	prefixCount   int
	bestFrequency int
	bestWordIndex int
}

func newNode() node {
	return node{bestFrequency: -1, bestWordIndex: -1}
}

// Trie aggregates, at every node, the number of words passing through it and
// the best word among them: highest frequency first, then lexicographically smallest.
// It stores indices into its WordSource, never word text.
type Trie struct {
	src      WordSource
	nodes    []node
	inserted []bool
	words    int
	frozen   bool
}

// NewTrie returns an empty trie over src. Nothing is inserted yet.
func NewTrie(src WordSource) *Trie {
	nodes := make([]node, 1, 1+src.Len())
	nodes[0] = newNode()
	return &Trie{
		src:      src,
		nodes:    nodes,
		inserted: make([]bool, src.Len()),
	}
}

// Build inserts every word of src in index order and freezes the result.
func Build(src WordSource) *Trie {
	t := NewTrie(src)
	for i := 0; i < src.Len(); i++ {
		t.Insert(i)
	}
	t.Freeze()
	return t
}

// Freeze marks the trie read-only. Insert panics afterwards.
func (t *Trie) Freeze() {
	t.frozen = true
}

// Frozen reports whether Freeze was called.
func (t *Trie) Frozen() bool {
	return t.frozen
}

// Len returns the number of inserted words.
func (t *Trie) Len() int {
	return t.words
}

// NodeCount returns the number of nodes including the root.
func (t *Trie) NodeCount() int {
	return len(t.nodes)
}

// Insert adds the word at index to the trie, keeping every node's count and
// best word correct. Each index may be inserted once. Contract violations
// panic before the trie is touched.
func (t *Trie) Insert(index int) {
	word, freq := t.checkInsert(index)
	t.inserted[index] = true
	t.words++

	var (
		cur       int32 // current node
		winning   bool  // new word is best here and at every deeper node
		tracking  bool  // tie undecided since tieStart
		tieStart  int
		patchFrom = -1
	)

	for depth := 0; depth <= len(word); depth++ {
		n := &t.nodes[cur]
		n.prefixCount++

		switch {
		case winning:
			n.bestFrequency, n.bestWordIndex = freq, index
		case freq > n.bestFrequency:
			n.bestFrequency, n.bestWordIndex = freq, index
			winning, tracking = true, false
		case freq == n.bestFrequency:
			switch t.compareAt(word, n.bestWordIndex, depth) {
			case tieWon:
				if tracking {
					patchFrom = tieStart
				} else {
					n.bestWordIndex = index
				}
				winning, tracking = true, false
			case tieLost:
				tracking = false
			case tieOpen:
				if !tracking {
					tracking, tieStart = true, depth
				}
			}
		}

		if depth == len(word) {
			n.isWordEnd = true
			break
		}
		cur = t.child(cur, word[depth])
	}

	if patchFrom >= 0 {
		t.patch(word, index, patchFrom)
	}
}

type tieOutcome int

const (
	tieOpen tieOutcome = iota
	tieWon
	tieLost
)

// compareAt decides a frequency tie between word and the current best word
// at a node of the given depth. Both words agree on every byte before depth,
// so only the byte at depth can separate them.
func (t *Trie) compareAt(word string, best int, depth int) tieOutcome {
	other := t.src.Word(best)
	switch {
	case len(other) == depth:
		// other is a prefix of word, or the same text inserted earlier
		return tieLost
	case len(word) == depth:
		return tieWon
	case word[depth] < other[depth]:
		return tieWon
	case word[depth] > other[depth]:
		return tieLost
	}
	return tieOpen
}

// child returns the child of parent for letter c, creating it when absent.
func (t *Trie) child(parent int32, c byte) int32 {
	slot := c - 'a'
	if next := t.nodes[parent].children[slot]; next != 0 {
		return next
	}
	t.nodes = append(t.nodes, newNode())
	next := int32(len(t.nodes) - 1)
	t.nodes[parent].children[slot] = next
	return next
}

// patch points every node from depth `from` down to the terminal node of word
// at index. Shallower nodes are left alone: they may be shared with words
// outside the tie.
func (t *Trie) patch(word string, index int, from int) {
	var cur int32
	for depth := 0; depth <= len(word); depth++ {
		if depth >= from {
			t.nodes[cur].bestWordIndex = index
		}
		if depth < len(word) {
			cur = t.nodes[cur].children[word[depth]-'a']
		}
	}
}

func (t *Trie) checkInsert(index int) (string, int) {
	if t.frozen {
		panic("suggest: insert into frozen trie")
	}
	if index < 0 || index >= t.src.Len() {
		panic(fmt.Sprintf("suggest: word index %d out of range [0,%d)", index, t.src.Len()))
	}
	if t.inserted[index] {
		panic(fmt.Sprintf("suggest: word index %d inserted twice", index))
	}
	word := t.src.Word(index)
	if word == "" {
		panic(fmt.Sprintf("suggest: word index %d is empty", index))
	}
	if i := utils.FirstInvalidByte(word); i >= 0 {
		panic(fmt.Sprintf("suggest: word %q has byte %q outside a-z", word, word[i]))
	}
	freq := t.src.Frequency(index)
	if freq < 0 {
		panic(fmt.Sprintf("suggest: word %q has negative frequency %d", word, freq))
	}
	return word, freq
}
