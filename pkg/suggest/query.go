package suggest

// Match is the answer for a prefix that at least one word starts with.
type Match struct {
	WordIndex   int
	PrefixCount int
}

// Query walks the trie along prefix. It reports false as soon as a byte has
// no child, including bytes outside a-z, and for every prefix of an empty trie.
// The empty prefix matches the global best word and the total word count.
func (t *Trie) Query(prefix string) (Match, bool) {
	var cur int32
	for i := 0; i < len(prefix); i++ {
		c := prefix[i]
		if c < 'a' || c > 'z' {
			return Match{}, false
		}
		next := t.nodes[cur].children[c-'a']
		if next == 0 {
			return Match{}, false
		}
		cur = next
	}
	n := &t.nodes[cur]
	if n.prefixCount == 0 {
		return Match{}, false
	}
	return Match{WordIndex: n.bestWordIndex, PrefixCount: n.prefixCount}, true
}

// IsWord reports whether word was inserted as a complete word.
func (t *Trie) IsWord(word string) bool {
	var cur int32
	for i := 0; i < len(word); i++ {
		c := word[i]
		if c < 'a' || c > 'z' {
			return false
		}
		if cur = t.nodes[cur].children[c-'a']; cur == 0 {
			return false
		}
	}
	return t.nodes[cur].isWordEnd
}
