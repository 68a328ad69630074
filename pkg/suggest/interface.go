// Package suggest is the core: a prefix trie that keeps, at every node, the number of
// words below it and the best of them, built incrementally one word at a time.
package suggest

// ICompleter defines what the front ends need from a completion engine
type ICompleter interface {
	// Suggest returns the best word for a prefix and how many words share it
	Suggest(prefix string) (Suggestion, bool)

	// Complete returns up to limit words for a prefix, best first
	Complete(prefix string, limit int) []Suggestion

	// Define looks up a single word exactly
	Define(word string) (Suggestion, bool)

	// Stats returns statistics about the loaded dictionary
	Stats() map[string]int
}

var _ ICompleter = (*Completer)(nil)
