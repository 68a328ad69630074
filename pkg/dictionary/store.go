// Package dictionary loads word entries from disk into an ordered, immutable Store.
package dictionary

// Entry is one dictionary word. An empty Definition means the word has none.
type Entry struct {
	Word       string `msgpack:"w"`
	Frequency  int    `msgpack:"f"`
	Definition string `msgpack:"d,omitempty"`
}

// Store is an ordered collection of entries addressed by their load index.
// It is never modified after construction.
type Store struct {
	entries []Entry
	maxFreq int
}

// NewStore wraps entries in the order given. The slice is copied.
func NewStore(entries []Entry) *Store {
	s := &Store{entries: make([]Entry, len(entries))}
	copy(s.entries, entries)
	for _, e := range s.entries {
		if e.Frequency > s.maxFreq {
			s.maxFreq = e.Frequency
		}
	}
	return s
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Entry returns the entry at index i.
func (s *Store) Entry(i int) Entry {
	return s.entries[i]
}

// Word returns the word text at index i.
func (s *Store) Word(i int) string {
	return s.entries[i].Word
}

// Frequency returns the frequency at index i.
func (s *Store) Frequency(i int) int {
	return s.entries[i].Frequency
}

// MaxFrequency returns the highest frequency in the store, 0 when empty.
func (s *Store) MaxFrequency() int {
	return s.maxFreq
}

// Entries returns a copy of all entries in index order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
