package suggest

import (
	"math/rand"
	"sync"
	"testing"
)

type testWord struct {
	word string
	freq int
}

// sliceSource is a WordSource over a fixed list of words.
type sliceSource []testWord

func (s sliceSource) Len() int            { return len(s) }
func (s sliceSource) Word(i int) string   { return s[i].word }
func (s sliceSource) Frequency(i int) int { return s[i].freq }

func TestQueryScenarios(t *testing.T) {
	testCases := []struct {
		name      string
		words     sliceSource
		prefix    string
		wantFound bool
		wantWord  string
		wantCount int
	}{
		{"tie broken alphabetically", sliceSource{{"cat", 5}, {"car", 5}, {"cart", 3}}, "ca", true, "car", 3},
		{"higher frequency dominates", sliceSource{{"dog", 2}, {"doge", 9}}, "dog", true, "doge", 2},
		{"missing first letter", sliceSource{{"a", 1}}, "b", false, "", 0},
		{"tie on second letter", sliceSource{{"ab", 4}, {"ac", 4}}, "a", true, "ab", 2},
		{"empty prefix", sliceSource{{"ab", 4}, {"ac", 4}}, "", true, "ab", 2},
		{"empty store", sliceSource{}, "", false, "", 0},
		{"empty store with prefix", sliceSource{}, "a", false, "", 0},
		{"prefix longer than every word", sliceSource{{"car", 1}}, "cars", false, "", 0},
		{"whole word as prefix", sliceSource{{"car", 1}, {"cart", 1}}, "car", true, "car", 2},
		{"uppercase never matches", sliceSource{{"car", 1}}, "Car", false, "", 0},
		{"digit never matches", sliceSource{{"car", 1}}, "c4", false, "", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			trie := Build(tc.words)
			m, ok := trie.Query(tc.prefix)
			if ok != tc.wantFound {
				t.Fatalf("Query(%q) found = %v, want %v", tc.prefix, ok, tc.wantFound)
			}
			if !ok {
				return
			}
			if got := tc.words.Word(m.WordIndex); got != tc.wantWord {
				t.Errorf("Query(%q) best = %q, want %q", tc.prefix, got, tc.wantWord)
			}
			if m.PrefixCount != tc.wantCount {
				t.Errorf("Query(%q) count = %d, want %d", tc.prefix, m.PrefixCount, tc.wantCount)
			}
		})
	}
}

func TestTieBreaking(t *testing.T) {
	testCases := []struct {
		name   string
		words  sliceSource
		prefix string
		want   string
	}{
		// the shorter word is smaller when one is a prefix of the other
		{"prefix word inserted first", sliceSource{{"car", 3}, {"cart", 3}}, "c", "car"},
		{"prefix word inserted last", sliceSource{{"cart", 3}, {"car", 3}}, "c", "car"},
		{"prefix word at its own node", sliceSource{{"cart", 3}, {"car", 3}}, "car", "car"},
		{"longer word below the prefix word", sliceSource{{"cart", 3}, {"car", 3}}, "cart", "cart"},
		{"tie decided deep", sliceSource{{"abcdz", 1}, {"abcda", 1}}, "ab", "abcda"},
		{"tie lost deep", sliceSource{{"abcda", 1}, {"abcdz", 1}}, "a", "abcda"},
		{"zero frequency ties", sliceSource{{"zoo", 0}, {"zap", 0}}, "z", "zap"},
		{"zero loses to one", sliceSource{{"zap", 0}, {"zoo", 1}}, "z", "zoo"},
		{"later win leaves shared nodes", sliceSource{{"ax", 9}, {"bcd", 2}, {"bca", 2}}, "", "ax"},
		{"later win patches below the tie", sliceSource{{"ax", 9}, {"bcd", 2}, {"bca", 2}}, "b", "bca"},
		{"three way tie", sliceSource{{"mop", 7}, {"map", 7}, {"mip", 7}}, "m", "map"},
		{"identical text keeps the earlier entry", sliceSource{{"same", 4}, {"same", 4}}, "s", "same"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			trie := Build(tc.words)
			m, ok := trie.Query(tc.prefix)
			if !ok {
				t.Fatalf("Query(%q) not found", tc.prefix)
			}
			if got := tc.words.Word(m.WordIndex); got != tc.want {
				t.Errorf("Query(%q) best = %q, want %q", tc.prefix, got, tc.want)
			}
		})
	}
}

func TestIdenticalTextKeepsEarlierIndex(t *testing.T) {
	words := sliceSource{{"echo", 2}, {"echo", 2}}
	trie := Build(words)
	m, ok := trie.Query("echo")
	if !ok {
		t.Fatal("Query(\"echo\") not found")
	}
	if m.WordIndex != 0 {
		t.Errorf("best index = %d, want 0", m.WordIndex)
	}
	if m.PrefixCount != 2 {
		t.Errorf("count = %d, want 2", m.PrefixCount)
	}
}

// bruteForce answers a query by scanning every word.
func bruteForce(words sliceSource, prefix string) (best int, count int) {
	best = -1
	for i, w := range words {
		if len(w.word) < len(prefix) || w.word[:len(prefix)] != prefix {
			continue
		}
		count++
		if best < 0 ||
			w.freq > words[best].freq ||
			(w.freq == words[best].freq && w.word < words[best].word) {
			best = i
		}
	}
	return best, count
}

func randomWords(rng *rand.Rand, n int) sliceSource {
	words := make(sliceSource, n)
	for i := range words {
		b := make([]byte, 1+rng.Intn(4))
		for j := range b {
			b[j] = 'a' + byte(rng.Intn(3))
		}
		words[i] = testWord{word: string(b), freq: rng.Intn(4)}
	}
	return words
}

// allPrefixes lists every string over a-d up to length 4, the empty one included.
func allPrefixes() []string {
	prefixes := []string{""}
	frontier := []string{""}
	for depth := 0; depth < 4; depth++ {
		var next []string
		for _, p := range frontier {
			for c := byte('a'); c <= 'd'; c++ {
				next = append(next, p+string(c))
			}
		}
		prefixes = append(prefixes, next...)
		frontier = next
	}
	return prefixes
}

func checkAgainstBruteForce(t *testing.T, words sliceSource, trie *Trie, prefixes []string) {
	t.Helper()
	for _, p := range prefixes {
		wantBest, wantCount := bruteForce(words, p)
		m, ok := trie.Query(p)
		if wantCount == 0 {
			if ok {
				t.Fatalf("words %v: Query(%q) found %+v, want not found", words, p, m)
			}
			continue
		}
		if !ok {
			t.Fatalf("words %v: Query(%q) not found, want %d matches", words, p, wantCount)
		}
		if m.PrefixCount != wantCount {
			t.Fatalf("words %v: Query(%q) count = %d, want %d", words, p, m.PrefixCount, wantCount)
		}
		got, want := words[m.WordIndex], words[wantBest]
		if got.word != want.word || got.freq != want.freq {
			t.Fatalf("words %v: Query(%q) best = %v, want %v", words, p, got, want)
		}
	}
}

func TestQueryMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	prefixes := allPrefixes()

	for round := 0; round < 300; round++ {
		words := randomWords(rng, 1+rng.Intn(12))
		checkAgainstBruteForce(t, words, Build(words), prefixes)
	}
}

func TestInsertOrderIndependence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	prefixes := allPrefixes()

	for round := 0; round < 100; round++ {
		words := randomWords(rng, 2+rng.Intn(10))
		for perm := 0; perm < 5; perm++ {
			trie := NewTrie(words)
			for _, i := range rng.Perm(len(words)) {
				trie.Insert(i)
			}
			trie.Freeze()
			checkAgainstBruteForce(t, words, trie, prefixes)
		}
	}
}

func TestIsWord(t *testing.T) {
	trie := Build(sliceSource{{"car", 1}, {"cart", 2}})

	testCases := []struct {
		word string
		want bool
	}{
		{"car", true},
		{"cart", true},
		{"ca", false},
		{"carts", false},
		{"", false},
		{"CAR", false},
	}
	for _, tc := range testCases {
		if got := trie.IsWord(tc.word); got != tc.want {
			t.Errorf("IsWord(%q) = %v, want %v", tc.word, got, tc.want)
		}
	}
}

func TestTrieSize(t *testing.T) {
	trie := Build(sliceSource{{"car", 1}, {"cart", 2}, {"cat", 3}})
	if trie.Len() != 3 {
		t.Errorf("Len() = %d, want 3", trie.Len())
	}
	// root, c, a, r, t (cart), t (cat)
	if trie.NodeCount() != 6 {
		t.Errorf("NodeCount() = %d, want 6", trie.NodeCount())
	}
	if !trie.Frozen() {
		t.Error("Build should freeze the trie")
	}
}

func mustPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	f()
}

func TestInsertContractViolations(t *testing.T) {
	words := sliceSource{{"ok", 1}, {"", 1}, {"Bad", 1}, {"neg", -1}, {"sp ace", 1}}

	trie := NewTrie(words)
	trie.Insert(0)
	mustPanic(t, "twice", func() { trie.Insert(0) })
	mustPanic(t, "negative index", func() { trie.Insert(-1) })
	mustPanic(t, "index out of range", func() { trie.Insert(len(words)) })
	mustPanic(t, "empty word", func() { trie.Insert(1) })
	mustPanic(t, "uppercase", func() { trie.Insert(2) })
	mustPanic(t, "negative frequency", func() { trie.Insert(3) })
	mustPanic(t, "space", func() { trie.Insert(4) })

	// rejected inserts leave the trie untouched
	if trie.Len() != 1 || trie.NodeCount() != 3 {
		t.Errorf("after rejected inserts Len() = %d, NodeCount() = %d, want 1 and 3", trie.Len(), trie.NodeCount())
	}
	if m, ok := trie.Query(""); !ok || m.WordIndex != 0 || m.PrefixCount != 1 {
		t.Errorf("Query(\"\") = %+v, %v, want index 0 count 1", m, ok)
	}

	trie.Freeze()
	frozen := NewTrie(sliceSource{{"a", 1}})
	frozen.Freeze()
	mustPanic(t, "frozen", func() { frozen.Insert(0) })
}

func TestQueryIsIdempotent(t *testing.T) {
	words := sliceSource{{"cat", 5}, {"car", 5}, {"cart", 3}}
	trie := Build(words)

	first, ok := trie.Query("ca")
	if !ok {
		t.Fatal("Query(\"ca\") not found")
	}
	for i := 0; i < 10; i++ {
		if m, ok := trie.Query("ca"); !ok || m != first {
			t.Fatalf("Query(\"ca\") #%d = %+v, %v, want %+v", i, m, ok, first)
		}
	}
}

func TestConcurrentQueries(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	words := randomWords(rng, 200)
	trie := Build(words)
	prefixes := allPrefixes()

	want := make([]Match, len(prefixes))
	for i, p := range prefixes {
		want[i], _ = trie.Query(p)
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, p := range prefixes {
				if got, _ := trie.Query(p); got != want[i] {
					t.Errorf("Query(%q) = %+v, want %+v", p, got, want[i])
					return
				}
			}
		}()
	}
	wg.Wait()
}
