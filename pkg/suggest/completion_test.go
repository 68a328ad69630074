package suggest

import (
	"testing"

	"github.com/bastiangx/prefixserve/pkg/dictionary"
)

func newTestCompleter() *Completer {
	return NewCompleter(dictionary.NewStore([]dictionary.Entry{
		{Word: "cat", Frequency: 5, Definition: "a small feline"},
		{Word: "car", Frequency: 5, Definition: "a road vehicle"},
		{Word: "cart", Frequency: 3},
		{Word: "dog", Frequency: 2, Definition: "a loyal canine"},
		{Word: "doge", Frequency: 9},
		{Word: "car", Frequency: 8, Definition: "duplicate with a higher frequency"},
	}))
}

func TestCompleterSuggest(t *testing.T) {
	c := newTestCompleter()

	testCases := []struct {
		prefix    string
		wantFound bool
		wantWord  string
		wantDef   string
		wantCount int
	}{
		{"ca", true, "car", "duplicate with a higher frequency", 4},
		{"cat", true, "cat", "a small feline", 1},
		{"dog", true, "doge", "", 2},
		{"", true, "doge", "", 6},
		{"x", false, "", "", 0},
		{"Ca", false, "", "", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.prefix, func(t *testing.T) {
			s, ok := c.Suggest(tc.prefix)
			if ok != tc.wantFound {
				t.Fatalf("Suggest(%q) found = %v, want %v", tc.prefix, ok, tc.wantFound)
			}
			if !ok {
				return
			}
			if s.Word != tc.wantWord || s.Definition != tc.wantDef || s.Count != tc.wantCount {
				t.Errorf("Suggest(%q) = %+v, want word %q definition %q count %d",
					tc.prefix, s, tc.wantWord, tc.wantDef, tc.wantCount)
			}
		})
	}
}

func TestCompleterComplete(t *testing.T) {
	c := newTestCompleter()

	got := c.Complete("ca", 0)
	want := []string{"car", "cat", "cart"}
	if len(got) != len(want) {
		t.Fatalf("Complete(\"ca\", 0) returned %d suggestions, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Word != w {
			t.Errorf("Complete(\"ca\", 0)[%d] = %q, want %q", i, got[i].Word, w)
		}
		if got[i].Count != 4 {
			t.Errorf("Complete(\"ca\", 0)[%d].Count = %d, want 4", i, got[i].Count)
		}
	}
	if got[0].Frequency != 8 {
		t.Errorf("duplicate car should carry frequency 8, got %d", got[0].Frequency)
	}

	if limited := c.Complete("", 2); len(limited) != 2 || limited[0].Word != "doge" || limited[1].Word != "car" {
		t.Errorf("Complete(\"\", 2) = %+v, want doge then car", limited)
	}
	if none := c.Complete("zz", 5); none != nil {
		t.Errorf("Complete(\"zz\", 5) = %+v, want nil", none)
	}
}

func TestCompleteAgreesWithSuggest(t *testing.T) {
	c := newTestCompleter()
	for _, prefix := range []string{"", "c", "ca", "car", "cart", "d", "do", "dog", "doge"} {
		best, ok := c.Suggest(prefix)
		if !ok {
			t.Fatalf("Suggest(%q) not found", prefix)
		}
		top := c.Complete(prefix, 1)
		if len(top) != 1 || top[0].Word != best.Word {
			t.Errorf("Complete(%q, 1) = %+v, Suggest = %q", prefix, top, best.Word)
		}
	}
}

func TestCompleterDefine(t *testing.T) {
	c := newTestCompleter()

	s, ok := c.Define("dog")
	if !ok {
		t.Fatal("Define(\"dog\") not found")
	}
	if s.Definition != "a loyal canine" || s.Frequency != 2 || s.Count != 1 {
		t.Errorf("Define(\"dog\") = %+v", s)
	}

	if _, ok := c.Define("do"); ok {
		t.Error("Define(\"do\") should not match a prefix")
	}
}

func TestCompleterStats(t *testing.T) {
	c := newTestCompleter()
	stats := c.Stats()

	if stats["totalWords"] != 6 {
		t.Errorf("totalWords = %d, want 6", stats["totalWords"])
	}
	if stats["maxFrequency"] != 9 {
		t.Errorf("maxFrequency = %d, want 9", stats["maxFrequency"])
	}
	if stats["trieNodes"] != c.Trie().NodeCount() {
		t.Errorf("trieNodes = %d, want %d", stats["trieNodes"], c.Trie().NodeCount())
	}
}

func TestCompleterEmptyStore(t *testing.T) {
	c := NewCompleter(dictionary.NewStore(nil))
	if _, ok := c.Suggest(""); ok {
		t.Error("Suggest(\"\") on an empty dictionary should not be found")
	}
	if got := c.Complete("", 10); got != nil {
		t.Errorf("Complete(\"\", 10) = %+v, want nil", got)
	}
}
