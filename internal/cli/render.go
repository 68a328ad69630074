package cli

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/bastiangx/prefixserve/internal/utils"
	"github.com/charmbracelet/lipgloss"
	"github.com/cheynewallace/tabby"
)

type styles struct {
	prompt lipgloss.Style
	word   lipgloss.Style
	count  lipgloss.Style
	miss   lipgloss.Style
}

// newStyles binds styles to out so colors are dropped when out is not a terminal.
func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		prompt: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}),
		word:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		count:  r.NewStyle().Foreground(lipgloss.Color("179")),
		miss:   r.NewStyle().Italic(true).Foreground(lipgloss.Color("167")),
	}
}

func (h *InputHandler) table() *tabby.Tabby {
	return tabby.NewCustom(tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0))
}

func (h *InputHandler) printTop(prefix string) {
	suggestions := h.completer.Complete(prefix, h.topLimit)
	if len(suggestions) == 0 {
		fmt.Fprintf(h.out, "%s\n\n", h.styles.miss.Render(
			fmt.Sprintf("There is no word in the dictionary that has %q as a prefix.", prefix)))
		return
	}

	t := h.table()
	t.AddHeader("RANK", "WORD", "FREQUENCY", "DEFINITION")
	for i, s := range suggestions {
		t.AddLine(i+1, s.Word, utils.FormatWithCommas(s.Frequency), definition(s))
	}
	t.Print()
	fmt.Fprintf(h.out, "%d of %d words with prefix %q\n\n", len(suggestions), suggestions[0].Count, prefix)
}

func (h *InputHandler) printStats() {
	stats := h.completer.Stats()
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := h.table()
	t.AddHeader("STAT", "VALUE")
	for _, k := range keys {
		t.AddLine(k, utils.FormatWithCommas(stats[k]))
	}
	t.Print()
	fmt.Fprintln(h.out)
}
