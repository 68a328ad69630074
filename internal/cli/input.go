// Package cli runs the interactive prompt: read a prefix, print the best word for it,
// until the sentinel line is entered or input ends.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/prefixserve/pkg/config"
	"github.com/bastiangx/prefixserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

const noDefinition = "No definition"

// InputHandler reads prefixes line by line and renders answers from completer.
//
// Besides plain prefixes it understands a few commands:
//
//	:top <prefix>    ranked table of words sharing the prefix
//	:define <word>   exact lookup of one word
//	:stats           dictionary statistics
type InputHandler struct {
	completer      suggest.ICompleter
	in             io.Reader
	out            io.Writer
	sentinel       string
	maxPrefix      int
	topLimit       int
	showDefinition bool
	styles         styles
}

// NewInputHandler handles initialization of the InputHandler with the [cli] config section
func NewInputHandler(completer suggest.ICompleter, cfg config.CliConfig, in io.Reader, out io.Writer) *InputHandler {
	return &InputHandler{
		completer:      completer,
		in:             in,
		out:            out,
		sentinel:       cfg.Sentinel,
		maxPrefix:      cfg.MaxPrefix,
		topLimit:       cfg.TopLimit,
		showDefinition: cfg.ShowDefinition,
		styles:         newStyles(out),
	}
}

// Start begins the interface loop. It returns nil when the sentinel is
// entered or input ends, and the read error otherwise.
func (h *InputHandler) Start() error {
	reader := bufio.NewReader(h.in)
	fmt.Fprintf(h.out, "Enter a prefix, or %s to quit.\n", h.sentinel)

	for {
		fmt.Fprint(h.out, h.styles.prompt.Render("prefix> "))
		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				fmt.Fprintln(h.out)
				return nil
			}
			return err
		}

		input := strings.TrimSpace(line)
		if input == h.sentinel {
			fmt.Fprintln(h.out, "Bye!")
			return nil
		}
		h.handleInput(input)
		if err == io.EOF {
			return nil
		}
	}
}

// handleInput dispatches one trimmed input line.
func (h *InputHandler) handleInput(input string) {
	switch {
	case input == ":stats":
		h.printStats()
	case strings.HasPrefix(input, ":top"):
		h.printTop(strings.TrimSpace(strings.TrimPrefix(input, ":top")))
	case strings.HasPrefix(input, ":define"):
		h.printDefinition(strings.TrimSpace(strings.TrimPrefix(input, ":define")))
	default:
		h.printSuggestion(input)
	}
}

func (h *InputHandler) printSuggestion(prefix string) {
	if h.maxPrefix > 0 && len(prefix) > h.maxPrefix {
		log.Errorf("Prefix too long: %d > %d", len(prefix), h.maxPrefix)
		return
	}

	start := time.Now()
	s, ok := h.completer.Suggest(prefix)
	log.Debugf("Took [ %v ] for prefix '%s'", time.Since(start), prefix)

	if !ok {
		fmt.Fprintf(h.out, "%s\n\n", h.styles.miss.Render(
			fmt.Sprintf("There is no word in the dictionary that has %q as a prefix.", prefix)))
		return
	}

	fmt.Fprintf(h.out, "Auto-complete suggestion: %s\n", h.styles.word.Render(s.Word))
	if h.showDefinition {
		fmt.Fprintf(h.out, "Definition: %s\n", definition(s))
	}
	fmt.Fprintf(h.out, "There are %s words in the dictionary that have %q as a prefix.\n\n",
		h.styles.count.Render(fmt.Sprint(s.Count)), prefix)
}

func (h *InputHandler) printDefinition(word string) {
	s, ok := h.completer.Define(word)
	if !ok {
		fmt.Fprintf(h.out, "%s\n\n", h.styles.miss.Render(fmt.Sprintf("%q is not in the dictionary.", word)))
		return
	}
	fmt.Fprintf(h.out, "%s (freq: %d): %s\n\n", h.styles.word.Render(s.Word), s.Frequency, definition(s))
}

func definition(s suggest.Suggestion) string {
	if s.Definition == "" {
		return noDefinition
	}
	return s.Definition
}
