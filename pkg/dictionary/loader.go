package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bastiangx/prefixserve/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	// ErrMalformedEntry is wrapped by every error about a bad record.
	ErrMalformedEntry = errors.New("malformed dictionary entry")
	// ErrUnknownFormat is returned when a file's format cannot be determined.
	ErrUnknownFormat = errors.New("unknown dictionary format")
)

// Loader reads dictionaries, keeping at most MaxWords entries (0 for all).
type Loader struct {
	MaxWords int
}

// NewLoader creates a loader with the given word limit.
func NewLoader(maxWords int) *Loader {
	return &Loader{MaxWords: maxWords}
}

// LoadFile detects the format of filename and loads it.
func (l *Loader) LoadFile(filename string) (*Store, error) {
	format, err := DetectFileFormat(filename)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary %s: %w", filename, err)
	}
	defer file.Close()

	var store *Store
	switch format {
	case FormatText:
		store, err = l.ReadText(file)
	case FormatMsgpack:
		store, err = l.ReadMsgpack(file)
	default:
		return nil, fmt.Errorf("%s: %w", filename, ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary %s: %w", filename, err)
	}

	log.Debugf("Loaded %d words from %s", store.Len(), filename)
	return store, nil
}

// ReadText parses the plain text format: records of "key: value" lines
// (word, frequency, definition) separated by blank lines.
//
//	word: aardvark
//	frequency: 12
//	definition: a burrowing mammal
func (l *Loader) ReadText(r io.Reader) (*Store, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		entries []Entry
		rec     textRecord
		lineNo  int
	)

	flush := func() error {
		if rec.empty() {
			return nil
		}
		entry, err := rec.entry()
		if err != nil {
			return err
		}
		entries = append(entries, entry)
		rec = textRecord{}
		return nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			if l.full(len(entries)) {
				break
			}
			continue
		}
		if err := rec.add(line, lineNo); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}
	if !l.full(len(entries)) {
		if err := flush(); err != nil {
			return nil, err
		}
	}
	return NewStore(entries), nil
}

// ReadMsgpack decodes a msgpack array of entries.
func (l *Loader) ReadMsgpack(r io.Reader) (*Store, error) {
	var entries []Entry
	if err := msgpack.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode msgpack dictionary: %w", err)
	}
	for i, e := range entries {
		if err := validate(e); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}
	if l.MaxWords > 0 && len(entries) > l.MaxWords {
		entries = entries[:l.MaxWords]
	}
	return NewStore(entries), nil
}

// WriteMsgpack encodes every entry of store as one msgpack array.
func WriteMsgpack(w io.Writer, store *Store) error {
	if err := msgpack.NewEncoder(w).Encode(store.entries); err != nil {
		return fmt.Errorf("failed to encode msgpack dictionary: %w", err)
	}
	return nil
}

func (l *Loader) full(n int) bool {
	return l.MaxWords > 0 && n >= l.MaxWords
}

// textRecord accumulates the lines of one text record.
type textRecord struct {
	word, freq, def string
	hasWord         bool
	hasFreq         bool
	line            int
}

func (r *textRecord) empty() bool {
	return !r.hasWord && !r.hasFreq && r.def == ""
}

func (r *textRecord) add(line string, lineNo int) error {
	if r.empty() {
		r.line = lineNo
	}
	key, value, _ := strings.Cut(line, ":")
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "word":
		if r.hasWord {
			return fmt.Errorf("line %d: second word in one record: %w", lineNo, ErrMalformedEntry)
		}
		r.word, r.hasWord = value, true
	case "frequency":
		if r.hasFreq {
			return fmt.Errorf("line %d: second frequency in one record: %w", lineNo, ErrMalformedEntry)
		}
		r.freq, r.hasFreq = value, true
	case "definition":
		r.def = value
	default:
		return fmt.Errorf("line %d: unexpected line %q: %w", lineNo, line, ErrMalformedEntry)
	}
	return nil
}

func (r *textRecord) entry() (Entry, error) {
	if !r.hasWord {
		return Entry{}, fmt.Errorf("line %d: record without word: %w", r.line, ErrMalformedEntry)
	}
	if !r.hasFreq {
		return Entry{}, fmt.Errorf("line %d: word %q without frequency: %w", r.line, r.word, ErrMalformedEntry)
	}
	freq, err := strconv.Atoi(r.freq)
	if err != nil {
		return Entry{}, fmt.Errorf("line %d: bad frequency %q: %w", r.line, r.freq, ErrMalformedEntry)
	}
	e := Entry{Word: r.word, Frequency: freq, Definition: r.def}
	if err := validate(e); err != nil {
		return Entry{}, fmt.Errorf("line %d: %w", r.line, err)
	}
	return e, nil
}

// validate enforces what the trie assumes of every entry.
func validate(e Entry) error {
	if e.Word == "" {
		return fmt.Errorf("empty word: %w", ErrMalformedEntry)
	}
	if i := utils.FirstInvalidByte(e.Word); i >= 0 {
		return fmt.Errorf("word %q contains %q outside a-z: %w", e.Word, e.Word[i], ErrMalformedEntry)
	}
	if e.Frequency < 0 {
		return fmt.Errorf("word %q has negative frequency %d: %w", e.Word, e.Frequency, ErrMalformedEntry)
	}
	return nil
}
