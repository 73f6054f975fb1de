package dict

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/f3rmion/pinyincheck/internal/pinyin"
	"golang.org/x/text/unicode/norm"
)

// Entry is a single line of a Make Me a Hanzi dictionary.txt file.
type Entry struct {
	Character     string   `json:"character"`
	Definition    string   `json:"definition"`
	Pinyin        []string `json:"pinyin"`
	Decomposition string   `json:"decomposition"`
	Radical       string   `json:"radical"`
}

// Dictionary holds character entries keyed by rune.
type Dictionary struct {
	entries map[rune]*Entry
}

// NewDictionary creates an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{
		entries: make(map[rune]*Entry),
	}
}

// LoadFromFile loads a JSONL dictionary file.
func (d *Dictionary) LoadFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening dictionary file: %w", err)
	}
	defer file.Close()

	if err := d.Load(file); err != nil {
		return fmt.Errorf("reading dictionary file: %w", err)
	}
	return nil
}

// Load reads JSONL entries from r. Malformed lines and entries that are not
// a single character are skipped.
func (d *Dictionary) Load(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			// Skip malformed entries
			continue
		}

		ch, size := utf8.DecodeRuneInString(entry.Character)
		if ch == utf8.RuneError || size != len(entry.Character) {
			continue
		}
		d.entries[ch] = &entry
	}

	return scanner.Err()
}

// Lookup returns the entry for a character, or nil.
func (d *Dictionary) Lookup(r rune) *Entry {
	return d.entries[r]
}

// Size returns the number of entries in the dictionary.
func (d *Dictionary) Size() int {
	return len(d.entries)
}

// Pronunciations implements Oracle. Entries without readings count as unknown.
func (d *Dictionary) Pronunciations(r rune) ([]pinyin.Reading, bool) {
	entry := d.entries[r]
	if entry == nil {
		return nil, false
	}

	var readings []pinyin.Reading
	for _, p := range entry.Pinyin {
		p = strings.ToLower(norm.NFC.String(strings.TrimSpace(p)))
		if p == "" {
			continue
		}
		readings = appendUnique(readings, pinyin.NewReading(p))
	}
	if len(readings) == 0 {
		return nil, false
	}
	return readings, true
}

// idsChars are the Ideographic Description Characters.
var idsChars = map[rune]string{
	'⿰': "left-right",
	'⿱': "top-bottom",
	'⿲': "left-mid-right",
	'⿳': "top-mid-bottom",
	'⿴': "surround",
	'⿵': "surround-top",
	'⿶': "surround-bottom",
	'⿷': "surround-left",
	'⿸': "surround-upper-left",
	'⿹': "surround-upper-right",
	'⿺': "surround-lower-left",
	'⿻': "overlaid",
}

// FormatDecomposition describes an IDS decomposition, e.g. "left-right: 女 + 子".
func FormatDecomposition(decomposition string) string {
	if decomposition == "" || decomposition == "？" {
		return ""
	}

	structure := "simple"
	var components []string
	for _, r := range decomposition {
		if desc, ok := idsChars[r]; ok {
			if structure == "simple" {
				structure = desc
			}
			continue
		}
		// CJK radicals blocks: U+2E80–U+2FDF
		if unicode.Is(unicode.Han, r) || (r >= 0x2E80 && r <= 0x2FDF) {
			components = append(components, string(r))
		}
	}
	if len(components) == 0 {
		return ""
	}

	return fmt.Sprintf("%s: %s", structure, strings.Join(components, " + "))
}
