package pinyin

import (
	"fmt"
	"strings"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Strictness selects how the tokenizer treats apostrophes and syllable
// boundaries that standard orthography would mark.
type Strictness int

const (
	// StrictSeparateCurlyQuote is Strict, except that ’ and ‘ are always
	// quotation marks and never syllable apostrophes.
	StrictSeparateCurlyQuote Strictness = iota
	// Strict requires an apostrophe before every a-, o- or e-initial syllable
	// inside a word and rejects words that cannot be split into syllables.
	Strict
	// Loose accepts any split, treats apostrophes as separators and passes
	// unsplittable words through whole.
	Loose
)

var strictnessNames = map[Strictness]string{
	StrictSeparateCurlyQuote: "strict-separate-curly-quote",
	Strict:                   "strict",
	Loose:                    "loose",
}

func (s Strictness) String() string {
	if name, ok := strictnessNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strictness(%d)", int(s))
}

// ParseStrictness parses a strictness name as produced by String.
// The empty string selects the default.
func ParseStrictness(name string) (Strictness, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return StrictSeparateCurlyQuote, nil
	}
	for s, n := range strictnessNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown strictness %q", name)
}

// ParseError reports a word that could not be split into syllables.
type ParseError struct {
	Word   string
	Offset int // rune offset of the word in the normalized input
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("pinyin word %q at offset %d: %s", e.Word, e.Offset, e.Reason)
}

// Iterator yields syllables one at a time, in the manner of bufio.Scanner.
type Iterator interface {
	Next() bool
	Syllable() string
	Err() error
}

// Tokenizer splits romanized text into syllables.
type Tokenizer struct {
	strictness Strictness
}

// NewTokenizer creates a tokenizer with the given strictness.
func NewTokenizer(strictness Strictness) *Tokenizer {
	return &Tokenizer{strictness: strictness}
}

// Strictness returns the tokenizer's policy.
func (t *Tokenizer) Strictness() Strictness {
	return t.strictness
}

// Syllables returns a lazy iterator over the syllables of text.
func (t *Tokenizer) Syllables(text string) Iterator {
	normalized, _, err := transform.String(transform.Chain(width.Fold, norm.NFC), text)
	if err != nil {
		normalized = norm.NFC.String(text)
	}
	return &Scanner{
		tok:  t,
		text: []rune(strings.ToLower(normalized)),
	}
}

// Split collects every syllable of text.
func (t *Tokenizer) Split(text string) ([]string, error) {
	var out []string
	it := t.Syllables(text)
	for it.Next() {
		out = append(out, it.Syllable())
	}
	return out, it.Err()
}

// isApostrophe reports whether r joins two syllables of one word.
func (t *Tokenizer) isApostrophe(r rune) bool {
	switch t.strictness {
	case Strict:
		return r == '\'' || r == '’' || r == 'ʼ'
	case StrictSeparateCurlyQuote:
		return r == '\'' || r == 'ʼ'
	}
	return false
}

// Scanner walks the normalized text one word at a time.
type Scanner struct {
	tok     *Tokenizer
	text    []rune
	pos     int
	pending []string
	cur     string
	err     error
}

// Next advances to the next syllable. It returns false at the end of the
// input or after the first error.
func (s *Scanner) Next() bool {
	for len(s.pending) == 0 {
		if s.err != nil || s.pos >= len(s.text) {
			s.cur = ""
			return false
		}
		s.scanWord()
	}
	s.cur, s.pending = s.pending[0], s.pending[1:]
	return true
}

// Syllable returns the syllable produced by the last call to Next.
func (s *Scanner) Syllable() string {
	return s.cur
}

// Err returns the first error encountered, if any.
func (s *Scanner) Err() error {
	return s.err
}

// scanWord consumes separators and one word, queueing its syllables.
func (s *Scanner) scanWord() {
	for s.pos < len(s.text) && !isLetter(s.text[s.pos]) {
		s.pos++
	}
	if s.pos >= len(s.text) {
		return
	}

	start := s.pos
	var parts [][]rune
	partStart := s.pos
	for {
		for s.pos < len(s.text) && (isLetter(s.text[s.pos]) || s.pos > partStart && isMark(s.text[s.pos])) {
			s.pos++
		}
		parts = append(parts, s.text[partStart:s.pos])
		if s.pos+1 < len(s.text) && s.tok.isApostrophe(s.text[s.pos]) && isLetter(s.text[s.pos+1]) {
			s.pos++
			partStart = s.pos
			continue
		}
		break
	}
	word := string(s.text[start:s.pos])

	loose := s.tok.strictness == Loose
	for i, part := range parts {
		if i > 0 && !vowelInitial(baseRune(part[0])) {
			s.fail(word, start, "apostrophe must be followed by a syllable beginning with a, o or e")
			return
		}
		syls, ok := segment(part, loose)
		if !ok {
			if loose {
				s.pending = append(s.pending, string(part))
				continue
			}
			s.fail(word, start, "cannot be split into syllables")
			return
		}
		s.pending = append(s.pending, syls...)
	}
}

func (s *Scanner) fail(word string, offset int, reason string) {
	s.pending = nil
	s.err = &ParseError{Word: word, Offset: offset, Reason: reason}
}

// segment splits one apostrophe-free run of letters into syllables, longest
// match first with backtracking. A syllable other than "er" may carry a
// trailing erhua "r". Unless vowelMid is set, only the first syllable may
// begin with a, o or e. Combining marks stay with the syllable they follow.
func segment(word []rune, vowelMid bool) ([]string, bool) {
	base := make([]rune, 0, len(word))
	at := make([]int, 0, len(word)+1) // at[j] is the index in word of base[j]
	for i, r := range word {
		if isMark(r) {
			continue
		}
		base = append(base, baseRune(r))
		at = append(at, i)
	}
	at = append(at, len(word))

	dead := make([]bool, len(base)+1)
	var cuts []int
	var walk func(i int) bool
	walk = func(i int) bool {
		if i == len(base) {
			return true
		}
		if dead[i] {
			return false
		}
		if i > 0 && !vowelMid && vowelInitial(base[i]) {
			dead[i] = true
			return false
		}
		for n := min(longest, len(base)-i); n > 0; n-- {
			head := string(base[i : i+n])
			if !syllables[head] {
				continue
			}
			end := i + n
			cuts = append(cuts, end)
			if walk(end) {
				return true
			}
			cuts = cuts[:len(cuts)-1]

			if head != "er" && end < len(base) && base[end] == 'r' {
				cuts = append(cuts, end+1)
				if walk(end + 1) {
					return true
				}
				cuts = cuts[:len(cuts)-1]
			}
		}
		dead[i] = true
		return false
	}

	if !walk(0) {
		return nil, false
	}

	out := make([]string, 0, len(cuts))
	prev := 0
	for _, c := range cuts {
		out = append(out, string(word[at[prev]:at[c]]))
		prev = c
	}
	return out, true
}
