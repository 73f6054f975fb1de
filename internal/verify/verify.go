// Package verify checks that a pinyin transcription matches its hanzi,
// syllable by syllable.
package verify

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/f3rmion/pinyincheck/internal/pinyin"
)

// SyllableSource splits a transcription into syllables.
type SyllableSource interface {
	Syllables(text string) pinyin.Iterator
}

// Oracle returns the readings of a character, or false if it is not Chinese.
type Oracle interface {
	Pronunciations(r rune) ([]pinyin.Reading, bool)
}

// genuineEr are syllables that end in "r" without being erhua.
var genuineEr = []string{"er", "ēr", "ér", "ěr", "èr"}

// Verifier aligns syllables with characters. It holds no per-call state and
// is safe for concurrent use if its source and oracle are.
type Verifier struct {
	src    SyllableSource
	oracle Oracle
}

// New creates a Verifier.
func New(src SyllableSource, oracle Oracle) *Verifier {
	return &Verifier{src: src, oracle: oracle}
}

// Verify checks pinyinText against hanziText. It returns a *MismatchError
// when a syllable does not fit its character and a *SyllableError when the
// source rejects the transcription.
//
// Verify panics with an *ExhaustionError if the hanzi runs out before the
// syllables do; use Check to get it back as an error.
func (v *Verifier) Verify(pinyinText, hanziText string) error {
	it := v.src.Syllables(pinyinText)
	c := &cursor{rest: hanziText, oracle: v.oracle}

	for it.Next() {
		syl := it.Syllable()

		ch, readings, ok := c.nextChinese()
		if !ok {
			panic(&ExhaustionError{Syllable: syl, Pinyin: pinyinText, Hanzi: hanziText})
		}

		if isErhua(syl) {
			target, _, ok := c.nextChinese()
			if !ok {
				panic(&ExhaustionError{Syllable: syl, Erhua: true, Pinyin: pinyinText, Hanzi: hanziText})
			}
			if target != '儿' && target != '兒' {
				return &MismatchError{
					Kind:      KindErhua,
					Syllable:  syl,
					Character: target,
					Pinyin:    pinyinText,
					Hanzi:     hanziText,
				}
			}
			continue
		}

		candidates := Candidates(readings)
		if !slices.Contains(candidates, syl) {
			return &MismatchError{
				Kind:       KindPhonetic,
				Syllable:   syl,
				Character:  ch,
				Candidates: candidates,
				Pinyin:     pinyinText,
				Hanzi:      hanziText,
			}
		}
	}

	if err := it.Err(); err != nil {
		return &SyllableError{Pinyin: pinyinText, Err: err}
	}
	return nil
}

// Check is Verify with hanzi exhaustion returned as an *ExhaustionError.
// Other panics propagate.
func (v *Verifier) Check(pinyinText, hanziText string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			ee, ok := r.(*ExhaustionError)
			if !ok {
				panic(r)
			}
			err = ee
		}
	}()
	return v.Verify(pinyinText, hanziText)
}

// Candidates lists the toned then plain form of each reading.
func Candidates(readings []pinyin.Reading) []string {
	out := make([]string, 0, 2*len(readings))
	for _, r := range readings {
		out = append(out, r.Toned, r.Plain)
	}
	return out
}

func isErhua(syl string) bool {
	return strings.HasSuffix(syl, "r") && !slices.Contains(genuineEr, syl)
}

// cursor walks the hanzi forward, one rune at a time.
type cursor struct {
	rest   string
	oracle Oracle
}

// nextChinese skips to the next character the oracle knows and consumes it.
func (c *cursor) nextChinese() (rune, []pinyin.Reading, bool) {
	for c.rest != "" {
		r, size := utf8.DecodeRuneInString(c.rest)
		c.rest = c.rest[size:]
		if readings, ok := c.oracle.Pronunciations(r); ok {
			return r, readings, true
		}
	}
	return 0, nil, false
}
