// Package pinyin splits romanized Mandarin text into syllables and handles tone marks.
package pinyin

import (
	"strings"
	"unicode"
)

// Tone represents the four tones of Mandarin plus neutral tone.
type Tone int

const (
	ToneUnknown Tone = 0
	Tone1       Tone = 1 // First tone (high level) - ˉ
	Tone2       Tone = 2 // Second tone (rising) - ˊ
	Tone3       Tone = 3 // Third tone (dipping) - ˇ
	Tone4       Tone = 4 // Fourth tone (falling) - ˋ
	Tone5       Tone = 5 // Fifth tone (neutral)
)

// Reading is one candidate pronunciation of a character.
type Reading struct {
	Toned string // With tone mark (e.g., "mā")
	Plain string // Tone marks removed (e.g., "ma")
}

// NewReading builds a Reading from a tone-marked syllable.
func NewReading(toned string) Reading {
	return Reading{Toned: toned, Plain: StripTone(toned)}
}

type toneMark struct {
	base rune
	tone Tone
}

var toneMarks = map[rune]toneMark{
	'ā': {'a', Tone1}, 'á': {'a', Tone2}, 'ǎ': {'a', Tone3}, 'à': {'a', Tone4},
	'ē': {'e', Tone1}, 'é': {'e', Tone2}, 'ě': {'e', Tone3}, 'è': {'e', Tone4},
	'ī': {'i', Tone1}, 'í': {'i', Tone2}, 'ǐ': {'i', Tone3}, 'ì': {'i', Tone4},
	'ō': {'o', Tone1}, 'ó': {'o', Tone2}, 'ǒ': {'o', Tone3}, 'ò': {'o', Tone4},
	'ū': {'u', Tone1}, 'ú': {'u', Tone2}, 'ǔ': {'u', Tone3}, 'ù': {'u', Tone4},
	'ǖ': {'ü', Tone1}, 'ǘ': {'ü', Tone2}, 'ǚ': {'ü', Tone3}, 'ǜ': {'ü', Tone4},
	'ń': {'n', Tone2}, 'ň': {'n', Tone3}, 'ǹ': {'n', Tone4},
	'ḿ': {'m', Tone2},
	'ế': {'ê', Tone2}, 'ề': {'ê', Tone4},
}

// combiningTones covers marks left decomposed after NFC, as on m̀ or ê̄.
var combiningTones = map[rune]Tone{
	'\u0304': Tone1,
	'\u0301': Tone2,
	'\u030c': Tone3,
	'\u0300': Tone4,
}

// extractTone returns the tone number and the syllable without tone marks.
func extractTone(s string) (Tone, string) {
	tone := ToneUnknown
	var result strings.Builder
	result.Grow(len(s))

	for _, r := range s {
		if mark, ok := toneMarks[r]; ok {
			result.WriteRune(mark.base)
			tone = mark.tone
		} else if t, ok := combiningTones[r]; ok {
			tone = t
		} else {
			result.WriteRune(r)
		}
	}

	// No tone mark means neutral tone
	if tone == ToneUnknown {
		tone = Tone5
	}

	return tone, result.String()
}

// StripTone removes tone marks, e.g. "nǚ" becomes "nü".
func StripTone(s string) string {
	_, plain := extractTone(s)
	return plain
}

// ToneOf returns the tone of a syllable; unmarked syllables are Tone5.
func ToneOf(s string) Tone {
	tone, _ := extractTone(s)
	return tone
}

// baseRune maps a lower-case pinyin letter to its toneless form, spelling "v" as "ü".
func baseRune(r rune) rune {
	if mark, ok := toneMarks[r]; ok {
		return mark.base
	}
	if r == 'v' {
		return 'ü'
	}
	return r
}

// isLetter reports whether r can appear inside a pinyin word.
func isLetter(r rune) bool {
	if r >= 'a' && r <= 'z' {
		return true
	}
	if _, ok := toneMarks[r]; ok {
		return true
	}
	return r == 'ü' || r == 'ê'
}

// isMark reports whether r is a combining mark carried by the letter before it.
func isMark(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
