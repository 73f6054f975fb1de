// Package dict provides character pronunciation lookups.
package dict

import "github.com/f3rmion/pinyincheck/internal/pinyin"

// Oracle returns the readings of a character, or false if it is not Chinese.
type Oracle interface {
	Pronunciations(r rune) ([]pinyin.Reading, bool)
}

// Chain asks each oracle in turn; the first that knows the character wins.
type Chain []Oracle

// Pronunciations implements Oracle.
func (c Chain) Pronunciations(r rune) ([]pinyin.Reading, bool) {
	for _, o := range c {
		if readings, ok := o.Pronunciations(r); ok {
			return readings, true
		}
	}
	return nil, false
}

// Merge unions the readings of every oracle, in order, without duplicates.
type Merge []Oracle

// Pronunciations implements Oracle.
func (m Merge) Pronunciations(r rune) ([]pinyin.Reading, bool) {
	var out []pinyin.Reading
	found := false
	for _, o := range m {
		readings, ok := o.Pronunciations(r)
		if !ok {
			continue
		}
		found = true
		out = appendUnique(out, readings...)
	}
	if !found || len(out) == 0 {
		return nil, false
	}
	return out, true
}

// appendUnique appends readings not already present in dst.
func appendUnique(dst []pinyin.Reading, readings ...pinyin.Reading) []pinyin.Reading {
	for _, r := range readings {
		dup := false
		for _, d := range dst {
			if d == r {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, r)
		}
	}
	return dst
}
