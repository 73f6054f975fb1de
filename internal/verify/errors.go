package verify

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is.
var (
	ErrHanziExhausted   = errors.New("hanzi ran out")
	ErrPhoneticMismatch = errors.New("phonetic mismatch")
	ErrErhuaMismatch    = errors.New("erhua mismatch")
	ErrSyllable         = errors.New("unparseable pinyin")
)

// Kind classifies a MismatchError.
type Kind int

const (
	// KindPhonetic means a syllable is not a reading of its character.
	KindPhonetic Kind = iota
	// KindErhua means a rhotic syllable was not followed by 儿 or 兒.
	KindErhua
)

func (k Kind) String() string {
	switch k {
	case KindPhonetic:
		return "phonetic"
	case KindErhua:
		return "erhua"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MismatchError is a recoverable verification failure.
type MismatchError struct {
	Kind       Kind
	Syllable   string
	Character  rune
	Candidates []string // phonetic only
	Pinyin     string
	Hanzi      string
}

func (e *MismatchError) Error() string {
	if e.Kind == KindErhua {
		return fmt.Sprintf("expected 儿 or 兒 because of the rhotic pinyin %s, but instead found a Chinese character %c",
			e.Syllable, e.Character)
	}
	return fmt.Sprintf("%s not found within candidates [%s] possible for the Chinese character %c. Encountered this while matching `%s` with `%s`.",
		e.Syllable, strings.Join(e.Candidates, " "), e.Character, e.Pinyin, e.Hanzi)
}

// Is matches the sentinel for the error's kind.
func (e *MismatchError) Is(target error) bool {
	switch e.Kind {
	case KindPhonetic:
		return target == ErrPhoneticMismatch
	case KindErhua:
		return target == ErrErhuaMismatch
	}
	return false
}

// ExhaustionError means the hanzi ran out before every syllable found its
// character. Verify panics with it; Check returns it.
type ExhaustionError struct {
	Syllable string
	Erhua    bool // the missing character was the 儿/兒 of an erhua syllable
	Pinyin   string
	Hanzi    string
}

func (e *ExhaustionError) Error() string {
	if e.Erhua {
		return fmt.Sprintf("hanzi ran out, expected 儿 or 兒, while matching `%s` with `%s`", e.Pinyin, e.Hanzi)
	}
	return fmt.Sprintf("hanzi ran out, while matching `%s` with `%s`", e.Pinyin, e.Hanzi)
}

// Is matches ErrHanziExhausted.
func (e *ExhaustionError) Is(target error) bool {
	return target == ErrHanziExhausted
}

// SyllableError wraps a failure of the syllable source.
type SyllableError struct {
	Pinyin string
	Err    error
}

func (e *SyllableError) Error() string {
	return fmt.Sprintf("reading syllables of `%s`: %v", e.Pinyin, e.Err)
}

func (e *SyllableError) Unwrap() error {
	return e.Err
}

// Is matches ErrSyllable.
func (e *SyllableError) Is(target error) bool {
	return target == ErrSyllable
}
