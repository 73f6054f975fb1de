package pinyin

import (
	"errors"
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"sentence", "Nǐ qù nǎli?", []string{"nǐ", "qù", "nǎ", "li"}},
		{"reduplication", "māmā qí mǎ, mǎ màn, māma mà mǎ.", []string{"mā", "mā", "qí", "mǎ", "mǎ", "màn", "mā", "ma", "mà", "mǎ"}},
		{"erhua", "yīdiǎnr shìr", []string{"yī", "diǎnr", "shìr"}},
		{"genuine er", "nǚ'ér èr", []string{"nǚ", "ér", "èr"}},
		{"longest match", "Zhōngguó", []string{"zhōng", "guó"}},
		{"backtrack", "fāngàn", []string{"fān", "gàn"}},
		{"apostrophe", "Xī'ān", []string{"xī", "ān"}},
		{"modifier apostrophe", "Xīʼān", []string{"xī", "ān"}},
		{"v for u-umlaut", "lvse", []string{"lv", "se"}},
		{"combining marks", "ma\u0304ma", []string{"mā", "ma"}},
		{"no precomposed form", "m\u0300 \u00ea\u0304", []string{"m\u0300", "\u00ea\u0304"}},
		{"mark inside word", "hm\u0300ma", []string{"hm\u0300", "ma"}},
		{"stray mark", "\u0300ni", []string{"ni"}},
		{"fullwidth letters", "ｎǐ", []string{"nǐ"}},
		{"digits and symbols", "ni3 hao3!", []string{"ni", "hao"}},
		{"empty", " ,.? ", nil},
		{"leading quote", "'nǐ hǎo'", []string{"nǐ", "hǎo"}},
	}

	tok := NewTokenizer(StrictSeparateCurlyQuote)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tok.Split(tt.input)
			if err != nil {
				t.Fatalf("Split(%q) error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitCurlyQuote(t *testing.T) {
	input := "Xī’ān"

	got, err := NewTokenizer(Strict).Split(input)
	if err != nil {
		t.Fatalf("Strict: unexpected error: %v", err)
	}
	if want := []string{"xī", "ān"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Strict: got %q, want %q", got, want)
	}

	// Without the apostrophe, "xī" and "ān" are separate words.
	got, err = NewTokenizer(StrictSeparateCurlyQuote).Split(input)
	if err != nil {
		t.Fatalf("StrictSeparateCurlyQuote: unexpected error: %v", err)
	}
	if want := []string{"xī", "ān"}; !reflect.DeepEqual(got, want) {
		t.Errorf("StrictSeparateCurlyQuote: got %q, want %q", got, want)
	}

	got, err = NewTokenizer(StrictSeparateCurlyQuote).Split("‘nǐ’")
	if err != nil {
		t.Fatalf("quoted word: unexpected error: %v", err)
	}
	if want := []string{"nǐ"}; !reflect.DeepEqual(got, want) {
		t.Errorf("quoted word: got %q, want %q", got, want)
	}
}

func TestSplitStrictErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		word  string
	}{
		{"unsplittable", "nǐ xyz", "xyz"},
		{"apostrophe before consonant", "ni'hao", "ni'hao"},
		{"vowel mid word", "tiāné", "tiāné"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenizer(Strict).Split(tt.input)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Split(%q) error = %v, want *ParseError", tt.input, err)
			}
			if perr.Word != tt.word {
				t.Errorf("ParseError.Word = %q, want %q", perr.Word, tt.word)
			}
		})
	}
}

func TestSplitLoose(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"ni'hao", []string{"ni", "hao"}},
		{"nǐ xyz", []string{"nǐ", "xyz"}},
		{"tiāné", []string{"tiān", "é"}},
	}

	tok := NewTokenizer(Loose)
	for _, tt := range tests {
		got, err := tok.Split(tt.input)
		if err != nil {
			t.Fatalf("Split(%q) error: %v", tt.input, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Split(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestScannerStopsAfterError(t *testing.T) {
	it := NewTokenizer(Strict).Syllables("nǐ xyz hǎo")

	var got []string
	for it.Next() {
		got = append(got, it.Syllable())
	}
	if want := []string{"nǐ"}; !reflect.DeepEqual(got, want) {
		t.Errorf("syllables before error = %q, want %q", got, want)
	}
	if it.Err() == nil {
		t.Fatal("expected error")
	}
	if it.Next() {
		t.Error("Next returned true after error")
	}
}

func TestParseStrictness(t *testing.T) {
	for s, name := range strictnessNames {
		got, err := ParseStrictness(name)
		if err != nil || got != s {
			t.Errorf("ParseStrictness(%q) = %v, %v; want %v", name, got, err, s)
		}
		if got := NewTokenizer(s).Strictness(); got != s {
			t.Errorf("NewTokenizer(%v).Strictness() = %v", s, got)
		}
		if s.String() != name {
			t.Errorf("%d.String() = %q, want %q", int(s), s.String(), name)
		}
	}

	if got, err := ParseStrictness(""); err != nil || got != StrictSeparateCurlyQuote {
		t.Errorf("ParseStrictness(\"\") = %v, %v", got, err)
	}
	if _, err := ParseStrictness("lenient"); err == nil {
		t.Error("expected error for unknown name")
	}
}
