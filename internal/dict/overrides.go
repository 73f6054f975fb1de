package dict

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/f3rmion/pinyincheck/internal/pinyin"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Mode says how overrides combine with the oracle they wrap.
type Mode string

const (
	ModeExtend  Mode = "extend"  // add to the base readings
	ModeReplace Mode = "replace" // use instead of the base readings
)

// Overrides are user-supplied readings for individual characters.
type Overrides struct {
	mode    Mode
	entries map[rune][]pinyin.Reading
}

// overridesFile is the on-disk YAML layout.
type overridesFile struct {
	Mode     Mode                `yaml:"mode"`
	Readings map[string][]string `yaml:"readings"`
}

// NewOverrides builds overrides from a character to tone-marked readings map.
func NewOverrides(mode Mode, readings map[string][]string) (*Overrides, error) {
	switch mode {
	case "":
		mode = ModeExtend
	case ModeExtend, ModeReplace:
	default:
		return nil, fmt.Errorf("unknown override mode %q", mode)
	}

	o := &Overrides{mode: mode, entries: make(map[rune][]pinyin.Reading, len(readings))}
	for char, list := range readings {
		r, size := utf8.DecodeRuneInString(char)
		if r == utf8.RuneError || size != len(char) {
			return nil, fmt.Errorf("override key %q is not a single character", char)
		}
		var rs []pinyin.Reading
		for _, s := range list {
			s = strings.ToLower(norm.NFC.String(strings.TrimSpace(s)))
			if s != "" {
				rs = appendUnique(rs, pinyin.NewReading(s))
			}
		}
		if len(rs) == 0 {
			return nil, fmt.Errorf("override for %q has no readings", char)
		}
		o.entries[r] = rs
	}
	return o, nil
}

// LoadOverrides reads overrides from a YAML file.
func LoadOverrides(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading overrides file: %w", err)
	}

	var f overridesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing overrides file: %w", err)
	}

	return NewOverrides(f.Mode, f.Readings)
}

// Len returns the number of overridden characters.
func (o *Overrides) Len() int {
	return len(o.entries)
}

// Pronunciations implements Oracle for the overridden characters only.
func (o *Overrides) Pronunciations(r rune) ([]pinyin.Reading, bool) {
	rs, ok := o.entries[r]
	if !ok {
		return nil, false
	}
	out := make([]pinyin.Reading, len(rs))
	copy(out, rs)
	return out, true
}

// Wrap layers the overrides on top of base according to the mode.
func (o *Overrides) Wrap(base Oracle) Oracle {
	if o == nil || len(o.entries) == 0 {
		return base
	}
	if o.mode == ModeReplace {
		return Chain{o, base}
	}
	return Merge{o, base}
}
