package dict

import (
	"github.com/f3rmion/pinyincheck/internal/pinyin"
	gopinyin "github.com/mozillazg/go-pinyin"
)

// GoPinyin looks up readings in the go-pinyin character table.
type GoPinyin struct {
	args gopinyin.Args
}

// NewGoPinyin creates an oracle returning every tone-marked reading.
func NewGoPinyin() *GoPinyin {
	args := gopinyin.NewArgs()
	args.Style = gopinyin.Tone // Returns tone marks: zhōng
	args.Heteronym = true      // Return all possible readings
	return &GoPinyin{args: args}
}

// Pronunciations implements Oracle. Characters missing from the table,
// punctuation included, are not Chinese.
func (g *GoPinyin) Pronunciations(r rune) ([]pinyin.Reading, bool) {
	result := gopinyin.Pinyin(string(r), g.args)
	if len(result) == 0 || len(result[0]) == 0 {
		return nil, false
	}

	var readings []pinyin.Reading
	for _, s := range result[0] {
		if s == "" {
			continue
		}
		readings = appendUnique(readings, pinyin.NewReading(s))
	}
	if len(readings) == 0 {
		return nil, false
	}
	return readings, true
}
