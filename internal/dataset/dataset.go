// Package dataset loads pinyin/hanzi sentence pairs from YAML and TSV files.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Pair is one sentence with its claimed transcription.
type Pair struct {
	ID     string `yaml:"id,omitempty" json:"id,omitempty"`
	Pinyin string `yaml:"pinyin" json:"pinyin"`
	Hanzi  string `yaml:"hanzi" json:"hanzi"`
	Line   int    `yaml:"-" json:"line,omitempty"` // TSV only
}

// Load picks a reader by file extension.
func Load(path string) ([]Pair, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path)
	case ".tsv", ".txt":
		return LoadTSV(path)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", filepath.Ext(path))
	}
}

// LoadYAML reads a file of the form `pairs: [{id, pinyin, hanzi}]`.
func LoadYAML(path string) ([]Pair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset file: %w", err)
	}

	var doc struct {
		Pairs []Pair `yaml:"pairs"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing dataset file: %w", err)
	}

	for i, p := range doc.Pairs {
		if p.Pinyin == "" || p.Hanzi == "" {
			return nil, fmt.Errorf("pair %d in %s: pinyin and hanzi are required", i+1, path)
		}
	}
	return doc.Pairs, nil
}

// LoadTSV reads `pinyin<TAB>hanzi[<TAB>id]` lines from a file.
func LoadTSV(path string) ([]Pair, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset file: %w", err)
	}
	defer file.Close()

	pairs, err := ReadTSV(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return pairs, nil
}

// ReadTSV parses TSV pairs. Blank lines and lines starting with # are skipped.
func ReadTSV(r io.Reader) ([]Pair, error) {
	var pairs []Pair
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}

		cols := strings.Split(line, "\t")
		if len(cols) < 2 {
			return nil, fmt.Errorf("line %d: expected pinyin and hanzi separated by a tab", lineNum)
		}
		p := Pair{
			Pinyin: strings.TrimSpace(cols[0]),
			Hanzi:  strings.TrimSpace(cols[1]),
			Line:   lineNum,
		}
		if len(cols) > 2 {
			p.ID = strings.TrimSpace(cols[2])
		}
		pairs = append(pairs, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return pairs, nil
}
