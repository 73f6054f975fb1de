// Package anki reads sentence pairs from Anki .apkg files and writes check
// results back into them.
package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"

	_ "modernc.org/sqlite"
)

// Package represents an open Anki .apkg file.
type Package struct {
	path    string
	tempDir string
	db      *sql.DB
	Models  map[int64]*Model
	Decks   map[int64]*Deck
	Notes   []*Note
}

// Model represents an Anki note type.
type Model struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Fields []Field `json:"flds"`
	CSS    string  `json:"css"`
	Type   int     `json:"type"` // 0 = standard, 1 = cloze
}

// Field represents a field in a note type.
type Field struct {
	Name   string `json:"name"`
	Ord    int    `json:"ord"`
	Sticky bool   `json:"sticky"`
	RTL    bool   `json:"rtl"`
	Font   string `json:"font"`
	Size   int    `json:"size"`
}

// Deck represents an Anki deck.
type Deck struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Desc string `json:"desc"`
}

// Note represents an Anki note.
type Note struct {
	ID      int64
	GUID    string
	ModelID int64
	Mod     int64
	USN     int
	Tags    string
	Fields  []string // Parsed from flds
	RawFlds string   // Original flds string
	SFLD    string   // Sort field
	CSum    int64
	Flags   int
	Data    string
}

// Pair is a pinyin/hanzi sentence pair taken from one note.
type Pair struct {
	NoteID int64
	Pinyin string
	Hanzi  string
}

// OpenPackage opens an Anki .apkg file for reading.
func OpenPackage(path string) (*Package, error) {
	pkg := &Package{
		path:   path,
		Models: make(map[int64]*Model),
		Decks:  make(map[int64]*Deck),
	}

	tempDir, err := os.MkdirTemp("", "anki-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	pkg.tempDir = tempDir

	// .apkg is a zip file
	if err := pkg.extract(); err != nil {
		pkg.Close()
		return nil, err
	}

	dbPath := filepath.Join(tempDir, "collection.anki21")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		dbPath = filepath.Join(tempDir, "collection.anki2")
	}
	if _, err := os.Stat(dbPath); err != nil {
		pkg.Close()
		return nil, fmt.Errorf("package has no collection: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		pkg.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}
	pkg.db = db

	if err := pkg.loadCollection(); err != nil {
		pkg.Close()
		return nil, err
	}

	if err := pkg.loadNotes(); err != nil {
		pkg.Close()
		return nil, err
	}

	return pkg, nil
}

// extract unzips the .apkg file.
func (p *Package) extract() error {
	r, err := zip.OpenReader(p.path)
	if err != nil {
		return fmt.Errorf("opening zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		fpath := filepath.Join(p.tempDir, f.Name)

		// Prevent zip slip
		if !strings.HasPrefix(fpath, filepath.Clean(p.tempDir)+string(os.PathSeparator)) {
			return fmt.Errorf("illegal file path: %s", fpath)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(fpath, os.ModePerm); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(fpath), os.ModePerm); err != nil {
			return err
		}
		if err := extractFile(f, fpath); err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}

	return nil
}

func extractFile(f *zip.File, dst string) error {
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	_, err = io.Copy(out, rc)
	return err
}

// loadCollection loads models and decks from the col table.
func (p *Package) loadCollection() error {
	var models, decks string

	row := p.db.QueryRow("SELECT models, decks FROM col")
	if err := row.Scan(&models, &decks); err != nil {
		return fmt.Errorf("reading collection: %w", err)
	}

	var modelsMap map[string]json.RawMessage
	if err := json.Unmarshal([]byte(models), &modelsMap); err != nil {
		return fmt.Errorf("parsing models: %w", err)
	}
	for _, modelJSON := range modelsMap {
		var model Model
		if err := json.Unmarshal(modelJSON, &model); err != nil {
			continue // Skip malformed models
		}
		p.Models[model.ID] = &model
	}

	var decksMap map[string]json.RawMessage
	if err := json.Unmarshal([]byte(decks), &decksMap); err != nil {
		return fmt.Errorf("parsing decks: %w", err)
	}
	for _, deckJSON := range decksMap {
		var deck Deck
		if err := json.Unmarshal(deckJSON, &deck); err != nil {
			continue // Skip malformed decks
		}
		p.Decks[deck.ID] = &deck
	}

	return nil
}

// loadNotes loads all notes from the database in id order.
func (p *Package) loadNotes() error {
	rows, err := p.db.Query(`
		SELECT id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data
		FROM notes
		ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var note Note
		if err := rows.Scan(
			&note.ID, &note.GUID, &note.ModelID, &note.Mod, &note.USN,
			&note.Tags, &note.RawFlds, &note.SFLD, &note.CSum, &note.Flags, &note.Data,
		); err != nil {
			return fmt.Errorf("scanning note: %w", err)
		}

		// Fields are separated by ASCII 31
		note.Fields = strings.Split(note.RawFlds, "\x1f")
		p.Notes = append(p.Notes, &note)
	}

	return rows.Err()
}

// GetModel returns the model for a note.
func (p *Package) GetModel(note *Note) *Model {
	return p.Models[note.ModelID]
}

// GetFieldValue returns a field value from a note by case-insensitive name.
func (p *Package) GetFieldValue(note *Note, fieldName string) (string, bool) {
	model := p.GetModel(note)
	if model == nil {
		return "", false
	}

	for _, field := range model.Fields {
		if strings.EqualFold(field.Name, fieldName) && field.Ord < len(note.Fields) {
			return note.Fields[field.Ord], true
		}
	}

	return "", false
}

// GetFieldNames returns all field names for a note's model.
func (p *Package) GetFieldNames(note *Note) []string {
	model := p.GetModel(note)
	if model == nil {
		return nil
	}

	names := make([]string, len(model.Fields))
	for i, field := range model.Fields {
		names[i] = field.Name
	}
	return names
}

// Pairs extracts HTML-stripped pairs from every note that has both fields.
func (p *Package) Pairs(pinyinField, hanziField string) []Pair {
	var pairs []Pair
	for _, note := range p.Notes {
		py, ok := p.GetFieldValue(note, pinyinField)
		if !ok {
			continue
		}
		hz, ok := p.GetFieldValue(note, hanziField)
		if !ok {
			continue
		}
		pairs = append(pairs, Pair{
			NoteID: note.ID,
			Pinyin: StripHTML(py),
			Hanzi:  StripHTML(hz),
		})
	}
	return pairs
}

// detectSample is how many notes DetectFields inspects.
const detectSample = 20

// DetectFields guesses the pinyin and hanzi fields from the first notes:
// the hanzi field holds Han characters, the pinyin field tone-marked Latin.
func (p *Package) DetectFields() (pinyinField, hanziField string, err error) {
	hanziScore := make(map[string]int)
	pinyinScore := make(map[string]int)

	for i, note := range p.Notes {
		if i >= detectSample {
			break
		}
		names := p.GetFieldNames(note)
		for ord, value := range note.Fields {
			if ord >= len(names) {
				break
			}
			value = StripHTML(value)
			switch {
			case containsHan(value):
				hanziScore[names[ord]]++
			case containsToneMark(value):
				pinyinScore[names[ord]]++
			}
		}
	}

	hanziField = best(hanziScore)
	pinyinField = best(pinyinScore)
	if hanziField == "" || pinyinField == "" {
		return "", "", fmt.Errorf("could not detect pinyin and hanzi fields in %s", p.path)
	}
	return pinyinField, hanziField, nil
}

// best returns the highest-scoring name, ties broken alphabetically.
func best(scores map[string]int) string {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)

	winner := ""
	for _, name := range names {
		if winner == "" || scores[name] > scores[winner] {
			winner = name
		}
	}
	return winner
}

func containsHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

func containsToneMark(s string) bool {
	return strings.ContainsAny(s, "āáǎàēéěèīíǐìōóǒòūúǔùǖǘǚǜĀÁǍÀĒÉĚÈĪÍǏÌŌÓǑÒŪÚǓÙ")
}

var (
	tagRe   = regexp.MustCompile(`<[^>]*>`)
	breakRe = regexp.MustCompile(`(?i)<br\s*/?>`)
)

// StripHTML removes tags, decodes entities and trims whitespace.
func StripHTML(s string) string {
	s = breakRe.ReplaceAllString(s, " ")
	s = tagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}

// Close cleans up resources.
func (p *Package) Close() error {
	if p.db != nil {
		p.db.Close()
	}
	if p.tempDir != "" {
		os.RemoveAll(p.tempDir)
	}
	return nil
}

// Summary describes the package in one line for logging.
func (p *Package) Summary() string {
	return fmt.Sprintf("%s: %d decks, %d note types, %d notes",
		filepath.Base(p.path), len(p.Decks), len(p.Models), len(p.Notes))
}
