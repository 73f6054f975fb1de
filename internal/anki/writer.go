package anki

import (
	"archive/zip"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// AddField appends a field to every model that lacks it. It returns the
// number of models changed.
func (p *Package) AddField(name string) int {
	changed := 0
	for _, model := range p.Models {
		exists := false
		for _, f := range model.Fields {
			if strings.EqualFold(f.Name, name) {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		model.Fields = append(model.Fields, Field{
			Name: name,
			Ord:  len(model.Fields),
			Font: "Arial",
			Size: 20,
		})
		changed++
	}
	return changed
}

// SetField sets a named field on a note, growing its field list if needed.
func (p *Package) SetField(note *Note, name, value string) error {
	model := p.GetModel(note)
	if model == nil {
		return fmt.Errorf("model not found for note %d", note.ID)
	}

	ord := -1
	for _, f := range model.Fields {
		if strings.EqualFold(f.Name, name) {
			ord = f.Ord
			break
		}
	}
	if ord < 0 {
		return fmt.Errorf("note %d has no field %q", note.ID, name)
	}

	for len(note.Fields) <= ord {
		note.Fields = append(note.Fields, "")
	}
	note.Fields[ord] = value
	note.RawFlds = strings.Join(note.Fields, "\x1f")
	note.Mod = time.Now().Unix()
	return nil
}

// AddTag adds a tag to a note unless it is already present.
func (p *Package) AddTag(note *Note, tag string) {
	tags := strings.Fields(note.Tags)
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return
		}
	}
	tags = append(tags, tag)
	// Anki stores tags space-separated with surrounding spaces
	note.Tags = " " + strings.Join(tags, " ") + " "
	note.Mod = time.Now().Unix()
}

// SaveAs writes the modified package to a new .apkg file.
func (p *Package) SaveAs(outputPath string) error {
	if err := p.updateDatabase(); err != nil {
		return fmt.Errorf("updating database: %w", err)
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer outFile.Close()

	zipWriter := zip.NewWriter(outFile)
	err = filepath.Walk(p.tempDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(p.tempDir, path)
		if err != nil {
			return err
		}
		w, err := zipWriter.Create(filepath.ToSlash(relPath))
		if err != nil {
			return err
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		_, err = io.Copy(w, file)
		return err
	})
	if err != nil {
		zipWriter.Close()
		return fmt.Errorf("creating zip: %w", err)
	}

	if err := zipWriter.Close(); err != nil {
		return fmt.Errorf("closing zip: %w", err)
	}
	return nil
}

// updateDatabase writes changes back to the SQLite database.
func (p *Package) updateDatabase() error {
	if err := p.updateModels(); err != nil {
		return err
	}
	return p.updateNotes()
}

// updateModels rewrites the models JSON in the col table, keeping the keys
// this package does not model.
func (p *Package) updateModels() error {
	var raw string
	if err := p.db.QueryRow("SELECT models FROM col").Scan(&raw); err != nil {
		return fmt.Errorf("reading models: %w", err)
	}

	var modelsMap map[string]map[string]any
	if err := json.Unmarshal([]byte(raw), &modelsMap); err != nil {
		return fmt.Errorf("parsing models: %w", err)
	}

	for id, model := range p.Models {
		key := strconv.FormatInt(id, 10)
		m := modelsMap[key]
		if m == nil {
			m = map[string]any{"id": model.ID, "name": model.Name, "css": model.CSS, "type": model.Type}
			modelsMap[key] = m
		}
		m["flds"] = model.Fields
	}

	modelsJSON, err := json.Marshal(modelsMap)
	if err != nil {
		return fmt.Errorf("marshaling models: %w", err)
	}

	if _, err := p.db.Exec("UPDATE col SET models = ?", string(modelsJSON)); err != nil {
		return fmt.Errorf("updating models: %w", err)
	}
	return nil
}

// updateNotes writes every note back to the database.
func (p *Package) updateNotes() error {
	for _, note := range p.Notes {
		note.CSum = checksum(note.SFLD)

		_, err := p.db.Exec(`
			UPDATE notes SET
				mod = ?,
				tags = ?,
				flds = ?,
				sfld = ?,
				csum = ?
			WHERE id = ?
		`, note.Mod, note.Tags, note.RawFlds, note.SFLD, note.CSum, note.ID)
		if err != nil {
			return fmt.Errorf("updating note %d: %w", note.ID, err)
		}
	}
	return nil
}

// checksum is Anki's csum: the first 8 hex digits of the SHA1 of the
// HTML-stripped sort field.
func checksum(sortField string) int64 {
	sum := sha1.Sum([]byte(StripHTML(sortField)))
	n, _ := strconv.ParseInt(fmt.Sprintf("%x", sum[:4]), 16, 64)
	return n
}
