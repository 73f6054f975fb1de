// Package ankitest builds small .apkg files for tests.
package ankitest

import (
	"archive/zip"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

// ModelID is the id of the single note type in a built package.
const ModelID = 1001

// Fields are the field names of the note type, in order.
var Fields = []string{"Hanzi", "Pinyin", "English"}

const models = `{"1001":{"id":1001,"name":"Sentence","flds":[{"name":"Hanzi","ord":0},{"name":"Pinyin","ord":1},{"name":"English","ord":2}],"css":"","type":0,"sortf":0}}`

// Build writes an .apkg holding one note per entry of notes, each a list of
// field values in Fields order, and returns its path. Note ids start at 1.
func Build(t testing.TB, notes [][]string) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "collection.anki2")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	stmts := []string{
		`CREATE TABLE col (id INTEGER PRIMARY KEY, models TEXT, decks TEXT)`,
		`CREATE TABLE notes (id INTEGER PRIMARY KEY, guid TEXT, mid INTEGER, mod INTEGER, usn INTEGER,
			tags TEXT, flds TEXT, sfld TEXT, csum INTEGER, flags INTEGER, data TEXT)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := db.Exec(`INSERT INTO col (id, models, decks) VALUES (1, ?, ?)`,
		models, `{"1":{"id":1,"name":"Default","desc":""}}`); err != nil {
		t.Fatal(err)
	}
	for i, fields := range notes {
		_, err := db.Exec(`INSERT INTO notes VALUES (?, ?, ?, 0, 0, '', ?, ?, 0, 0, '')`,
			i+1, "guid"+string(rune('a'+i)), ModelID, strings.Join(fields, "\x1f"), fields[0])
		if err != nil {
			t.Fatal(err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	apkg := filepath.Join(dir, "deck.apkg")
	out, err := os.Create(apkg)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(out)
	w, err := zw.Create("collection.anki2")
	if err != nil {
		t.Fatal(err)
	}
	in, err := os.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.Copy(w, in); err != nil {
		t.Fatal(err)
	}
	in.Close()
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}
	return apkg
}
