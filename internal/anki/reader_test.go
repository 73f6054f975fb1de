package anki

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/f3rmion/pinyincheck/internal/anki/ankitest"
)

func fixtureNotes() [][]string {
	return [][]string{
		{"你去哪里？", "<b>Nǐ</b> qù nǎli?", "Where are you going?"},
		{"妈妈骑马。", "māma qí mǎ.", "Mum rides a horse."},
		{"就這麼一點兒", "jiù zhème yīdiǎnr&nbsp;", "Just this little"},
	}
}

func TestOpenPackagePairs(t *testing.T) {
	pkg, err := OpenPackage(ankitest.Build(t, fixtureNotes()))
	if err != nil {
		t.Fatalf("OpenPackage: %v", err)
	}
	defer pkg.Close()

	if len(pkg.Notes) != 3 || len(pkg.Models) != 1 || len(pkg.Decks) != 1 {
		t.Fatalf("notes/models/decks = %d/%d/%d", len(pkg.Notes), len(pkg.Models), len(pkg.Decks))
	}

	got := pkg.Pairs("pinyin", "HANZI")
	want := []Pair{
		{NoteID: 1, Pinyin: "Nǐ qù nǎli?", Hanzi: "你去哪里？"},
		{NoteID: 2, Pinyin: "māma qí mǎ.", Hanzi: "妈妈骑马。"},
		{NoteID: 3, Pinyin: "jiù zhème yīdiǎnr", Hanzi: "就這麼一點兒"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Pairs = %+v\nwant %+v", got, want)
	}

	if got := pkg.Pairs("Reading", "Hanzi"); len(got) != 0 {
		t.Errorf("Pairs with unknown field = %+v", got)
	}
	if want := "deck.apkg: 1 decks, 1 note types, 3 notes"; pkg.Summary() != want {
		t.Errorf("Summary = %q, want %q", pkg.Summary(), want)
	}
}

func TestDetectFields(t *testing.T) {
	pkg, err := OpenPackage(ankitest.Build(t, fixtureNotes()))
	if err != nil {
		t.Fatalf("OpenPackage: %v", err)
	}
	defer pkg.Close()

	py, hz, err := pkg.DetectFields()
	if err != nil {
		t.Fatalf("DetectFields: %v", err)
	}
	if py != "Pinyin" || hz != "Hanzi" {
		t.Errorf("DetectFields = %q, %q", py, hz)
	}
}

func TestDetectFieldsFails(t *testing.T) {
	pkg, err := OpenPackage(ankitest.Build(t, [][]string{{"hello", "world", "again"}}))
	if err != nil {
		t.Fatalf("OpenPackage: %v", err)
	}
	defer pkg.Close()

	if _, _, err := pkg.DetectFields(); err == nil {
		t.Error("expected error")
	}
}

func TestOpenPackageNotZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.apkg")
	if err := os.WriteFile(path, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenPackage(path); err == nil {
		t.Error("expected error")
	}
}

func TestStripHTML(t *testing.T) {
	tests := map[string]string{
		"<b>nǐ</b> hǎo":     "nǐ hǎo",
		"nǐ<br/>hǎo":        "nǐ hǎo",
		"  &lt;x&gt; &amp; ": "<x> &",
		"plain":             "plain",
	}
	for in, want := range tests {
		if got := StripHTML(in); got != want {
			t.Errorf("StripHTML(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSaveAsWithResults(t *testing.T) {
	pkg, err := OpenPackage(ankitest.Build(t, fixtureNotes()))
	if err != nil {
		t.Fatalf("OpenPackage: %v", err)
	}
	defer pkg.Close()

	if n := pkg.AddField("PinyinCheck"); n != 1 {
		t.Errorf("AddField changed %d models, want 1", n)
	}
	if n := pkg.AddField("pinyincheck"); n != 0 {
		t.Errorf("second AddField changed %d models, want 0", n)
	}

	note := pkg.Notes[1]
	if err := pkg.SetField(note, "PinyinCheck", "mismatch"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	pkg.AddTag(note, "pinyin-mismatch")
	pkg.AddTag(note, "pinyin-mismatch")
	if note.Tags != " pinyin-mismatch " {
		t.Errorf("Tags = %q", note.Tags)
	}
	if err := pkg.SetField(note, "Missing", "x"); err == nil {
		t.Error("expected error for unknown field")
	}

	out := filepath.Join(t.TempDir(), "checked.apkg")
	if err := pkg.SaveAs(out); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}

	reopened, err := OpenPackage(out)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer reopened.Close()

	got, ok := reopened.GetFieldValue(reopened.Notes[1], "PinyinCheck")
	if !ok || got != "mismatch" {
		t.Errorf("PinyinCheck = %q, %v", got, ok)
	}
	if reopened.Notes[1].Tags != " pinyin-mismatch " {
		t.Errorf("reopened Tags = %q", reopened.Notes[1].Tags)
	}
	if names := reopened.GetFieldNames(reopened.Notes[0]); len(names) != 4 {
		t.Errorf("field names = %q", names)
	}
}
