package dataset

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "pairs.yaml", `pairs:
  - id: p1
    pinyin: "Nǐ qù nǎli?"
    hanzi: "你去哪里？"
  - pinyin: "māma"
    hanzi: "妈妈"
`)

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []Pair{
		{ID: "p1", Pinyin: "Nǐ qù nǎli?", Hanzi: "你去哪里？"},
		{Pinyin: "māma", Hanzi: "妈妈"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
}

func TestLoadYAMLMissingField(t *testing.T) {
	path := writeFile(t, "pairs.yml", "pairs:\n  - pinyin: nǐ\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error")
	}
}

func TestReadTSV(t *testing.T) {
	input := strings.Join([]string{
		"# pinyin\thanzi\tid",
		"Nǐ qù nǎli?\t你去哪里？\tq1",
		"",
		"māma\t妈妈\r",
	}, "\n")

	got, err := ReadTSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadTSV: %v", err)
	}
	want := []Pair{
		{ID: "q1", Pinyin: "Nǐ qù nǎli?", Hanzi: "你去哪里？", Line: 2},
		{Pinyin: "māma", Hanzi: "妈妈", Line: 4},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadTSV = %+v, want %+v", got, want)
	}
}

func TestReadTSVMissingTab(t *testing.T) {
	_, err := ReadTSV(strings.NewReader("nǐ 你\n"))
	if err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Errorf("ReadTSV error = %v", err)
	}
}

func TestLoadUnsupported(t *testing.T) {
	if _, err := Load(writeFile(t, "pairs.csv", "")); err == nil {
		t.Error("expected error")
	}
}
