package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/f3rmion/pinyincheck/internal/dict"
	"github.com/f3rmion/pinyincheck/internal/pinyin"
	"github.com/f3rmion/pinyincheck/internal/verify"
)

func realChecker() Checker {
	return verify.New(pinyin.NewTokenizer(pinyin.StrictSeparateCurlyQuote), dict.NewGoPinyin())
}

func sampleEntries() []Entry {
	return []Entry{
		{Source: "a:1", Pinyin: "Nǐ qù nǎli?", Hanzi: "你去哪里？"},
		{Source: "a:2", Pinyin: "mǎ", Hanzi: "你"},
		{Source: "a:3", Pinyin: "yīdiǎnr", Hanzi: "一點好"},
		{Source: "a:4", Pinyin: "Nǐ hǎo", Hanzi: "你"},
		{Source: "a:5", Pinyin: "nǐ xyz", Hanzi: "你好"},
	}
}

func TestRunClassifiesAndKeepsOrder(t *testing.T) {
	entries := sampleEntries()
	results, err := Run(context.Background(), realChecker(), entries, 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []Status{StatusOK, StatusPhonetic, StatusErhua, StatusStructural, StatusParse}
	if len(results) != len(want) {
		t.Fatalf("got %d results, want %d", len(results), len(want))
	}
	for i, r := range results {
		if r.Entry != entries[i] {
			t.Errorf("result %d is for %+v, want %+v", i, r.Entry, entries[i])
		}
		if r.Status != want[i] {
			t.Errorf("result %d status = %s, want %s (err %v)", i, r.Status, want[i], r.Err)
		}
	}

	s := Summarize(results)
	if s != (Summary{Total: 5, OK: 1, Mismatch: 2, Structural: 1, Parse: 1}) {
		t.Errorf("Summary = %+v", s)
	}
	if !s.Failed() {
		t.Error("Failed() = false")
	}
}

func TestClassifyOther(t *testing.T) {
	if got := Classify(errors.New("disk on fire")); got != StatusError {
		t.Errorf("Classify = %s", got)
	}
	if got := Classify(fmt.Errorf("wrapped: %w", verify.ErrHanziExhausted)); got != StatusStructural {
		t.Errorf("Classify wrapped = %s", got)
	}
}

// countingChecker accepts everything and counts calls.
type countingChecker struct{ calls atomic.Int64 }

func (c *countingChecker) Check(string, string) error {
	c.calls.Add(1)
	return nil
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &countingChecker{}
	entries := make([]Entry, 50)
	results, err := Run(ctx, c, entries, 4)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if len(results) != 0 || c.calls.Load() != 0 {
		t.Errorf("checked %d entries (%d results) after cancel", c.calls.Load(), len(results))
	}
}

func TestRunZeroWorkers(t *testing.T) {
	c := &countingChecker{}
	results, err := Run(context.Background(), c, make([]Entry, 7), 0)
	if err != nil || len(results) != 7 || c.calls.Load() != 7 {
		t.Errorf("Run = %d results, %v; calls %d", len(results), err, c.calls.Load())
	}
}

func TestRender(t *testing.T) {
	results, _ := Run(context.Background(), realChecker(), sampleEntries(), 2)

	var buf bytes.Buffer
	if err := Render(&buf, results, Options{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"a:2", "phonetic-mismatch", "erhua-mismatch", "hanzi-exhausted", "unparseable", "5 checked", "1 ok"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "a:1 ") {
		t.Errorf("verified pair listed without ShowOK:\n%s", out)
	}

	buf.Reset()
	if err := Render(&buf, results, Options{ShowOK: true}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "a:1") {
		t.Errorf("ShowOK output missing a:1:\n%s", buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	results, _ := Run(context.Background(), realChecker(), sampleEntries()[:2], 1)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, results); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var doc struct {
		Summary Summary `json:"summary"`
		Results []struct {
			Source string `json:"source"`
			Status Status `json:"status"`
			Error  string `json:"error"`
		} `json:"results"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.Summary.Total != 2 || doc.Summary.OK != 1 {
		t.Errorf("Summary = %+v", doc.Summary)
	}
	if doc.Results[1].Status != StatusPhonetic || !strings.Contains(doc.Results[1].Error, "mǎ not found") {
		t.Errorf("Results[1] = %+v", doc.Results[1])
	}
}

func TestRenderCountsErrorsSeparately(t *testing.T) {
	results := []Result{
		{Entry: Entry{Source: "b:1"}, Status: StatusError, Err: errors.New("lookup failed")},
		{Entry: Entry{Source: "b:2"}, Status: StatusParse, Err: errors.New("bad word")},
	}

	var buf bytes.Buffer
	if err := Render(&buf, results, Options{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"1 unparseable", "1 errors", "lookup failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := Render(&buf, results[1:], Options{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(buf.String(), "errors") {
		t.Errorf("errors count shown with no errors:\n%s", buf.String())
	}
}
