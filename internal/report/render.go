package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Color palette
var (
	colorSuccess = lipgloss.Color("#a8e6cf") // Green - verified pairs
	colorError   = lipgloss.Color("#FF6B6B") // Red - mismatches
	colorWarn    = lipgloss.Color("#ffe66d") // Yellow - structural and parse failures
	colorMuted   = lipgloss.Color("#666666") // Gray - sources, details
	colorLabel   = lipgloss.Color("#a8dadc") // Label color
)

// Options controls Render.
type Options struct {
	ShowOK bool // list verified pairs too
}

// styles are bound to the renderer of one output writer so colors are only
// emitted to terminals.
type styles struct {
	ok, fail, warn, source, detail, title lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		ok:     r.NewStyle().Bold(true).Foreground(colorSuccess),
		fail:   r.NewStyle().Bold(true).Foreground(colorError),
		warn:   r.NewStyle().Bold(true).Foreground(colorWarn),
		source: r.NewStyle().Foreground(colorMuted),
		detail: r.NewStyle().Foreground(colorMuted).Italic(true),
		title:  r.NewStyle().Bold(true).Foreground(colorLabel),
	}
}

func (s styles) status(st Status) lipgloss.Style {
	switch st {
	case StatusOK:
		return s.ok
	case StatusPhonetic, StatusErhua:
		return s.fail
	default:
		return s.warn
	}
}

// Render writes a human-readable table of results followed by a summary.
func Render(w io.Writer, results []Result, opts Options) error {
	st := newStyles(w)

	sourceWidth, statusWidth := 0, 0
	for _, r := range results {
		if r.OK() && !opts.ShowOK {
			continue
		}
		sourceWidth = max(sourceWidth, runewidth.StringWidth(r.Entry.Source))
		statusWidth = max(statusWidth, len(r.Status))
	}

	var sb strings.Builder
	for _, r := range results {
		if r.OK() && !opts.ShowOK {
			continue
		}
		source := runewidth.FillRight(r.Entry.Source, sourceWidth)
		status := fmt.Sprintf("%-*s", statusWidth, r.Status)
		fmt.Fprintf(&sb, "%s  %s  %s\n", st.source.Render(source), st.status(r.Status).Render(status), r.Entry.Hanzi)
		if r.Err != nil {
			indent := strings.Repeat(" ", sourceWidth+2)
			fmt.Fprintf(&sb, "%s%s\n", indent, st.detail.Render(r.Err.Error()))
		}
	}

	s := Summarize(results)
	fmt.Fprintf(&sb, "%s %d checked, %s, %s, %s, %s",
		st.title.Render("Summary:"),
		s.Total,
		st.ok.Render(fmt.Sprintf("%d ok", s.OK)),
		st.fail.Render(fmt.Sprintf("%d mismatched", s.Mismatch)),
		st.warn.Render(fmt.Sprintf("%d hanzi exhausted", s.Structural)),
		st.warn.Render(fmt.Sprintf("%d unparseable", s.Parse)),
	)
	if s.Other > 0 {
		fmt.Fprintf(&sb, ", %s", st.fail.Render(fmt.Sprintf("%d errors", s.Other)))
	}
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// jsonResult is the machine-readable form of a Result.
type jsonResult struct {
	Source string `json:"source,omitempty"`
	Pinyin string `json:"pinyin"`
	Hanzi  string `json:"hanzi"`
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

// WriteJSON writes the results and summary as an indented JSON document.
func WriteJSON(w io.Writer, results []Result) error {
	out := struct {
		Summary Summary      `json:"summary"`
		Results []jsonResult `json:"results"`
	}{
		Summary: Summarize(results),
		Results: make([]jsonResult, len(results)),
	}
	for i, r := range results {
		jr := jsonResult{
			Source: r.Entry.Source,
			Pinyin: r.Entry.Pinyin,
			Hanzi:  r.Entry.Hanzi,
			Status: r.Status,
		}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		}
		out.Results[i] = jr
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	return nil
}
