package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/designbible/biblecheck/internal/types"
)

// Styles used by the text report. Colors only apply when the writer is a
// terminal; otherwise the renderer falls back to plain text.
type Styles struct {
	Passed  lipgloss.Style
	Failed  lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
}

// NewStyles builds styles bound to the color profile of w.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Passed:  r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		Failed:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Warning: r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		Muted:   r.NewStyle().Faint(true),
		Bold:    r.NewStyle().Bold(true),
	}
}

func (s Styles) status(st types.Status) lipgloss.Style {
	switch st {
	case types.StatusPassed:
		return s.Passed
	case types.StatusPassedWarned:
		return s.Warning
	case types.StatusFailed:
		return s.Failed
	default:
		return s.Muted
	}
}

// WriteText prints one banner per check followed by its detail lines and
// notes, then the overall verdict.
//
//	iOS 26 Bible Compliance Check: FAILED
//	- SwiftUI numeric padding: App/LoginScreen.swift
func WriteText(w io.Writer, v types.Verdict) error {
	styles := NewStyles(w)
	bw := bufio.NewWriter(w)

	for _, r := range v.Results {
		status := string(r.Status)
		notes := r.Notes
		if r.Status == types.StatusSkipped && len(notes) > 0 {
			status = fmt.Sprintf("%s (%s)", status, notes[0])
			notes = notes[1:]
		}
		fmt.Fprintf(bw, "%s: %s\n", r.Name, styles.status(r.Status).Render(status))

		for _, f := range r.Findings {
			fmt.Fprintf(bw, "- %s\n", f)
		}
		for _, warn := range r.Warnings {
			fmt.Fprintf(bw, "- %s %s\n", styles.Warning.Render("warning:"), warn)
		}
		if len(notes) > 0 {
			fmt.Fprintln(bw)
			for _, n := range notes {
				fmt.Fprintln(bw, styles.Muted.Render(n))
			}
		}
		fmt.Fprintln(bw)
	}

	summary := fmt.Sprintf("Compliance: %s", types.StatusPassed)
	style := styles.Passed
	if !v.Passed {
		summary = fmt.Sprintf("Compliance: %s (%d findings, %d warnings)", types.StatusFailed, len(v.Findings), len(v.Warnings))
		style = styles.Failed
	} else if len(v.Warnings) > 0 {
		summary = fmt.Sprintf("Compliance: %s (%d warnings)", types.StatusPassedWarned, len(v.Warnings))
		style = styles.Warning
	}
	fmt.Fprintln(bw, style.Render(summary))

	return bw.Flush()
}
