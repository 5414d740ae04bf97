package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/runoshun/ticketsync/internal/domain"
	"github.com/runoshun/ticketsync/internal/usecase"
)

// Colors defines the color palette for command output.
var Colors = struct {
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color

	// Classification colors
	Correct    lipgloss.Color
	Missing    lipgloss.Color
	Ambiguous  lipgloss.Color
	Incomplete lipgloss.Color
}{
	Primary: lipgloss.Color("#6C5CE7"), // Purple
	Muted:   lipgloss.Color("#636E72"), // Gray
	Error:   lipgloss.Color("#D63031"), // Red
	Success: lipgloss.Color("#00B894"), // Green
	Warning: lipgloss.Color("#FDCB6E"), // Yellow

	Correct:    lipgloss.Color("#00B894"), // Green
	Missing:    lipgloss.Color("#74B9FF"), // Light blue
	Ambiguous:  lipgloss.Color("#D63031"), // Red
	Incomplete: lipgloss.Color("#FDCB6E"), // Yellow
}

// Styles contains the lipgloss styles used by the commands.
type Styles struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Label  lipgloss.Style
	Muted  lipgloss.Style
	Error  lipgloss.Style
	Border lipgloss.Style
}

// DefaultStyles returns the default output styles.
func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(Colors.Primary),
		Header: lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Label:  lipgloss.NewStyle().Foreground(Colors.Muted),
		Muted:  lipgloss.NewStyle().Foreground(Colors.Muted),
		Error:  lipgloss.NewStyle().Foreground(Colors.Error),
		Border: lipgloss.NewStyle().Foreground(Colors.Muted),
	}
}

// ClassStyle returns the style for a classification.
func (s Styles) ClassStyle(c domain.Classification) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1)
	switch c {
	case domain.ClassCorrect:
		return base.Foreground(Colors.Correct)
	case domain.ClassMissing:
		return base.Foreground(Colors.Missing)
	case domain.ClassAmbiguous:
		return base.Foreground(Colors.Ambiguous)
	case domain.ClassIncomplete:
		return base.Foreground(Colors.Incomplete)
	default:
		return base
	}
}

// ActionStyle returns the style for an action kind.
func (s Styles) ActionStyle(k usecase.ActionKind) lipgloss.Style {
	switch k {
	case usecase.ActionCreate, usecase.ActionRepair:
		return lipgloss.NewStyle().Foreground(Colors.Success)
	case usecase.ActionFail:
		return lipgloss.NewStyle().Foreground(Colors.Error)
	default:
		return lipgloss.NewStyle().Foreground(Colors.Muted)
	}
}

// renderExtract prints the result of an extraction.
func renderExtract(w io.Writer, out *usecase.ExtractCandidatesOutput) {
	s := DefaultStyles()

	_, _ = fmt.Fprintln(w, s.Title.Render("Extracted candidates"))
	_, _ = fmt.Fprintf(w, "%s %d\n", s.Label.Render("Sources:   "), len(out.Sources))
	_, _ = fmt.Fprintf(w, "%s %d\n", s.Label.Render("Records:   "), out.Records)
	_, _ = fmt.Fprintf(w, "%s %d\n", s.Label.Render("Candidates:"), out.File.CandidatesCount)
	if out.Duplicates > 0 || out.Untitled > 0 {
		_, _ = fmt.Fprintf(w, "%s %d duplicate, %d untitled\n", s.Label.Render("Dropped:   "), out.Duplicates, out.Untitled)
	}
	for _, e := range out.File.Errors {
		_, _ = fmt.Fprintf(w, "%s %s: %s\n", s.Error.Render("error"), e.Source, e.Error)
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", s.Label.Render("Written:   "), out.Path)
}

// renderSummary prints the reconciliation counters as a table.
func renderSummary(w io.Writer, out *usecase.ReconcileTicketsOutput) {
	s := DefaultStyles()
	sum := out.Summary

	_, _ = fmt.Fprintf(w, "%s %s %s\n",
		s.Title.Render("Reconciled against"),
		out.Repository,
		s.Muted.Render(fmt.Sprintf("(%d remote tickets)", out.Remote)),
	)

	rows := []struct {
		class domain.Classification
		count int
	}{
		{domain.ClassCorrect, sum.FullyCorrect},
		{domain.ClassMissing, sum.Missing},
		{domain.ClassIncomplete, sum.Incomplete},
		{domain.ClassAmbiguous, sum.Ambiguous},
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		Headers("CLASSIFICATION", "COUNT").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.Header
			}
			if col == 0 && row >= 0 && row < len(rows) {
				return s.ClassStyle(rows[row].class)
			}
			return lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
		})
	for _, r := range rows {
		t.Row(string(r.class), strconv.Itoa(r.count))
	}
	t.Row("total", strconv.Itoa(sum.Scanned))
	_, _ = fmt.Fprintln(w, t.Render())

	for _, a := range sum.AmbiguousTitles {
		nums := make([]string, len(a.Matches))
		for i, n := range a.Matches {
			nums[i] = "#" + strconv.Itoa(n)
		}
		_, _ = fmt.Fprintf(w, "%s %q matches %s\n", s.Error.Render("ambiguous"), a.Title, strings.Join(nums, ", "))
	}
	_, _ = fmt.Fprintf(w, "%s %d records to %s\n", s.Label.Render("Exported"), sum.Exported, out.Path)
}

// renderActions prints what create did, or would do, per export record.
func renderActions(w io.Writer, out *usecase.CreateTicketsOutput) {
	s := DefaultStyles()

	title := "Acting on export for " + out.Repository
	if out.DryRun {
		title += " (dry run)"
	}
	_, _ = fmt.Fprintln(w, s.Title.Render(title))

	for _, a := range out.Actions {
		line := fmt.Sprintf("%-6s %s", a.Kind, a.Title)
		if a.Number != nil {
			line += fmt.Sprintf(" #%d", *a.Number)
		}
		switch {
		case a.Err != nil:
			line += ": " + a.Err.Error()
		case a.Detail != "":
			line += " (" + a.Detail + ")"
		}
		_, _ = fmt.Fprintln(w, s.ActionStyle(a.Kind).Render(line))
	}

	_, _ = fmt.Fprintf(w, "%s %d created, %d repaired, %d skipped, %d failed\n",
		s.Label.Render("Done:"),
		out.Count(usecase.ActionCreate),
		out.Count(usecase.ActionRepair),
		out.Count(usecase.ActionSkip),
		out.Count(usecase.ActionFail),
	)
}
