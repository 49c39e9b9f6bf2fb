package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/livefir/neon/internal/diff"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	pathStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	oldStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	newStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	opStyles = map[diff.ChangeType]lipgloss.Style{
		diff.ChangeTextOnly:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		diff.ChangeAttribute: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		diff.ChangeStructure: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	}
)

// printChange writes one change as "op path old -> new".
func printChange(w io.Writer, c diff.Change) error {
	op := opStyles[c.Type].Width(9).Render(c.Op)
	line := fmt.Sprintf("  %s %s", op, pathStyle.Render(c.Path))
	switch {
	case c.Old != "" && c.New != "":
		line += fmt.Sprintf(" %s -> %s", oldStyle.Render(quote(c.Old)), newStyle.Render(quote(c.New)))
	case c.New != "":
		line += " " + newStyle.Render(quote(c.New))
	case c.Old != "":
		line += " " + oldStyle.Render(quote(c.Old))
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

// printSummary writes the classification and op counts of a reconcile.
func printSummary(w io.Writer, changes []diff.Change, stats diff.Stats) error {
	_, err := fmt.Fprintf(w, "%s %s  %s\n",
		headerStyle.Render("changes:"),
		string(diff.Classify(changes)),
		mutedStyle.Render(fmt.Sprintf("(removed %d, appended %d, inserted %d, moved %d, replaced %d, patched %d)",
			stats.Removed, stats.Appended, stats.Inserted, stats.Moved, stats.Replaced, stats.Patched)))
	return err
}

func quote(s string) string {
	const maxLen = 60
	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}
	return fmt.Sprintf("%q", s)
}
