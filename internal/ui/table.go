package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"loom/internal/export"
)

// SymbolTable renders a snapshot's public surface as an aligned table.
func SymbolTable(snap *export.Snapshot) string {
	if snap == nil {
		return ""
	}
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	kindStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("library %s", snap.Library)))
	b.WriteString("\n")

	nameWidth := 0
	for _, f := range snap.Funcs {
		nameWidth = max(nameWidth, runewidth.StringWidth(f.Name))
	}
	for _, g := range snap.Globals {
		nameWidth = max(nameWidth, runewidth.StringWidth(g.Name))
	}

	for _, f := range snap.Funcs {
		sig := fmt.Sprintf("(%s) %s", strings.Join(f.Params, ", "), f.Return)
		b.WriteString(fmt.Sprintf("  %s %s  %s\n",
			kindStyle.Render("func  "),
			pad(f.Name, nameWidth),
			dimStyle.Render(sig)))
	}
	for _, g := range snap.Globals {
		kind := "global"
		if g.Immutable {
			kind = "const "
		}
		b.WriteString(fmt.Sprintf("  %s %s  %s\n",
			kindStyle.Render(kind),
			pad(g.Name, nameWidth),
			dimStyle.Render(g.Type)))
	}
	if snap.Strings > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %d pooled string(s)", snap.Strings)))
		b.WriteString("\n")
	}
	return b.String()
}

func pad(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-runewidth.StringWidth(s)))
}
