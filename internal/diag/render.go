package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan)
)

// Render writes human-readable diagnostics to w, one per line.
func Render(w io.Writer, items []Diagnostic) {
	for _, d := range items {
		var label string
		switch d.Severity {
		case SevError:
			label = errColor.Sprint("error")
		case SevWarning:
			label = warnColor.Sprint("warning")
		default:
			label = infoColor.Sprint("info")
		}
		if d.Symbol != "" {
			fmt.Fprintf(w, "%s[%s] %s: %s\n", label, d.Code, d.Symbol, d.Message)
		} else {
			fmt.Fprintf(w, "%s[%s] %s\n", label, d.Code, d.Message)
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  note: %s: %s\n", n.Symbol, n.Msg)
		}
	}
}
