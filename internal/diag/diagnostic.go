package diag

// Note carries secondary context for a diagnostic.
type Note struct {
	Symbol string
	Msg    string
}

// Diagnostic is a single finding produced while building libraries or
// assembling programs. Symbol names the affected entity; it may be empty for
// library-wide findings.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Symbol   string
	Message  string
	Notes    []Note
}

// WithNote returns a copy of the diagnostic with an extra note attached.
func (d Diagnostic) WithNote(symbol, msg string) Diagnostic {
	d.Notes = append(d.Notes[:len(d.Notes):len(d.Notes)], Note{Symbol: symbol, Msg: msg})
	return d
}
