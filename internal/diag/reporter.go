package diag

// Reporter is the minimal contract for receiving diagnostics from builders.
// Implementations: BagReporter (collects into a Bag), NopReporter.
type Reporter interface {
	Report(code Code, sev Severity, symbol, msg string)
}

// BagReporter collects diagnostics into a Bag.
type BagReporter struct {
	Bag *Bag
}

func (r BagReporter) Report(code Code, sev Severity, symbol, msg string) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev,
		Code:     code,
		Symbol:   symbol,
		Message:  msg,
	})
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, string, string) {}
