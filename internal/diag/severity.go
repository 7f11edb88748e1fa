package diag

// Severity ranks how serious a diagnostic is. The ordering is load-bearing:
// Bag.HasErrors and Bag.HasWarnings compare against these values.
type Severity uint8

const (
	// SevInfo marks advisory findings.
	SevInfo Severity = iota
	// SevWarning marks findings that deserve attention but never fail a build.
	SevWarning
	// SevError marks findings that make the result unusable.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	case SevInfo:
		return "info"
	}
	return "unknown"
}
