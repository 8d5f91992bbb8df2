package diag

// Severity defines the importance of a diagnostic or transcript line.
type Severity uint8

const (
	// SevInfo is for informational diagnostics and captured info output.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics and captured warn output.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
