package diag

import "fmt"

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics.
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

// Diagnostic is one per-path finding. Позиции внутри файла не нужны:
// трасса либо принимается, либо пропускается целиком.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Path     string // файл трассы или сессии; пусто для прогона в целом
	Message  string
}

// String форматирует диагностику в одну строку:
// <path>: <SEVERITY> <ID>: <message>
func (d Diagnostic) String() string {
	if d.Path == "" {
		return fmt.Sprintf("%s %s: %s", d.Severity, d.Code.ID(), d.Message)
	}
	return fmt.Sprintf("%s: %s %s: %s", d.Path, d.Severity, d.Code.ID(), d.Message)
}
