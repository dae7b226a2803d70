package diagnostics

import "fmt"

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

// Codes pushed to the diagnostics socket.
const (
	PhaseChanged    = "CLOCK.PHASE"
	SettingsPartial = "SETTINGS.INCOMPLETE"
	SettingsFailed  = "SETTINGS.READ"
	UpdateFailed    = "CLOCK.UPDATE"
	TestRunning     = "TEST.RUNNING"
	TestDone        = "TEST.DONE"
	TestUnknown     = "TEST.UNKNOWN"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// New builds a diagnostic with a formatted summary.
func New(sev Severity, code, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Summary: fmt.Sprintf(format, args...)}
}
