// Package chrometrace models the subset of the Chrome Trace Event Format
// that clang's -ftime-trace instrumentation emits.
//
// https://docs.google.com/document/d/1CvAClvFfyA5R-PhYUmn5OOQtYMH4h6I0nSsKchNAySU
package chrometrace

// Event is one record of a trace document.
type Event struct {
	Name      string         `json:"name,omitempty"`
	Category  string         `json:"cat,omitempty"`
	Phase     string         `json:"ph,omitempty"`
	Timestamp int64          `json:"ts"`
	Duration  int64          `json:"dur,omitempty"`
	ProcessID int64          `json:"pid,omitempty"`
	ThreadID  int64          `json:"tid,omitempty"`
	Args      map[string]any `json:"args,omitempty"`
}

// Phase values this package cares about.
const (
	PhaseComplete      = "X"
	PhaseBegin         = "B"
	PhaseEnd           = "E"
	PhaseInstant       = "I"
	PhaseInstantLegacy = "i"
	PhaseMetadata      = "M"
	PhaseCounter       = "C"
)

// ArgString returns the named argument value when it is a string,
// otherwise the empty string.
func (e *Event) ArgString(key string) string {
	if e.Args == nil {
		return ""
	}
	s, _ := e.Args[key].(string)
	return s
}
