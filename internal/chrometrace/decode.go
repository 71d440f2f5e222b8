package chrometrace

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is one decoded trace file: the flat event list plus the
// metadata clang writes alongside it.
type Document struct {
	Events          []Event `json:"traceEvents"`
	BeginningOfTime int64   `json:"beginningOfTime,omitempty"`
}

// Decode parses a trace document. Both layouts found in the wild are
// accepted: a bare JSON array of events, and an object wrapping the array
// in a "traceEvents" field (clang wraps). Unknown object fields are
// ignored.
func Decode(data []byte) (Document, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var events []Event
		if err := json.Unmarshal(trimmed, &events); err != nil {
			return Document{}, fmt.Errorf("decode trace array: %w", err)
		}
		return Document{Events: events}, nil
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode trace object: %w", err)
	}
	return doc, nil
}
