package chrometrace

import "testing"

func TestDecodeBareArray(t *testing.T) {
	data := []byte(`[
		{"name":"Source","ph":"X","ts":10,"dur":5,"pid":1,"tid":2,"args":{"detail":"a.h"}},
		{"name":"Frontend","ph":"X","ts":0,"dur":100}
	]`)
	doc, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(doc.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(doc.Events))
	}
	ev := doc.Events[0]
	if ev.Name != "Source" || ev.Phase != PhaseComplete {
		t.Errorf("unexpected first event: %+v", ev)
	}
	if ev.Timestamp != 10 || ev.Duration != 5 {
		t.Errorf("expected ts=10 dur=5, got ts=%d dur=%d", ev.Timestamp, ev.Duration)
	}
	if got := ev.ArgString("detail"); got != "a.h" {
		t.Errorf("expected detail %q, got %q", "a.h", got)
	}
}

func TestDecodeTraceEventsObject(t *testing.T) {
	data := []byte(`{
		"traceEvents": [{"name":"ExecuteCompiler","ph":"X","ts":0,"dur":200}],
		"beginningOfTime": 1712345678,
		"otherData": {"version": "clang 17.0.0"}
	}`)
	doc, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(doc.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(doc.Events))
	}
	if doc.Events[0].Name != "ExecuteCompiler" {
		t.Errorf("unexpected event: %+v", doc.Events[0])
	}
	if doc.BeginningOfTime != 1712345678 {
		t.Errorf("expected beginningOfTime to survive, got %d", doc.BeginningOfTime)
	}
}

func TestDecodeLeadingWhitespace(t *testing.T) {
	doc, err := Decode([]byte("\n\t [{\"name\":\"x\",\"ph\":\"i\",\"ts\":1}]"))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(doc.Events) != 1 || doc.Events[0].Phase != PhaseInstantLegacy {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, data := range []string{
		`[{"name":"Source","ph":"X"`,
		`{"traceEvents": [{]}`,
		`not json at all`,
	} {
		if _, err := Decode([]byte(data)); err == nil {
			t.Errorf("expected error for %q", data)
		}
	}
}

func TestArgString(t *testing.T) {
	ev := Event{Args: map[string]any{"detail": "foo.cc", "count": 3.0}}
	if got := ev.ArgString("detail"); got != "foo.cc" {
		t.Errorf("expected %q, got %q", "foo.cc", got)
	}
	// Non-string and missing keys degrade to "".
	if got := ev.ArgString("count"); got != "" {
		t.Errorf("expected empty string for non-string arg, got %q", got)
	}
	if got := ev.ArgString("absent"); got != "" {
		t.Errorf("expected empty string for absent arg, got %q", got)
	}
	empty := Event{}
	if got := empty.ArgString("detail"); got != "" {
		t.Errorf("expected empty string for nil args, got %q", got)
	}
}
