package timeline

import (
	"errors"
	"testing"
)

const clangMarker = `{"cat":"","pid":1,"tid":0,"ts":0,"ph":"M","name":"process_name","args":{"name":"clang"}}`

func TestParseTraceRecognizesClang(t *testing.T) {
	data := []byte(`{"traceEvents":[
		` + clangMarker + `,
		{"ph":"X","name":"Source","ts":100,"dur":50,"args":{"detail":"/usr/include/vector"}}
	]}`)
	records, err := ParseTrace(data)
	if err != nil {
		t.Fatalf("ParseTrace failed: %v", err)
	}
	// Маркер — метаданные, записью не становится.
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Kind != KindParseFile || rec.Detail != "/usr/include/vector" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.Start != 100 || rec.Duration != 50 {
		t.Errorf("expected start=100 dur=50, got %+v", rec)
	}
}

func TestParseTraceRejectsForeignTrace(t *testing.T) {
	// Структурно валидная трасса другого инструмента: маркера clang нет.
	data := []byte(`[
		{"ph":"M","name":"process_name","args":{"name":"tracord"}},
		{"ph":"X","name":"Frontend","ts":0,"dur":10}
	]`)
	_, err := ParseTrace(data)
	if !errors.Is(err, ErrNotCompilerTrace) {
		t.Fatalf("expected ErrNotCompilerTrace, got %v", err)
	}
}

func TestParseTraceMalformed(t *testing.T) {
	_, err := ParseTrace([]byte(`{"traceEvents":[{"ph":`))
	if err == nil {
		t.Fatal("expected decode error")
	}
	if errors.Is(err, ErrNotCompilerTrace) {
		t.Fatal("malformed JSON must not be reported as a foreign trace")
	}
}

func TestParseTraceKindMapping(t *testing.T) {
	data := []byte(`[
		` + clangMarker + `,
		{"ph":"X","name":"ExecuteCompiler","ts":0,"dur":1000},
		{"ph":"X","name":"InstantiateFunction","ts":10,"dur":20,"args":{"detail":"std::sort<int *>"}},
		{"ph":"X","name":"PerformPendingInstantiations","ts":40,"dur":5}
	]`)
	records, err := ParseTrace(data)
	if err != nil {
		t.Fatalf("ParseTrace failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Kind != KindCompiler {
		t.Errorf("ExecuteCompiler → %v", records[0].Kind)
	}
	if records[1].Kind != KindInstantiateFunction || records[1].Detail != "std::sort<int *>" {
		t.Errorf("unexpected record: %+v", records[1])
	}
	// Незнакомое имя сохраняется как Unknown, не выбрасывается.
	if records[2].Kind != KindUnknown {
		t.Errorf("PerformPendingInstantiations → %v, want Unknown", records[2].Kind)
	}
}

func TestParseTraceBeginEndPairs(t *testing.T) {
	// B/E сшиваются по tid в порядке стека; метаданные и счётчики пропускаются.
	data := []byte(`[
		` + clangMarker + `,
		{"ph":"B","name":"Frontend","ts":100,"tid":1},
		{"ph":"B","name":"Source","ts":120,"tid":1,"args":{"detail":"a.h"}},
		{"ph":"E","name":"Source","ts":150,"tid":1},
		{"ph":"C","name":"memory","ts":160,"args":{"bytes":"1"}},
		{"ph":"E","name":"Frontend","ts":200,"tid":1},
		{"ph":"i","name":"Marker","ts":210}
	]`)
	records, err := ParseTrace(data)
	if err != nil {
		t.Fatalf("ParseTrace failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d: %+v", len(records), records)
	}
	// Вложенный Source закрывается первым.
	if records[0].Kind != KindParseFile || records[0].Start != 120 || records[0].Duration != 30 {
		t.Errorf("unexpected inner record: %+v", records[0])
	}
	if records[1].Kind != KindFrontend || records[1].Start != 100 || records[1].Duration != 100 {
		t.Errorf("unexpected outer record: %+v", records[1])
	}
	if records[2].Duration != 0 {
		t.Errorf("instant events carry zero duration, got %+v", records[2])
	}
}

func TestParseTraceBeginEndSeparateThreads(t *testing.T) {
	data := []byte(`[
		` + clangMarker + `,
		{"ph":"B","name":"Frontend","ts":0,"tid":1},
		{"ph":"B","name":"Backend","ts":10,"tid":2},
		{"ph":"E","name":"Frontend","ts":40,"tid":1},
		{"ph":"E","name":"Backend","ts":100,"tid":2}
	]`)
	records, err := ParseTrace(data)
	if err != nil {
		t.Fatalf("ParseTrace failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Kind != KindFrontend || records[0].Duration != 40 {
		t.Errorf("tid 1 record wrong: %+v", records[0])
	}
	if records[1].Kind != KindBackend || records[1].Duration != 90 {
		t.Errorf("tid 2 record wrong: %+v", records[1])
	}
}

func TestParseTraceDanglingBeginEnd(t *testing.T) {
	data := []byte(`[
		` + clangMarker + `,
		{"ph":"E","name":"Frontend","ts":5,"tid":1},
		{"ph":"B","name":"Backend","ts":10,"tid":1},
		{"ph":"X","name":"Source","ts":20,"dur":-7,"args":{"detail":"b.h"}}
	]`)
	records, err := ParseTrace(data)
	if err != nil {
		t.Fatalf("ParseTrace failed: %v", err)
	}
	// Одинокие E и B отбрасываются; отрицательная длительность зажимается в 0.
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d: %+v", len(records), records)
	}
	if records[0].Duration != 0 {
		t.Errorf("negative duration must clamp to 0, got %d", records[0].Duration)
	}
}
