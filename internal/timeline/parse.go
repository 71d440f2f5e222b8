package timeline

import (
	"errors"

	"buildlens/internal/chrometrace"
)

// Record is one provisional flat event of a single trace file, before the
// containment tree is reconstructed.
type Record struct {
	Kind     Kind
	Detail   string
	Start    int64 // микросекунды
	Duration int64 // микросекунды, >= 0
}

// ErrNotCompilerTrace marks a well-formed trace document that was not
// produced by clang's -ftime-trace instrumentation: other tools drop
// similar JSON into the same build directories, and those files are
// skipped without a word.
var ErrNotCompilerTrace = errors.New("not a clang time-trace")

// Маркер, которым clang подписывает каждую time-trace.
const (
	markerName    = "process_name"
	markerProcess = "clang"
)

// ParseTrace decodes one trace document into flat records: phases are
// normalized to duration-bearing entries, names are mapped through
// KindForName, unrecognized names are retained as KindUnknown. The store
// and name table are untouched; folding is the Builder's job.
func ParseTrace(data []byte) ([]Record, error) {
	doc, err := chrometrace.Decode(data)
	if err != nil {
		return nil, err
	}
	if !hasClangMarker(doc.Events) {
		return nil, ErrNotCompilerTrace
	}
	return flatten(doc.Events), nil
}

func hasClangMarker(events []chrometrace.Event) bool {
	for i := range events {
		ev := &events[i]
		if ev.Phase != chrometrace.PhaseMetadata || ev.Name != markerName {
			continue
		}
		if ev.ArgString("name") == markerProcess {
			return true
		}
	}
	return false
}

// flatten сводит фазы X/B/E/i/I к плоским записям с длительностью.
// B/E сопоставляются в порядке стека отдельно по каждому tid; одинокие
// B и E отбрасываются. Метаданные и счётчики записями не становятся.
func flatten(events []chrometrace.Event) []Record {
	records := make([]Record, 0, len(events))
	open := make(map[int64][]chrometrace.Event)

	for _, ev := range events {
		switch ev.Phase {
		case chrometrace.PhaseComplete:
			records = append(records, makeRecord(ev, ev.Duration))
		case chrometrace.PhaseBegin:
			open[ev.ThreadID] = append(open[ev.ThreadID], ev)
		case chrometrace.PhaseEnd:
			stack := open[ev.ThreadID]
			if len(stack) == 0 {
				continue
			}
			begin := stack[len(stack)-1]
			open[ev.ThreadID] = stack[:len(stack)-1]
			records = append(records, makeRecord(begin, ev.Timestamp-begin.Timestamp))
		case chrometrace.PhaseInstant, chrometrace.PhaseInstantLegacy:
			records = append(records, makeRecord(ev, 0))
		}
	}
	return records
}

func makeRecord(ev chrometrace.Event, duration int64) Record {
	if duration < 0 {
		duration = 0
	}
	return Record{
		Kind:     KindForName(ev.Name),
		Detail:   ev.ArgString("detail"),
		Start:    ev.Timestamp,
		Duration: duration,
	}
}
