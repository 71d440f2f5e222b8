// Package analysis walks a completed event store and produces the ranked,
// grouped, overlap-aware build-time report.
package analysis

import (
	"sort"

	"buildlens/internal/timeline"
)

// DefaultTop is the default row count per ranked report section.
const DefaultTop = 10

// Options control the aggregation run.
type Options struct {
	Top int // rows per ranked section; <= 0 means DefaultTop
}

// KindTotal is the cumulative cost of one event kind over the whole store.
// Plain sum, not overlap-merged: parallel compiler work legitimately adds
// up to more than wall time.
type KindTotal struct {
	Kind     timeline.Kind
	Duration int64 // µs
	Count    int
}

// GroupRow is one ranked aggregate row (a file or a canonical-key set).
type GroupRow struct {
	Name     string
	Duration int64 // µs, summed over the group
	Count    int
}

// EventRow is one ranked individual event.
type EventRow struct {
	Name     string
	Duration int64 // µs
}

// KindRanking is the individual top-N for one kind.
type KindRanking struct {
	Kind timeline.Kind
	Rows []EventRow
}

// Report holds every aggregate the engine computes, ready to render.
// All rankings are duration-descending with ascending-name tie-break, so
// the same store always yields the same report.
type Report struct {
	Top          int
	WallTotal    int64 // µs, interval union over all roots
	RootCount    int
	EventCount   int
	KindTotals   []KindTotal
	FileRows     []GroupRow
	TemplateSets []GroupRow
	FunctionSets []GroupRow
	Slowest      []KindRanking
}

// Порядок секции "time spent per activity": известные виды, Unknown в конце.
var totalsOrder = []timeline.Kind{
	timeline.KindCompiler,
	timeline.KindFrontend,
	timeline.KindBackend,
	timeline.KindParseFile,
	timeline.KindParseTemplate,
	timeline.KindParseClass,
	timeline.KindInstantiateClass,
	timeline.KindInstantiateFunction,
	timeline.KindOptModule,
	timeline.KindOptFunction,
	timeline.KindUnknown,
}

// Виды с индивидуальным top-N; ParseFile покрыт пофайловым агрегатом.
var individualKinds = []timeline.Kind{
	timeline.KindParseTemplate,
	timeline.KindParseClass,
	timeline.KindInstantiateClass,
	timeline.KindInstantiateFunction,
	timeline.KindOptModule,
	timeline.KindOptFunction,
}

var rankedIndividually = func() map[timeline.Kind]bool {
	m := make(map[timeline.Kind]bool, len(individualKinds))
	for _, k := range individualKinds {
		m[k] = true
	}
	return m
}()

// Run computes every aggregate in one pass over the store. The store and
// name table are read, never written.
func Run(store *timeline.Store, names *timeline.NameTable, opts Options) *Report {
	top := opts.Top
	if top <= 0 {
		top = DefaultTop
	}

	totals := make(map[timeline.Kind]*KindTotal)
	files := make(map[string]*GroupRow)
	templates := make(map[string]*GroupRow)
	functions := make(map[string]*GroupRow)
	individual := make(map[timeline.Kind][]EventRow)

	events := store.Events()
	for i := range events {
		ev := &events[i]

		kt := totals[ev.Kind]
		if kt == nil {
			kt = &KindTotal{Kind: ev.Kind}
			totals[ev.Kind] = kt
		}
		kt.Duration += ev.Duration
		kt.Count++

		if rankedIndividually[ev.Kind] {
			individual[ev.Kind] = append(individual[ev.Kind], EventRow{
				Name:     names.MustLookup(ev.Detail),
				Duration: ev.Duration,
			})
		}

		switch ev.Kind {
		case timeline.KindParseFile:
			addGroup(files, names.MustLookup(ev.Detail), ev.Duration)
		case timeline.KindInstantiateClass, timeline.KindInstantiateFunction:
			addGroup(templates, CanonicalKey(names.MustLookup(ev.Detail)), ev.Duration)
		case timeline.KindOptFunction:
			addGroup(functions, CanonicalKey(names.MustLookup(ev.Detail)), ev.Duration)
		}
	}

	report := &Report{
		Top:        top,
		WallTotal:  wallTotal(store),
		RootCount:  len(store.Roots()),
		EventCount: store.Len(),
	}
	for _, kind := range totalsOrder {
		if kt := totals[kind]; kt != nil {
			report.KindTotals = append(report.KindTotals, *kt)
		}
	}
	report.FileRows = rankGroups(files, top)
	report.TemplateSets = rankGroups(templates, top)
	report.FunctionSets = rankGroups(functions, top)
	for _, kind := range individualKinds {
		report.Slowest = append(report.Slowest, KindRanking{
			Kind: kind,
			Rows: rankEvents(individual[kind], top),
		})
	}
	return report
}

func addGroup(m map[string]*GroupRow, name string, duration int64) {
	row := m[name]
	if row == nil {
		row = &GroupRow{Name: name}
		m[name] = row
	}
	row.Duration += duration
	row.Count++
}

// rankGroups ranks aggregate rows: duration descending, name ascending for
// equal durations. Names are unique per map, so the order is total.
func rankGroups(m map[string]*GroupRow, top int) []GroupRow {
	rows := make([]GroupRow, 0, len(m))
	for _, row := range m {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Duration != rows[j].Duration {
			return rows[i].Duration > rows[j].Duration
		}
		return rows[i].Name < rows[j].Name
	})
	if len(rows) > top {
		rows = rows[:top]
	}
	return rows
}

// rankEvents ranks individual events. Equal duration and name keeps store
// order, hence the stable sort.
func rankEvents(rows []EventRow, top int) []EventRow {
	ranked := make([]EventRow, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Duration != ranked[j].Duration {
			return ranked[i].Duration > ranked[j].Duration
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > top {
		ranked = ranked[:top]
	}
	return ranked
}

type span struct {
	start, end int64
}

// wallTotal merges all root intervals into a disjoint union and sums the
// lengths. Summing would overstate: independently-timestamped files may
// represent parallel compiler invocations whose spans overlap.
func wallTotal(store *timeline.Store) int64 {
	roots := store.Roots()
	if len(roots) == 0 {
		return 0
	}
	spans := make([]span, 0, len(roots))
	for _, id := range roots {
		ev := store.Get(id)
		spans = append(spans, span{start: ev.Start, end: ev.End()})
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end < spans[j].end
	})

	var total int64
	cur := spans[0]
	for _, s := range spans[1:] {
		if s.start <= cur.end { // пересечение или касание — склеиваем
			if s.end > cur.end {
				cur.end = s.end
			}
			continue
		}
		total += cur.end - cur.start
		cur = s
	}
	return total + (cur.end - cur.start)
}
