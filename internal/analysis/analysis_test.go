package analysis

import (
	"testing"

	"buildlens/internal/timeline"
)

// addEvent добавляет событие напрямую, минуя Builder: агрегатам важны
// только вид, длительность и принадлежность к корням.
func addEvent(store *timeline.Store, names *timeline.NameTable, kind timeline.Kind, detail string, start, dur int64, root bool) {
	id := store.Append(timeline.Event{
		Kind:     kind,
		Start:    start,
		Duration: dur,
		Detail:   names.Intern(detail),
	})
	if root {
		store.AddRoot(id)
	}
}

func TestWallTotalOverlap(t *testing.T) {
	store := timeline.NewStore(0)
	names := timeline.NewNameTable()
	addEvent(store, names, timeline.KindCompiler, "", 0, 100, true)
	addEvent(store, names, timeline.KindCompiler, "", 50, 150, true) // [50,200]

	report := Run(store, names, Options{})
	if report.WallTotal != 200 {
		t.Errorf("пересекающиеся корни [0,100]+[50,200]: WallTotal = %d, ожидали 200", report.WallTotal)
	}
}

func TestWallTotalDisjoint(t *testing.T) {
	store := timeline.NewStore(0)
	names := timeline.NewNameTable()
	addEvent(store, names, timeline.KindCompiler, "", 0, 100, true)
	addEvent(store, names, timeline.KindCompiler, "", 150, 50, true) // [150,200]

	report := Run(store, names, Options{})
	if report.WallTotal != 150 {
		t.Errorf("раздельные корни [0,100]+[150,200]: WallTotal = %d, ожидали 150", report.WallTotal)
	}
}

func TestWallTotalTouching(t *testing.T) {
	store := timeline.NewStore(0)
	names := timeline.NewNameTable()
	addEvent(store, names, timeline.KindCompiler, "", 0, 100, true)
	addEvent(store, names, timeline.KindCompiler, "", 100, 50, true)

	report := Run(store, names, Options{})
	if report.WallTotal != 150 {
		t.Errorf("касающиеся корни: WallTotal = %d, ожидали 150", report.WallTotal)
	}
}

func TestKindTotalsPlainSum(t *testing.T) {
	store := timeline.NewStore(0)
	names := timeline.NewNameTable()
	// Две параллельные единицы трансляции: сумма работы больше wall time.
	addEvent(store, names, timeline.KindCompiler, "", 0, 100, true)
	addEvent(store, names, timeline.KindCompiler, "", 0, 100, true)
	addEvent(store, names, timeline.KindUnknown, "RunPass", 10, 5, false)

	report := Run(store, names, Options{})
	if report.WallTotal != 100 {
		t.Errorf("WallTotal = %d, ожидали 100", report.WallTotal)
	}
	var compiler, unknown *KindTotal
	for i := range report.KindTotals {
		switch report.KindTotals[i].Kind {
		case timeline.KindCompiler:
			compiler = &report.KindTotals[i]
		case timeline.KindUnknown:
			unknown = &report.KindTotals[i]
		}
	}
	if compiler == nil || compiler.Duration != 200 || compiler.Count != 2 {
		t.Errorf("Compiler total: %+v, ожидали 200/2", compiler)
	}
	// Unknown участвует в учёте длительностей, а не выбрасывается.
	if unknown == nil || unknown.Duration != 5 {
		t.Errorf("Unknown total: %+v, ожидали 5/1", unknown)
	}
	if last := report.KindTotals[len(report.KindTotals)-1].Kind; last != timeline.KindUnknown {
		t.Errorf("Unknown должен печататься последним, получили %v", last)
	}
}

func TestTemplateSetGrouping(t *testing.T) {
	store := timeline.NewStore(0)
	names := timeline.NewNameTable()
	addEvent(store, names, timeline.KindInstantiateClass, "Foo<int>", 0, 10, false)
	addEvent(store, names, timeline.KindInstantiateFunction, "Foo<double>", 20, 20, false)

	report := Run(store, names, Options{})
	if len(report.TemplateSets) != 1 {
		t.Fatalf("ожидали один набор, получили %+v", report.TemplateSets)
	}
	set := report.TemplateSets[0]
	if set.Name != "Foo" || set.Duration != 30 || set.Count != 2 {
		t.Errorf("набор Foo: %+v, ожидали {Foo 30 2}", set)
	}
}

func TestFunctionSetGrouping(t *testing.T) {
	store := timeline.NewStore(0)
	names := timeline.NewNameTable()
	addEvent(store, names, timeline.KindOptFunction, "bar(int)", 0, 40, false)
	addEvent(store, names, timeline.KindOptFunction, "bar(float)", 50, 5, false)
	addEvent(store, names, timeline.KindOptFunction, "baz()", 60, 30, false)

	report := Run(store, names, Options{})
	if len(report.FunctionSets) != 2 {
		t.Fatalf("ожидали 2 набора, получили %+v", report.FunctionSets)
	}
	if report.FunctionSets[0].Name != "bar" || report.FunctionSets[0].Duration != 45 {
		t.Errorf("первый набор: %+v", report.FunctionSets[0])
	}
	if report.FunctionSets[1].Name != "baz" || report.FunctionSets[1].Count != 1 {
		t.Errorf("второй набор: %+v", report.FunctionSets[1])
	}
}

func TestPerFileAggregate(t *testing.T) {
	store := timeline.NewStore(0)
	names := timeline.NewNameTable()
	// header.h разобран в трёх единицах трансляции.
	addEvent(store, names, timeline.KindParseFile, "header.h", 0, 5, false)
	addEvent(store, names, timeline.KindParseFile, "header.h", 100, 7, false)
	addEvent(store, names, timeline.KindParseFile, "header.h", 200, 9, false)
	addEvent(store, names, timeline.KindParseFile, "other.h", 300, 4, false)

	report := Run(store, names, Options{})
	if len(report.FileRows) != 2 {
		t.Fatalf("ожидали 2 файла, получили %+v", report.FileRows)
	}
	row := report.FileRows[0]
	if row.Name != "header.h" || row.Duration != 21 || row.Count != 3 {
		t.Errorf("header.h: %+v, ожидали {header.h 21 3}", row)
	}
}

func TestTieBreakByName(t *testing.T) {
	store := timeline.NewStore(0)
	names := timeline.NewNameTable()
	// Одинаковая длительность — порядок задаёт имя.
	addEvent(store, names, timeline.KindOptFunction, "B()", 0, 10, false)
	addEvent(store, names, timeline.KindOptFunction, "A()", 20, 10, false)

	report := Run(store, names, Options{})
	if len(report.FunctionSets) != 2 {
		t.Fatalf("ожидали 2 набора, получили %+v", report.FunctionSets)
	}
	if report.FunctionSets[0].Name != "A" || report.FunctionSets[1].Name != "B" {
		t.Errorf("при равной длительности A раньше B: %+v", report.FunctionSets)
	}
}

func TestTopTruncation(t *testing.T) {
	store := timeline.NewStore(0)
	names := timeline.NewNameTable()
	for i := 0; i < 30; i++ {
		detail := string(rune('a'+i%26)) + ".h"
		addEvent(store, names, timeline.KindParseFile, detail, int64(i*100), int64(30-i), false)
	}

	report := Run(store, names, Options{Top: 5})
	if len(report.FileRows) != 5 {
		t.Errorf("Top=5: получили %d строк", len(report.FileRows))
	}

	full := Run(store, names, Options{})
	if full.Top != DefaultTop {
		t.Errorf("Top по умолчанию = %d, ожидали %d", full.Top, DefaultTop)
	}
	if len(full.FileRows) != DefaultTop {
		t.Errorf("ожидали %d строк, получили %d", DefaultTop, len(full.FileRows))
	}
}

func TestSlowestIndividual(t *testing.T) {
	store := timeline.NewStore(0)
	names := timeline.NewNameTable()
	addEvent(store, names, timeline.KindInstantiateFunction, "Foo<int>", 0, 30, false)
	addEvent(store, names, timeline.KindInstantiateFunction, "Foo<double>", 50, 50, false)
	addEvent(store, names, timeline.KindParseClass, "Widget", 100, 80, false)

	report := Run(store, names, Options{})
	byKind := make(map[timeline.Kind][]EventRow)
	for _, ranking := range report.Slowest {
		byKind[ranking.Kind] = ranking.Rows
	}

	rows := byKind[timeline.KindInstantiateFunction]
	if len(rows) != 2 || rows[0].Name != "Foo<double>" || rows[1].Name != "Foo<int>" {
		t.Errorf("InstantiateFunction ranking: %+v", rows)
	}
	if len(byKind[timeline.KindParseClass]) != 1 {
		t.Errorf("ParseClass ranking: %+v", byKind[timeline.KindParseClass])
	}
	// Секции присутствуют даже без событий.
	if len(report.Slowest) != len(individualKinds) {
		t.Errorf("ожидали %d секций, получили %d", len(individualKinds), len(report.Slowest))
	}
	if rows := byKind[timeline.KindOptModule]; len(rows) != 0 {
		t.Errorf("пустой вид должен дать пустую секцию: %+v", rows)
	}
}

func TestEmptyStore(t *testing.T) {
	store := timeline.NewStore(0)
	names := timeline.NewNameTable()

	report := Run(store, names, Options{})
	if report.WallTotal != 0 || report.EventCount != 0 || report.RootCount != 0 {
		t.Errorf("пустой store: %+v", report)
	}
	if len(report.KindTotals) != 0 || len(report.FileRows) != 0 {
		t.Errorf("агрегаты по пустому store должны быть пусты: %+v", report)
	}
}
