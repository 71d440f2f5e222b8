package timeline

import "testing"

func TestStoreAppendGet(t *testing.T) {
	store := NewStore(4)

	if store.Len() != 0 {
		t.Fatalf("новый store должен быть пуст, Len = %d", store.Len())
	}
	if store.Get(NoEventID) != nil {
		t.Error("Get(NoEventID) должен вернуть nil")
	}

	id1 := store.Append(Event{Kind: KindCompiler, Start: 0, Duration: 100})
	id2 := store.Append(Event{Kind: KindFrontend, Start: 10, Duration: 50})

	if id1 != EventID(1) || id2 != EventID(2) {
		t.Fatalf("ID должны выдаваться подряд с единицы: %d, %d", id1, id2)
	}
	if store.Len() != 2 {
		t.Errorf("Len = %d, ожидали 2", store.Len())
	}

	ev := store.Get(id2)
	if ev == nil || ev.Kind != KindFrontend || ev.Start != 10 {
		t.Fatalf("Get(%d) вернул не то событие: %+v", id2, ev)
	}
	if store.Get(EventID(99)) != nil {
		t.Error("Get несуществующего ID должен вернуть nil")
	}
}

func TestStoreRoots(t *testing.T) {
	store := NewStore(0)
	id1 := store.Append(Event{Kind: KindCompiler, Duration: 100})
	id2 := store.Append(Event{Kind: KindCompiler, Start: 200, Duration: 100})
	store.AddRoot(id1)
	store.AddRoot(id2)

	roots := store.Roots()
	if len(roots) != 2 || roots[0] != id1 || roots[1] != id2 {
		t.Errorf("Roots() = %v, ожидали [%d %d]", roots, id1, id2)
	}
}

// ID остаются валидными при любом росте арены.
func TestStoreStableIDs(t *testing.T) {
	store := NewStore(1)
	ids := make([]EventID, 0, 1000)
	for i := 0; i < 1000; i++ {
		ids = append(ids, store.Append(Event{Start: int64(i), Duration: 1}))
	}
	for i, id := range ids {
		ev := store.Get(id)
		if ev == nil || ev.Start != int64(i) {
			t.Fatalf("после роста арены Get(%d) вернул %+v", id, ev)
		}
	}
}

func TestEventInterval(t *testing.T) {
	outer := Event{Start: 10, Duration: 100}
	if outer.End() != 110 {
		t.Errorf("End() = %d, ожидали 110", outer.End())
	}

	inner := Event{Start: 20, Duration: 30}
	if !outer.Contains(&inner) {
		t.Error("[20,50] должен лежать внутри [10,110]")
	}
	// Границы включительно
	same := Event{Start: 10, Duration: 100}
	if !outer.Contains(&same) {
		t.Error("совпадающий интервал считается вложенным")
	}
	crossing := Event{Start: 100, Duration: 50}
	if outer.Contains(&crossing) {
		t.Error("[100,150] пересекает [10,110], но не вложен")
	}
}
