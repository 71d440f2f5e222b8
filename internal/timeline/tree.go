package timeline

import "sort"

// Builder folds per-file flat record lists into a shared Store and
// NameTable. Traces carry start+duration per event, not an explicit call
// stack, so nesting is reconstructed geometrically from interval
// containment.
type Builder struct {
	store *Store
	names *NameTable
}

func NewBuilder(store *Store, names *NameTable) *Builder {
	return &Builder{store: store, names: names}
}

// AddFile converts one file's records into root subtrees appended to the
// shared store and returns the number of events appended.
//
// Records are processed in ascending start order, duration descending for
// equal starts, so an outer event co-starting with its first child is seen
// first and can become the parent.
func (b *Builder) AddFile(records []Record) int {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].Duration > sorted[j].Duration
	})

	// Стек открытых событий.
	stack := make([]EventID, 0, 16)
	for _, rec := range sorted {
		// Закрываем всё, что кончилось не позже начала текущей записи.
		for len(stack) > 0 {
			top := b.store.Get(stack[len(stack)-1])
			if top.End() > rec.Start {
				break
			}
			stack = stack[:len(stack)-1]
		}

		ev := Event{
			Kind:     rec.Kind,
			Start:    rec.Start,
			Duration: rec.Duration,
			Detail:   b.names.Intern(rec.Detail),
		}
		// Родитель — вершина стека, но только при полном вложении.
		// Перекрывающийся, не вложенный интервал (битая трасса)
		// становится отдельным корнем: работу не теряем, дерево не ломаем.
		if len(stack) > 0 {
			top := b.store.Get(stack[len(stack)-1])
			if top.Contains(&ev) {
				ev.Parent = stack[len(stack)-1]
			}
		}

		id := b.store.Append(ev)
		if ev.Parent != NoEventID {
			parent := b.store.Get(ev.Parent)
			parent.Children = append(parent.Children, id)
		} else {
			b.store.AddRoot(id)
		}
		stack = append(stack, id)
	}
	return len(sorted)
}
