package timeline

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"
)

// DetailID references one entry of a NameTable. It is a distinct type from
// EventID so the two index spaces cannot be mixed up.
type DetailID uint32

// NoDetailID is the reserved id of the empty detail string.
const NoDetailID DetailID = 0

// NameTable interns detail strings (file paths, template and function
// names) into dense ids, unique in both directions and append-only for the
// run. Grouping correctness depends on id equality meaning string equality,
// so interning is a requirement here, not an optimization.
type NameTable struct {
	byID  []string            // id -> строка (byID[0] = "" для NoDetailID)
	index map[string]DetailID // строка -> id
}

func NewNameTable() *NameTable {
	return &NameTable{
		byID:  []string{""}, // NoDetailID → пустая строка
		index: map[string]DetailID{"": 0},
	}
}

// Intern возвращает ID строки, добавляя её при необходимости.
// Строка приводится к NFC, чтобы визуально одинаковые имена делили один ID.
func (t *NameTable) Intern(s string) DetailID {
	s = norm.NFC.String(s)
	if id, ok := t.index[s]; ok {
		return id
	}

	next, err := safecast.Conv[uint32](len(t.byID))
	if err != nil {
		panic(fmt.Errorf("name table overflow: %w", err))
	}
	// Собственная копия строки, чтобы не удерживать исходный буфер файла.
	cpy := string([]byte(s))
	id := DetailID(next)
	t.byID = append(t.byID, cpy)
	t.index[cpy] = id
	return id
}

// Lookup возвращает строку по ID.
// Если ID не валиден, возвращает пустую строку и false.
func (t *NameTable) Lookup(id DetailID) (string, bool) {
	if !t.Has(id) {
		return "", false
	}
	return t.byID[id], true
}

// MustLookup возвращает строку по ID.
// Если ID не валиден, паникует.
func (t *NameTable) MustLookup(id DetailID) string {
	s, ok := t.Lookup(id)
	if !ok {
		panic("invalid detail ID")
	}
	return s
}

// Has проверяет, валиден ли ID.
func (t *NameTable) Has(id DetailID) bool {
	return int(id) < len(t.byID)
}

// Len возвращает количество строк в таблице, включая NoDetailID.
// Не может быть меньше 1.
func (t *NameTable) Len() int {
	return len(t.byID)
}

// Snapshot возвращает копию всех строк таблицы.
func (t *NameTable) Snapshot() []string {
	return slices.Clone(t.byID)
}
