package analysis

import "strings"

// CanonicalKey strips the trailing template-argument/parameter suffix from
// a symbol name so instantiations of one template group together:
// "Foo<int>" and "Foo<double>" both key as "Foo", "std::vector<Item>::push_back"
// keys as "std::vector". The name is cut at its first '<' or '(' and
// trailing spaces are trimmed; a cut that would leave nothing keeps the
// name whole (clang emits details like "<deduction guide for X>", and
// "operator<" survives as "operator").
func CanonicalKey(name string) string {
	i := strings.IndexAny(name, "<(")
	if i < 0 {
		return name
	}
	key := strings.TrimRight(name[:i], " ")
	if key == "" {
		return name
	}
	return key
}
