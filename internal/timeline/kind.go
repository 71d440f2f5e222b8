package timeline

// Kind classifies one build event. The set is closed: trace event names
// outside the fixed table map to KindUnknown and are retained, since even
// unrecognized work counts toward duration accounting.
type Kind uint8

const (
	// KindUnknown is the catch-all for event names the table does not know.
	KindUnknown Kind = iota
	// KindCompiler is one whole compiler invocation (one translation unit).
	KindCompiler
	// KindFrontend covers parsing and semantic analysis.
	KindFrontend
	// KindBackend covers code generation and optimization.
	KindBackend
	KindParseFile            // parsing one source or header file
	KindParseTemplate        // parsing a template definition
	KindParseClass           // parsing a class definition
	KindInstantiateClass     // instantiating a class template
	KindInstantiateFunction  // instantiating a function template
	KindOptModule            // optimizing a whole module
	KindOptFunction          // optimizing one function

	kindCount // граница enum, не Kind
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindCompiler:
		return "Compiler"
	case KindFrontend:
		return "Frontend"
	case KindBackend:
		return "Backend"
	case KindParseFile:
		return "ParseFile"
	case KindParseTemplate:
		return "ParseTemplate"
	case KindParseClass:
		return "ParseClass"
	case KindInstantiateClass:
		return "InstantiateClass"
	case KindInstantiateFunction:
		return "InstantiateFunction"
	case KindOptModule:
		return "OptModule"
	case KindOptFunction:
		return "OptFunction"
	default:
		return "Unknown"
	}
}

// Фиксированная таблица имён событий clang -ftime-trace.
var kindForName = map[string]Kind{
	"ExecuteCompiler":     KindCompiler,
	"Frontend":            KindFrontend,
	"Backend":             KindBackend,
	"Source":              KindParseFile,
	"ParseTemplate":       KindParseTemplate,
	"ParseClass":          KindParseClass,
	"InstantiateClass":    KindInstantiateClass,
	"InstantiateFunction": KindInstantiateFunction,
	"OptModule":           KindOptModule,
	"OptFunction":         KindOptFunction,
}

// KindForName maps a trace event name onto its Kind.
// Names absent from the table map to KindUnknown.
func KindForName(name string) Kind {
	if k, ok := kindForName[name]; ok {
		return k
	}
	return KindUnknown
}
