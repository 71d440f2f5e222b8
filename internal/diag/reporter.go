package diag

// Reporter — минимальный контракт получения диагностик от стадий.
// Реализации: BagReporter (кладёт в Bag), NopReporter.
type Reporter interface {
	Report(code Code, sev Severity, path, msg string)
}

// BagReporter — адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, path, msg string) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev,
		Code:     code,
		Path:     path,
		Message:  msg,
	})
}

// NopReporter отбрасывает всё.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, string, string) {}

// Info is a shortcut for SevInfo diagnostics.
func Info(r Reporter, code Code, path, msg string) {
	if r != nil {
		r.Report(code, SevInfo, path, msg)
	}
}

// Warn is a shortcut for SevWarning diagnostics.
func Warn(r Reporter, code Code, path, msg string) {
	if r != nil {
		r.Report(code, SevWarning, path, msg)
	}
}

// Error is a shortcut for SevError diagnostics.
func Error(r Reporter, code Code, path, msg string) {
	if r != nil {
		r.Report(code, SevError, path, msg)
	}
}
