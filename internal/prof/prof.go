// Package prof records CPU, heap and runtime-trace profiles of a
// buildlens run itself. Парсер жуёт сотни мегабайт JSON, профили
// нужны регулярно.
package prof

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Options select which profiles a run records. An empty path disables
// the corresponding profile.
type Options struct {
	CPUPath   string
	MemPath   string
	TracePath string
}

// Session holds the files backing an active profiling run.
type Session struct {
	cpuFile   *os.File
	traceFile *os.File
	memPath   string
}

// Start begins the requested profiles. A zero Options yields a no-op
// session whose Stop does nothing.
func Start(opts Options) (*Session, error) {
	s := &Session{memPath: opts.MemPath}

	if opts.CPUPath != "" {
		f, err := os.Create(opts.CPUPath)
		if err != nil {
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		s.cpuFile = f
	}

	if opts.TracePath != "" {
		f, err := os.Create(opts.TracePath)
		if err != nil {
			s.unwind()
			return nil, fmt.Errorf("runtime trace: %w", err)
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			s.unwind()
			return nil, fmt.Errorf("runtime trace: %w", err)
		}
		s.traceFile = f
	}

	return s, nil
}

// Stop finishes every active profile. The heap profile is written last
// so it reflects the run's final allocations. Safe on a nil session.
func (s *Session) Stop() error {
	if s == nil {
		return nil
	}
	if s.traceFile != nil {
		trace.Stop()
		_ = s.traceFile.Close()
		s.traceFile = nil
	}
	if s.cpuFile != nil {
		pprof.StopCPUProfile()
		_ = s.cpuFile.Close()
		s.cpuFile = nil
	}
	if s.memPath == "" {
		return nil
	}
	path := s.memPath
	s.memPath = ""
	return writeHeap(path)
}

// unwind откатывает уже запущенные профили при ошибке Start.
func (s *Session) unwind() {
	if s.cpuFile != nil {
		pprof.StopCPUProfile()
		_ = s.cpuFile.Close()
		s.cpuFile = nil
	}
}

func writeHeap(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("heap profile: %w", err)
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("heap profile: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("heap profile: %w", err)
	}
	return nil
}
