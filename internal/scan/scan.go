// Package scan discovers candidate trace files on disk.
package scan

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Window is the modification-time acceptance range for candidates.
// A zero boundary leaves that side open.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the window accepts a modification time.
// Boundaries are inclusive.
func (w Window) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && t.After(w.End) {
		return false
	}
	return true
}

// Files возвращает отсортированный список *.json файлов под root, чья
// mtime попадает в окно. Порядок детерминирован: pipeline сворачивает
// файлы строго в этом порядке, от него зависят ID в store.
func Files(root string, window Window) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			// Файл исчез между обходом и stat — пропускаем.
			return nil
		}
		if !info.Mode().IsRegular() || !window.Contains(info.ModTime()) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}
