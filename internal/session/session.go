// Package session persists the measurement-session marker that links the
// start and analyze commands: analyze only ingests traces modified after
// the recorded start.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// FileName is the marker written into the traced build directory.
const FileName = "buildlens.session"

// Current schema version - increment when the payload format changes
const sessionSchemaVersion uint16 = 1

var (
	// ErrNoSession means start was never run in this directory.
	ErrNoSession = errors.New("no session file")
	// ErrCorruptSession means the marker exists but cannot be trusted.
	ErrCorruptSession = errors.New("session file corrupt")
)

// Session is the payload of the marker file.
type Session struct {
	// Schema version for safe invalidation when the format changes
	Schema      uint16
	StartedUnix int64
}

// StartTime returns the recorded session start.
func (s Session) StartTime() time.Time {
	return time.Unix(s.StartedUnix, 0)
}

// Path returns the marker location for a build directory.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Start writes a fresh marker for dir. An existing marker is replaced:
// starting a session twice restarts it.
func Start(dir string, now time.Time) (Session, error) {
	s := Session{Schema: sessionSchemaVersion, StartedUnix: now.Unix()}
	p := Path(dir)

	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return Session{}, err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "failed to remove temp file: %v\n", rmErr)
		}
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&s); err != nil {
		f.Close()
		return Session{}, err
	}
	if err := f.Close(); err != nil {
		return Session{}, err
	}
	// Атомарная замена
	if err := os.Rename(f.Name(), p); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Load reads and validates the marker for dir.
func Load(dir string) (Session, error) {
	p := Path(dir)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, fmt.Errorf("%s: %w", p, ErrNoSession)
		}
		return Session{}, err
	}
	defer f.Close()

	var s Session
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(&s); err != nil {
		return Session{}, fmt.Errorf("%s: %w: %v", p, ErrCorruptSession, err)
	}
	if s.Schema != sessionSchemaVersion {
		return Session{}, fmt.Errorf("%s: %w: schema %d", p, ErrCorruptSession, s.Schema)
	}
	if s.StartedUnix <= 0 {
		return Session{}, fmt.Errorf("%s: %w: bad start time", p, ErrCorruptSession)
	}
	return s, nil
}
