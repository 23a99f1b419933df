package os

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Flock guards the process-wide emulator session: two servers must not
// share one working set of ROMs and savestates.
type Flock struct {
	f *flock.Flock
}

func NewFileLock(path string) (*Flock, error) {
	if path == "" {
		path = os.TempDir() + string(os.PathSeparator) + "mgba_mcp.lock"
	}

	if err := CheckCreateDir(filepath.Dir(path)); err != nil {
		return nil, err
	} else {
		f, err := os.Create(path)
		defer func() { _ = f.Close() }()
		if err != nil {
			return nil, err
		}
	}

	return &Flock{f: flock.New(path)}, nil
}

func (f *Flock) Lock() error   { return f.f.Lock() }
func (f *Flock) Unlock() error { return f.f.Unlock() }
