package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is the lock file kept in the dataset root.
const LockFileName = ".roadsort.lock"

// ErrLocked means another curation process holds the dataset.
var ErrLocked = errors.New("dataset is locked by another roadsort process")

// Lock is an exclusive advisory lock on a dataset root.
type Lock struct {
	path string
	fl   *flock.Flock
}

// AcquireLock takes the dataset lock without blocking.
func AcquireLock(root string) (*Lock, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create dataset root: %w", err)
	}

	path := filepath.Join(root, LockFileName)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrLocked, path)
	}

	return &Lock{path: path, fl: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks the dataset. The lock file is left in place.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
