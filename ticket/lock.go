package ticket

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// lockPath returns the sidecar lock file for a store file. The store file
// itself is replaced by rename on every write, so it cannot carry the lock.
func lockPath(path string) string {
	return path + ".lock"
}

// withFileLock executes fn while holding a flock on the sidecar lock file
// for path: exclusive when exclusive is true, shared otherwise.
//
// Exclusive callers create the parent directory if needed. Shared callers
// whose parent directory does not exist run fn without a lock, since there
// is nothing on disk to read.
func withFileLock(path string, exclusive bool, fn func() error) error {
	dir := filepath.Dir(path)
	if exclusive {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parent dir: %w", err)
		}
	} else if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return fn()
	}

	f, err := os.OpenFile(lockPath(path), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer f.Close()

	how := unix.LOCK_SH
	if exclusive {
		how = unix.LOCK_EX
	}
	if err := flock(f, how); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer flock(f, unix.LOCK_UN)

	return fn()
}

func flock(f *os.File, how int) error {
	for {
		err := unix.Flock(int(f.Fd()), how)
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}
