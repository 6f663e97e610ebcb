package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/gofrs/flock"
)

// openSink returns the report destination. A file is written under an exclusive lock on
// "<path>.lock" so concurrent scans cannot interleave reports. The lock file is never removed,
// so every scan locks the same inode. The returned close function is safe to call more than once.
func openSink(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}

	lock := flock.New(path + ".lock")

	locked, err := lock.TryLock()
	if err != nil {
		return nil, nil, fmt.Errorf("locking %q: %w", path, err)
	}

	if !locked {
		return nil, nil, fmt.Errorf("report %q is being written by another scan", path)
	}

	file, err := os.Create(path)
	if err != nil {
		_ = lock.Unlock()

		return nil, nil, fmt.Errorf("creating report %q: %w", path, err)
	}

	closed := false
	closeFn := func() error {
		if closed {
			return nil
		}

		closed = true

		err := file.Close()

		if unlockErr := lock.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}

		if err != nil {
			return fmt.Errorf("closing report %q: %w", path, err)
		}

		return nil
	}

	return file, closeFn, nil
}
