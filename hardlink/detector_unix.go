//go:build !windows

package hardlink

import (
	"fmt"
	"os"
	"syscall"
)

// Count returns the number of hardlinks of a file
func Count(path string) (uint64, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat file %s: %w", path, err)
	}

	stat, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, fmt.Errorf("cannot convert to syscall.Stat_t for %s", path)
	}

	return uint64(stat.Nlink), nil
}
