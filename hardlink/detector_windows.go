//go:build windows

package hardlink

// Count returns the number of hardlinks of a file.
// Windows implementation - link counts are not read.
func Count(path string) (uint64, error) {
	return 0, ErrUnsupported
}
