// Package hardlink reports the link count of torrent content stored on the
// local filesystem. It only applies when qBittorrent shares a filesystem
// with qbitctl.
package hardlink

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrUnsupported is returned on platforms without link counts
var ErrUnsupported = errors.New("hardlink detection not supported on this platform")

// FileLinks is the result for one content file
type FileLinks struct {
	Path  string
	Links uint64
	Err   error
}

// Missing reports whether the file does not exist locally
func (f FileLinks) Missing() bool {
	return errors.Is(f.Err, os.ErrNotExist)
}

// Hardlinked reports whether another name points at the same data
func (f FileLinks) Hardlinked() bool {
	return f.Err == nil && f.Links > 1
}

// Scan resolves every name below root and reads its link count. Names use
// forward slashes as the Web API reports them.
func Scan(root string, names []string) []FileLinks {
	results := make([]FileLinks, 0, len(names))
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		n, err := Count(path)
		results = append(results, FileLinks{Path: path, Links: n, Err: err})
	}
	return results
}
