// Package torrentfile reads .torrent metainfo and magnet links far enough to
// identify a torrent before it is submitted.
package torrentfile

import (
	"crypto/sha1" //nolint:gosec
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/zeebo/bencode"
)

var (
	// ErrNoInfo is returned for metainfo without an info dictionary
	ErrNoInfo = errors.New("torrent has no info dictionary")
	// ErrNotMagnet is returned for links without a btih exact topic
	ErrNotMagnet = errors.New("not a btih magnet link")
)

// File is one entry of a multi-file torrent.
type File struct {
	Length int64    `bencode:"length"`
	Path   []string `bencode:"path"`
}

// Info is the decoded info dictionary.
type Info struct {
	Name        string `bencode:"name"`
	PieceLength int64  `bencode:"piece length"`
	Length      int64  `bencode:"length"`
	Files       []File `bencode:"files"`
	Private     int    `bencode:"private"`
}

// MetaInfo is a decoded .torrent file.
type MetaInfo struct {
	Announce     string
	AnnounceList [][]string
	Comment      string
	CreatedBy    string
	CreationDate int64
	Info         Info

	// InfoHash is the lowercase hex SHA-1 of the bencoded info dictionary.
	InfoHash string
}

type metaInfoFile struct {
	Announce     string             `bencode:"announce"`
	AnnounceList [][]string         `bencode:"announce-list"`
	Comment      string             `bencode:"comment"`
	CreatedBy    string             `bencode:"created by"`
	CreationDate int64              `bencode:"creation date"`
	Info         bencode.RawMessage `bencode:"info"`
}

// Parse decodes a .torrent payload and computes its v1 info hash.
func Parse(data []byte) (*MetaInfo, error) {
	var f metaInfoFile
	if err := bencode.DecodeBytes(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode torrent: %w", err)
	}
	if len(f.Info) == 0 {
		return nil, ErrNoInfo
	}

	mi := &MetaInfo{
		Announce:     f.Announce,
		AnnounceList: f.AnnounceList,
		Comment:      f.Comment,
		CreatedBy:    f.CreatedBy,
		CreationDate: f.CreationDate,
	}
	if err := bencode.DecodeBytes(f.Info, &mi.Info); err != nil {
		return nil, fmt.Errorf("failed to decode info dictionary: %w", err)
	}

	sum := sha1.Sum(f.Info) //nolint:gosec
	mi.InfoHash = hex.EncodeToString(sum[:])
	return mi, nil
}

// ReadFile reads and parses a .torrent file, returning the raw payload too
// so it can be uploaded unchanged.
func ReadFile(name string) (*MetaInfo, []byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read torrent file: %w", err)
	}
	mi, err := Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}
	return mi, data, nil
}

// TotalSize returns the summed length of all files.
func (m *MetaInfo) TotalSize() int64 {
	if len(m.Info.Files) == 0 {
		return m.Info.Length
	}
	var total int64
	for _, f := range m.Info.Files {
		total += f.Length
	}
	return total
}

// FilePaths returns the slash separated paths of the torrent's files.
func (m *MetaInfo) FilePaths() []string {
	if len(m.Info.Files) == 0 {
		return []string{m.Info.Name}
	}
	paths := make([]string, 0, len(m.Info.Files))
	for _, f := range m.Info.Files {
		paths = append(paths, path.Join(append([]string{m.Info.Name}, f.Path...)...))
	}
	return paths
}

// IsPrivate reports the private flag of the info dictionary.
func (m *MetaInfo) IsPrivate() bool {
	return m.Info.Private == 1
}

// Trackers flattens announce and announce-list, without duplicates.
func (m *MetaInfo) Trackers() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(u string) {
		if u == "" {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	add(m.Announce)
	for _, tier := range m.AnnounceList {
		for _, u := range tier {
			add(u)
		}
	}
	return out
}

// MagnetHash extracts the btih hash of a magnet link, lowercased.
// Base32 hashes are returned as given (lowercased).
func MagnetHash(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "magnet" {
		return "", ErrNotMagnet
	}
	for _, xt := range u.Query()["xt"] {
		if h, ok := strings.CutPrefix(xt, "urn:btih:"); ok && h != "" {
			return strings.ToLower(h), nil
		}
	}
	return "", ErrNotMagnet
}
