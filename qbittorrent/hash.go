package qbittorrent

import "strings"

// NormalizeHash returns the canonical lowercase form of a torrent hash.
func NormalizeHash(hash string) string {
	return strings.ToLower(hash)
}

// JoinHashes joins hashes with "|" in the given order and lowercases the
// result, which is how the remote service expects batches.
func JoinHashes(hashes []string) string {
	return strings.ToLower(strings.Join(hashes, "|"))
}
