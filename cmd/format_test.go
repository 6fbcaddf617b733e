package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/s0up4200/qbitctl/qbittorrent"
)

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "1.5GB", formatSize(1500*1000*1000))
	assert.Equal(t, "-", formatSize(-1))
	assert.Equal(t, "2kB/s", formatSpeed(2000))
	assert.Equal(t, "42.0%", formatPercent(0.42))
	assert.Equal(t, "never", formatUnix(-1))
	assert.Equal(t, "never", formatUnix(0))
	assert.Equal(t, "-", formatDuration(0))
	assert.Equal(t, "2 hours", formatDuration(7200))
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "1 torrent", plural(1, "torrent"))
	assert.Equal(t, "3 torrents", plural(3, "torrent"))
}

func TestWriteTorrentTable(t *testing.T) {
	torrents := []qbittorrent.Torrent{
		{Hash: "aaa", Name: "debian.iso", Size: 600 * 1000 * 1000, Progress: 1, Ratio: 1.5, State: qbittorrent.TorrentStateUploading},
		{Hash: "bbb", Name: "ubuntu.iso", Size: 5 * 1000 * 1000 * 1000, Progress: 0.5, State: qbittorrent.TorrentStateDownloading},
	}

	var buf bytes.Buffer
	writeTorrentTable(&buf, torrents, true)
	assert.Equal(t, "aaa\nbbb\n", buf.String())

	buf.Reset()
	writeTorrentTable(&buf, torrents, false)
	out := buf.String()
	assert.Contains(t, out, "debian.iso")
	assert.Contains(t, out, "600MB")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "2 torrents")
}
