package torrentfile

import (
	"crypto/sha1" //nolint:gosec
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/bencode"
)

func encode(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := bencode.EncodeBytes(v)
	require.NoError(t, err)
	return data
}

func TestParseSingleFile(t *testing.T) {
	info := map[string]interface{}{
		"name":         "ubuntu.iso",
		"piece length": 262144,
		"length":       1048576,
		"pieces":       "01234567890123456789",
		"private":      1,
	}
	data := encode(t, map[string]interface{}{
		"announce":      "https://tracker.example/announce",
		"announce-list": [][]string{{"https://tracker.example/announce"}, {"udp://backup.example:1337"}},
		"comment":       "test",
		"info":          info,
	})

	sum := sha1.Sum(encode(t, info)) //nolint:gosec
	want := hex.EncodeToString(sum[:])

	mi, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, want, mi.InfoHash)
	assert.Equal(t, "ubuntu.iso", mi.Info.Name)
	assert.Equal(t, int64(1048576), mi.TotalSize())
	assert.True(t, mi.IsPrivate())
	assert.Equal(t, []string{"ubuntu.iso"}, mi.FilePaths())
	assert.Equal(t, []string{"https://tracker.example/announce", "udp://backup.example:1337"}, mi.Trackers())
}

func TestParseMultiFile(t *testing.T) {
	data := encode(t, map[string]interface{}{
		"info": map[string]interface{}{
			"name":         "Show.S01",
			"piece length": 16384,
			"pieces":       "01234567890123456789",
			"files": []map[string]interface{}{
				{"length": 100, "path": []string{"E01.mkv"}},
				{"length": 50, "path": []string{"Subs", "E01.srt"}},
			},
		},
	})

	mi, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, int64(150), mi.TotalSize())
	assert.Equal(t, []string{"Show.S01/E01.mkv", "Show.S01/Subs/E01.srt"}, mi.FilePaths())
	assert.False(t, mi.IsPrivate())
	assert.Len(t, mi.InfoHash, 40)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("not bencode"))
	assert.Error(t, err)

	_, err = Parse(encode(t, map[string]interface{}{"announce": "x"}))
	assert.ErrorIs(t, err, ErrNoInfo)
}

func TestReadFile(t *testing.T) {
	data := encode(t, map[string]interface{}{
		"info": map[string]interface{}{"name": "a", "length": 1, "piece length": 16384, "pieces": "01234567890123456789"},
	})
	name := filepath.Join(t.TempDir(), "a.torrent")
	require.NoError(t, os.WriteFile(name, data, 0o644))

	mi, raw, err := ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, data, raw)
	assert.Equal(t, "a", mi.Info.Name)

	_, _, err = ReadFile(filepath.Join(t.TempDir(), "missing.torrent"))
	assert.Error(t, err)
}

func TestMagnetHash(t *testing.T) {
	tests := []struct {
		uri     string
		want    string
		wantErr bool
	}{
		{uri: "magnet:?xt=urn:btih:C12FE1C06BBA254A9DC9F519B335AA7C1367A88A&dn=test", want: "c12fe1c06bba254a9dc9f519b335aa7c1367a88a"},
		{uri: "magnet:?dn=x&xt=urn:btih:abc", want: "abc"},
		{uri: "magnet:?xt=urn:btmh:1220abc", wantErr: true},
		{uri: "https://example.com/a.torrent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := MagnetHash(tt.uri)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotMagnet)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
