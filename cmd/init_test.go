package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/qbitctl/config"
)

func TestDefaultConfigLoads(t *testing.T) {
	data, err := defaultConfigYAML()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	loaded, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultURL, loaded.QBittorrent.URL)
	assert.Equal(t, "admin", loaded.QBittorrent.Username)
	assert.Equal(t, 30*time.Second, loaded.QBittorrent.Timeout)
	assert.Contains(t, loaded.Filter.Presets, "stale")
	assert.Equal(t, "console", loaded.Logging.Format)
}
