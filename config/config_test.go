package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		QBittorrent: QBittorrentConfig{
			URL:     "http://localhost:8080",
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "Valid config",
			modify: func(*Config) {},
		},
		{
			name:    "Missing URL",
			modify:  func(c *Config) { c.QBittorrent.URL = "  " },
			wantErr: "qbittorrent.url is required",
		},
		{
			name:    "Zero timeout",
			modify:  func(c *Config) { c.QBittorrent.Timeout = 0 },
			wantErr: "qbittorrent.timeout must be positive, got 0s",
		},
		{
			name:    "Invalid level",
			modify:  func(c *Config) { c.Logging.Level = "trace" },
			wantErr: "invalid logging level: trace",
		},
		{
			name:    "Invalid format",
			modify:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid logging format: xml",
		},
		{
			name: "Empty preset",
			modify: func(c *Config) {
				c.Filter.Presets = map[string]string{"stale": ""}
			},
			wantErr: `filter preset "stale" is empty`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("validate() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `qbittorrent:
  url: https://qbit.example.org
  username: admin
  password: secret
  timeout: 5s
filter:
  default: 'isSeeding()'
  presets:
    stale: 'Ratio > 2 and daysSince(AddedOn) > 30'
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.QBittorrent.URL != "https://qbit.example.org" {
		t.Errorf("url = %q", cfg.QBittorrent.URL)
	}
	if cfg.QBittorrent.Username != "admin" || cfg.QBittorrent.Password != "secret" {
		t.Errorf("credentials not loaded: %+v", cfg.QBittorrent)
	}
	if cfg.QBittorrent.Timeout != 5*time.Second {
		t.Errorf("timeout = %s", cfg.QBittorrent.Timeout)
	}
	if cfg.Filter.Default != "isSeeding()" {
		t.Errorf("filter.default = %q", cfg.Filter.Default)
	}
	if cfg.Filter.Presets["stale"] == "" {
		t.Errorf("preset not loaded: %v", cfg.Filter.Presets)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("qbittorrent:\n  username: admin\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("QBITCTL_QBITTORRENT_PASSWORD", "from-env")
	t.Setenv("QBITCTL_QBITTORRENT_URL", "http://10.0.0.2:8080")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.QBittorrent.Password != "from-env" {
		t.Errorf("password = %q, want env override", cfg.QBittorrent.Password)
	}
	if cfg.QBittorrent.URL != "http://10.0.0.2:8080" {
		t.Errorf("url = %q, want env override", cfg.QBittorrent.URL)
	}
	if cfg.QBittorrent.Timeout != 30*time.Second {
		t.Errorf("timeout = %s, want default", cfg.QBittorrent.Timeout)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected validation error")
	}
}
