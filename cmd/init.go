package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/s0up4200/qbitctl/config"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:     "init",
	Short:   "Create a default configuration file",
	GroupID: "setup",
	Args:    cobra.NoArgs,
	// No config exists yet, so skip loading it.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runInit,
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

// defaultConfigFile mirrors config.Config with yaml tags for writing
type defaultConfigFile struct {
	QBittorrent struct {
		URL                string `yaml:"url"`
		Username           string `yaml:"username"`
		Password           string `yaml:"password"`
		Timeout            string `yaml:"timeout"`
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
	} `yaml:"qbittorrent"`
	Filter struct {
		Default string            `yaml:"default"`
		Presets map[string]string `yaml:"presets"`
	} `yaml:"filter"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Color  bool   `yaml:"color"`
	} `yaml:"logging"`
}

const configHeader = `# qbitctl configuration
#
# qbittorrent.url is the address of the Web UI, e.g. http://localhost:8080.
# Leave username and password empty when the Web UI bypasses authentication
# for this host. Every key can be overridden from the environment with the
# QBITCTL_ prefix, e.g. QBITCTL_QBITTORRENT_PASSWORD.
#
# filter.presets are named expressions usable with "qbitctl list --preset".

`

func runInit(cmd *cobra.Command, args []string) error {
	configPath := cfgFile
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not determine home directory: %w", err)
		}
		configDir := filepath.Join(home, ".config", "qbitctl")
		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return fmt.Errorf("could not create config directory: %w", err)
		}
		configPath = filepath.Join(configDir, "config.yaml")
	}

	if _, err := os.Stat(configPath); err == nil && !forceInit {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	data, err := defaultConfigYAML()
	if err != nil {
		return err
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configPath)
	return nil
}

func defaultConfigYAML() ([]byte, error) {
	var c defaultConfigFile
	c.QBittorrent.URL = config.DefaultURL
	c.QBittorrent.Username = "admin"
	c.QBittorrent.Timeout = (30 * time.Second).String()
	c.Filter.Presets = map[string]string{
		"stale":         `isComplete() and Ratio >= 2 and daysSince(AddedOn) > 30`,
		"stalled":       `state:"stalledDL"`,
		"uncategorized": `Category == ""`,
	}
	c.Logging.Level = "info"
	c.Logging.Format = "console"
	c.Logging.Color = true

	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return append([]byte(configHeader), data...), nil
}
