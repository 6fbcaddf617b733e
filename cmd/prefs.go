package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:     "prefs",
	Short:   "Read or change application preferences",
	GroupID: "app",
}

var prefsGetCmd = remote(&cobra.Command{
	Use:   "get [KEY...]",
	Short: "Print preferences, all of them or only the given keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, err := client.GetAppPreferences(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get preferences: %w", err)
		}
		return writePrefs(cmd.OutOrStdout(), prefs.Raw, args)
	},
}, "")

var prefsSetCmd = remote(&cobra.Command{
	Use:   "set KEY=VALUE...",
	Short: "Change preferences; values are parsed as JSON when possible",
	Example: `  qbitctl prefs set dht=false max_ratio=2.5
  qbitctl prefs set save_path=/data/torrents`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, err := parsePrefs(args)
		if err != nil {
			return err
		}
		if err := client.SetAppPreferences(cmd.Context(), prefs); err != nil {
			return fmt.Errorf("failed to set preferences: %w", err)
		}
		logger.Info().Strs("keys", slices.Sorted(maps.Keys(prefs))).Msg("Preferences updated")
		return nil
	},
}, "")

func init() {
	prefsCmd.AddCommand(prefsGetCmd, prefsSetCmd)
	rootCmd.AddCommand(prefsCmd)
}

// parsePrefs turns KEY=VALUE pairs into a preferences payload. A value that
// is not valid JSON is sent as a string.
func parsePrefs(args []string) (map[string]interface{}, error) {
	prefs := make(map[string]interface{}, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid preference '%s': expected KEY=VALUE", arg)
		}

		var value interface{}
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		prefs[strings.TrimSpace(key)] = value
	}
	return prefs, nil
}

func writePrefs(w io.Writer, raw map[string]json.RawMessage, keys []string) error {
	if len(keys) == 0 {
		keys = slices.Sorted(maps.Keys(raw))
	}

	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			return fmt.Errorf("unknown preference '%s'", k)
		}
		fmt.Fprintf(w, "%s=%s\n", k, v)
	}
	return nil
}
