package cmd

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"github.com/s0up4200/qbitctl/qbittorrent"
)

// releaseRepo is where releases of qbitctl are published
const releaseRepo = "s0up4200/qbitctl"

// minWebAPIVersion is the oldest Web API the client is written against
var minWebAPIVersion = semver.MustParse("2.0.0")

var checkLatest bool

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Show version information",
	GroupID: "setup",
	Args:    cobra.NoArgs,
	RunE:    runVersion,
}

var updateCmd = &cobra.Command{
	Use:     "update",
	Short:   "Update qbitctl to the latest release",
	GroupID: "setup",
	Args:    cobra.NoArgs,
	RunE:    runUpdate,
}

func init() {
	versionCmd.Flags().BoolVar(&checkLatest, "check", false, "also check for a newer release")
	rootCmd.AddCommand(versionCmd, updateCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "qbitctl %s (built %s, %s/%s)\n", version, buildTime, runtime.GOOS, runtime.GOARCH)

	// The remote part is informational, so an unreachable server is not fatal.
	if err := connect(cmd.Context()); err != nil {
		logger.Warn().Err(err).Msg("Could not query qBittorrent")
	} else {
		app, err := client.Version(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get application version: %w", err)
		}
		api, err := client.WebAPIVersion(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get Web API version: %w", err)
		}
		fmt.Fprintf(w, "qBittorrent %s (Web API %s) at %s\n", app, api, client.BaseURL())

		if v, err := qbittorrent.ParseVersion(api); err != nil {
			logger.Warn().Err(err).Str("webapi", api).Msg("Unrecognized Web API version")
		} else if v.LT(minWebAPIVersion) {
			logger.Warn().Str("webapi", api).Msgf("Web API older than %s, some commands may fail", minWebAPIVersion)
		}
	}

	if !checkLatest {
		return nil
	}

	latest, found, err := detectLatest(cmd.Context())
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to check for updates")
		return nil
	}
	if !found {
		fmt.Fprintln(w, "No release found")
		return nil
	}

	if newer, ok := isNewer(latest.Version(), version); !ok {
		fmt.Fprintf(w, "Latest release: %s (running a development build)\n", latest.Version())
	} else if newer {
		fmt.Fprintf(w, "Update available: %s, run \"qbitctl update\"\n", latest.Version())
	} else {
		fmt.Fprintln(w, "You are running the latest version")
	}
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if _, err := semver.ParseTolerant(version); err != nil {
		return fmt.Errorf("cannot update a development build (%s)", version)
	}

	latest, found, err := detectLatest(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s/%s", runtime.GOOS, runtime.GOARCH)
	}

	if latest.LessOrEqual(version) {
		fmt.Fprintf(cmd.OutOrStdout(), "Already up to date (%s)\n", version)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}

	logger.Info().Str("from", version).Str("to", latest.Version()).Msg("Updating")
	if err := selfupdate.UpdateTo(cmd.Context(), latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated to %s\n", latest.Version())
	return nil
}

func detectLatest(ctx context.Context) (*selfupdate.Release, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(releaseRepo))
}

// isNewer reports whether latest is newer than current. ok is false when
// current is not a release version.
func isNewer(latest, current string) (newer, ok bool) {
	cur, err := semver.ParseTolerant(current)
	if err != nil {
		return false, false
	}
	lat, err := semver.ParseTolerant(latest)
	if err != nil {
		return false, false
	}
	return lat.GT(cur), true
}
