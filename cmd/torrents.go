package cmd

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/s0up4200/qbitctl/filter"
	"github.com/s0up4200/qbitctl/qbittorrent"
)

var (
	// list flags
	filterExpr string
	preset     string
	hashesOnly bool
	allPresets bool

	deleteFiles  bool
	superSeedOff bool
	tagNames     []string
)

// batchOp is a client method applied to a set of hashes
type batchOp func(*qbittorrent.Client, context.Context, []string) error

var listCmd = remote(&cobra.Command{
	Use:   "list",
	Short: "List torrents, optionally filtered",
	Long: `List torrents with their size, progress, ratio and state.

Filters are expr expressions over a torrent, for example:
  hasTag("linux") and Ratio > 2
  tag:"linux" AND state:"stalledUP"`,
	Args: cobra.NoArgs,
	RunE: runList,
}, "torrents")

var deleteCmd = remote(&cobra.Command{
	Use:   "delete HASH...",
	Short: "Delete torrents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.Delete(cmd.Context(), args, deleteFiles); err != nil {
			return fmt.Errorf("delete failed: %w", err)
		}
		logger.Info().Int("count", len(args)).Bool("files", deleteFiles).Msg("Deleted torrents")
		return nil
	},
}, "torrents")

var moveCmd = remote(&cobra.Command{
	Use:   "move LOCATION HASH...",
	Short: "Move torrent data to a new location",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		location, hashes := args[0], args[1:]
		if err := client.SetLocation(cmd.Context(), hashes, location); err != nil {
			return fmt.Errorf("move failed: %w", err)
		}
		logger.Info().Str("location", location).Int("count", len(hashes)).Msg("Moved torrents")
		return nil
	},
}, "torrents")

var tagsCmd = &cobra.Command{
	Use:     "tags",
	Short:   "Add or remove torrent tags",
	GroupID: "torrents",
}

var tagsAddCmd = remote(&cobra.Command{
	Use:   "add HASH...",
	Short: "Add tags to torrents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(tagNames) == 0 {
			return fmt.Errorf("at least one --tag is required")
		}
		return client.AddTags(cmd.Context(), args, tagNames)
	},
}, "")

var tagsRemoveCmd = remote(&cobra.Command{
	Use:   "remove HASH...",
	Short: "Remove tags from torrents, or all tags when no --tag is given",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return client.RemoveTags(cmd.Context(), args, tagNames)
	},
}, "")

var trackersCmd = &cobra.Command{
	Use:     "trackers",
	Short:   "Add or remove trackers of a torrent",
	GroupID: "torrents",
}

var trackersAddCmd = remote(&cobra.Command{
	Use:   "add HASH URL...",
	Short: "Add tracker URLs to a torrent",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return client.AddTrackers(cmd.Context(), args[0], args[1:])
	},
}, "")

var trackersRemoveCmd = remote(&cobra.Command{
	Use:   "remove HASH URL...",
	Short: "Remove tracker URLs from a torrent",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return client.RemoveTrackers(cmd.Context(), args[0], args[1:])
	},
}, "")

var superSeedCmd = remote(&cobra.Command{
	Use:   "superseed HASH...",
	Short: "Enable (or with --off disable) super seeding",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return client.SetSuperSeeding(cmd.Context(), args, !superSeedOff)
	},
}, "torrents")

var filePrioCmd = remote(&cobra.Command{
	Use:   "file-prio HASH PRIORITY ID...",
	Short: "Set the download priority of files (0 skip, 1 normal, 6 high, 7 max)",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid priority '%s': %w", args[1], err)
		}
		priority := qbittorrent.TorrentContentPriority(p)
		if !priority.Valid() {
			return fmt.Errorf("invalid priority %d: must be 0, 1, 6 or 7", p)
		}

		ids, err := parseIDs(args[2:])
		if err != nil {
			return err
		}

		return client.SetFilePriority(cmd.Context(), args[0], ids, priority)
	},
}, "torrents")

func init() {
	listCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	listCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	listCmd.Flags().BoolVar(&hashesOnly, "hashes", false, "print only the info hashes")
	listCmd.Flags().BoolVar(&allPresets, "all-presets", false, "evaluate every configured preset and group the results")

	deleteCmd.Flags().BoolVar(&deleteFiles, "files", false, "also delete the downloaded data")
	superSeedCmd.Flags().BoolVar(&superSeedOff, "off", false, "disable super seeding instead")
	tagsCmd.PersistentFlags().StringSliceVarP(&tagNames, "tag", "t", nil, "tag to add or remove (repeatable)")

	tagsCmd.AddCommand(tagsAddCmd, tagsRemoveCmd)
	trackersCmd.AddCommand(trackersAddCmd, trackersRemoveCmd)

	rootCmd.AddCommand(
		listCmd,
		batchCommand("pause", "Pause torrents", (*qbittorrent.Client).Pause),
		batchCommand("resume", "Resume torrents", (*qbittorrent.Client).Resume),
		batchCommand("recheck", "Recheck torrent data", (*qbittorrent.Client).Recheck),
		batchCommand("reannounce", "Reannounce torrents to their trackers", (*qbittorrent.Client).Reannounce),
		batchCommand("top", "Move torrents to the top of the queue", (*qbittorrent.Client).SetTopPriority),
		batchCommand("bottom", "Move torrents to the bottom of the queue", (*qbittorrent.Client).SetBottomPriority),
		batchCommand("sequential", "Toggle sequential download", (*qbittorrent.Client).ToggleSequentialDownload),
		deleteCmd,
		moveCmd,
		tagsCmd,
		trackersCmd,
		superSeedCmd,
		filePrioCmd,
	)
}

func runList(cmd *cobra.Command, args []string) error {
	torrents, err := client.GetTorrents(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list torrents: %w", err)
	}

	if allPresets {
		if filterExpr != "" || preset != "" {
			return fmt.Errorf("--all-presets cannot be combined with --filter or --preset")
		}
		return listPresets(cmd, torrents)
	}

	torrents, err = selectTorrents(cmd.Context(), torrents)
	if err != nil {
		return err
	}

	if len(torrents) == 0 && !hashesOnly {
		fmt.Fprintln(cmd.OutOrStdout(), "No torrents found.")
		return nil
	}

	writeTorrentTable(cmd.OutOrStdout(), torrents, hashesOnly)
	return nil
}

// listPresets prints the matches of every configured preset, by name
func listPresets(cmd *cobra.Command, torrents []qbittorrent.Torrent) error {
	if len(cfg.Filter.Presets) == 0 {
		return fmt.Errorf("no presets configured under filter.presets")
	}

	results, err := filter.EvaluateFilters(cmd.Context(), cfg.Filter.Presets, torrents)
	if err != nil {
		return fmt.Errorf("invalid preset: %w", err)
	}

	w := cmd.OutOrStdout()
	for _, name := range slices.Sorted(maps.Keys(results)) {
		matches := results[name]
		if hashesOnly {
			for _, t := range matches {
				fmt.Fprintf(w, "%s\t%s\n", name, t.Hash)
			}
			continue
		}

		fmt.Fprintf(w, "\n%s: %s\n", name, plural(len(matches), "torrent"))
		if len(matches) > 0 {
			writeTorrentTable(w, matches, false)
		}
	}
	return nil
}

// selectTorrents applies the filter to use.
// Priority: command line filter > preset > configured default > none.
func selectTorrents(ctx context.Context, torrents []qbittorrent.Torrent) ([]qbittorrent.Torrent, error) {
	manager := filter.NewManager(filter.WithCompiler(
		filter.NewExprCompiler(filter.WithCache(64), filter.WithLogger(logger)),
	))

	if filterExpr == "" && preset != "" {
		expr, ok := cfg.Filter.Presets[preset]
		if !ok {
			return nil, fmt.Errorf("preset '%s' not found in config", preset)
		}
		if err := manager.RegisterFilter(preset, expr); err != nil {
			return nil, fmt.Errorf("invalid preset: %w", err)
		}
		logger.Debug().Str("preset", preset).Str("filter", expr).Msg("Filtering torrents")
		return manager.EvaluateFilter(ctx, preset, torrents)
	}

	expr := filterExpr
	if expr == "" {
		expr = cfg.Filter.Default
	}
	if expr != "" {
		logger.Debug().Str("filter", expr).Int("torrents", len(torrents)).Msg("Filtering torrents")
	}

	matches, err := manager.Match(ctx, expr, torrents)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return matches, nil
}

// batchCommand builds a command applying op to the hashes given as arguments
func batchCommand(use, short string, op batchOp) *cobra.Command {
	return remote(&cobra.Command{
		Use:   use + " HASH...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := op(client, cmd.Context(), args); err != nil {
				return fmt.Errorf("%s failed: %w", use, err)
			}
			logger.Info().Str("op", use).Int("count", len(args)).Msg("Done")
			return nil
		},
	}, "torrents")
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, a := range args {
		id, err := strconv.Atoi(a)
		if err != nil || id < 0 {
			return nil, fmt.Errorf("invalid file id '%s': must be a non-negative integer", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
