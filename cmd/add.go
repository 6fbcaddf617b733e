package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/qbitctl/qbittorrent"
	"github.com/s0up4200/qbitctl/torrentfile"
)

var addFlags struct {
	urls         []string
	savePath     string
	category     string
	tags         []string
	rename       string
	paused       bool
	skipChecking bool
	sequential   bool
	firstLast    bool
	autoTMM      bool
}

var addCmd = remote(&cobra.Command{
	Use:   "add [FILE...]",
	Short: "Add torrents from .torrent files or URLs",
	Example: `  qbitctl add ubuntu.torrent --category linux --tags iso
  qbitctl add --url "magnet:?xt=urn:btih:..." --paused`,
	RunE: runAdd,
}, "torrents")

func init() {
	f := addCmd.Flags()
	f.StringArrayVar(&addFlags.urls, "url", nil, "magnet link or torrent URL (repeatable)")
	f.StringVar(&addFlags.savePath, "savepath", "", "download location")
	f.StringVar(&addFlags.category, "category", "", "category of the new torrents")
	f.StringSliceVar(&addFlags.tags, "tags", nil, "tags of the new torrents")
	f.StringVar(&addFlags.rename, "rename", "", "rename the torrent")
	f.BoolVar(&addFlags.paused, "paused", false, "add in paused state")
	f.BoolVar(&addFlags.skipChecking, "skip-checking", false, "skip hash checking")
	f.BoolVar(&addFlags.sequential, "sequential", false, "download sequentially")
	f.BoolVar(&addFlags.firstLast, "first-last", false, "prioritize the first and last pieces")
	f.BoolVar(&addFlags.autoTMM, "auto-tmm", false, "use automatic torrent management")

	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && len(addFlags.urls) == 0 {
		return fmt.Errorf("nothing to add: pass .torrent files or --url")
	}

	opts := addOptions(cmd)
	out := cmd.OutOrStdout()

	if len(args) > 0 {
		payloads := make([][]byte, 0, len(args))
		for _, name := range args {
			meta, data, err := torrentfile.ReadFile(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s  %s (%s)\n", meta.InfoHash, meta.Info.Name, formatSize(meta.TotalSize()))
			payloads = append(payloads, data)
		}

		if err := client.AddFiles(cmd.Context(), payloads, opts); err != nil {
			return err
		}
		logger.Info().Msgf("Added %s", plural(len(payloads), "torrent file"))
	}

	if len(addFlags.urls) > 0 {
		for _, u := range addFlags.urls {
			if hash, err := torrentfile.MagnetHash(u); err == nil {
				fmt.Fprintf(out, "%s  %s\n", hash, truncate(u, 60))
			}
		}

		if err := client.AddURLs(cmd.Context(), addFlags.urls, opts); err != nil {
			return err
		}
		logger.Info().Msgf("Added %s", plural(len(addFlags.urls), "URL"))
	}

	return nil
}

// addOptions maps the flags the user actually set onto add options
func addOptions(cmd *cobra.Command) *qbittorrent.TorrentAddOptions {
	opts := &qbittorrent.TorrentAddOptions{
		SavePath: addFlags.savePath,
		Category: addFlags.category,
		Rename:   addFlags.rename,
	}
	for _, t := range addFlags.tags {
		if t = strings.TrimSpace(t); t != "" {
			opts.Tags = append(opts.Tags, t)
		}
	}

	changed := cmd.Flags().Changed
	if changed("paused") {
		opts.Paused = qbittorrent.Bool(addFlags.paused)
		opts.Stopped = qbittorrent.Bool(addFlags.paused)
	}
	if changed("skip-checking") {
		opts.SkipChecking = qbittorrent.Bool(addFlags.skipChecking)
	}
	if changed("sequential") {
		opts.SequentialDownload = qbittorrent.Bool(addFlags.sequential)
	}
	if changed("first-last") {
		opts.FirstLastPiecePrio = qbittorrent.Bool(addFlags.firstLast)
	}
	if changed("auto-tmm") {
		opts.AutoTMM = qbittorrent.Bool(addFlags.autoTMM)
	}
	return opts
}
