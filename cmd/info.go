package cmd

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/qbitctl/hardlink"
	"github.com/s0up4200/qbitctl/qbittorrent"
)

var infoCmd = remote(&cobra.Command{
	Use:   "info HASH",
	Short: "Show properties, trackers, files and peers of a torrent",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}, "torrents")

var showLinks bool

func init() {
	infoCmd.Flags().BoolVar(&showLinks, "links", false, "report hardlink counts of the content on the local filesystem")
	rootCmd.AddCommand(infoCmd)
}

type torrentDetails struct {
	props    *qbittorrent.TorrentProperties
	trackers []qbittorrent.TorrentTracker
	files    qbittorrent.TorrentContents
	peers    qbittorrent.TorrentPeers
}

func runInfo(cmd *cobra.Command, args []string) error {
	hash := qbittorrent.NormalizeHash(args[0])

	var d torrentDetails
	g, ctx := errgroup.WithContext(cmd.Context())

	g.Go(func() error {
		var err error
		d.props, err = client.GetTorrentProperties(ctx, hash)
		return err
	})
	g.Go(func() error {
		var err error
		d.trackers, err = client.GetTorrentTrackers(ctx, hash)
		return err
	})
	g.Go(func() error {
		var err error
		d.files, err = client.GetTorrentContents(ctx, hash)
		return err
	})
	g.Go(func() error {
		var err error
		d.peers, err = client.SyncTorrentPeers(ctx, hash)
		return err
	})

	if err := g.Wait(); err != nil {
		var statusErr *qbittorrent.StatusError
		if errors.As(err, &statusErr) && statusErr.IsNotFound() {
			return fmt.Errorf("torrent %s not found", hash)
		}
		return fmt.Errorf("failed to fetch torrent details: %w", err)
	}

	writeDetails(cmd.OutOrStdout(), d)

	if showLinks {
		writeLinks(cmd.OutOrStdout(), d)
	}
	return nil
}

func writeLinks(w io.Writer, d torrentDetails) {
	names := make([]string, len(d.files))
	for i, f := range d.files {
		names[i] = f.Name
	}

	fmt.Fprintf(w, "\nLinks (%s):\n", d.props.SavePath)
	for _, r := range hardlink.Scan(d.props.SavePath, names) {
		switch {
		case r.Missing():
			fmt.Fprintf(w, "  missing  %s\n", r.Path)
		case r.Err != nil:
			fmt.Fprintf(w, "  error    %s: %v\n", r.Path, r.Err)
		default:
			fmt.Fprintf(w, "  %-7d  %s\n", r.Links, r.Path)
		}
	}
}

func writeDetails(w io.Writer, d torrentDetails) {
	p := d.props
	fmt.Fprintf(w, "%s\n", p.Name)
	fmt.Fprintln(w, strings.Repeat("━", 80))
	fmt.Fprintf(w, "Hash:        %s\n", p.Hash)
	fmt.Fprintf(w, "Save path:   %s\n", p.SavePath)
	fmt.Fprintf(w, "Size:        %s (%d pieces of %s)\n", formatSize(p.TotalSize), p.PiecesNum, formatSize(p.PieceSize))
	fmt.Fprintf(w, "Added:       %s\n", formatUnix(p.AdditionDate))
	fmt.Fprintf(w, "Completed:   %s\n", formatUnix(p.CompletionDate))
	fmt.Fprintf(w, "Ratio:       %.2f\n", p.ShareRatio)
	fmt.Fprintf(w, "Seeding:     %s\n", formatDuration(p.SeedingTime))
	fmt.Fprintf(w, "Speed:       %s down, %s up\n", formatSpeed(p.DlSpeed), formatSpeed(p.UpSpeed))
	if p.Comment != "" {
		fmt.Fprintf(w, "Comment:     %s\n", p.Comment)
	}

	fmt.Fprintf(w, "\nTrackers (%d):\n", len(d.trackers))
	for _, t := range d.trackers {
		fmt.Fprintf(w, "  [%s] %s", t.Status, t.URL)
		if t.Message != "" {
			fmt.Fprintf(w, " (%s)", t.Message)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\nFiles (%d):\n", len(d.files))
	for _, f := range d.files {
		fmt.Fprintf(w, "  %3d  %-8s %-10s prio %d  %s\n", f.Index, formatPercent(f.Progress), formatSize(f.Size), f.Priority, f.Name)
	}

	fmt.Fprintf(w, "\nPeers (%d):\n", len(d.peers))
	for _, addr := range slices.Sorted(maps.Keys(d.peers)) {
		peer := d.peers[addr]
		fmt.Fprintf(w, "  %-22s %-20s %-8s %s\n", addr, truncate(peer.Client, 20), formatPercent(peer.Progress), formatSpeed(peer.DlSpeed+peer.UpSpeed))
	}
}
