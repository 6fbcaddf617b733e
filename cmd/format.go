package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/docker/go-units"

	"github.com/s0up4200/qbitctl/qbittorrent"
)

func formatSize(n int64) string {
	if n < 0 {
		return "-"
	}
	return units.HumanSize(float64(n))
}

func formatSpeed(bytesPerSec int64) string {
	return formatSize(bytesPerSec) + "/s"
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

// formatUnix renders a unix timestamp, treating 0 and -1 as never
func formatUnix(sec int64) string {
	if sec <= 0 {
		return "never"
	}
	return time.Unix(sec, 0).Format("2006-01-02 15:04")
}

func formatDuration(sec int64) string {
	if sec <= 0 {
		return "-"
	}
	return units.HumanDuration(time.Duration(sec) * time.Second)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// writeTorrentTable prints one row per torrent
func writeTorrentTable(w io.Writer, torrents []qbittorrent.Torrent, hashesOnly bool) {
	if hashesOnly {
		for _, t := range torrents {
			fmt.Fprintln(w, t.Hash)
		}
		return
	}

	fmt.Fprintln(w, strings.Repeat("━", 110))
	fmt.Fprintf(w, "%-40s %-10s %-8s %-7s %-12s %s\n", "NAME", "SIZE", "DONE", "RATIO", "STATE", "HASH")
	fmt.Fprintln(w, strings.Repeat("━", 110))

	for _, t := range torrents {
		fmt.Fprintf(w, "%-40s %-10s %-8s %-7.2f %-12s %s\n",
			truncate(t.Name, 40),
			formatSize(t.Size),
			formatPercent(t.Progress),
			t.Ratio,
			t.State,
			t.Hash,
		)
	}
	fmt.Fprintln(w, strings.Repeat("━", 110))
	fmt.Fprintf(w, "%s\n", plural(len(torrents), "torrent"))
}
