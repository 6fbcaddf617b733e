package qbittorrent

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// GetTorrents retrieves all torrents.
func (c *Client) GetTorrents(ctx context.Context) ([]Torrent, error) {
	var torrents []Torrent
	if err := c.getJSON(ctx, "torrents/info", nil, &torrents); err != nil {
		return nil, fmt.Errorf("failed to get torrents: %w", err)
	}

	c.logger.Debug().Msgf("Retrieved %d torrents from qBittorrent", len(torrents))
	return torrents, nil
}

// GetTorrentContents lists the files of a torrent.
func (c *Client) GetTorrentContents(ctx context.Context, hash string) (TorrentContents, error) {
	var files TorrentContents
	if err := c.getJSON(ctx, "torrents/files", hashParam(hash), &files); err != nil {
		return nil, fmt.Errorf("failed to get torrent files: %w", err)
	}
	return files, nil
}

// GetTorrentProperties retrieves the generic properties of a torrent.
func (c *Client) GetTorrentProperties(ctx context.Context, hash string) (*TorrentProperties, error) {
	var props TorrentProperties
	if err := c.getJSON(ctx, "torrents/properties", hashParam(hash), &props); err != nil {
		return nil, fmt.Errorf("failed to get torrent properties: %w", err)
	}
	return &props, nil
}

// GetTorrentTrackers lists the trackers of a torrent.
func (c *Client) GetTorrentTrackers(ctx context.Context, hash string) ([]TorrentTracker, error) {
	var trackers []TorrentTracker
	if err := c.getJSON(ctx, "torrents/trackers", hashParam(hash), &trackers); err != nil {
		return nil, fmt.Errorf("failed to get torrent trackers: %w", err)
	}
	return trackers, nil
}

// Pause pauses the given torrents.
func (c *Client) Pause(ctx context.Context, hashes []string) error {
	return c.batch(ctx, "torrents/pause", hashes, nil)
}

// Resume resumes the given torrents.
func (c *Client) Resume(ctx context.Context, hashes []string) error {
	return c.batch(ctx, "torrents/resume", hashes, nil)
}

// Delete removes the given torrents, and their data if deleteFiles is set.
func (c *Client) Delete(ctx context.Context, hashes []string, deleteFiles bool) error {
	return c.batch(ctx, "torrents/delete", hashes, map[string]string{
		"deleteFiles": strconv.FormatBool(deleteFiles),
	})
}

// Recheck forces a hash check of the given torrents.
func (c *Client) Recheck(ctx context.Context, hashes []string) error {
	return c.batch(ctx, "torrents/recheck", hashes, nil)
}

// SetLocation moves the given torrents to location.
func (c *Client) SetLocation(ctx context.Context, hashes []string, location string) error {
	return c.batch(ctx, "torrents/setLocation", hashes, map[string]string{
		"location": location,
	})
}

// SetTopPriority moves the given torrents to the top of the queue.
func (c *Client) SetTopPriority(ctx context.Context, hashes []string) error {
	return c.batch(ctx, "torrents/topPrio", hashes, nil)
}

// SetBottomPriority moves the given torrents to the bottom of the queue.
func (c *Client) SetBottomPriority(ctx context.Context, hashes []string) error {
	return c.batch(ctx, "torrents/bottomPrio", hashes, nil)
}

// AddTags adds tags to the given torrents.
func (c *Client) AddTags(ctx context.Context, hashes []string, tags []string) error {
	return c.batch(ctx, "torrents/addTags", hashes, map[string]string{
		"tags": strings.Join(tags, ","),
	})
}

// RemoveTags removes tags from the given torrents. A nil tags slice removes
// every tag.
func (c *Client) RemoveTags(ctx context.Context, hashes []string, tags []string) error {
	var extra map[string]string
	if tags != nil {
		extra = map[string]string{"tags": strings.Join(tags, ",")}
	}
	return c.batch(ctx, "torrents/removeTags", hashes, extra)
}

// AddTrackers adds tracker URLs to a torrent. No request is made when urls
// is empty.
func (c *Client) AddTrackers(ctx context.Context, hash string, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	params := hashParam(hash)
	params["urls"] = strings.Join(urls, "\n")
	return c.mutate(ctx, "torrents/addTrackers", params)
}

// Reannounce forces a tracker reannounce. No request is made when hashes is
// empty.
func (c *Client) Reannounce(ctx context.Context, hashes []string) error {
	if len(hashes) == 0 {
		return nil
	}
	return c.batch(ctx, "torrents/reannounce", hashes, nil)
}

// RemoveTrackers removes tracker URLs from a torrent. No request is made
// when urls is empty.
func (c *Client) RemoveTrackers(ctx context.Context, hash string, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	params := hashParam(hash)
	params["urls"] = strings.Join(urls, "|")
	return c.mutate(ctx, "torrents/removeTrackers", params)
}

// SetSuperSeeding toggles super seeding. No request is made when hashes is
// empty.
func (c *Client) SetSuperSeeding(ctx context.Context, hashes []string, value bool) error {
	if len(hashes) == 0 {
		return nil
	}
	return c.batch(ctx, "torrents/setSuperSeeding", hashes, map[string]string{
		"value": strconv.FormatBool(value),
	})
}

// ToggleSequentialDownload flips sequential download. No request is made
// when hashes is empty.
func (c *Client) ToggleSequentialDownload(ctx context.Context, hashes []string) error {
	if len(hashes) == 0 {
		return nil
	}
	return c.batch(ctx, "torrents/toggleSequentialDownload", hashes, nil)
}

// SetFilePriority sets the priority of files (by index) within a torrent.
func (c *Client) SetFilePriority(ctx context.Context, hash string, ids []int, priority TorrentContentPriority) error {
	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = strconv.Itoa(id)
	}

	params := hashParam(hash)
	params["id"] = strings.Join(idStrs, "|")
	params["priority"] = strconv.Itoa(int(priority))
	return c.mutate(ctx, "torrents/filePrio", params)
}

func hashParam(hash string) map[string]string {
	return map[string]string{"hash": NormalizeHash(hash)}
}

// batch issues a mutation carrying the joined hashes plus extra params.
func (c *Client) batch(ctx context.Context, endpoint string, hashes []string, extra map[string]string) error {
	params := map[string]string{"hashes": JoinHashes(hashes)}
	for k, v := range extra {
		params[k] = v
	}
	return c.mutate(ctx, endpoint, params)
}

func (c *Client) mutate(ctx context.Context, endpoint string, params map[string]string) error {
	if err := c.get(ctx, endpoint, params); err != nil {
		return fmt.Errorf("%s failed: %w", endpoint, err)
	}
	return nil
}
