package qbittorrent

import (
	"context"
	"fmt"
)

// GetTransferInfo retrieves global transfer statistics.
func (c *Client) GetTransferInfo(ctx context.Context) (*TransferInfo, error) {
	var info TransferInfo
	if err := c.getJSON(ctx, "transfer/info", nil, &info); err != nil {
		return nil, fmt.Errorf("failed to get transfer info: %w", err)
	}
	return &info, nil
}

// SyncTorrentPeers returns the full peer list of a torrent. Only the initial
// snapshot (rid=0) is requested; incremental updates are not merged.
func (c *Client) SyncTorrentPeers(ctx context.Context, hash string) (TorrentPeers, error) {
	var data SyncTorrentPeers
	params := map[string]string{
		"hash": NormalizeHash(hash),
		"rid":  "0",
	}
	if err := c.getJSON(ctx, "sync/torrentPeers", params, &data); err != nil {
		return nil, fmt.Errorf("failed to get torrent peers: %w", err)
	}
	return data.Peers, nil
}
