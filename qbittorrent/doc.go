// Package qbittorrent provides a client for the qBittorrent Web API (v2).
//
// The client holds a single session cookie obtained through Authenticate and
// attaches it to every later request. Each exported method maps to exactly
// one endpoint under <baseURL>/api/v2.
//
// # Features
//
//   - Session login and logout with typed failures (banned IP, bad credentials)
//   - Torrent listing, properties, trackers, contents and peers
//   - Batch lifecycle operations (pause, resume, delete, recheck, relocate, priority)
//   - Tag and tracker management
//   - Multipart torrent ingestion from files or URLs
//   - Application preferences and global transfer statistics
//
// # Usage
//
//	client, err := qbittorrent.NewClient("http://localhost:8080",
//	    qbittorrent.WithTimeout(10*time.Second),
//	    qbittorrent.WithLogger(logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := client.Authenticate(ctx, "admin", "adminadmin"); err != nil {
//	    if errors.Is(err, qbittorrent.ErrIPBanned) {
//	        // back off
//	    }
//	    log.Fatal(err)
//	}
//
//	torrents, err := client.GetTorrents(ctx)
//	err = client.Pause(ctx, []string{torrents[0].Hash})
//
// Hash identifiers are lowercased before transmission and batches are joined
// with "|" in the order given.
package qbittorrent
