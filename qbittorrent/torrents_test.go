package qbittorrent

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Raw    string
}

// recorder captures every request and replies with body.
func recorder(t *testing.T, body string) (*Client, *[]recordedRequest) {
	t.Helper()
	var reqs []recordedRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		reqs = append(reqs, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Raw:    r.URL.RawQuery,
		})
		_, _ = w.Write([]byte(body))
	})
	return client, &reqs
}

func TestDelete(t *testing.T) {
	client, reqs := recorder(t, "")

	err := client.Delete(context.Background(), []string{"ABC123"}, true)
	require.NoError(t, err)

	require.Len(t, *reqs, 1)
	req := (*reqs)[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/api/v2/torrents/delete", req.Path)
	assert.Equal(t, "abc123", req.Query.Get("hashes"))
	assert.Equal(t, "true", req.Query.Get("deleteFiles"))
	assert.Equal(t, "deleteFiles=true&hashes=abc123", req.Raw)
}

func TestBatchOperations(t *testing.T) {
	hashes := []string{"AAA111", "bbb222", "CcC333"}
	const joined = "aaa111|bbb222|ccc333"

	tests := []struct {
		name     string
		call     func(c *Client) error
		endpoint string
		extra    map[string]string
	}{
		{
			name:     "pause",
			call:     func(c *Client) error { return c.Pause(context.Background(), hashes) },
			endpoint: "torrents/pause",
		},
		{
			name:     "resume",
			call:     func(c *Client) error { return c.Resume(context.Background(), hashes) },
			endpoint: "torrents/resume",
		},
		{
			name:     "delete keeps files",
			call:     func(c *Client) error { return c.Delete(context.Background(), hashes, false) },
			endpoint: "torrents/delete",
			extra:    map[string]string{"deleteFiles": "false"},
		},
		{
			name:     "recheck",
			call:     func(c *Client) error { return c.Recheck(context.Background(), hashes) },
			endpoint: "torrents/recheck",
		},
		{
			name:     "set location",
			call:     func(c *Client) error { return c.SetLocation(context.Background(), hashes, "/data/Movies") },
			endpoint: "torrents/setLocation",
			extra:    map[string]string{"location": "/data/Movies"},
		},
		{
			name:     "top priority",
			call:     func(c *Client) error { return c.SetTopPriority(context.Background(), hashes) },
			endpoint: "torrents/topPrio",
		},
		{
			name:     "bottom priority",
			call:     func(c *Client) error { return c.SetBottomPriority(context.Background(), hashes) },
			endpoint: "torrents/bottomPrio",
		},
		{
			name:     "add tags",
			call:     func(c *Client) error { return c.AddTags(context.Background(), hashes, []string{"movies", "hd"}) },
			endpoint: "torrents/addTags",
			extra:    map[string]string{"tags": "movies,hd"},
		},
		{
			name:     "remove tags",
			call:     func(c *Client) error { return c.RemoveTags(context.Background(), hashes, []string{"old"}) },
			endpoint: "torrents/removeTags",
			extra:    map[string]string{"tags": "old"},
		},
		{
			name:     "reannounce",
			call:     func(c *Client) error { return c.Reannounce(context.Background(), hashes) },
			endpoint: "torrents/reannounce",
		},
		{
			name:     "super seeding",
			call:     func(c *Client) error { return c.SetSuperSeeding(context.Background(), hashes, true) },
			endpoint: "torrents/setSuperSeeding",
			extra:    map[string]string{"value": "true"},
		},
		{
			name:     "sequential download",
			call:     func(c *Client) error { return c.ToggleSequentialDownload(context.Background(), hashes) },
			endpoint: "torrents/toggleSequentialDownload",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, reqs := recorder(t, "")

			require.NoError(t, tt.call(client))
			require.Len(t, *reqs, 1)

			req := (*reqs)[0]
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, "/api/v2/"+tt.endpoint, req.Path)
			assert.Equal(t, joined, req.Query.Get("hashes"))
			for k, v := range tt.extra {
				assert.Equal(t, v, req.Query.Get(k), k)
			}
			assert.Len(t, req.Query, 1+len(tt.extra))
		})
	}
}

func TestRemoveTagsAll(t *testing.T) {
	client, reqs := recorder(t, "")

	require.NoError(t, client.RemoveTags(context.Background(), []string{"ABC"}, nil))
	require.Len(t, *reqs, 1)
	_, ok := (*reqs)[0].Query["tags"]
	assert.False(t, ok)
}

func TestShortCircuit(t *testing.T) {
	client, reqs := recorder(t, "")
	ctx := context.Background()

	require.NoError(t, client.AddTrackers(ctx, "abc", nil))
	require.NoError(t, client.AddTrackers(ctx, "abc", []string{}))
	require.NoError(t, client.RemoveTrackers(ctx, "abc", nil))
	require.NoError(t, client.Reannounce(ctx, nil))
	require.NoError(t, client.SetSuperSeeding(ctx, []string{}, true))
	require.NoError(t, client.ToggleSequentialDownload(ctx, nil))

	assert.Empty(t, *reqs)
}

func TestTrackers(t *testing.T) {
	t.Run("add joins with newline", func(t *testing.T) {
		client, reqs := recorder(t, "")

		err := client.AddTrackers(context.Background(), "ABCDEF", []string{"udp://a:80/announce", "http://b/announce"})
		require.NoError(t, err)
		require.Len(t, *reqs, 1)
		req := (*reqs)[0]
		assert.Equal(t, "/api/v2/torrents/addTrackers", req.Path)
		assert.Equal(t, "abcdef", req.Query.Get("hash"))
		assert.Equal(t, "udp://a:80/announce\nhttp://b/announce", req.Query.Get("urls"))
	})

	t.Run("remove joins with pipe", func(t *testing.T) {
		client, reqs := recorder(t, "")

		err := client.RemoveTrackers(context.Background(), "ABCDEF", []string{"udp://a:80/announce", "http://b/announce"})
		require.NoError(t, err)
		require.Len(t, *reqs, 1)
		req := (*reqs)[0]
		assert.Equal(t, "/api/v2/torrents/removeTrackers", req.Path)
		assert.Equal(t, "udp://a:80/announce|http://b/announce", req.Query.Get("urls"))
	})
}

func TestSetFilePriority(t *testing.T) {
	client, reqs := recorder(t, "")

	err := client.SetFilePriority(context.Background(), "DEADBEEF", []int{0, 2, 5}, PriorityMaximal)
	require.NoError(t, err)
	require.Len(t, *reqs, 1)
	req := (*reqs)[0]
	assert.Equal(t, "/api/v2/torrents/filePrio", req.Path)
	assert.Equal(t, "deadbeef", req.Query.Get("hash"))
	assert.Equal(t, "0|2|5", req.Query.Get("id"))
	assert.Equal(t, "7", req.Query.Get("priority"))
}

func TestGetTorrents(t *testing.T) {
	client, reqs := recorder(t, `[
		{"hash":"abc","name":"Movie.2020.1080p","state":"stalledUP","progress":1,"size":1073741824,"tags":"movies, hd","category":"radarr","ratio":1.5},
		{"hash":"def","name":"Show.S01","state":"pausedDL","progress":0.25,"tags":""}
	]`)

	torrents, err := client.GetTorrents(context.Background())
	require.NoError(t, err)
	require.Len(t, *reqs, 1)
	assert.Equal(t, "/api/v2/torrents/info", (*reqs)[0].Path)

	require.Len(t, torrents, 2)
	assert.Equal(t, "Movie.2020.1080p", torrents[0].Name)
	assert.Equal(t, TorrentStateStalledUp, torrents[0].State)
	assert.Equal(t, []string{"movies", "hd"}, torrents[0].TagList())
	assert.True(t, torrents[0].HasTag("HD"))
	assert.True(t, torrents[0].IsSeeding())
	assert.True(t, torrents[0].IsComplete())

	assert.Nil(t, torrents[1].TagList())
	assert.False(t, torrents[1].IsSeeding())
	assert.True(t, torrents[1].State.IsPaused())
}

func TestHashReads(t *testing.T) {
	t.Run("contents", func(t *testing.T) {
		client, reqs := recorder(t, `[{"index":0,"name":"a.mkv","size":10,"priority":1},{"index":1,"name":"a.nfo","size":1,"priority":0}]`)

		files, err := client.GetTorrentContents(context.Background(), "ABC")
		require.NoError(t, err)
		assert.Equal(t, "/api/v2/torrents/files", (*reqs)[0].Path)
		assert.Equal(t, "abc", (*reqs)[0].Query.Get("hash"))
		require.Len(t, files, 2)
		assert.Equal(t, PriorityDoNotDownload, files[1].Priority)
	})

	t.Run("properties", func(t *testing.T) {
		client, reqs := recorder(t, `{"save_path":"/data","share_ratio":2.5,"is_private":true}`)

		props, err := client.GetTorrentProperties(context.Background(), "ABC")
		require.NoError(t, err)
		assert.Equal(t, "/api/v2/torrents/properties", (*reqs)[0].Path)
		assert.Equal(t, "abc", (*reqs)[0].Query.Get("hash"))
		assert.Equal(t, "/data", props.SavePath)
		assert.True(t, props.IsPrivate)
	})

	t.Run("trackers", func(t *testing.T) {
		client, reqs := recorder(t, `[
			{"url":"** [DHT] **","status":0,"tier":"","msg":""},
			{"url":"https://tracker.example/announce","status":2,"tier":0,"num_peers":12,"msg":"ok"}
		]`)

		trackers, err := client.GetTorrentTrackers(context.Background(), "ABC")
		require.NoError(t, err)
		assert.Equal(t, "abc", (*reqs)[0].Query.Get("hash"))
		require.Len(t, trackers, 2)
		assert.Equal(t, -1, trackers[0].Tier)
		assert.Equal(t, TrackerStatusDisabled, trackers[0].Status)
		assert.Equal(t, 0, trackers[1].Tier)
		assert.Equal(t, "working", trackers[1].Status.String())
		assert.Equal(t, 12, trackers[1].NumPeers)
	})

	t.Run("peers", func(t *testing.T) {
		client, reqs := recorder(t, `{"full_update":true,"rid":1,"peers":{"10.0.0.1:6881":{"client":"qBittorrent/4.6.2","ip":"10.0.0.1","port":6881,"progress":0.5}}}`)

		peers, err := client.SyncTorrentPeers(context.Background(), "ABC")
		require.NoError(t, err)
		assert.Equal(t, "/api/v2/sync/torrentPeers", (*reqs)[0].Path)
		assert.Equal(t, "abc", (*reqs)[0].Query.Get("hash"))
		assert.Equal(t, "0", (*reqs)[0].Query.Get("rid"))
		require.Contains(t, peers, "10.0.0.1:6881")
		assert.Equal(t, 6881, peers["10.0.0.1:6881"].Port)
	})
}

func TestStatusErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("Torrent hash was not found"))
	})

	_, err := client.GetTorrentProperties(context.Background(), "missing")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.True(t, statusErr.IsNotFound())
	assert.False(t, statusErr.IsForbidden())
	assert.Equal(t, "torrents/properties", statusErr.Endpoint)
	assert.Equal(t, "Torrent hash was not found", statusErr.Body)

	err = client.Pause(context.Background(), []string{"abc"})
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}
