package qbittorrent

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
)

// ContentLayout controls how torrent content is laid out on disk.
type ContentLayout string

const (
	ContentLayoutOriginal        ContentLayout = "Original"
	ContentLayoutSubfolderNone   ContentLayout = "NoSubfolder"
	ContentLayoutSubfolderCreate ContentLayout = "Subfolder"
)

// TorrentAddOptions are the optional fields of torrents/add. Zero values and
// nil pointers are not sent.
type TorrentAddOptions struct {
	SavePath           string
	DownloadPath       string
	UseDownloadPath    *bool
	Cookie             string
	Category           string
	Tags               []string
	SkipChecking       *bool
	Paused             *bool
	Stopped            *bool
	RootFolder         *bool
	ContentLayout      ContentLayout
	Rename             string
	UpLimit            *int64
	DlLimit            *int64
	RatioLimit         *float64
	SeedingTimeLimit   *int64
	AutoTMM            *bool
	SequentialDownload *bool
	FirstLastPiecePrio *bool
}

type formField struct {
	name  string
	value string
}

// fields returns the set options as form fields, always in declaration order.
func (o *TorrentAddOptions) fields() []formField {
	if o == nil {
		return nil
	}

	var fields []formField
	str := func(name, v string) {
		if v != "" {
			fields = append(fields, formField{name, v})
		}
	}
	boolean := func(name string, v *bool) {
		if v != nil {
			fields = append(fields, formField{name, strconv.FormatBool(*v)})
		}
	}
	integer := func(name string, v *int64) {
		if v != nil {
			fields = append(fields, formField{name, strconv.FormatInt(*v, 10)})
		}
	}

	str("savepath", o.SavePath)
	str("downloadPath", o.DownloadPath)
	boolean("useDownloadPath", o.UseDownloadPath)
	str("cookie", o.Cookie)
	str("category", o.Category)
	str("tags", strings.Join(o.Tags, ","))
	boolean("skip_checking", o.SkipChecking)
	boolean("paused", o.Paused)
	boolean("stopped", o.Stopped)
	boolean("root_folder", o.RootFolder)
	str("contentLayout", string(o.ContentLayout))
	str("rename", o.Rename)
	integer("upLimit", o.UpLimit)
	integer("dlLimit", o.DlLimit)
	if o.RatioLimit != nil {
		fields = append(fields, formField{"ratioLimit", strconv.FormatFloat(*o.RatioLimit, 'f', -1, 64)})
	}
	integer("seedingTimeLimit", o.SeedingTimeLimit)
	boolean("autoTMM", o.AutoTMM)
	boolean("sequentialDownload", o.SequentialDownload)
	boolean("firstLastPiecePrio", o.FirstLastPiecePrio)

	return fields
}

// Bool returns a pointer to v, for the optional fields of TorrentAddOptions.
func Bool(v bool) *bool { return &v }

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }

// AddFiles uploads .torrent payloads. Each payload becomes a "torrents" part
// named "<index>.torrent".
func (c *Client) AddFiles(ctx context.Context, files [][]byte, opts *TorrentAddOptions) error {
	parts := make([]*resty.MultipartField, 0, len(files))
	for i, f := range files {
		parts = append(parts, &resty.MultipartField{
			Param:       "torrents",
			FileName:    fmt.Sprintf("%d.torrent", i),
			ContentType: "application/x-bittorrent",
			Reader:      bytes.NewReader(f),
		})
	}

	if err := c.add(ctx, parts, opts); err != nil {
		return fmt.Errorf("failed to add torrent files: %w", err)
	}

	c.logger.Debug().Int("files", len(files)).Msg("Added torrent files")
	return nil
}

// AddURLs submits magnet links or torrent URLs.
func (c *Client) AddURLs(ctx context.Context, urls []string, opts *TorrentAddOptions) error {
	parts := []*resty.MultipartField{
		textField("urls", strings.Join(urls, "\n")),
	}

	if err := c.add(ctx, parts, opts); err != nil {
		return fmt.Errorf("failed to add torrent urls: %w", err)
	}

	c.logger.Debug().Int("urls", len(urls)).Msg("Added torrent urls")
	return nil
}

func (c *Client) add(ctx context.Context, parts []*resty.MultipartField, opts *TorrentAddOptions) error {
	for _, f := range opts.fields() {
		parts = append(parts, textField(f.name, f.value))
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetMultipartFields(parts...).
		Post("torrents/add")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if err := checkStatus("torrents/add", resp); err != nil {
		return err
	}
	if resp.String() == failsBody {
		return newClientError(ErrorTypeOperationFailed, "can not add torrent")
	}
	return nil
}

func textField(name, value string) *resty.MultipartField {
	return &resty.MultipartField{
		Param:  name,
		Reader: strings.NewReader(value),
	}
}
