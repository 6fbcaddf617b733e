package qbittorrent

import (
	"encoding/json"
	"strings"
	"time"
)

// TorrentState is the state string reported for a torrent.
type TorrentState string

const (
	TorrentStateError              TorrentState = "error"
	TorrentStateMissingFiles       TorrentState = "missingFiles"
	TorrentStateUploading          TorrentState = "uploading"
	TorrentStatePausedUp           TorrentState = "pausedUP"
	TorrentStateStoppedUp          TorrentState = "stoppedUP"
	TorrentStateQueuedUp           TorrentState = "queuedUP"
	TorrentStateStalledUp          TorrentState = "stalledUP"
	TorrentStateCheckingUp         TorrentState = "checkingUP"
	TorrentStateForcedUp           TorrentState = "forcedUP"
	TorrentStateAllocating         TorrentState = "allocating"
	TorrentStateDownloading        TorrentState = "downloading"
	TorrentStateMetaDl             TorrentState = "metaDL"
	TorrentStatePausedDl           TorrentState = "pausedDL"
	TorrentStateStoppedDl          TorrentState = "stoppedDL"
	TorrentStateQueuedDl           TorrentState = "queuedDL"
	TorrentStateStalledDl          TorrentState = "stalledDL"
	TorrentStateCheckingDl         TorrentState = "checkingDL"
	TorrentStateForcedDl           TorrentState = "forcedDL"
	TorrentStateCheckingResumeData TorrentState = "checkingResumeData"
	TorrentStateMoving             TorrentState = "moving"
	TorrentStateUnknown            TorrentState = "unknown"
)

// IsSeeding reports states in which the torrent is serving data.
func (s TorrentState) IsSeeding() bool {
	switch s {
	case TorrentStateUploading, TorrentStateStalledUp, TorrentStateQueuedUp, TorrentStateForcedUp:
		return true
	}
	return false
}

// IsPaused reports paused or stopped states (the latter is the 5.x name).
func (s TorrentState) IsPaused() bool {
	switch s {
	case TorrentStatePausedUp, TorrentStatePausedDl, TorrentStateStoppedUp, TorrentStateStoppedDl:
		return true
	}
	return false
}

// Torrent is an entry of torrents/info.
type Torrent struct {
	AddedOn            int64        `json:"added_on"`
	AmountLeft         int64        `json:"amount_left"`
	AutoManaged        bool         `json:"auto_tmm"`
	Availability       float64      `json:"availability"`
	Category           string       `json:"category"`
	Completed          int64        `json:"completed"`
	CompletionOn       int64        `json:"completion_on"`
	ContentPath        string       `json:"content_path"`
	DlLimit            int64        `json:"dl_limit"`
	DlSpeed            int64        `json:"dlspeed"`
	DownloadPath       string       `json:"download_path"`
	Downloaded         int64        `json:"downloaded"`
	ETA                int64        `json:"eta"`
	FirstLastPiecePrio bool         `json:"f_l_piece_prio"`
	ForceStart         bool         `json:"force_start"`
	Hash               string       `json:"hash"`
	LastActivity       int64        `json:"last_activity"`
	MagnetURI          string       `json:"magnet_uri"`
	MaxRatio           float64      `json:"max_ratio"`
	MaxSeedingTime     int64        `json:"max_seeding_time"`
	Name               string       `json:"name"`
	NumComplete        int64        `json:"num_complete"`
	NumIncomplete      int64        `json:"num_incomplete"`
	NumLeechs          int64        `json:"num_leechs"`
	NumSeeds           int64        `json:"num_seeds"`
	Priority           int64        `json:"priority"`
	Progress           float64      `json:"progress"`
	Ratio              float64      `json:"ratio"`
	RatioLimit         float64      `json:"ratio_limit"`
	SavePath           string       `json:"save_path"`
	SeedingTime        int64        `json:"seeding_time"`
	SeedingTimeLimit   int64        `json:"seeding_time_limit"`
	SeenComplete       int64        `json:"seen_complete"`
	SequentialDownload bool         `json:"seq_dl"`
	Size               int64        `json:"size"`
	State              TorrentState `json:"state"`
	SuperSeeding       bool         `json:"super_seeding"`
	Tags               string       `json:"tags"`
	TimeActive         int64        `json:"time_active"`
	TotalSize          int64        `json:"total_size"`
	Tracker            string       `json:"tracker"`
	UpLimit            int64        `json:"up_limit"`
	Uploaded           int64        `json:"uploaded"`
	UpSpeed            int64        `json:"upspeed"`
}

// TagList splits the comma separated Tags field.
func (t *Torrent) TagList() []string {
	if strings.TrimSpace(t.Tags) == "" {
		return nil
	}
	parts := strings.Split(t.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// HasTag checks tag membership, ignoring case.
func (t *Torrent) HasTag(tag string) bool {
	for _, v := range t.TagList() {
		if strings.EqualFold(v, tag) {
			return true
		}
	}
	return false
}

// IsSeeding checks if the torrent is actively seeding
func (t *Torrent) IsSeeding() bool {
	return t.State.IsSeeding()
}

// IsComplete reports a fully downloaded torrent.
func (t *Torrent) IsComplete() bool {
	return t.Progress >= 1
}

// AddedTime converts AddedOn to a time.Time.
func (t *Torrent) AddedTime() time.Time {
	return time.Unix(t.AddedOn, 0)
}

// TorrentContentPriority is the download priority of a file within a torrent.
type TorrentContentPriority int

const (
	PriorityDoNotDownload TorrentContentPriority = 0
	PriorityNormal        TorrentContentPriority = 1
	PriorityHigh          TorrentContentPriority = 6
	PriorityMaximal       TorrentContentPriority = 7
)

// Valid reports whether p is one of the values the remote accepts.
func (p TorrentContentPriority) Valid() bool {
	switch p {
	case PriorityDoNotDownload, PriorityNormal, PriorityHigh, PriorityMaximal:
		return true
	}
	return false
}

// TorrentContent is one file of torrents/files.
type TorrentContent struct {
	Index        int                    `json:"index"`
	Name         string                 `json:"name"`
	Size         int64                  `json:"size"`
	Progress     float64                `json:"progress"`
	Priority     TorrentContentPriority `json:"priority"`
	IsSeed       bool                   `json:"is_seed,omitempty"`
	PieceRange   []int                  `json:"piece_range"`
	Availability float64                `json:"availability"`
}

type TorrentContents []TorrentContent

// TorrentProperties is the response of torrents/properties.
type TorrentProperties struct {
	AdditionDate           int64   `json:"addition_date"`
	Comment                string  `json:"comment"`
	CompletionDate         int64   `json:"completion_date"`
	CreatedBy              string  `json:"created_by"`
	CreationDate           int64   `json:"creation_date"`
	DlLimit                int64   `json:"dl_limit"`
	DlSpeed                int64   `json:"dl_speed"`
	DlSpeedAvg             int64   `json:"dl_speed_avg"`
	DownloadPath           string  `json:"download_path"`
	Eta                    int64   `json:"eta"`
	Hash                   string  `json:"hash"`
	InfohashV1             string  `json:"infohash_v1"`
	InfohashV2             string  `json:"infohash_v2"`
	IsPrivate              bool    `json:"is_private"`
	LastSeen               int64   `json:"last_seen"`
	Name                   string  `json:"name"`
	NbConnections          int     `json:"nb_connections"`
	NbConnectionsLimit     int     `json:"nb_connections_limit"`
	Peers                  int     `json:"peers"`
	PeersTotal             int     `json:"peers_total"`
	PieceSize              int64   `json:"piece_size"`
	PiecesHave             int     `json:"pieces_have"`
	PiecesNum              int     `json:"pieces_num"`
	Reannounce             int64   `json:"reannounce"`
	SavePath               string  `json:"save_path"`
	SeedingTime            int64   `json:"seeding_time"`
	Seeds                  int     `json:"seeds"`
	SeedsTotal             int     `json:"seeds_total"`
	ShareRatio             float64 `json:"share_ratio"`
	TimeElapsed            int64   `json:"time_elapsed"`
	TotalDownloaded        int64   `json:"total_downloaded"`
	TotalDownloadedSession int64   `json:"total_downloaded_session"`
	TotalSize              int64   `json:"total_size"`
	TotalUploaded          int64   `json:"total_uploaded"`
	TotalUploadedSession   int64   `json:"total_uploaded_session"`
	TotalWasted            int64   `json:"total_wasted"`
	UpLimit                int64   `json:"up_limit"`
	UpSpeed                int64   `json:"up_speed"`
	UpSpeedAvg             int64   `json:"up_speed_avg"`
}

// TrackerStatus is the numeric tracker state of torrents/trackers.
type TrackerStatus int

const (
	TrackerStatusDisabled     TrackerStatus = 0
	TrackerStatusNotContacted TrackerStatus = 1
	TrackerStatusOK           TrackerStatus = 2
	TrackerStatusUpdating     TrackerStatus = 3
	TrackerStatusNotWorking   TrackerStatus = 4
)

func (s TrackerStatus) String() string {
	switch s {
	case TrackerStatusDisabled:
		return "disabled"
	case TrackerStatusNotContacted:
		return "not contacted"
	case TrackerStatusOK:
		return "working"
	case TrackerStatusUpdating:
		return "updating"
	case TrackerStatusNotWorking:
		return "not working"
	}
	return "unknown"
}

// TorrentTracker is one entry of torrents/trackers.
type TorrentTracker struct {
	URL           string        `json:"url"`
	Status        TrackerStatus `json:"status"`
	Tier          int           `json:"tier"`
	NumPeers      int           `json:"num_peers"`
	NumSeeds      int           `json:"num_seeds"`
	NumLeeches    int           `json:"num_leeches"`
	NumDownloaded int           `json:"num_downloaded"`
	Message       string        `json:"msg"`
}

// UnmarshalJSON accepts the tier as a number or, for DHT/PeX/LSD rows on
// older versions, an empty string.
func (t *TorrentTracker) UnmarshalJSON(data []byte) error {
	type alias TorrentTracker
	aux := struct {
		*alias
		Tier json.RawMessage `json:"tier"`
	}{alias: (*alias)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t.Tier = -1
	if len(aux.Tier) > 0 && aux.Tier[0] != '"' {
		return json.Unmarshal(aux.Tier, &t.Tier)
	}
	return nil
}

// ConnectionStatus is the global connection state of transfer/info.
type ConnectionStatus string

const (
	ConnectionStatusConnected    ConnectionStatus = "connected"
	ConnectionStatusFirewalled   ConnectionStatus = "firewalled"
	ConnectionStatusDisconnected ConnectionStatus = "disconnected"
)

// TransferInfo is the response of transfer/info.
type TransferInfo struct {
	ConnectionStatus ConnectionStatus `json:"connection_status"`
	DHTNodes         int64            `json:"dht_nodes"`
	DlInfoData       int64            `json:"dl_info_data"`
	DlInfoSpeed      int64            `json:"dl_info_speed"`
	DlRateLimit      int64            `json:"dl_rate_limit"`
	UpInfoData       int64            `json:"up_info_data"`
	UpInfoSpeed      int64            `json:"up_info_speed"`
	UpRateLimit      int64            `json:"up_rate_limit"`
}

// Peer is one connected peer of sync/torrentPeers.
type Peer struct {
	Client      string  `json:"client"`
	Connection  string  `json:"connection"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	DlSpeed     int64   `json:"dl_speed"`
	Downloaded  int64   `json:"downloaded"`
	Files       string  `json:"files"`
	Flags       string  `json:"flags"`
	FlagsDesc   string  `json:"flags_desc"`
	IP          string  `json:"ip"`
	Port        int     `json:"port"`
	Progress    float64 `json:"progress"`
	Relevance   float64 `json:"relevance"`
	UpSpeed     int64   `json:"up_speed"`
	Uploaded    int64   `json:"uploaded"`
}

// TorrentPeers maps "ip:port" to the peer.
type TorrentPeers map[string]Peer

// SyncTorrentPeers is the full response of sync/torrentPeers.
type SyncTorrentPeers struct {
	FullUpdate bool         `json:"full_update"`
	Peers      TorrentPeers `json:"peers"`
	Rid        int64        `json:"rid"`
	ShowFlags  bool         `json:"show_flags"`
}

// AppPreferences holds the commonly used fields of app/preferences. Every
// key of the response, including ones without a field here, is kept in Raw.
type AppPreferences struct {
	AddTrackers           string  `json:"add_trackers"`
	AddTrackersEnabled    bool    `json:"add_trackers_enabled"`
	AltDlLimit            int64   `json:"alt_dl_limit"`
	AltUpLimit            int64   `json:"alt_up_limit"`
	AnonymousMode         bool    `json:"anonymous_mode"`
	AutoTmmEnabled        bool    `json:"auto_tmm_enabled"`
	Dht                   bool    `json:"dht"`
	DlLimit               int64   `json:"dl_limit"`
	Encryption            int     `json:"encryption"`
	ListenPort            int     `json:"listen_port"`
	Locale                string  `json:"locale"`
	Lsd                   bool    `json:"lsd"`
	MaxActiveDownloads    int     `json:"max_active_downloads"`
	MaxActiveTorrents     int     `json:"max_active_torrents"`
	MaxActiveUploads      int     `json:"max_active_uploads"`
	MaxConnec             int     `json:"max_connec"`
	MaxConnecPerTorrent   int     `json:"max_connec_per_torrent"`
	MaxRatio              float64 `json:"max_ratio"`
	MaxRatioEnabled       bool    `json:"max_ratio_enabled"`
	MaxSeedingTime        int64   `json:"max_seeding_time"`
	MaxSeedingTimeEnabled bool    `json:"max_seeding_time_enabled"`
	Pex                   bool    `json:"pex"`
	QueueingEnabled       bool    `json:"queueing_enabled"`
	SavePath              string  `json:"save_path"`
	StartPausedEnabled    bool    `json:"start_paused_enabled"`
	TempPath              string  `json:"temp_path"`
	TempPathEnabled       bool    `json:"temp_path_enabled"`
	TorrentContentLayout  string  `json:"torrent_content_layout"`
	UpLimit               int64   `json:"up_limit"`
	Upnp                  bool    `json:"upnp"`
	WebUIPort             int     `json:"web_ui_port"`

	Raw map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the typed fields and keeps the full key set in Raw.
func (p *AppPreferences) UnmarshalJSON(data []byte) error {
	type alias AppPreferences
	if err := json.Unmarshal(data, (*alias)(p)); err != nil {
		return err
	}
	return json.Unmarshal(data, &p.Raw)
}
