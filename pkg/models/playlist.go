package models

// Playlist types
const (
	PlaylistTypeAudio = "audio"
	PlaylistTypeVideo = "video"
)

// Playlist is the JSON document consumed by the front-end playlist player.
type Playlist struct {
	Type         string         `json:"type"`
	Tracklist    bool           `json:"tracklist"`
	Tracknumbers bool           `json:"tracknumbers"`
	Images       bool           `json:"images"`
	Artists      bool           `json:"artists"`
	Tracks       []PlaylistItem `json:"tracks"`
}

// PlaylistItem is one media entry of a playlist.
type PlaylistItem struct {
	Src         string            `json:"src"`
	Title       string            `json:"title"`
	Caption     string            `json:"caption,omitempty"`
	Description string            `json:"description,omitempty"`
	WebVTT      []TrackSource     `json:"webvtt,omitempty"`
	Meta        map[string]string `json:"meta,omitempty"`
	Dimensions  *Dimensions       `json:"dimensions,omitempty"`
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Dimensions holds the original and player-resized size of a video.
type Dimensions struct {
	Original Size `json:"original"`
	Resized  Size `json:"resized"`
}
