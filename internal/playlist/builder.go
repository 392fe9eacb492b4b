// Package playlist builds the media playlist document, including the track
// manifest of every video entry.
package playlist

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/therealutkarshpriyadarshi/webvtt/internal/logging"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/tracks"
	"github.com/therealutkarshpriyadarshi/webvtt/pkg/models"
)

// Player sizing
const (
	DefaultWidth  = 640
	DefaultHeight = 360
	// OuterPadding is the padding and border of the player wrapper.
	OuterPadding = 22
)

// OrderByExplicit orders entries as listed in Options.IDs
const OrderByExplicit = "post__in"

// Options selects and presents the attachments of a playlist
type Options struct {
	Type    string   `json:"type"`
	Order   string   `json:"order"`
	OrderBy string   `json:"orderby"`
	ID      string   `json:"id"`
	IDs     []string `json:"ids"`
	Exclude []string `json:"exclude"`
	Style   string   `json:"style"`

	Tracklist    bool `json:"tracklist"`
	Tracknumbers bool `json:"tracknumbers"`
	Images       bool `json:"images"`
	Artists      bool `json:"artists"`

	// ContentWidth is the width available to the player; 0 uses the
	// default player size.
	ContentWidth int `json:"content_width"`
}

// DefaultOptions returns the options of a plain audio playlist
func DefaultOptions() Options {
	return Options{
		Type:         models.PlaylistTypeAudio,
		Order:        "ASC",
		Style:        "light",
		Tracklist:    true,
		Tracknumbers: true,
		Images:       true,
		Artists:      true,
	}
}

// Store queries attachments
type Store interface {
	QueryAttachments(ctx context.Context, q models.AttachmentQuery) ([]*models.Attachment, error)
}

// ManifestBuilder produces the track manifest of a video URL
type ManifestBuilder interface {
	BuildJSONManifest(ctx context.Context, video string) ([]models.TrackSource, bool, error)
}

// Builder assembles playlists
type Builder struct {
	store     Store
	urls      tracks.URLResolver
	manifests ManifestBuilder
	logger    *logging.Logger
}

// NewBuilder creates a playlist builder
func NewBuilder(store Store, urls tracks.URLResolver, manifests ManifestBuilder, logger *logging.Logger) *Builder {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Builder{store: store, urls: urls, manifests: manifests, logger: logger}
}

// entry is a playlist item together with its source attachment.
type entry struct {
	attachment *models.Attachment
	item       models.PlaylistItem
}

// result is a built playlist with its player size.
type result struct {
	playlist models.Playlist
	entries  []entry
	style    string
	width    int
	height   int
}

// Build returns the playlist document for opts. ok is false when no
// attachment qualifies.
func (b *Builder) Build(ctx context.Context, opts Options) (models.Playlist, bool, error) {
	res, err := b.build(ctx, opts)
	if err != nil || res == nil {
		return models.Playlist{}, false, err
	}
	return res.playlist, true, nil
}

func (b *Builder) build(ctx context.Context, opts Options) (*result, error) {
	opts = normalize(opts)

	q := query(opts)
	attachments, err := b.store.QueryAttachments(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist attachments: %w", err)
	}
	if opts.OrderBy == OrderByExplicit {
		attachments = explicitOrder(attachments, opts.IDs, opts.Order == "DESC")
	}
	if len(attachments) == 0 {
		return nil, nil
	}

	themeWidth, themeHeight := playerSize(opts.ContentWidth)

	res := &result{
		playlist: models.Playlist{
			Type:         opts.Type,
			Tracklist:    opts.Tracklist,
			Tracknumbers: opts.Tracknumbers,
			Images:       opts.Images,
			Artists:      opts.Artists,
			Tracks:       make([]models.PlaylistItem, 0, len(attachments)),
		},
		style:  opts.Style,
		width:  themeWidth,
		height: themeHeight,
	}

	for _, a := range attachments {
		item, err := b.item(ctx, a, opts.Type, themeWidth, themeHeight)
		if err != nil {
			return nil, err
		}
		res.playlist.Tracks = append(res.playlist.Tracks, item)
		res.entries = append(res.entries, entry{attachment: a, item: item})
	}

	return res, nil
}

func (b *Builder) item(ctx context.Context, a *models.Attachment, playlistType string, themeWidth, themeHeight int) (models.PlaylistItem, error) {
	item := models.PlaylistItem{
		Title:       a.Title,
		Caption:     a.Caption,
		Description: a.Description,
	}

	if src, ok := b.urls.AttachmentURL(ctx, a); ok {
		item.Src = src

		manifest, ok, err := b.manifests.BuildJSONManifest(ctx, src)
		if err != nil {
			return item, err
		}
		if ok {
			item.WebVTT = manifest
		}
	} else {
		b.logger.WithAttachmentID(a.ID).Debug("Playlist entry has no URL")
	}

	for _, key := range []string{"artist", "album"} {
		if v := a.Metadata.String(key); v != "" {
			if item.Meta == nil {
				item.Meta = make(map[string]string)
			}
			item.Meta[key] = v
		}
	}

	if playlistType == models.PlaylistTypeVideo {
		item.Dimensions = dimensions(a.Width, a.Height, themeWidth, themeHeight)
	}

	return item, nil
}

func normalize(opts Options) Options {
	if opts.Type != models.PlaylistTypeAudio {
		opts.Type = models.PlaylistTypeVideo
	}

	opts.Order = strings.ToUpper(opts.Order)
	if opts.Order != "DESC" {
		opts.Order = "ASC"
	}

	// explicit IDs are played in the given order unless told otherwise
	if len(opts.IDs) > 0 && opts.OrderBy == "" {
		opts.OrderBy = OrderByExplicit
	}

	if opts.Style == "" {
		opts.Style = "light"
	}
	return opts
}

func query(opts Options) models.AttachmentQuery {
	q := models.AttachmentQuery{
		MimeType:   opts.Type,
		Status:     models.AttachmentStatusInherit,
		OrderBy:    orderColumn(opts.OrderBy),
		Descending: opts.Order == "DESC",
	}

	if len(opts.IDs) > 0 {
		q.IDs = opts.IDs
	} else {
		q.ParentID = opts.ID
		q.ExcludeIDs = opts.Exclude
	}
	return q
}

func orderColumn(orderBy string) string {
	switch strings.ToLower(strings.TrimSpace(orderBy)) {
	case "name", "title":
		return models.OrderByName
	case "date", "created_at":
		return models.OrderByCreatedAt
	case "id":
		return models.OrderByID
	default:
		return models.OrderByMenuOrder
	}
}

func explicitOrder(attachments []*models.Attachment, ids []string, desc bool) []*models.Attachment {
	byID := make(map[string]*models.Attachment, len(attachments))
	for _, a := range attachments {
		byID[a.ID] = a
	}

	ordered := make([]*models.Attachment, 0, len(attachments))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if a, ok := byID[id]; ok && !seen[id] {
			ordered = append(ordered, a)
			seen[id] = true
		}
	}

	if desc {
		for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		}
	}
	return ordered
}

// playerSize returns the player width and height for the content width.
func playerSize(contentWidth int) (int, int) {
	if contentWidth <= 0 {
		return DefaultWidth, DefaultHeight
	}

	width := contentWidth - OuterPadding
	height := int(math.Round(float64(DefaultHeight*width) / DefaultWidth))
	return width, height
}

func dimensions(width, height, themeWidth, themeHeight int) *models.Dimensions {
	if width <= 0 || height <= 0 {
		return &models.Dimensions{
			Original: models.Size{Width: DefaultWidth, Height: DefaultHeight},
			Resized:  models.Size{Width: themeWidth, Height: themeHeight},
		}
	}

	return &models.Dimensions{
		Original: models.Size{Width: width, Height: height},
		Resized: models.Size{
			Width:  themeWidth,
			Height: int(math.Round(float64(height*themeWidth) / float64(width))),
		},
	}
}
