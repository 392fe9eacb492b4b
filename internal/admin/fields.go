// Package admin provides the attachment edit-screen fields that link videos
// and their tracks.
package admin

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/therealutkarshpriyadarshi/webvtt/internal/config"
	"github.com/therealutkarshpriyadarshi/webvtt/pkg/models"
)

// FieldNone is shown for a track that has no matching video.
const FieldNone = "--"

var kindLabels = map[models.TrackKind]string{
	models.TrackKindCaptions:     "Video Captions",
	models.TrackKindChapters:     "Video Chapters",
	models.TrackKindDescriptions: "Video Descriptions",
	models.TrackKindMetadata:     "Video Metadata",
	models.TrackKindSubtitles:    "Video Subtitles",
}

// Field is one read-only entry of the attachment edit screen.
type Field struct {
	Label string `json:"label"`
	Input string `json:"input"`
	HTML  string `json:"html"`
}

// Fields maps field names to fields.
type Fields map[string]Field

// Resolver is the track lookup used by the edit screen.
type Resolver interface {
	FindVideoForTrack(ctx context.Context, trackName string) (*models.Attachment, bool, error)
	GroupForAdmin(ctx context.Context, base string) (models.TrackGroups, error)
}

// Links builds edit and view links to attachments.
type Links struct {
	EditTemplate string
	ViewTemplate string
}

// NewLinks creates links from the admin configuration.
func NewLinks(cfg config.AdminConfig) Links {
	return Links{EditTemplate: cfg.EditURLTemplate, ViewTemplate: cfg.ViewURLTemplate}
}

// URL returns the edit link of a, or its view link when no edit template
// is configured.
func (l Links) URL(a *models.Attachment) string {
	tpl := l.EditTemplate
	if tpl == "" {
		tpl = l.ViewTemplate
	}
	if tpl == "" {
		return ""
	}
	return strings.ReplaceAll(tpl, "%s", url.PathEscape(a.ID))
}

// HTML returns an anchor to a with text, or a's title when text is empty.
func (l Links) HTML(a *models.Attachment, text string) string {
	if text == "" {
		text = a.Title
	}
	return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(l.URL(a)), html.EscapeString(text))
}

// Service computes attachment edit fields.
type Service struct {
	resolver Resolver
	links    Links
}

// NewService creates an admin service
func NewService(resolver Resolver, links Links) *Service {
	return &Service{resolver: resolver, links: links}
}

// AttachmentFields returns the extra edit fields of a. A track gets a link
// to its video; a video gets one list of track links per kind present.
// Other attachments get no fields.
func (s *Service) AttachmentFields(ctx context.Context, a *models.Attachment) (Fields, error) {
	fields := make(Fields)

	switch {
	case a.IsTrack():
		video, ok, err := s.resolver.FindVideoForTrack(ctx, a.Name)
		if err != nil {
			return nil, err
		}

		content := FieldNone
		if ok {
			content = s.links.HTML(video, "")
		}
		fields["video"] = Field{Label: "Video", Input: "html", HTML: content}

	case a.IsVideo():
		groups, err := s.resolver.GroupForAdmin(ctx, a.Name)
		if err != nil {
			return nil, err
		}

		for _, group := range groups.Sorted() {
			var sb strings.Builder
			sb.WriteString("<ol>")
			for _, t := range group.Tracks {
				sb.WriteString("<li>")
				sb.WriteString(s.links.HTML(t.Track, t.Label))
				sb.WriteString("</li>")
			}
			sb.WriteString("</ol>")

			fields["video_"+string(group.Kind)] = Field{
				Label: kindLabels[group.Kind],
				Input: "html",
				HTML:  sb.String(),
			}
		}
	}

	return fields, nil
}

// MimeTypeEntry describes a MIME type filter of the media library.
type MimeTypeEntry struct {
	MimeType    string `json:"mime_type"`
	Label       string `json:"label"`
	ManageLabel string `json:"manage_label"`
	Singular    string `json:"singular"`
	Plural      string `json:"plural"`
}

// CountLabel returns the entry's label for n items.
func (e MimeTypeEntry) CountLabel(n int) string {
	if n == 1 {
		return fmt.Sprintf(e.Singular, n)
	}
	return fmt.Sprintf(e.Plural, n)
}

// TrackMimeTypes returns the media library filter for track files.
func TrackMimeTypes() []MimeTypeEntry {
	return []MimeTypeEntry{{
		MimeType:    models.MimeTypeVTT,
		Label:       "Video tracks",
		ManageLabel: "Manage Video Tracks",
		Singular:    `Video track <span class="count">(%d)</span>`,
		Plural:      `Video tracks <span class="count">(%d)</span>`,
	}}
}
