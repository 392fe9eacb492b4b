// Package render splices track elements into rendered video markup.
package render

import (
	"context"
	"strings"
)

// sourceAttributes are the video shortcode attributes that may carry the
// video URL, in lookup order.
var sourceAttributes = []string{"mp4", "webm", "ogv", "m4v", "src"}

// VideoSource returns video, or when it is empty the first non-empty
// source attribute. ok is false when neither names a video.
func VideoSource(video string, attrs map[string]string) (string, bool) {
	if video != "" {
		return video, true
	}

	for _, key := range sourceAttributes {
		if v := attrs[key]; v != "" {
			return v, true
		}
	}
	return "", false
}

// SpliceTracks inserts fragment before every closing video tag in markup.
func SpliceTracks(markup, fragment string) string {
	if fragment == "" {
		return markup
	}
	return strings.ReplaceAll(markup, "</video>", fragment+"</video>")
}

// FragmentBuilder builds the <track> markup for a video URL
type FragmentBuilder interface {
	BuildHTMLFragment(ctx context.Context, video string) (string, bool, error)
}

// VideoRenderer adds tracks to video player markup
type VideoRenderer struct {
	tracks FragmentBuilder
}

// NewVideoRenderer creates a renderer backed by tracks
func NewVideoRenderer(tracks FragmentBuilder) *VideoRenderer {
	return &VideoRenderer{tracks: tracks}
}

// Render returns markup with the video's tracks spliced in. Markup is
// returned unchanged when there is no video or it has no tracks. On error
// the unchanged markup is returned along with the error.
func (r *VideoRenderer) Render(ctx context.Context, markup, video string, attrs map[string]string) (string, error) {
	src, ok := VideoSource(video, attrs)
	if !ok {
		return markup, nil
	}

	fragment, ok, err := r.tracks.BuildHTMLFragment(ctx, src)
	if err != nil {
		return markup, err
	}
	if !ok {
		return markup, nil
	}

	return SpliceTracks(markup, fragment), nil
}
