package playlist

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/therealutkarshpriyadarshi/webvtt/pkg/models"
)

// RenderHTML returns the playlist player markup: the media element, a
// <noscript> list of links and the playlist document as embedded JSON.
// ok is false when no attachment qualifies.
func (b *Builder) RenderHTML(ctx context.Context, opts Options) (string, bool, error) {
	res, err := b.build(ctx, opts)
	if err != nil || res == nil {
		return "", false, err
	}

	doc, err := json.Marshal(res.playlist)
	if err != nil {
		return "", false, fmt.Errorf("failed to marshal playlist: %w", err)
	}

	playlistType := res.playlist.Type

	var sb strings.Builder
	fmt.Fprintf(&sb, `<div class="vtt-playlist vtt-%s-playlist vtt-playlist-%s">`,
		playlistType, html.EscapeString(res.style))

	if playlistType == models.PlaylistTypeAudio {
		sb.WriteString(`<div class="vtt-playlist-current-item"></div><audio`)
	} else {
		fmt.Fprintf(&sb, `<video height="%d"`, res.height)
	}
	fmt.Fprintf(&sb, ` controls="controls" preload="none" width="%d"></%s>`, res.width, playlistType)

	sb.WriteString(`<div class="vtt-playlist-next"></div><div class="vtt-playlist-prev"></div><noscript><ol>`)
	for _, e := range res.entries {
		sb.WriteString("<li>")
		sb.WriteString(entryLink(e))
		sb.WriteString("</li>")
	}
	sb.WriteString(`</ol></noscript>`)

	sb.WriteString(`<script type="application/json" class="vtt-playlist-script">`)
	sb.Write(doc)
	sb.WriteString(`</script></div>`)

	return sb.String(), true, nil
}

func entryLink(e entry) string {
	title := e.attachment.Title
	if title == "" {
		title = e.attachment.Name
	}
	if e.item.Src == "" {
		return html.EscapeString(title)
	}
	return `<a href="` + html.EscapeString(e.item.Src) + `">` + html.EscapeString(title) + `</a>`
}
