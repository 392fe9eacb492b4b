package tracks

import (
	"context"
	"html"
	"strings"

	"github.com/therealutkarshpriyadarshi/webvtt/internal/metrics"
	"github.com/therealutkarshpriyadarshi/webvtt/pkg/models"
)

// BuildHTMLFragment returns the <track> elements for the video URL, one per
// resolvable track, in name order. ok is false when no track qualifies.
func (r *Resolver) BuildHTMLFragment(ctx context.Context, video string) (string, bool, error) {
	resolved, err := r.resolve(ctx, "html", video)
	if err != nil {
		return "", false, err
	}
	if len(resolved) == 0 {
		return "", false, nil
	}

	var b strings.Builder
	for _, t := range resolved {
		b.WriteString(`<track kind="`)
		b.WriteString(string(t.name.Kind))
		b.WriteString(`" src="`)
		b.WriteString(html.EscapeString(t.url))
		b.WriteString(`" srclang="`)
		b.WriteString(html.EscapeString(t.name.Locale))
		b.WriteString(`">`)
		metrics.RecordTrackEmitted(string(t.name.Kind))
	}
	return b.String(), true, nil
}

// BuildJSONManifest returns the track manifest entries for the video URL in
// the same order as BuildHTMLFragment. ok is false when no track qualifies.
func (r *Resolver) BuildJSONManifest(ctx context.Context, video string) ([]models.TrackSource, bool, error) {
	resolved, err := r.resolve(ctx, "json", video)
	if err != nil {
		return nil, false, err
	}
	if len(resolved) == 0 {
		return nil, false, nil
	}

	sources := make([]models.TrackSource, 0, len(resolved))
	for _, t := range resolved {
		sources = append(sources, models.TrackSource{
			Kind:    t.name.Kind,
			Src:     t.url,
			SrcLang: t.name.Locale,
		})
		metrics.RecordTrackEmitted(string(t.name.Kind))
	}
	return sources, true, nil
}

// GroupForAdmin groups the tracks of a video base name by kind and locale.
// Locales are labelled by the locale namer when one is configured and
// knows the code.
func (r *Resolver) GroupForAdmin(ctx context.Context, base string) (models.TrackGroups, error) {
	groups := models.NewTrackGroups()

	matched, err := r.findTracks(ctx, base)
	if err != nil {
		metrics.RecordTrackLookup("admin", metrics.OutcomeError)
		return groups, err
	}

	for _, m := range matched {
		groups.Put(m.name.Kind, models.LocaleTrack{
			Locale: m.name.Locale,
			Label:  r.localeLabel(m.name.Locale),
			Track:  m.attachment,
		})
	}

	outcome := metrics.OutcomeFound
	if groups.Len() == 0 {
		outcome = metrics.OutcomeNotFound
	}
	metrics.RecordTrackLookup("admin", outcome)

	return groups, nil
}
