// Package tracks finds the text tracks that belong to a video and projects
// them into <track> markup, a JSON manifest or an admin grouping.
package tracks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/therealutkarshpriyadarshi/webvtt/internal/logging"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/metrics"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/naming"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/tracing"
	"github.com/therealutkarshpriyadarshi/webvtt/pkg/models"
)

const (
	// NameFilterKey is the store name filter that expands a base name into
	// track name patterns.
	NameFilterKey = "vtt_like"

	// MaxTracks caps the number of tracks returned for one video.
	MaxTracks = 25
)

// Skip reasons
const (
	SkipNameMismatch = "name_mismatch"
	SkipNoURL        = "no_url"
)

// Store is the part of the attachment store the resolver reads from.
type Store interface {
	RegisterNameFilter(key string, filter models.NameFilter) bool
	QueryAttachments(ctx context.Context, q models.AttachmentQuery) ([]*models.Attachment, error)
	GetAttachmentByName(ctx context.Context, name string) (*models.Attachment, error)
}

// URLResolver turns an attachment into a public URL. ok is false when the
// attachment has no fetchable address.
type URLResolver interface {
	AttachmentURL(ctx context.Context, a *models.Attachment) (string, bool)
}

// URLResolverFunc adapts a function to URLResolver.
type URLResolverFunc func(ctx context.Context, a *models.Attachment) (string, bool)

// AttachmentURL calls f(ctx, a).
func (f URLResolverFunc) AttachmentURL(ctx context.Context, a *models.Attachment) (string, bool) {
	return f(ctx, a)
}

// LocaleNamer supplies display labels for locale codes.
type LocaleNamer interface {
	DisplayName(code, uiLocale string) (string, bool)
}

// Option configures a Resolver
type Option func(*Resolver)

// WithLogger sets the resolver logger
func WithLogger(logger *logging.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLocaleNamer labels admin groupings with locale display names in the
// given UI locale.
func WithLocaleNamer(namer LocaleNamer, uiLocale string) Option {
	return func(r *Resolver) {
		r.namer = namer
		r.uiLocale = uiLocale
	}
}

// Resolver looks up the tracks of videos in a Store.
type Resolver struct {
	store    Store
	urls     URLResolver
	namer    LocaleNamer
	uiLocale string
	logger   *logging.Logger

	mu         sync.Mutex
	registered bool
}

// NewResolver creates a resolver and registers its name filter with store.
func NewResolver(store Store, urls URLResolver, opts ...Option) *Resolver {
	r := &Resolver{
		store:  store,
		urls:   urls,
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.ensureNameFilter()
	return r
}

func (r *Resolver) ensureNameFilter() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.registered {
		return
	}
	// false means another resolver on the same store got there first
	r.store.RegisterNameFilter(NameFilterKey, naming.TrackNamePatterns)
	r.registered = true
}

// FindTracks returns the track attachments named after base, ordered by
// name and capped at MaxTracks. Rows the store pattern lets through but whose
// separators are word characters are left out. An empty base has no tracks.
func (r *Resolver) FindTracks(ctx context.Context, base string) ([]*models.Attachment, error) {
	matched, err := r.findTracks(ctx, base)
	if err != nil {
		return nil, err
	}

	found := make([]*models.Attachment, 0, len(matched))
	for _, m := range matched {
		found = append(found, m.attachment)
	}
	return found, nil
}

// matchedTrack is a store row that follows the track grammar for a base.
type matchedTrack struct {
	name       models.TrackName
	attachment *models.Attachment
}

func (r *Resolver) findTracks(ctx context.Context, base string) ([]matchedTrack, error) {
	if base == "" {
		return nil, nil
	}
	r.ensureNameFilter()

	span, ctx := tracing.StartSpan(ctx, "tracks.find")
	defer tracing.FinishSpan(span)
	tracing.SetTag(span, "base_name", base)

	start := time.Now()
	records, err := r.store.QueryAttachments(ctx, models.AttachmentQuery{
		MimeType:    models.MimeTypeVTT,
		Status:      models.AttachmentStatusAny,
		NameFilters: map[string]string{NameFilterKey: base},
		OrderBy:     models.OrderByName,
		Limit:       MaxTracks,
	})
	if err != nil {
		r.logger.LogTrackLookup("find", base, 0, time.Since(start), err)
		tracing.LogError(span, err)
		return nil, fmt.Errorf("failed to find tracks for %q: %w", base, err)
	}

	matched := make([]matchedTrack, 0, len(records))
	for _, a := range records {
		name, ok := naming.SplitTrackName(a.Name, base)
		if !ok {
			r.skip(a, SkipNameMismatch)
			continue
		}
		matched = append(matched, matchedTrack{name: name, attachment: a})
	}
	r.logger.LogTrackLookup("find", base, len(matched), time.Since(start), nil)

	tracing.SetTag(span, "tracks", len(matched))
	return matched, nil
}

// FindVideoForTrack returns the video a track name refers to. ok is false
// when the name is not a track name or no attachment carries its base name.
func (r *Resolver) FindVideoForTrack(ctx context.Context, trackName string) (*models.Attachment, bool, error) {
	base, ok := naming.MatchVideoName(trackName)
	if !ok {
		metrics.RecordTrackLookup("video", metrics.OutcomeNotFound)
		return nil, false, nil
	}

	span, ctx := tracing.StartSpan(ctx, "tracks.find_video")
	defer tracing.FinishSpan(span)
	tracing.SetTag(span, "base_name", base)

	video, err := r.store.GetAttachmentByName(ctx, base)
	if err != nil {
		tracing.LogError(span, err)
		metrics.RecordTrackLookup("video", metrics.OutcomeError)
		return nil, false, fmt.Errorf("failed to find video %q: %w", base, err)
	}
	if video == nil {
		metrics.RecordTrackLookup("video", metrics.OutcomeNotFound)
		return nil, false, nil
	}

	metrics.RecordTrackLookup("video", metrics.OutcomeFound)
	return video, true, nil
}

// resolvedTrack is a matched track together with its public URL.
type resolvedTrack struct {
	matchedTrack
	url string
}

// resolve derives the base name of video and returns its tracks in store
// order, leaving out tracks whose URL cannot be resolved.
func (r *Resolver) resolve(ctx context.Context, operation, video string) ([]resolvedTrack, error) {
	matched, err := r.findTracks(ctx, naming.DeriveBaseName(video))
	if err != nil {
		metrics.RecordTrackLookup(operation, metrics.OutcomeError)
		return nil, err
	}

	resolved := make([]resolvedTrack, 0, len(matched))
	for _, m := range matched {
		url, ok := r.urls.AttachmentURL(ctx, m.attachment)
		if !ok {
			r.skip(m.attachment, SkipNoURL)
			continue
		}
		resolved = append(resolved, resolvedTrack{matchedTrack: m, url: url})
	}

	outcome := metrics.OutcomeFound
	if len(resolved) == 0 {
		outcome = metrics.OutcomeNotFound
	}
	metrics.RecordTrackLookup(operation, outcome)

	return resolved, nil
}

func (r *Resolver) skip(a *models.Attachment, reason string) {
	metrics.RecordTrackSkipped(reason)
	r.logger.LogSkippedTrack(a.ID, a.Name, reason)
}

func (r *Resolver) localeLabel(code string) string {
	if r.namer == nil {
		return code
	}
	if label, ok := r.namer.DisplayName(code, r.uiLocale); ok && label != "" {
		return label
	}
	return code
}
