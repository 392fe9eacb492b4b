package playlist

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/database"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/tracks"
	"github.com/therealutkarshpriyadarshi/webvtt/pkg/models"
)

var testURLs = tracks.URLResolverFunc(func(ctx context.Context, a *models.Attachment) (string, bool) {
	if a.Path == "" {
		return "", false
	}
	return "https://cdn.example.com/" + a.Path, true
})

func newTestBuilder(t *testing.T, attachments ...*models.Attachment) *Builder {
	t.Helper()

	store := database.NewMemoryStore()
	for _, a := range attachments {
		require.NoError(t, store.CreateAttachment(context.Background(), a))
	}

	return NewBuilder(store, testURLs, tracks.NewResolver(store, testURLs), nil)
}

func videoFixtures() []*models.Attachment {
	return []*models.Attachment{
		{ID: "v1", ParentID: "post-1", Name: "intro", Title: "Intro", Caption: "Welcome",
			MimeType: "video/mp4", Path: "intro.mp4", Width: 1920, Height: 1080, MenuOrder: 2},
		{ID: "v2", ParentID: "post-1", Name: "outro", Title: "Outro", Description: "Goodbye",
			MimeType: "video/webm", Path: "outro.webm", MenuOrder: 1},
		{ID: "v3", ParentID: "post-2", Name: "other", Title: "Other",
			MimeType: "video/mp4", Path: "other.mp4"},
		{ID: "a1", ParentID: "post-1", Name: "theme", Title: "Theme",
			MimeType: "audio/mpeg", Path: "theme.mp3",
			Metadata: models.Metadata{"artist": "The Band", "album": "Live", "genre": "rock"}},
		{ID: "t1", ParentID: "post-1", Name: "intro_captions_en", Title: "Intro captions",
			MimeType: models.MimeTypeVTT, Path: "intro_captions_en.vtt"},
		{ID: "t2", ParentID: "post-1", Name: "intro_subtitles_fr", Title: "Intro subtitles",
			MimeType: models.MimeTypeVTT, Path: "intro_subtitles_fr.vtt"},
	}
}

func TestBuild_VideoPlaylist(t *testing.T) {
	b := newTestBuilder(t, videoFixtures()...)

	opts := DefaultOptions()
	opts.Type = "video"
	opts.ID = "post-1"

	p, ok, err := b.Build(context.Background(), opts)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, models.PlaylistTypeVideo, p.Type)
	require.Len(t, p.Tracks, 2)

	// menu_order ascending
	outro, intro := p.Tracks[0], p.Tracks[1]
	assert.Equal(t, "Outro", outro.Title)
	assert.Equal(t, "Goodbye", outro.Description)
	assert.Nil(t, outro.WebVTT)
	assert.Equal(t, &models.Dimensions{
		Original: models.Size{Width: 640, Height: 360},
		Resized:  models.Size{Width: 640, Height: 360},
	}, outro.Dimensions)

	assert.Equal(t, "https://cdn.example.com/intro.mp4", intro.Src)
	assert.Equal(t, "Welcome", intro.Caption)
	assert.Equal(t, []models.TrackSource{
		{Kind: models.TrackKindCaptions, Src: "https://cdn.example.com/intro_captions_en.vtt", SrcLang: "en"},
		{Kind: models.TrackKindSubtitles, Src: "https://cdn.example.com/intro_subtitles_fr.vtt", SrcLang: "fr"},
	}, intro.WebVTT)
	assert.Equal(t, &models.Dimensions{
		Original: models.Size{Width: 1920, Height: 1080},
		Resized:  models.Size{Width: 640, Height: 360},
	}, intro.Dimensions)
}

func TestBuild_AudioPlaylist(t *testing.T) {
	b := newTestBuilder(t, videoFixtures()...)

	opts := DefaultOptions()
	opts.ID = "post-1"

	p, ok, err := b.Build(context.Background(), opts)
	require.NoError(t, err)
	require.True(t, ok)

	require.Len(t, p.Tracks, 1)
	assert.Equal(t, models.PlaylistTypeAudio, p.Type)
	assert.Equal(t, map[string]string{"artist": "The Band", "album": "Live"}, p.Tracks[0].Meta)
	assert.Nil(t, p.Tracks[0].Dimensions)
}

func TestBuild_UnknownTypeIsVideo(t *testing.T) {
	b := newTestBuilder(t, videoFixtures()...)

	opts := DefaultOptions()
	opts.Type = "slideshow"
	opts.ID = "post-2"

	p, ok, err := b.Build(context.Background(), opts)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.PlaylistTypeVideo, p.Type)
	assert.Len(t, p.Tracks, 1)
}

func TestBuild_ExplicitIDs(t *testing.T) {
	b := newTestBuilder(t, videoFixtures()...)

	opts := DefaultOptions()
	opts.Type = "video"
	opts.IDs = []string{"v3", "v1", "missing"}
	opts.Exclude = []string{"v3"}

	p, ok, err := b.Build(context.Background(), opts)
	require.NoError(t, err)
	require.True(t, ok)

	// IDs ignore the exclusion list and keep their given order
	require.Len(t, p.Tracks, 2)
	assert.Equal(t, "Other", p.Tracks[0].Title)
	assert.Equal(t, "Intro", p.Tracks[1].Title)

	opts.Order = "desc"
	p, _, err = b.Build(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, "Intro", p.Tracks[0].Title)
}

func TestBuild_Exclude(t *testing.T) {
	b := newTestBuilder(t, videoFixtures()...)

	opts := DefaultOptions()
	opts.Type = "video"
	opts.ID = "post-1"
	opts.Exclude = []string{"v2"}

	p, ok, err := b.Build(context.Background(), opts)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, p.Tracks, 1)
	assert.Equal(t, "Intro", p.Tracks[0].Title)
}

func TestBuild_ContentWidth(t *testing.T) {
	b := newTestBuilder(t, videoFixtures()...)

	opts := DefaultOptions()
	opts.Type = "video"
	opts.ID = "post-1"
	opts.ContentWidth = 662

	p, ok, err := b.Build(context.Background(), opts)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, models.Size{Width: 640, Height: 360}, p.Tracks[0].Dimensions.Resized)
	assert.Equal(t, models.Size{Width: 640, Height: 360}, p.Tracks[1].Dimensions.Resized)

	opts.ContentWidth = 342
	p, _, err = b.Build(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, models.Size{Width: 320, Height: 180}, p.Tracks[0].Dimensions.Resized)
}

func TestBuild_Empty(t *testing.T) {
	b := newTestBuilder(t, videoFixtures()...)

	opts := DefaultOptions()
	opts.ID = "post-404"

	_, ok, err := b.Build(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBuild_SkipsTrashed(t *testing.T) {
	fixtures := videoFixtures()
	fixtures[0].Status = models.AttachmentStatusTrash
	b := newTestBuilder(t, fixtures...)

	opts := DefaultOptions()
	opts.Type = "video"
	opts.ID = "post-1"

	p, ok, err := b.Build(context.Background(), opts)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, p.Tracks, 1)
	assert.Equal(t, "Outro", p.Tracks[0].Title)
}

type mockManifests struct {
	mock.Mock
}

func (m *mockManifests) BuildJSONManifest(ctx context.Context, video string) ([]models.TrackSource, bool, error) {
	args := m.Called(ctx, video)
	sources, _ := args.Get(0).([]models.TrackSource)
	return sources, args.Bool(1), args.Error(2)
}

func TestBuild_ManifestError(t *testing.T) {
	store := database.NewMemoryStore()
	require.NoError(t, store.CreateAttachment(context.Background(), videoFixtures()[0]))

	unavailable := errors.New("store down")
	manifests := new(mockManifests)
	manifests.On("BuildJSONManifest", mock.Anything, "https://cdn.example.com/intro.mp4").Return(nil, false, unavailable)

	opts := DefaultOptions()
	opts.Type = "video"

	_, ok, err := NewBuilder(store, testURLs, manifests, nil).Build(context.Background(), opts)
	assert.ErrorIs(t, err, unavailable)
	assert.False(t, ok)
}

func TestRenderHTML(t *testing.T) {
	b := newTestBuilder(t, videoFixtures()...)

	opts := DefaultOptions()
	opts.Type = "video"
	opts.ID = "post-1"
	opts.Style = "dark"

	out, ok, err := b.RenderHTML(context.Background(), opts)
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, strings.HasPrefix(out,
		`<div class="vtt-playlist vtt-video-playlist vtt-playlist-dark"><video height="360" controls="controls" preload="none" width="640"></video>`))
	assert.Contains(t, out, `<noscript><ol><li><a href="https://cdn.example.com/outro.webm">Outro</a></li><li><a href="https://cdn.example.com/intro.mp4">Intro</a></li></ol></noscript>`)

	start := strings.Index(out, `<script type="application/json" class="vtt-playlist-script">`)
	require.NotEqual(t, -1, start)
	body := strings.TrimSuffix(out[start+len(`<script type="application/json" class="vtt-playlist-script">`):], `</script></div>`)

	var doc models.Playlist
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	assert.Len(t, doc.Tracks, 2)
	assert.Len(t, doc.Tracks[1].WebVTT, 2)
}

func TestRenderHTML_Audio(t *testing.T) {
	b := newTestBuilder(t, videoFixtures()...)

	opts := DefaultOptions()
	opts.ID = "post-1"

	out, ok, err := b.RenderHTML(context.Background(), opts)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, out, `<div class="vtt-playlist-current-item"></div><audio controls="controls" preload="none" width="640"></audio>`)
}
