package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/therealutkarshpriyadarshi/webvtt/pkg/models"
)

func TestDeriveBaseName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://example.com/wp-content/uploads/foo/bar.mp4", "bar"},
		{"https://example.com/foo/bar.mp4?ver=2#t=10", "bar"},
		{"/foo/bar.mp4", "bar"},
		{"bar.mp4", "bar"},
		{"/uploads/2015/06/launch.video.webm", "launch.video"},
		{"https://example.com/foo/bar", "bar"},
		{"https://example.com/foo/bar/", "bar"},
		{"https://example.com", ""},
		{"https://example.com/", ""},
		{"", ""},
		{"?only=query", ""},
		{"mailto:someone@example.com", ""},
		{"/media/%zzbad.mp4", "%zzbad"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveBaseName(tt.input))
		})
	}
}

func TestDeriveBaseNameIgnoresExtensionAndQuery(t *testing.T) {
	a := DeriveBaseName("https://cdn.example.com/v/clip.mp4")
	b := DeriveBaseName("https://cdn.example.com/v/clip.webm?x=1")
	c := DeriveBaseName("/other/dir/clip.ogv")

	assert.Equal(t, "clip", a)
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}

func TestMatchTrackName(t *testing.T) {
	tests := []struct {
		name   string
		want   models.TrackName
		wantOK bool
	}{
		{
			name:   "myvideo_captions_en",
			want:   models.TrackName{Base: "myvideo", Kind: models.TrackKindCaptions, Locale: "en"},
			wantOK: true,
		},
		{
			name:   "myvideo-subtitles-fr",
			want:   models.TrackName{Base: "myvideo", Kind: models.TrackKindSubtitles, Locale: "fr"},
			wantOK: true,
		},
		{
			name:   "a_b_captions_en",
			want:   models.TrackName{Base: "a_b", Kind: models.TrackKindCaptions, Locale: "en"},
			wantOK: true,
		},
		{
			name:   "x_captions_zz_subtitles_en",
			want:   models.TrackName{Base: "x_captions_zz", Kind: models.TrackKindSubtitles, Locale: "en"},
			wantOK: true,
		},
		{
			name:   "clip.chapters.De",
			want:   models.TrackName{Base: "clip", Kind: models.TrackKindChapters, Locale: "De"},
			wantOK: true,
		},
		{
			name:   "clip_descriptions_01",
			want:   models.TrackName{Base: "clip", Kind: models.TrackKindDescriptions, Locale: "01"},
			wantOK: true,
		},
		{
			name:   "clip metadata pt",
			want:   models.TrackName{Base: "clip", Kind: models.TrackKindMetadata, Locale: "pt"},
			wantOK: true,
		},
		{name: "myvideo_en", wantOK: false},
		{name: "_captions_en", wantOK: false},
		{name: "myvideo_captions_eng", wantOK: false},
		{name: "myvideo_captions_e", wantOK: false},
		{name: "myvideo_Captions_en", wantOK: false},
		{name: "myvideo_lyrics_en", wantOK: false},
		{name: "myvideocaptions_en", wantOK: false},
		{name: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchTrackName(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			} else {
				assert.Equal(t, models.TrackName{}, got)
			}
		})
	}
}

func TestMatchVideoName(t *testing.T) {
	base, ok := MatchVideoName("launch-video_subtitles_fr")
	assert.True(t, ok)
	assert.Equal(t, "launch-video", base)

	base, ok = MatchVideoName("launch-video.mp4")
	assert.False(t, ok)
	assert.Empty(t, base)
}

func TestSplitTrackName(t *testing.T) {
	tn, ok := SplitTrackName("x_captions_zz_subtitles_en", "x_captions_zz")
	assert.True(t, ok)
	assert.Equal(t, models.TrackName{Base: "x_captions_zz", Kind: models.TrackKindSubtitles, Locale: "en"}, tn)

	tn, ok = SplitTrackName("myvideo_captions_en", "myvideo")
	assert.True(t, ok)
	assert.Equal(t, models.TrackKindCaptions, tn.Kind)
	assert.Equal(t, "en", tn.Locale)

	_, ok = SplitTrackName("myvideo_captions_en", "other")
	assert.False(t, ok)

	_, ok = SplitTrackName("myvideo_captions_e_", "myvideo")
	assert.False(t, ok)

	_, ok = SplitTrackName("myvideo_captions_en", "")
	assert.False(t, ok)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c`, EscapeLike("a%b_c"))
	assert.Equal(t, `back\\slash`, EscapeLike(`back\slash`))
	assert.Equal(t, "plain-name", EscapeLike("plain-name"))
}

func TestTrackNamePatterns(t *testing.T) {
	assert.Equal(t, []string{
		`a\%b\_c_captions___`,
		`a\%b\_c_chapters___`,
		`a\%b\_c_descriptions___`,
		`a\%b\_c_metadata___`,
		`a\%b\_c_subtitles___`,
	}, TrackNamePatterns("a%b_c"))

	assert.Nil(t, TrackNamePatterns(""))
}
