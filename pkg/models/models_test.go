package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataValue(t *testing.T) {
	meta := Metadata{
		"artist": "Someone",
		"year":   2015,
	}

	value, err := meta.Value()
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(value.([]byte), &result))
	assert.Equal(t, "Someone", result["artist"])
}

func TestMetadataValueNil(t *testing.T) {
	var meta Metadata
	value, err := meta.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), value)
}

func TestMetadataScan(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
	}{
		{"bytes", []byte(`{"artist":"Someone","year":2015}`)},
		{"string", `{"artist":"Someone","year":2015}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var meta Metadata
			require.NoError(t, meta.Scan(tt.input))
			assert.Equal(t, "Someone", meta.String("artist"))
			assert.Equal(t, "2015", meta.String("year"))
			assert.Equal(t, "", meta.String("album"))
		})
	}
}

func TestMetadataScanNil(t *testing.T) {
	var meta Metadata
	require.NoError(t, meta.Scan(nil))
	assert.Empty(t, meta)
}

func TestMetadataScanUnsupported(t *testing.T) {
	var meta Metadata
	assert.Error(t, meta.Scan(42))
}

func TestAttachmentKinds(t *testing.T) {
	track := &Attachment{MimeType: MimeTypeVTT}
	video := &Attachment{MimeType: "video/mp4"}

	assert.True(t, track.IsTrack())
	assert.False(t, track.IsVideo())
	assert.True(t, video.IsVideo())
	assert.False(t, video.IsTrack())
}

func TestParseTrackKind(t *testing.T) {
	kind, ok := ParseTrackKind("subtitles")
	assert.True(t, ok)
	assert.Equal(t, TrackKindSubtitles, kind)

	_, ok = ParseTrackKind("Subtitles")
	assert.False(t, ok)
}

func TestTrackKindsAreSorted(t *testing.T) {
	for i := 1; i < len(TrackKinds); i++ {
		assert.Less(t, string(TrackKinds[i-1]), string(TrackKinds[i]))
	}
}

func TestTrackGroupsSorted(t *testing.T) {
	g := NewTrackGroups()
	g.Put(TrackKindSubtitles, LocaleTrack{Locale: "fr", Label: "French", Track: &Attachment{ID: "3"}})
	g.Put(TrackKindCaptions, LocaleTrack{Locale: "en", Label: "English", Track: &Attachment{ID: "1"}})
	g.Put(TrackKindSubtitles, LocaleTrack{Locale: "de", Label: "German", Track: &Attachment{ID: "2"}})
	g.Put(TrackKindSubtitles, LocaleTrack{Locale: "es", Label: "Spanish", Track: &Attachment{ID: "4"}})

	sorted := g.Sorted()
	require.Len(t, sorted, 2)
	assert.Equal(t, 2, g.Len())

	assert.Equal(t, TrackKindCaptions, sorted[0].Kind)
	assert.Equal(t, TrackKindSubtitles, sorted[1].Kind)

	var labels []string
	for _, lt := range sorted[1].Tracks {
		labels = append(labels, lt.Label)
	}
	assert.Equal(t, []string{"French", "German", "Spanish"}, labels)
}

func TestTrackGroupsDuplicateLabelReplaces(t *testing.T) {
	g := NewTrackGroups()
	g.Put(TrackKindCaptions, LocaleTrack{Locale: "en", Label: "en", Track: &Attachment{ID: "1"}})
	g.Put(TrackKindCaptions, LocaleTrack{Locale: "en", Label: "en", Track: &Attachment{ID: "2"}})

	sorted := g.Sorted()
	require.Len(t, sorted, 1)
	require.Len(t, sorted[0].Tracks, 1)
	assert.Equal(t, "2", sorted[0].Tracks[0].Track.ID)
}

func TestPlaylistItemOmitsEmptyTracks(t *testing.T) {
	data, err := json.Marshal(PlaylistItem{Src: "a.mp4", Title: "A"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "webvtt")
	assert.NotContains(t, string(data), "dimensions")
}
