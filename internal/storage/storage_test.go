package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/config"
	"github.com/therealutkarshpriyadarshi/webvtt/pkg/models"
)

func testConfig() config.StorageConfig {
	return config.StorageConfig{
		Endpoint:        "localhost:9000",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		BucketName:      "uploads",
		Region:          "us-east-1",
		URLExpiry:       15 * time.Minute,
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		filePath string
		wantType string
	}{
		{"captions.vtt", "text/vtt"},
		{"CAPTIONS.VTT", "text/vtt"},
		{"video.mp4", "video/mp4"},
		{"video.m4v", "video/mp4"},
		{"video.webm", "video/webm"},
		{"video.ogv", "video/ogg"},
		{"song.mp3", "audio/mpeg"},
		{"unknown.xyz", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filePath, func(t *testing.T) {
			assert.Equal(t, tt.wantType, ContentType(tt.filePath))
		})
	}
}

func TestAttachmentURL_PublicBase(t *testing.T) {
	cfg := testConfig()
	cfg.PublicBaseURL = "https://cdn.example.com/media/"

	s, err := New(cfg, nil)
	require.NoError(t, err)

	u, ok := s.AttachmentURL(context.Background(), &models.Attachment{Path: "2024/05/my talk_captions_en.vtt"})
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/media/2024/05/my%20talk_captions_en.vtt", u)
}

func TestAttachmentURL_Presigned(t *testing.T) {
	s, err := New(testConfig(), nil)
	require.NoError(t, err)

	raw, ok := s.AttachmentURL(context.Background(), &models.Attachment{Path: "tracks/intro_captions_en.vtt"})
	require.True(t, ok)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/uploads/tracks/intro_captions_en.vtt", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestAttachmentURL_NoPath(t *testing.T) {
	s, err := New(testConfig(), nil)
	require.NoError(t, err)

	_, ok := s.AttachmentURL(context.Background(), &models.Attachment{ID: "a1"})
	assert.False(t, ok)

	_, ok = s.AttachmentURL(context.Background(), nil)
	assert.False(t, ok)
}

func TestNewDefaultsExpiry(t *testing.T) {
	cfg := testConfig()
	cfg.URLExpiry = 0

	s, err := New(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, s.urlExpiry)
}
