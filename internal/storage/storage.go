package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/config"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/logging"
	"github.com/therealutkarshpriyadarshi/webvtt/pkg/models"
)

const defaultURLExpiry = time.Hour

// Storage serves attachment objects and their public URLs
type Storage struct {
	client        *minio.Client
	bucketName    string
	region        string
	publicBaseURL string
	urlExpiry     time.Duration
	logger        *logging.Logger
}

// New creates a new storage client. It does not contact the server.
func New(cfg config.StorageConfig, logger *logging.Logger) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	if logger == nil {
		logger = logging.NewNopLogger()
	}

	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = defaultURLExpiry
	}

	return &Storage{
		client:        client,
		bucketName:    cfg.BucketName,
		region:        cfg.Region,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		urlExpiry:     expiry,
		logger:        logger,
	}, nil
}

// EnsureBucket creates the bucket when it does not exist yet
func (s *Storage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{
			Region: s.region,
		})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Upload uploads an object to storage
func (s *Storage) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucketName, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}

	return nil
}

// UploadFile uploads a file from local filesystem
func (s *Storage) UploadFile(ctx context.Context, objectName, filePath string) error {
	_, err := s.client.FPutObject(ctx, s.bucketName, objectName, filePath, minio.PutObjectOptions{
		ContentType: ContentType(filePath),
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}

	return nil
}

// GetURL returns the public URL of an object: a link under the public base
// URL when one is configured, a presigned GET URL otherwise.
func (s *Storage) GetURL(ctx context.Context, objectName string) (string, error) {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + escapeObjectPath(objectName), nil
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucketName, objectName, s.urlExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate URL: %w", err)
	}

	return u.String(), nil
}

// AttachmentURL resolves the public URL of an attachment's object. ok is
// false when the attachment has no object or no URL can be produced.
func (s *Storage) AttachmentURL(ctx context.Context, a *models.Attachment) (string, bool) {
	if a == nil || a.Path == "" {
		return "", false
	}

	u, err := s.GetURL(ctx, a.Path)
	if err != nil {
		s.logger.WithAttachmentID(a.ID).WithError(err).Debug("Attachment URL unavailable")
		return "", false
	}
	return u, true
}

func escapeObjectPath(objectName string) string {
	segments := strings.Split(strings.TrimLeft(objectName, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// ContentType returns the MIME type stored for an uploaded file
func ContentType(filePath string) string {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".vtt":
		return models.MimeTypeVTT
	case ".mp4", ".m4v":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".ogv":
		return "video/ogg"
	case ".mov":
		return "video/quicktime"
	case ".mp3":
		return "audio/mpeg"
	case ".ogg":
		return "audio/ogg"
	case ".m4a":
		return "audio/mp4"
	case ".wav":
		return "audio/wav"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
