package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Attachment represents an uploaded media file owned by the content store.
// Videos and their sidecar tracks are both attachments; tracks are told apart
// by their MIME type and by a name that follows the track naming convention.
type Attachment struct {
	ID          string    `json:"id" db:"id"`
	ParentID    string    `json:"parent_id,omitempty" db:"parent_id"`
	Name        string    `json:"name" db:"name"`
	Title       string    `json:"title" db:"title"`
	Caption     string    `json:"caption,omitempty" db:"caption"`
	Description string    `json:"description,omitempty" db:"description"`
	MimeType    string    `json:"mime_type" db:"mime_type"`
	Status      string    `json:"status" db:"status"`
	Path        string    `json:"path" db:"path"`
	Width       int       `json:"width,omitempty" db:"width"`
	Height      int       `json:"height,omitempty" db:"height"`
	MenuOrder   int       `json:"menu_order" db:"menu_order"`
	Metadata    Metadata  `json:"metadata,omitempty" db:"metadata"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// IsTrack reports whether the attachment is a WebVTT track file.
func (a *Attachment) IsTrack() bool {
	return a.MimeType == MimeTypeVTT
}

// IsVideo reports whether the attachment is a video.
func (a *Attachment) IsVideo() bool {
	return strings.HasPrefix(a.MimeType, "video/")
}

// Metadata holds additional attachment metadata (artist, album, ...)
type Metadata map[string]interface{}

// Value implements driver.Valuer for database storage
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for database retrieval
func (m *Metadata) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*m = make(Metadata)
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported metadata type %T", value)
	}

	if len(data) == 0 {
		*m = make(Metadata)
		return nil
	}

	return json.Unmarshal(data, m)
}

// String returns the metadata value for key as a string, or "" when absent.
func (m Metadata) String(key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// MIME type constants
const (
	MimeTypeVTT = "text/vtt"
)

// AttachmentStatus constants
const (
	AttachmentStatusAny     = "any"
	AttachmentStatusInherit = "inherit"
	AttachmentStatusPrivate = "private"
	AttachmentStatusTrash   = "trash"
)

// Attachment ordering columns
const (
	OrderByName      = "name"
	OrderByMenuOrder = "menu_order"
	OrderByCreatedAt = "created_at"
	OrderByID        = "id"
)

// NameFilter expands a query value into LIKE patterns that are OR'd
// together against the attachment name.
type NameFilter func(value string) []string

// AttachmentQuery describes an attachment lookup against a store.
type AttachmentQuery struct {
	// MimeType matches exactly, or by top-level type when it has no slash
	// ("video" matches "video/mp4").
	MimeType string
	// Status restricts the status; "" and AttachmentStatusAny match all.
	Status     string
	ParentID   string
	IDs        []string
	ExcludeIDs []string
	// Name matches the attachment name exactly.
	Name string
	// NameFilters maps a registered filter key to its value.
	NameFilters map[string]string
	OrderBy     string
	Descending  bool
	Limit       int
}
