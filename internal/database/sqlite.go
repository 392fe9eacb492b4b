package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/therealutkarshpriyadarshi/webvtt/pkg/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS attachments (
	id          TEXT PRIMARY KEY,
	parent_id   TEXT NOT NULL DEFAULT '',
	name        TEXT NOT NULL,
	title       TEXT NOT NULL DEFAULT '',
	caption     TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	mime_type   TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'inherit',
	path        TEXT NOT NULL DEFAULT '',
	width       INTEGER NOT NULL DEFAULT 0,
	height      INTEGER NOT NULL DEFAULT 0,
	menu_order  INTEGER NOT NULL DEFAULT 0,
	metadata    TEXT NOT NULL DEFAULT '{}',
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_attachments_name ON attachments (name);
CREATE INDEX IF NOT EXISTS idx_attachments_parent ON attachments (parent_id);
`

// sqliteTimeFormat is fixed width so timestamps sort as text.
const sqliteTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore is an embedded attachment store backed by SQLite.
type SQLiteStore struct {
	db      *sql.DB
	filters *filterRegistry
}

// sqlitePragmas are applied by the driver to every new connection.
var sqlitePragmas = []string{
	"busy_timeout(5000)",
	"case_sensitive_like(1)",
}

// sqliteDSN turns a database path into a URI carrying sqlitePragmas.
func sqliteDSN(path string) string {
	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	for _, pragma := range sqlitePragmas {
		dsn += sep + "_pragma=" + pragma
		sep = "&"
	}
	return dsn
}

// OpenSQLite opens (or creates) the SQLite database at path and applies the
// schema. Use ":memory:" for a throwaway database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across queries.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db, filters: newFilterRegistry()}, nil
}

// RegisterNameFilter registers a name filter under key. Registering an
// existing key is a no-op and returns false.
func (s *SQLiteStore) RegisterNameFilter(key string, filter models.NameFilter) bool {
	return s.filters.register(key, filter)
}

// QueryAttachments retrieves the attachments matching q.
func (s *SQLiteStore) QueryAttachments(ctx context.Context, q models.AttachmentQuery) (attachments []*models.Attachment, err error) {
	defer observe("sqlite", "query", time.Now(), &err)

	query, args, err := buildAttachmentSelect(q, s.filters, questionPlaceholder)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanSQLiteAttachment(rows)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query attachments: %w", err)
	}

	return attachments, nil
}

// GetAttachmentByName retrieves the most recent non-trashed attachment named
// name. It returns nil, nil when there is none.
func (s *SQLiteStore) GetAttachmentByName(ctx context.Context, name string) (a *models.Attachment, err error) {
	defer observe("sqlite", "get_by_name", time.Now(), &err)

	row := s.db.QueryRowContext(ctx, `
		SELECT `+attachmentColumns+`
		FROM attachments
		WHERE name = ? AND status <> ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		name, models.AttachmentStatusTrash,
	)

	a, err = scanSQLiteAttachment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// CreateAttachment inserts a new attachment.
func (s *SQLiteStore) CreateAttachment(ctx context.Context, a *models.Attachment) (err error) {
	defer observe("sqlite", "create", time.Now(), &err)

	prepareAttachment(a)
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	meta, err := a.Metadata.Value()
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO attachments (id, parent_id, name, title, caption, description, mime_type,
		                         status, path, width, height, menu_order, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ParentID, a.Name, a.Title, a.Caption, a.Description, a.MimeType,
		a.Status, a.Path, a.Width, a.Height, a.MenuOrder, string(meta.([]byte)),
		a.CreatedAt.UTC().Format(sqliteTimeFormat), a.UpdatedAt.Format(sqliteTimeFormat),
	)
	if err != nil {
		return fmt.Errorf("insert attachment: %w", err)
	}
	return nil
}

// Health pings the database.
func (s *SQLiteStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteAttachment(row rowScanner) (*models.Attachment, error) {
	var (
		a                models.Attachment
		created, updated string
	)
	err := row.Scan(
		&a.ID, &a.ParentID, &a.Name, &a.Title, &a.Caption, &a.Description, &a.MimeType,
		&a.Status, &a.Path, &a.Width, &a.Height, &a.MenuOrder, &a.Metadata,
		&created, &updated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan attachment: %w", err)
	}

	if a.CreatedAt, err = time.Parse(sqliteTimeFormat, created); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if a.UpdatedAt, err = time.Parse(sqliteTimeFormat, updated); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &a, nil
}
