package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/metrics"
	"github.com/therealutkarshpriyadarshi/webvtt/pkg/models"
)

// Repository is the Postgres attachment store
type Repository struct {
	db      *DB
	filters *filterRegistry
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db, filters: newFilterRegistry()}
}

// RegisterNameFilter registers a name filter under key. Registering an
// existing key is a no-op and returns false.
func (r *Repository) RegisterNameFilter(key string, filter models.NameFilter) bool {
	return r.filters.register(key, filter)
}

// QueryAttachments retrieves the attachments matching q
func (r *Repository) QueryAttachments(ctx context.Context, q models.AttachmentQuery) (attachments []*models.Attachment, err error) {
	defer observe("postgres", "query", time.Now(), &err)

	query, args, err := buildAttachmentSelect(q, r.filters, dollarPlaceholder)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		attachments = append(attachments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query attachments: %w", err)
	}

	return attachments, nil
}

// GetAttachmentByName retrieves the most recent non-trashed attachment named
// name. It returns nil, nil when there is none.
func (r *Repository) GetAttachmentByName(ctx context.Context, name string) (a *models.Attachment, err error) {
	defer observe("postgres", "get_by_name", time.Now(), &err)

	query := `
		SELECT ` + attachmentColumns + `
		FROM attachments
		WHERE name = $1 AND status <> $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	a, err = scanAttachment(r.db.Pool.QueryRow(ctx, query, name, models.AttachmentStatusTrash))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}

	return a, nil
}

// CreateAttachment creates a new attachment record
func (r *Repository) CreateAttachment(ctx context.Context, a *models.Attachment) (err error) {
	defer observe("postgres", "create", time.Now(), &err)

	prepareAttachment(a)

	query := `
		INSERT INTO attachments (id, parent_id, name, title, caption, description, mime_type,
		                         status, path, width, height, menu_order, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`

	err = r.db.Pool.QueryRow(ctx, query,
		a.ID, a.ParentID, a.Name, a.Title, a.Caption, a.Description, a.MimeType,
		a.Status, a.Path, a.Width, a.Height, a.MenuOrder, a.Metadata,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create attachment: %w", err)
	}

	return nil
}

// Health checks if the database is healthy
func (r *Repository) Health(ctx context.Context) error {
	return r.db.Health(ctx)
}

// Close closes the underlying pool
func (r *Repository) Close() error {
	r.db.Close()
	return nil
}

func scanAttachment(row pgx.Row) (*models.Attachment, error) {
	var a models.Attachment
	err := row.Scan(
		&a.ID, &a.ParentID, &a.Name, &a.Title, &a.Caption, &a.Description, &a.MimeType,
		&a.Status, &a.Path, &a.Width, &a.Height, &a.MenuOrder, &a.Metadata,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// prepareAttachment fills the defaults every store applies on insert.
func prepareAttachment(a *models.Attachment) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Status == "" {
		a.Status = models.AttachmentStatusInherit
	}
	if a.Metadata == nil {
		a.Metadata = make(models.Metadata)
	}
}

func observe(store, operation string, start time.Time, err *error) {
	metrics.RecordStoreQuery(store, operation, time.Since(start).Seconds(), *err)
}
