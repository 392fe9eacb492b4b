package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/therealutkarshpriyadarshi/webvtt/internal/config"
	"github.com/therealutkarshpriyadarshi/webvtt/pkg/models"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// ErrUnsupportedDriver is returned by Open for an unknown driver name.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Store is an attachment store. Repository, SQLiteStore and MemoryStore
// implement it with the same query semantics.
type Store interface {
	RegisterNameFilter(key string, filter models.NameFilter) bool
	QueryAttachments(ctx context.Context, q models.AttachmentQuery) ([]*models.Attachment, error)
	GetAttachmentByName(ctx context.Context, name string) (*models.Attachment, error)
	CreateAttachment(ctx context.Context, a *models.Attachment) error
	Health(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*Repository)(nil)
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

// Open connects to the store selected by cfg.Driver
func Open(cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case DriverPostgres, "":
		db, err := New(cfg)
		if err != nil {
			return nil, err
		}
		return NewRepository(db), nil
	case DriverSQLite:
		return OpenSQLite(cfg.Path)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
}
