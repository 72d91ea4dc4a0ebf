package interfaces

import (
	"context"
	"wolwake/internal/models"
)

// UpdateFunc mutates the loaded snapshot in place and reports whether it changed.
type UpdateFunc func(snapshot *models.Snapshot) (bool, error)

// BuildFunc produces the replacement snapshot; previous is nil when none could be read.
type BuildFunc func(previous *models.Snapshot) *models.Snapshot

type StoreInterface interface {
	Load() (*models.Snapshot, error)
	Update(ctx context.Context, fn UpdateFunc) error
	Replace(ctx context.Context, build BuildFunc) error
	Path() string
}
