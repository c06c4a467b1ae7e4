package repository

import (
	"context"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
)

// ChildrenRepository stores children; reads skip soft-deleted rows.
type ChildrenRepository interface {
	GetChild(ctx context.Context, id int64) (*domain.Child, error)
	ListChildrenByUser(ctx context.Context, userID int64) ([]*domain.Child, error)
	ListChildren(ctx context.Context, filters ChildFilters, page Page) ([]*domain.Child, int, error)
	CreateChild(ctx context.Context, c *domain.Child) (int64, error)
	UpdateChild(ctx context.Context, c *domain.Child) error
	DeleteChild(ctx context.Context, id int64) error
}

// ChildFilters narrows the nakes children listing.
type ChildFilters struct {
	Search   string // child or parent name
	UserID   *int64
	IsActive *bool
}
