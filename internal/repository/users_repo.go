package repository

import (
	"context"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
)

// UsersRepository stores nakes and parent accounts.
type UsersRepository interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) (int64, error)
	UpdateUser(ctx context.Context, u *domain.User) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	DeleteUser(ctx context.Context, id int64) error

	// ListParents is the nakes parent listing, with each parent's child count.
	ListParents(ctx context.Context, filters UserFilters, page Page) ([]*ParentSummary, int, error)
}

// UserFilters narrows ListParents.
type UserFilters struct {
	Search string // name, email or phone
}

// ParentSummary is a parent row with the number of registered children.
type ParentSummary struct {
	domain.User
	ChildrenCount int `json:"children_count"`
}
