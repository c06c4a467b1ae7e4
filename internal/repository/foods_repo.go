package repository

import (
	"context"
	"time"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
)

// FoodsRepository stores the food catalog.
type FoodsRepository interface {
	GetFood(ctx context.Context, id int64) (*domain.Food, error)
	GetFoodsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Food, error)
	ListFoods(ctx context.Context, filters FoodFilters, page Page) ([]*domain.Food, int, error)
	FoodCategories(ctx context.Context) ([]string, error)
	CreateFood(ctx context.Context, f *domain.Food) (int64, error)
	UpdateFood(ctx context.Context, f *domain.Food) error
	DeleteFood(ctx context.Context, id int64) error
}

// FoodFilters narrows ListFoods.
type FoodFilters struct {
	Search     string
	Category   string
	SystemOnly bool
	// VisibleTo limits the catalog to system foods plus the user's own.
	VisibleTo *int64
	// ActiveOnly hides inactive foods.
	ActiveOnly bool
}

// FoodLogsRepository stores meal logs and their items.
type FoodLogsRepository interface {
	ListFoodLogs(ctx context.Context, childID int64, filters FoodLogFilters) ([]*domain.FoodLog, error)
	// GetFoodLog returns nil when id does not belong to childID. Items are loaded.
	GetFoodLog(ctx context.Context, childID, id int64) (*domain.FoodLog, error)
	CreateFoodLog(ctx context.Context, l *domain.FoodLog) (int64, error)
	// UpdateFoodLog replaces the header and all items.
	UpdateFoodLog(ctx context.Context, l *domain.FoodLog) error
	DeleteFoodLog(ctx context.Context, id int64) error

	// DailyTotals sums the logs of each day in [from, to].
	DailyTotals(ctx context.Context, childID int64, from, to time.Time) ([]domain.DailyNutrition, error)
}

// FoodLogFilters narrows ListFoodLogs.
type FoodLogFilters struct {
	Date     *time.Time
	MealTime string
}
