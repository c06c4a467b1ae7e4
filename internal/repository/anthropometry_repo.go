package repository

import (
	"context"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
)

// AnthropometryRepository stores growth measurements with their computed z-scores.
type AnthropometryRepository interface {
	ListMeasurements(ctx context.Context, childID int64) ([]*domain.AnthropometryMeasurement, error)
	// GetMeasurement returns nil when id does not belong to childID.
	GetMeasurement(ctx context.Context, childID, id int64) (*domain.AnthropometryMeasurement, error)
	LatestMeasurement(ctx context.Context, childID int64) (*domain.AnthropometryMeasurement, error)
	CreateMeasurement(ctx context.Context, m *domain.AnthropometryMeasurement) (int64, error)
	UpdateMeasurement(ctx context.Context, m *domain.AnthropometryMeasurement) error
	DeleteMeasurement(ctx context.Context, id int64) error
}
