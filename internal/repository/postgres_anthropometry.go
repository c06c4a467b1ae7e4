package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
)

type PostgresAnthropometryRepository struct {
	db *sql.DB
}

var _ AnthropometryRepository = (*PostgresAnthropometryRepository)(nil)

func NewPostgresAnthropometryRepository(db *sql.DB) *PostgresAnthropometryRepository {
	return &PostgresAnthropometryRepository{db: db}
}

const measurementColumns = `id, child_id, measurement_date, weight, height, head_circumference,
	is_lying, measurement_location, weight_for_age_zscore, height_for_age_zscore,
	weight_for_height_zscore, bmi_for_age_zscore, head_circumference_zscore,
	nutritional_status, stunting_status, wasting_status, notes, created_at, updated_at`

func scanMeasurement(s scanner, m *domain.AnthropometryMeasurement) error {
	return s.Scan(
		&m.ID, &m.ChildID, &m.MeasurementDate, &m.Weight, &m.Height, &m.HeadCircumference,
		&m.IsLying, &m.MeasurementLocation, &m.WeightForAgeZScore, &m.HeightForAgeZScore,
		&m.WeightForHeightZScore, &m.BMIForAgeZScore, &m.HeadCircumferenceZScore,
		&m.NutritionalStatus, &m.StuntingStatus, &m.WastingStatus, &m.Notes, &m.CreatedAt, &m.UpdatedAt,
	)
}

func (r *PostgresAnthropometryRepository) ListMeasurements(ctx context.Context, childID int64) ([]*domain.AnthropometryMeasurement, error) {
	query := `SELECT ` + measurementColumns + `
		FROM anthropometry_measurements
		WHERE child_id = $1
		ORDER BY measurement_date DESC`
	rows, err := r.db.QueryContext(ctx, query, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to list measurements: %w", err)
	}
	defer rows.Close()

	out := []*domain.AnthropometryMeasurement{}
	for rows.Next() {
		var m domain.AnthropometryMeasurement
		if err := scanMeasurement(rows, &m); err != nil {
			return nil, fmt.Errorf("failed to scan measurement: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *PostgresAnthropometryRepository) GetMeasurement(ctx context.Context, childID, id int64) (*domain.AnthropometryMeasurement, error) {
	query := `SELECT ` + measurementColumns + ` FROM anthropometry_measurements WHERE id = $1 AND child_id = $2`
	return r.one(ctx, query, id, childID)
}

func (r *PostgresAnthropometryRepository) LatestMeasurement(ctx context.Context, childID int64) (*domain.AnthropometryMeasurement, error) {
	query := `SELECT ` + measurementColumns + `
		FROM anthropometry_measurements
		WHERE child_id = $1
		ORDER BY measurement_date DESC
		LIMIT 1`
	return r.one(ctx, query, childID)
}

func (r *PostgresAnthropometryRepository) one(ctx context.Context, query string, args ...any) (*domain.AnthropometryMeasurement, error) {
	var m domain.AnthropometryMeasurement
	if err := scanMeasurement(r.db.QueryRowContext(ctx, query, args...), &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get measurement: %w", err)
	}
	return &m, nil
}

func (r *PostgresAnthropometryRepository) CreateMeasurement(ctx context.Context, m *domain.AnthropometryMeasurement) (int64, error) {
	query := `
		INSERT INTO anthropometry_measurements (
			child_id, measurement_date, weight, height, head_circumference, is_lying,
			measurement_location, weight_for_age_zscore, height_for_age_zscore,
			weight_for_height_zscore, bmi_for_age_zscore, head_circumference_zscore,
			nutritional_status, stunting_status, wasting_status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		m.ChildID, m.MeasurementDate, m.Weight, m.Height, m.HeadCircumference, m.IsLying,
		m.MeasurementLocation, m.WeightForAgeZScore, m.HeightForAgeZScore,
		m.WeightForHeightZScore, m.BMIForAgeZScore, m.HeadCircumferenceZScore,
		m.NutritionalStatus, m.StuntingStatus, m.WastingStatus, m.Notes,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("failed to create measurement: %w", err)
	}
	return m.ID, nil
}

func (r *PostgresAnthropometryRepository) UpdateMeasurement(ctx context.Context, m *domain.AnthropometryMeasurement) error {
	query := `
		UPDATE anthropometry_measurements
		SET measurement_date = $2, weight = $3, height = $4, head_circumference = $5, is_lying = $6,
		    measurement_location = $7, weight_for_age_zscore = $8, height_for_age_zscore = $9,
		    weight_for_height_zscore = $10, bmi_for_age_zscore = $11, head_circumference_zscore = $12,
		    nutritional_status = $13, stunting_status = $14, wasting_status = $15, notes = $16,
		    updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.MeasurementDate, m.Weight, m.Height, m.HeadCircumference, m.IsLying,
		m.MeasurementLocation, m.WeightForAgeZScore, m.HeightForAgeZScore,
		m.WeightForHeightZScore, m.BMIForAgeZScore, m.HeadCircumferenceZScore,
		m.NutritionalStatus, m.StuntingStatus, m.WastingStatus, m.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update measurement: %w", err)
	}
	return nil
}

func (r *PostgresAnthropometryRepository) DeleteMeasurement(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM anthropometry_measurements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete measurement: %w", err)
	}
	return nil
}
