package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

type PostgresFoodsRepository struct {
	db *sql.DB
}

var _ FoodsRepository = (*PostgresFoodsRepository)(nil)

func NewPostgresFoodsRepository(db *sql.DB) *PostgresFoodsRepository {
	return &PostgresFoodsRepository{db: db}
}

var foodColumns = []string{
	"id", "name", "category", "icon", "serving_size", "calories", "protein", "fat",
	"carbohydrate", "fiber", "sugar", "min_age_months", "max_age_months",
	"is_active", "is_system", "created_by", "created_at", "updated_at",
}

func scanFood(s scanner, f *domain.Food) error {
	return s.Scan(
		&f.ID, &f.Name, &f.Category, &f.Icon, &f.ServingSize, &f.Calories, &f.Protein, &f.Fat,
		&f.Carbohydrate, &f.Fiber, &f.Sugar, &f.MinAgeMonths, &f.MaxAgeMonths,
		&f.IsActive, &f.IsSystem, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt,
	)
}

func (r *PostgresFoodsRepository) GetFood(ctx context.Context, id int64) (*domain.Food, error) {
	query, args, err := psql.Select(foodColumns...).From("foods").
		Where(sq.Eq{"id": id}).Where("deleted_at IS NULL").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build food query: %w", err)
	}
	var f domain.Food
	if err := scanFood(r.db.QueryRowContext(ctx, query, args...), &f); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get food: %w", err)
	}
	return &f, nil
}

func (r *PostgresFoodsRepository) GetFoodsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Food, error) {
	out := make(map[int64]*domain.Food, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := psql.Select(foodColumns...).From("foods").
		Where(sq.Expr("id = ANY(?)", pq.Array(ids))).Where("deleted_at IS NULL").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build foods query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get foods: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var f domain.Food
		if err := scanFood(rows, &f); err != nil {
			return nil, fmt.Errorf("failed to scan food: %w", err)
		}
		out[f.ID] = &f
	}
	return out, rows.Err()
}

func (r *PostgresFoodsRepository) ListFoods(ctx context.Context, filters FoodFilters, page Page) ([]*domain.Food, int, error) {
	where := sq.And{sq.Expr("deleted_at IS NULL")}
	if filters.Search != "" {
		where = append(where, sq.ILike{"name": likePattern(filters.Search)})
	}
	if filters.Category != "" {
		where = append(where, sq.Eq{"category": filters.Category})
	}
	if filters.SystemOnly {
		where = append(where, sq.Eq{"is_system": true})
	}
	if filters.VisibleTo != nil {
		where = append(where, sq.Or{sq.Eq{"is_system": true}, sq.Eq{"created_by": *filters.VisibleTo}})
	}
	if filters.ActiveOnly {
		where = append(where, sq.Eq{"is_active": true})
	}

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("foods").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count foods: %w", err)
	}

	limit, offset := page.limitOffset()
	query, args, err := psql.Select(foodColumns...).From("foods").Where(where).
		OrderBy("name").Limit(limit).Offset(offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build foods query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list foods: %w", err)
	}
	defer rows.Close()

	out := []*domain.Food{}
	for rows.Next() {
		var f domain.Food
		if err := scanFood(rows, &f); err != nil {
			return nil, 0, fmt.Errorf("failed to scan food: %w", err)
		}
		out = append(out, &f)
	}
	return out, total, rows.Err()
}

func (r *PostgresFoodsRepository) FoodCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM foods WHERE deleted_at IS NULL AND is_active ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to list food categories: %w", err)
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresFoodsRepository) CreateFood(ctx context.Context, f *domain.Food) (int64, error) {
	query := `
		INSERT INTO foods (name, category, icon, serving_size, calories, protein, fat, carbohydrate,
		                   fiber, sugar, min_age_months, max_age_months, is_active, is_system, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		f.Name, f.Category, f.Icon, f.ServingSize, f.Calories, f.Protein, f.Fat, f.Carbohydrate,
		f.Fiber, f.Sugar, f.MinAgeMonths, f.MaxAgeMonths, f.IsActive, f.IsSystem, f.CreatedBy,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to create food: %w", err)
	}
	return f.ID, nil
}

func (r *PostgresFoodsRepository) UpdateFood(ctx context.Context, f *domain.Food) error {
	query := `
		UPDATE foods
		SET name = $2, category = $3, icon = $4, serving_size = $5, calories = $6, protein = $7,
		    fat = $8, carbohydrate = $9, fiber = $10, sugar = $11, min_age_months = $12,
		    max_age_months = $13, is_active = $14, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := r.db.ExecContext(ctx, query,
		f.ID, f.Name, f.Category, f.Icon, f.ServingSize, f.Calories, f.Protein,
		f.Fat, f.Carbohydrate, f.Fiber, f.Sugar, f.MinAgeMonths, f.MaxAgeMonths, f.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to update food: %w", err)
	}
	return nil
}

func (r *PostgresFoodsRepository) DeleteFood(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE foods SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to delete food: %w", err)
	}
	return nil
}
