package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

type PostgresFoodLogsRepository struct {
	db *sql.DB
}

var _ FoodLogsRepository = (*PostgresFoodLogsRepository)(nil)

func NewPostgresFoodLogsRepository(db *sql.DB) *PostgresFoodLogsRepository {
	return &PostgresFoodLogsRepository{db: db}
}

var foodLogColumns = []string{
	"id", "child_id", "log_date", "meal_time", "total_calories", "total_protein",
	"total_fat", "total_carbohydrate", "notes", "created_at", "updated_at",
}

func scanFoodLog(s scanner, l *domain.FoodLog) error {
	return s.Scan(
		&l.ID, &l.ChildID, &l.LogDate, &l.MealTime, &l.TotalCalories, &l.TotalProtein,
		&l.TotalFat, &l.TotalCarbohydrate, &l.Notes, &l.CreatedAt, &l.UpdatedAt,
	)
}

func (r *PostgresFoodLogsRepository) ListFoodLogs(ctx context.Context, childID int64, filters FoodLogFilters) ([]*domain.FoodLog, error) {
	b := psql.Select(foodLogColumns...).From("food_logs").Where(sq.Eq{"child_id": childID})
	if filters.Date != nil {
		b = b.Where(sq.Eq{"log_date": filters.Date.Format("2006-01-02")})
	}
	if filters.MealTime != "" {
		b = b.Where(sq.Eq{"meal_time": filters.MealTime})
	}
	query, args, err := b.OrderBy("log_date DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build food logs query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list food logs: %w", err)
	}
	logs := []*domain.FoodLog{}
	byID := map[int64]*domain.FoodLog{}
	ids := []int64{}
	for rows.Next() {
		var l domain.FoodLog
		if err := scanFoodLog(rows, &l); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan food log: %w", err)
		}
		l.Items = []domain.FoodLogItem{}
		logs = append(logs, &l)
		byID[l.ID] = &l
		ids = append(ids, l.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list food logs: %w", err)
	}

	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if l := byID[it.FoodLogID]; l != nil {
			l.Items = append(l.Items, it)
		}
	}
	return logs, nil
}

func (r *PostgresFoodLogsRepository) GetFoodLog(ctx context.Context, childID, id int64) (*domain.FoodLog, error) {
	query, args, err := psql.Select(foodLogColumns...).From("food_logs").
		Where(sq.Eq{"id": id, "child_id": childID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build food log query: %w", err)
	}
	var l domain.FoodLog
	if err := scanFoodLog(r.db.QueryRowContext(ctx, query, args...), &l); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get food log: %w", err)
	}
	items, err := r.items(ctx, []int64{l.ID})
	if err != nil {
		return nil, err
	}
	l.Items = items
	return &l, nil
}

func (r *PostgresFoodLogsRepository) items(ctx context.Context, logIDs []int64) ([]domain.FoodLogItem, error) {
	out := []domain.FoodLogItem{}
	if len(logIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT i.id, i.food_log_id, i.food_id, COALESCE(f.name, ''), i.quantity, i.serving_size,
		       i.calories, i.protein, i.fat, i.carbohydrate
		FROM food_log_items i
		LEFT JOIN foods f ON f.id = i.food_id
		WHERE i.food_log_id = ANY($1)
		ORDER BY i.id
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(logIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list food log items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it domain.FoodLogItem
		if err := rows.Scan(&it.ID, &it.FoodLogID, &it.FoodID, &it.FoodName, &it.Quantity, &it.ServingSize,
			&it.Calories, &it.Protein, &it.Fat, &it.Carbohydrate); err != nil {
			return nil, fmt.Errorf("failed to scan food log item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *PostgresFoodLogsRepository) CreateFoodLog(ctx context.Context, l *domain.FoodLog) (int64, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO food_logs (child_id, log_date, meal_time, total_calories, total_protein,
			                       total_fat, total_carbohydrate, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at, updated_at
		`
		if err := tx.QueryRowContext(ctx, query,
			l.ChildID, l.LogDate, l.MealTime, l.TotalCalories, l.TotalProtein,
			l.TotalFat, l.TotalCarbohydrate, l.Notes,
		).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return err
		}
		return insertFoodLogItems(ctx, tx, l)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("failed to create food log: %w", err)
	}
	return l.ID, nil
}

func (r *PostgresFoodLogsRepository) UpdateFoodLog(ctx context.Context, l *domain.FoodLog) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			UPDATE food_logs
			SET log_date = $2, meal_time = $3, total_calories = $4, total_protein = $5,
			    total_fat = $6, total_carbohydrate = $7, notes = $8, updated_at = NOW()
			WHERE id = $1
		`
		if _, err := tx.ExecContext(ctx, query,
			l.ID, l.LogDate, l.MealTime, l.TotalCalories, l.TotalProtein,
			l.TotalFat, l.TotalCarbohydrate, l.Notes,
		); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM food_log_items WHERE food_log_id = $1`, l.ID); err != nil {
			return err
		}
		return insertFoodLogItems(ctx, tx, l)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update food log: %w", err)
	}
	return nil
}

func insertFoodLogItems(ctx context.Context, tx *sql.Tx, l *domain.FoodLog) error {
	query := `
		INSERT INTO food_log_items (food_log_id, food_id, quantity, serving_size, calories, protein, fat, carbohydrate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	for i := range l.Items {
		it := &l.Items[i]
		it.FoodLogID = l.ID
		if err := tx.QueryRowContext(ctx, query,
			it.FoodLogID, it.FoodID, it.Quantity, it.ServingSize, it.Calories, it.Protein, it.Fat, it.Carbohydrate,
		).Scan(&it.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresFoodLogsRepository) DeleteFoodLog(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM food_logs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete food log: %w", err)
	}
	return nil
}

func (r *PostgresFoodLogsRepository) DailyTotals(ctx context.Context, childID int64, from, to time.Time) ([]domain.DailyNutrition, error) {
	query := `
		SELECT log_date, SUM(total_calories), SUM(total_protein), SUM(total_carbohydrate), SUM(total_fat)
		FROM food_logs
		WHERE child_id = $1 AND log_date BETWEEN $2 AND $3
		GROUP BY log_date
		ORDER BY log_date
	`
	rows, err := r.db.QueryContext(ctx, query, childID, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to sum food logs: %w", err)
	}
	defer rows.Close()

	out := []domain.DailyNutrition{}
	for rows.Next() {
		var d domain.DailyNutrition
		if err := rows.Scan(&d.Date, &d.Calories, &d.Protein, &d.Carbohydrate, &d.Fat); err != nil {
			return nil, fmt.Errorf("failed to scan daily totals: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
