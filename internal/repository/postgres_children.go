package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"

	sq "github.com/Masterminds/squirrel"
)

type PostgresChildrenRepository struct {
	db *sql.DB
}

var _ ChildrenRepository = (*PostgresChildrenRepository)(nil)

func NewPostgresChildrenRepository(db *sql.DB) *PostgresChildrenRepository {
	return &PostgresChildrenRepository{db: db}
}

var childColumns = []string{
	"c.id", "c.user_id", "c.name", "c.birthday", "c.gender", "c.avatar_url",
	"c.birth_weight", "c.birth_height", "c.head_circumference", "c.is_active", "c.note",
	"c.created_at", "c.updated_at", "COALESCE(u.name, '')",
}

func scanChild(s scanner, c *domain.Child) error {
	return s.Scan(
		&c.ID, &c.UserID, &c.Name, &c.Birthday, &c.Gender, &c.AvatarURL,
		&c.BirthWeight, &c.BirthHeight, &c.HeadCircumference, &c.IsActive, &c.Note,
		&c.CreatedAt, &c.UpdatedAt, &c.ParentName,
	)
}

func childSelect() sq.SelectBuilder {
	return psql.Select(childColumns...).
		From("children c").
		LeftJoin("users u ON u.id = c.user_id").
		Where("c.deleted_at IS NULL")
}

func (r *PostgresChildrenRepository) GetChild(ctx context.Context, id int64) (*domain.Child, error) {
	query, args, err := childSelect().Where(sq.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build child query: %w", err)
	}
	var c domain.Child
	if err := scanChild(r.db.QueryRowContext(ctx, query, args...), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get child: %w", err)
	}
	return &c, nil
}

func (r *PostgresChildrenRepository) ListChildrenByUser(ctx context.Context, userID int64) ([]*domain.Child, error) {
	query, args, err := childSelect().
		Where(sq.Eq{"c.user_id": userID}).
		OrderBy("c.birthday DESC", "c.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build children query: %w", err)
	}
	return r.query(ctx, query, args...)
}

func (r *PostgresChildrenRepository) ListChildren(ctx context.Context, filters ChildFilters, page Page) ([]*domain.Child, int, error) {
	where := sq.And{sq.Expr("c.deleted_at IS NULL")}
	if filters.Search != "" {
		p := likePattern(filters.Search)
		where = append(where, sq.Or{sq.ILike{"c.name": p}, sq.ILike{"u.name": p}})
	}
	if filters.UserID != nil {
		where = append(where, sq.Eq{"c.user_id": *filters.UserID})
	}
	if filters.IsActive != nil {
		where = append(where, sq.Eq{"c.is_active": *filters.IsActive})
	}

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").
		From("children c").
		LeftJoin("users u ON u.id = c.user_id").
		Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count children: %w", err)
	}

	limit, offset := page.limitOffset()
	query, args, err := psql.Select(childColumns...).
		From("children c").
		LeftJoin("users u ON u.id = c.user_id").
		Where(where).
		OrderBy("c.created_at DESC").
		Limit(limit).Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build children query: %w", err)
	}
	out, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresChildrenRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Child, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	defer rows.Close()

	out := []*domain.Child{}
	for rows.Next() {
		var c domain.Child
		if err := scanChild(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan child: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *PostgresChildrenRepository) CreateChild(ctx context.Context, c *domain.Child) (int64, error) {
	query := `
		INSERT INTO children (user_id, name, birthday, gender, avatar_url,
		                      birth_weight, birth_height, head_circumference, is_active, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		c.UserID, c.Name, c.Birthday, c.Gender, c.AvatarURL,
		c.BirthWeight, c.BirthHeight, c.HeadCircumference, c.IsActive, c.Note,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to create child: %w", err)
	}
	return c.ID, nil
}

func (r *PostgresChildrenRepository) UpdateChild(ctx context.Context, c *domain.Child) error {
	query := `
		UPDATE children
		SET name = $2, birthday = $3, gender = $4, avatar_url = $5, birth_weight = $6,
		    birth_height = $7, head_circumference = $8, is_active = $9, note = $10,
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Birthday, c.Gender, c.AvatarURL, c.BirthWeight,
		c.BirthHeight, c.HeadCircumference, c.IsActive, c.Note,
	)
	if err != nil {
		return fmt.Errorf("failed to update child: %w", err)
	}
	return nil
}

func (r *PostgresChildrenRepository) DeleteChild(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE children SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to delete child: %w", err)
	}
	return nil
}
