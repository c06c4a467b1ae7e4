package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"

	sq "github.com/Masterminds/squirrel"
)

type PostgresUsersRepository struct {
	db *sql.DB
}

var _ UsersRepository = (*PostgresUsersRepository)(nil)

func NewPostgresUsersRepository(db *sql.DB) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db}
}

const userColumns = `id, name, email, password, user_type, phone, avatar_url,
	push_notifications, weekly_report, created_at, updated_at`

func scanUser(s scanner, u *domain.User) error {
	return s.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.UserType, &u.Phone, &u.AvatarURL,
		&u.PushNotifications, &u.WeeklyReport, &u.CreatedAt, &u.UpdatedAt,
	)
}

func (r *PostgresUsersRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`
	var u domain.User
	if err := scanUser(r.db.QueryRowContext(ctx, query, id), &u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (r *PostgresUsersRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL`
	var u domain.User
	if err := scanUser(r.db.QueryRowContext(ctx, query, email), &u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

func (r *PostgresUsersRepository) CreateUser(ctx context.Context, u *domain.User) (int64, error) {
	query := `
		INSERT INTO users (name, email, password, user_type, phone, avatar_url, push_notifications, weekly_report)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		u.Name, u.Email, u.PasswordHash, u.UserType, u.Phone, u.AvatarURL, u.PushNotifications, u.WeeklyReport,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return u.ID, nil
}

func (r *PostgresUsersRepository) UpdateUser(ctx context.Context, u *domain.User) error {
	query := `
		UPDATE users
		SET name = $2, email = $3, phone = $4, avatar_url = $5,
		    push_notifications = $6, weekly_report = $7, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.Name, u.Email, u.Phone, u.AvatarURL, u.PushNotifications, u.WeeklyReport,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (r *PostgresUsersRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET password = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id, hash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (r *PostgresUsersRepository) DeleteUser(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (r *PostgresUsersRepository) ListParents(ctx context.Context, filters UserFilters, page Page) ([]*ParentSummary, int, error) {
	where := sq.And{
		sq.Eq{"u.user_type": domain.UserTypeParent},
		sq.Expr("u.deleted_at IS NULL"),
	}
	if filters.Search != "" {
		p := likePattern(filters.Search)
		where = append(where, sq.Or{
			sq.ILike{"u.name": p},
			sq.ILike{"u.email": p},
			sq.ILike{"u.phone": p},
		})
	}

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("users u").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count parents: %w", err)
	}

	limit, offset := page.limitOffset()
	query, args, err := psql.
		Select(
			"u.id", "u.name", "u.email", "u.password", "u.user_type", "u.phone", "u.avatar_url",
			"u.push_notifications", "u.weekly_report", "u.created_at", "u.updated_at",
			"(SELECT COUNT(*) FROM children c WHERE c.user_id = u.id AND c.deleted_at IS NULL)",
		).
		From("users u").
		Where(where).
		OrderBy("u.created_at DESC").
		Limit(limit).Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build parents query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list parents: %w", err)
	}
	defer rows.Close()

	out := []*ParentSummary{}
	for rows.Next() {
		var p ParentSummary
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.UserType, &p.Phone, &p.AvatarURL,
			&p.PushNotifications, &p.WeeklyReport, &p.CreatedAt, &p.UpdatedAt, &p.ChildrenCount,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan parent: %w", err)
		}
		out = append(out, &p)
	}
	return out, total, rows.Err()
}
