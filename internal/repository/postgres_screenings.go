package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"

	sq "github.com/Masterminds/squirrel"
)

type PostgresScreeningsRepository struct {
	db *sql.DB
}

var _ ScreeningsRepository = (*PostgresScreeningsRepository)(nil)

func NewPostgresScreeningsRepository(db *sql.DB) *PostgresScreeningsRepository {
	return &PostgresScreeningsRepository{db: db}
}

var screeningColumns = []string{
	"s.id", "s.child_id", "s.age_interval_id", "s.screening_date", "s.age_at_screening_months",
	"s.age_at_screening_days", "s.status", "s.completed_at", "s.overall_status", "s.notes",
	"s.created_at", "s.updated_at", "c.name", "COALESCE(u.name, '')", "a.age_label",
}

func scanScreening(s scanner, x *domain.Asq3Screening) error {
	return s.Scan(
		&x.ID, &x.ChildID, &x.AgeIntervalID, &x.ScreeningDate, &x.AgeAtScreeningMonths,
		&x.AgeAtScreeningDays, &x.Status, &x.CompletedAt, &x.OverallStatus, &x.Notes,
		&x.CreatedAt, &x.UpdatedAt, &x.ChildName, &x.ParentName, &x.AgeLabel,
	)
}

func screeningFrom(b sq.SelectBuilder) sq.SelectBuilder {
	return b.From("asq3_screenings s").
		Join("children c ON c.id = s.child_id").
		LeftJoin("users u ON u.id = c.user_id").
		Join("asq3_age_intervals a ON a.id = s.age_interval_id")
}

func (r *PostgresScreeningsRepository) CreateScreening(ctx context.Context, s *domain.Asq3Screening) (int64, error) {
	query := `
		INSERT INTO asq3_screenings (child_id, age_interval_id, screening_date, age_at_screening_months,
		                             age_at_screening_days, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		s.ChildID, s.AgeIntervalID, s.ScreeningDate, s.AgeAtScreeningMonths,
		s.AgeAtScreeningDays, s.Status, s.Notes,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to create screening: %w", err)
	}
	return s.ID, nil
}

func (r *PostgresScreeningsRepository) GetScreening(ctx context.Context, id int64) (*domain.Asq3Screening, error) {
	query, args, err := screeningFrom(psql.Select(screeningColumns...)).Where(sq.Eq{"s.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build screening query: %w", err)
	}
	return r.one(ctx, query, args...)
}

func (r *PostgresScreeningsRepository) LatestCompletedScreening(ctx context.Context, childID int64) (*domain.Asq3Screening, error) {
	query, args, err := screeningFrom(psql.Select(screeningColumns...)).
		Where(sq.Eq{"s.child_id": childID, "s.status": domain.ScreeningCompleted}).
		OrderBy("s.completed_at DESC NULLS LAST", "s.id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build screening query: %w", err)
	}
	return r.one(ctx, query, args...)
}

func (r *PostgresScreeningsRepository) one(ctx context.Context, query string, args ...any) (*domain.Asq3Screening, error) {
	var s domain.Asq3Screening
	if err := scanScreening(r.db.QueryRowContext(ctx, query, args...), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get screening: %w", err)
	}
	return &s, nil
}

func (r *PostgresScreeningsRepository) HasScreeningForInterval(ctx context.Context, childID, intervalID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM asq3_screenings
			WHERE child_id = $1 AND age_interval_id = $2 AND status <> 'cancelled'
		)`, childID, intervalID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check screening: %w", err)
	}
	return exists, nil
}

func (r *PostgresScreeningsRepository) ListScreenings(ctx context.Context, filters ScreeningFilters, page Page) ([]*domain.Asq3Screening, int, error) {
	where := sq.And{sq.Expr("c.deleted_at IS NULL")}
	if filters.ChildID != nil {
		where = append(where, sq.Eq{"s.child_id": *filters.ChildID})
	}
	if filters.Status != "" {
		where = append(where, sq.Eq{"s.status": filters.Status})
	}
	if filters.Search != "" {
		p := likePattern(filters.Search)
		where = append(where, sq.Or{sq.ILike{"c.name": p}, sq.ILike{"u.name": p}})
	}

	total, err := count(ctx, r.db, screeningFrom(psql.Select("COUNT(*)")).Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count screenings: %w", err)
	}

	limit, offset := page.limitOffset()
	query, args, err := screeningFrom(psql.Select(screeningColumns...)).
		Where(where).
		OrderBy("s.screening_date DESC", "s.id DESC").
		Limit(limit).Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build screenings query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list screenings: %w", err)
	}
	defer rows.Close()

	out := []*domain.Asq3Screening{}
	for rows.Next() {
		var s domain.Asq3Screening
		if err := scanScreening(rows, &s); err != nil {
			return nil, 0, fmt.Errorf("failed to scan screening: %w", err)
		}
		out = append(out, &s)
	}
	return out, total, rows.Err()
}

func (r *PostgresScreeningsRepository) UpdateScreening(ctx context.Context, s *domain.Asq3Screening) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE asq3_screenings SET status = $2, notes = $3, updated_at = NOW() WHERE id = $1`,
		s.ID, s.Status, s.Notes)
	if err != nil {
		return fmt.Errorf("failed to update screening: %w", err)
	}
	return nil
}

func (r *PostgresScreeningsRepository) DeleteScreening(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM asq3_screenings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete screening: %w", err)
	}
	return nil
}

func (r *PostgresScreeningsRepository) ListAnswers(ctx context.Context, screeningID int64) ([]domain.Asq3Answer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.screening_id, a.question_id, q.domain_id, a.answer, a.score, a.created_at
		FROM asq3_screening_answers a
		JOIN asq3_questions q ON q.id = a.question_id
		WHERE a.screening_id = $1
		ORDER BY a.id`, screeningID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	defer rows.Close()
	out := []domain.Asq3Answer{}
	for rows.Next() {
		var a domain.Asq3Answer
		if err := rows.Scan(&a.ID, &a.ScreeningID, &a.QuestionID, &a.DomainID, &a.Answer, &a.Score, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresScreeningsRepository) SaveAnswers(ctx context.Context, screeningID int64, answers []domain.Asq3Answer) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO asq3_screening_answers (screening_id, question_id, answer, score)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (screening_id, question_id) DO UPDATE
			SET answer = EXCLUDED.answer, score = EXCLUDED.score, updated_at = NOW()
		`
		for _, a := range answers {
			if _, err := tx.ExecContext(ctx, query, screeningID, a.QuestionID, a.Answer, a.Score); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx, `UPDATE asq3_screenings SET updated_at = NOW() WHERE id = $1`, screeningID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save answers: %w", err)
	}
	return nil
}

func (r *PostgresScreeningsRepository) CompleteScreening(ctx context.Context, s *domain.Asq3Screening, results []domain.Asq3Result) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO asq3_screening_results (screening_id, domain_id, total_score, cutoff_score, monitoring_score, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (screening_id, domain_id) DO UPDATE
			SET total_score = EXCLUDED.total_score, cutoff_score = EXCLUDED.cutoff_score,
			    monitoring_score = EXCLUDED.monitoring_score, status = EXCLUDED.status, updated_at = NOW()
		`
		for _, res := range results {
			if _, err := tx.ExecContext(ctx, query,
				s.ID, res.DomainID, res.TotalScore, res.CutoffScore, res.MonitoringScore, res.Status); err != nil {
				return err
			}
		}
		return tx.QueryRowContext(ctx, `
			UPDATE asq3_screenings
			SET status = $2, overall_status = $3, completed_at = NOW(), updated_at = NOW()
			WHERE id = $1
			RETURNING completed_at, updated_at`,
			s.ID, domain.ScreeningCompleted, s.OverallStatus,
		).Scan(&s.CompletedAt, &s.UpdatedAt)
	})
	if err != nil {
		return fmt.Errorf("failed to complete screening: %w", err)
	}
	s.Status = domain.ScreeningCompleted
	return nil
}

func (r *PostgresScreeningsRepository) ListResults(ctx context.Context, screeningID int64) ([]domain.Asq3Result, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.screening_id, r.domain_id, d.code, d.name, r.total_score, r.cutoff_score,
		       r.monitoring_score, r.status, r.created_at
		FROM asq3_screening_results r
		JOIN asq3_domains d ON d.id = r.domain_id
		WHERE r.screening_id = $1
		ORDER BY d.display_order`, screeningID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()
	out := []domain.Asq3Result{}
	for rows.Next() {
		var res domain.Asq3Result
		if err := rows.Scan(&res.ID, &res.ScreeningID, &res.DomainID, &res.DomainCode, &res.DomainName,
			&res.TotalScore, &res.CutoffScore, &res.MonitoringScore, &res.Status, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
