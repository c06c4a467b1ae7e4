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

type PostgresAsq3ReferenceRepository struct {
	db *sql.DB
}

var _ Asq3ReferenceRepository = (*PostgresAsq3ReferenceRepository)(nil)

func NewPostgresAsq3ReferenceRepository(db *sql.DB) *PostgresAsq3ReferenceRepository {
	return &PostgresAsq3ReferenceRepository{db: db}
}

func (r *PostgresAsq3ReferenceRepository) ListDomains(ctx context.Context) ([]domain.Asq3Domain, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, code, name, icon, color, display_order FROM asq3_domains ORDER BY display_order, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	defer rows.Close()
	out := []domain.Asq3Domain{}
	for rows.Next() {
		var d domain.Asq3Domain
		if err := rows.Scan(&d.ID, &d.Code, &d.Name, &d.Icon, &d.Color, &d.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan domain: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

const intervalColumns = `id, age_months, age_label, min_age_days, max_age_days`

func scanInterval(s scanner, a *domain.Asq3AgeInterval) error {
	return s.Scan(&a.ID, &a.AgeMonths, &a.AgeLabel, &a.MinAgeDays, &a.MaxAgeDays)
}

func (r *PostgresAsq3ReferenceRepository) ListAgeIntervals(ctx context.Context) ([]domain.Asq3AgeInterval, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+intervalColumns+` FROM asq3_age_intervals ORDER BY age_months`)
	if err != nil {
		return nil, fmt.Errorf("failed to list age intervals: %w", err)
	}
	defer rows.Close()
	out := []domain.Asq3AgeInterval{}
	for rows.Next() {
		var a domain.Asq3AgeInterval
		if err := scanInterval(rows, &a); err != nil {
			return nil, fmt.Errorf("failed to scan age interval: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresAsq3ReferenceRepository) GetAgeInterval(ctx context.Context, id int64) (*domain.Asq3AgeInterval, error) {
	return r.interval(ctx, `SELECT `+intervalColumns+` FROM asq3_age_intervals WHERE id = $1`, id)
}

func (r *PostgresAsq3ReferenceRepository) IntervalForAgeDays(ctx context.Context, ageDays int) (*domain.Asq3AgeInterval, error) {
	return r.interval(ctx, `SELECT `+intervalColumns+`
		FROM asq3_age_intervals
		WHERE min_age_days <= $1 AND max_age_days >= $1
		ORDER BY age_months
		LIMIT 1`, ageDays)
}

func (r *PostgresAsq3ReferenceRepository) interval(ctx context.Context, query string, args ...any) (*domain.Asq3AgeInterval, error) {
	var a domain.Asq3AgeInterval
	if err := scanInterval(r.db.QueryRowContext(ctx, query, args...), &a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get age interval: %w", err)
	}
	return &a, nil
}

func (r *PostgresAsq3ReferenceRepository) Cutoffs(ctx context.Context, intervalID int64) (map[int64]domain.Asq3CutoffScore, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, age_interval_id, domain_id, cutoff_score, monitoring_score, max_score
		FROM asq3_cutoff_scores
		WHERE age_interval_id = $1`, intervalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cutoffs: %w", err)
	}
	defer rows.Close()
	out := map[int64]domain.Asq3CutoffScore{}
	for rows.Next() {
		var c domain.Asq3CutoffScore
		if err := rows.Scan(&c.ID, &c.AgeIntervalID, &c.DomainID, &c.CutoffScore, &c.MonitoringScore, &c.MaxScore); err != nil {
			return nil, fmt.Errorf("failed to scan cutoff: %w", err)
		}
		out[c.DomainID] = c
	}
	return out, rows.Err()
}

const questionSelect = `
	SELECT q.id, q.age_interval_id, q.domain_id, d.code, q.question_number, q.question_text,
	       q.hint_text, q.image_url, q.score_yes, q.score_sometimes, q.score_no, q.display_order
	FROM asq3_questions q
	JOIN asq3_domains d ON d.id = q.domain_id`

func scanQuestion(s scanner, q *domain.Asq3Question) error {
	return s.Scan(&q.ID, &q.AgeIntervalID, &q.DomainID, &q.DomainCode, &q.QuestionNumber, &q.QuestionText,
		&q.HintText, &q.ImageURL, &q.ScoreYes, &q.ScoreSometimes, &q.ScoreNo, &q.DisplayOrder)
}

func (r *PostgresAsq3ReferenceRepository) ListQuestions(ctx context.Context, intervalID int64) ([]domain.Asq3Question, error) {
	rows, err := r.db.QueryContext(ctx, questionSelect+`
		WHERE q.age_interval_id = $1
		ORDER BY d.display_order, q.display_order, q.question_number`, intervalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()
	out := []domain.Asq3Question{}
	for rows.Next() {
		var q domain.Asq3Question
		if err := scanQuestion(rows, &q); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *PostgresAsq3ReferenceRepository) QuestionsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Asq3Question, error) {
	out := make(map[int64]*domain.Asq3Question, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx, questionSelect+` WHERE q.id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var q domain.Asq3Question
		if err := scanQuestion(rows, &q); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		out[q.ID] = &q
	}
	return out, rows.Err()
}

func (r *PostgresAsq3ReferenceRepository) CountQuestions(ctx context.Context, intervalID int64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM asq3_questions WHERE age_interval_id = $1`, intervalID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return n, nil
}

func (r *PostgresAsq3ReferenceRepository) ListRecommendations(ctx context.Context, filters RecommendationFilters) ([]domain.Asq3Recommendation, error) {
	b := psql.Select("r.id", "r.domain_id", "d.code", "r.age_interval_id", "r.recommendation_text", "r.priority").
		From("asq3_recommendations r").
		Join("asq3_domains d ON d.id = r.domain_id")
	if len(filters.DomainIDs) > 0 {
		b = b.Where(sq.Expr("r.domain_id = ANY(?)", pq.Array(filters.DomainIDs)))
	}
	if filters.AgeIntervalID != nil {
		b = b.Where(sq.Or{sq.Eq{"r.age_interval_id": *filters.AgeIntervalID}, sq.Eq{"r.age_interval_id": nil}})
	}
	query, args, err := b.OrderBy("r.priority", "d.display_order", "r.id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build recommendations query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	defer rows.Close()
	out := []domain.Asq3Recommendation{}
	for rows.Next() {
		var rec domain.Asq3Recommendation
		if err := rows.Scan(&rec.ID, &rec.DomainID, &rec.DomainCode, &rec.AgeIntervalID, &rec.RecommendationText, &rec.Priority); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PostgresAsq3ReferenceRepository) UpsertDomain(ctx context.Context, d *domain.Asq3Domain) (int64, error) {
	query := `
		INSERT INTO asq3_domains (code, name, icon, color, display_order)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO UPDATE
		SET name = EXCLUDED.name, icon = EXCLUDED.icon, color = EXCLUDED.color,
		    display_order = EXCLUDED.display_order, updated_at = NOW()
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, query, d.Code, d.Name, d.Icon, d.Color, d.DisplayOrder).Scan(&d.ID); err != nil {
		return 0, fmt.Errorf("failed to upsert domain %s: %w", d.Code, err)
	}
	return d.ID, nil
}

func (r *PostgresAsq3ReferenceRepository) UpsertAgeInterval(ctx context.Context, a *domain.Asq3AgeInterval) (int64, error) {
	query := `
		INSERT INTO asq3_age_intervals (age_months, age_label, min_age_days, max_age_days)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (age_months) DO UPDATE
		SET age_label = EXCLUDED.age_label, min_age_days = EXCLUDED.min_age_days,
		    max_age_days = EXCLUDED.max_age_days, updated_at = NOW()
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, query, a.AgeMonths, a.AgeLabel, a.MinAgeDays, a.MaxAgeDays).Scan(&a.ID); err != nil {
		return 0, fmt.Errorf("failed to upsert age interval %d: %w", a.AgeMonths, err)
	}
	return a.ID, nil
}

func (r *PostgresAsq3ReferenceRepository) UpsertCutoff(ctx context.Context, c *domain.Asq3CutoffScore) error {
	query := `
		INSERT INTO asq3_cutoff_scores (age_interval_id, domain_id, cutoff_score, monitoring_score, max_score)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (age_interval_id, domain_id) DO UPDATE
		SET cutoff_score = EXCLUDED.cutoff_score, monitoring_score = EXCLUDED.monitoring_score,
		    max_score = EXCLUDED.max_score, updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, c.AgeIntervalID, c.DomainID, c.CutoffScore, c.MonitoringScore, c.MaxScore); err != nil {
		return fmt.Errorf("failed to upsert cutoff: %w", err)
	}
	return nil
}

func (r *PostgresAsq3ReferenceRepository) EnsureQuestion(ctx context.Context, q *domain.Asq3Question) (bool, error) {
	query := `
		INSERT INTO asq3_questions (age_interval_id, domain_id, question_number, question_text, hint_text,
		                            score_yes, score_sometimes, score_no, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (age_interval_id, domain_id, question_number) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query,
		q.AgeIntervalID, q.DomainID, q.QuestionNumber, q.QuestionText, q.HintText,
		q.ScoreYes, q.ScoreSometimes, q.ScoreNo, q.DisplayOrder)
	if err != nil {
		return false, fmt.Errorf("failed to insert question: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to insert question: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresAsq3ReferenceRepository) FindQuestion(ctx context.Context, ageMonths int, domainCode string, number int) (*domain.Asq3Question, error) {
	query := questionSelect + `
		JOIN asq3_age_intervals a ON a.id = q.age_interval_id
		WHERE a.age_months = $1 AND d.code = $2 AND q.question_number = $3`
	var q domain.Asq3Question
	if err := scanQuestion(r.db.QueryRowContext(ctx, query, ageMonths, domainCode, number), &q); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find question: %w", err)
	}
	return &q, nil
}

func (r *PostgresAsq3ReferenceRepository) SetQuestionImage(ctx context.Context, id int64, url string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE asq3_questions SET image_url = $2, updated_at = NOW() WHERE id = $1`, id, url); err != nil {
		return fmt.Errorf("failed to set question image: %w", err)
	}
	return nil
}
