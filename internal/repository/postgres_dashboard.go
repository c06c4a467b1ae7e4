package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
)

type PostgresDashboardRepository struct {
	db *sql.DB
}

var _ DashboardRepository = (*PostgresDashboardRepository)(nil)

func NewPostgresDashboardRepository(db *sql.DB) *PostgresDashboardRepository {
	return &PostgresDashboardRepository{db: db}
}

func (r *PostgresDashboardRepository) Totals(ctx context.Context) (*DashboardTotals, error) {
	var t DashboardTotals
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE user_type = 'parent' AND deleted_at IS NULL),
			(SELECT COUNT(*) FROM children WHERE deleted_at IS NULL),
			(SELECT COUNT(*) FROM children WHERE deleted_at IS NULL AND is_active),
			(SELECT COUNT(DISTINCT child_id) FROM asq3_screenings WHERE overall_status = 'perlu_rujukan'),
			(SELECT COUNT(*) FROM pmt_programs WHERE status = 'active'),
			(SELECT COUNT(*) FROM asq3_screenings)
	`).Scan(&t.TotalParents, &t.TotalChildren, &t.ActiveChildren, &t.AtRiskChildren,
		&t.ActivePmtPrograms, &t.TotalScreenings)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard totals: %w", err)
	}
	return &t, nil
}

func (r *PostgresDashboardRepository) ScreeningDistribution(ctx context.Context) (map[string]int, error) {
	return r.groupCount(ctx, `
		SELECT overall_status, COUNT(*) FROM asq3_screenings
		WHERE overall_status IS NOT NULL
		GROUP BY overall_status`)
}

func (r *PostgresDashboardRepository) PortionDistribution(ctx context.Context) (map[string]int, error) {
	return r.groupCount(ctx, `SELECT portion, COUNT(*) FROM pmt_logs GROUP BY portion`)
}

func (r *PostgresDashboardRepository) NutritionalDistribution(ctx context.Context) (map[string]int, error) {
	return r.groupCount(ctx, `
		SELECT status, COUNT(*) FROM (
			SELECT DISTINCT ON (m.child_id)
			       CASE
			           WHEN m.stunting_status IN ('stunted', 'severely_stunted') THEN 'stunted'
			           WHEN m.wasting_status IN ('wasted', 'severely_wasted') THEN 'wasted'
			           WHEN m.nutritional_status IN ('underweight', 'severely_underweight') THEN 'underweight'
			           ELSE 'normal'
			       END AS status
			FROM anthropometry_measurements m
			JOIN children c ON c.id = m.child_id AND c.deleted_at IS NULL
			ORDER BY m.child_id, m.measurement_date DESC
		) latest
		GROUP BY status`)
}

func (r *PostgresDashboardRepository) groupCount(ctx context.Context, query string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load distribution: %w", err)
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var (
			k string
			n int
		)
		if err := rows.Scan(&k, &n); err != nil {
			return nil, fmt.Errorf("failed to scan distribution: %w", err)
		}
		out[k] = n
	}
	return out, rows.Err()
}

func (r *PostgresDashboardRepository) MonthlyCounts(ctx context.Context, since time.Time) ([]MonthlyCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.month,
		       (SELECT COUNT(*) FROM children c
		        WHERE date_trunc('month', c.created_at) = m.month AND c.deleted_at IS NULL),
		       (SELECT COUNT(*) FROM asq3_screenings s
		        WHERE date_trunc('month', s.created_at) = m.month)
		FROM generate_series(date_trunc('month', $1::timestamptz), date_trunc('month', NOW()), interval '1 month') AS m(month)
		ORDER BY m.month`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly counts: %w", err)
	}
	defer rows.Close()
	out := []MonthlyCount{}
	for rows.Next() {
		var m MonthlyCount
		if err := rows.Scan(&m.Month, &m.Children, &m.Screenings); err != nil {
			return nil, fmt.Errorf("failed to scan monthly count: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PostgresDashboardRepository) ChildrenAtRisk(ctx context.Context, limit int) ([]*AtRiskChild, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.birthday, COALESCE(u.name, ''), s.overall_status, s.screening_date
		FROM children c
		LEFT JOIN users u ON u.id = c.user_id
		JOIN LATERAL (
			SELECT overall_status, screening_date FROM asq3_screenings
			WHERE child_id = c.id AND status = $1
			ORDER BY screening_date DESC, id DESC
			LIMIT 1
		) s ON TRUE
		WHERE c.deleted_at IS NULL AND s.overall_status = $2
		ORDER BY s.screening_date DESC
		LIMIT $3`, domain.ScreeningCompleted, domain.ResultPerluRujukan, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load children at risk: %w", err)
	}
	defer rows.Close()
	out := []*AtRiskChild{}
	for rows.Next() {
		var c AtRiskChild
		if err := rows.Scan(&c.ID, &c.Name, &c.Birthday, &c.ParentName, &c.Status, &c.LastScreening); err != nil {
			return nil, fmt.Errorf("failed to scan child at risk: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *PostgresDashboardRepository) RecentActivities(ctx context.Context, limit int) ([]*Activity, error) {
	rows, err := r.db.QueryContext(ctx, `
		(SELECT 's' || s.id, 'screening', c.name, s.created_at
		 FROM asq3_screenings s JOIN children c ON c.id = s.child_id
		 ORDER BY s.created_at DESC LIMIT $1)
		UNION ALL
		(SELECT 'p' || l.id, 'pmt', c.name, l.logged_at
		 FROM pmt_logs l
		 JOIN pmt_schedules sc ON sc.id = l.schedule_id
		 JOIN children c ON c.id = sc.child_id
		 ORDER BY l.logged_at DESC LIMIT $1)
		ORDER BY 4 DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent activities: %w", err)
	}
	defer rows.Close()
	out := []*Activity{}
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.Type, &a.ChildName, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
