package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
	"github.com/jagoanbunda/jagoanbunda-data/internal/pmt"

	sq "github.com/Masterminds/squirrel"
)

type PostgresPmtRepository struct {
	db *sql.DB
}

var _ PmtRepository = (*PostgresPmtRepository)(nil)

func NewPostgresPmtRepository(db *sql.DB) *PostgresPmtRepository {
	return &PostgresPmtRepository{db: db}
}

const dateLayout = "2006-01-02"

// ---- menus ----

var menuColumns = []string{
	"m.id", "m.name", "m.description", "m.image_url", "m.calories", "m.protein",
	"m.min_age_months", "m.max_age_months", "m.is_active", "m.created_at", "m.updated_at",
}

func menuDest(m *domain.PmtMenu) []any {
	return []any{
		&m.ID, &m.Name, &m.Description, &m.ImageURL, &m.Calories, &m.Protein,
		&m.MinAgeMonths, &m.MaxAgeMonths, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	}
}

func (r *PostgresPmtRepository) ListMenus(ctx context.Context, ageMonths *int) ([]*domain.PmtMenu, error) {
	b := psql.Select(menuColumns...).From("pmt_menus m").Where(sq.Eq{"m.is_active": true})
	if ageMonths != nil {
		b = b.Where(sq.Or{
			sq.And{sq.LtOrEq{"m.min_age_months": *ageMonths}, sq.GtOrEq{"m.max_age_months": *ageMonths}},
			sq.And{sq.Eq{"m.min_age_months": nil}, sq.Eq{"m.max_age_months": nil}},
		})
	}
	query, args, err := b.OrderBy("m.name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build menus query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}
	defer rows.Close()
	out := []*domain.PmtMenu{}
	for rows.Next() {
		var m domain.PmtMenu
		if err := rows.Scan(menuDest(&m)...); err != nil {
			return nil, fmt.Errorf("failed to scan menu: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *PostgresPmtRepository) GetMenu(ctx context.Context, id int64) (*domain.PmtMenu, error) {
	return r.menu(ctx, psql.Select(menuColumns...).From("pmt_menus m").Where(sq.Eq{"m.id": id}))
}

func (r *PostgresPmtRepository) FirstActiveMenu(ctx context.Context) (*domain.PmtMenu, error) {
	return r.menu(ctx, psql.Select(menuColumns...).From("pmt_menus m").
		Where(sq.Eq{"m.is_active": true}).OrderBy("m.id").Limit(1))
}

func (r *PostgresPmtRepository) menu(ctx context.Context, b sq.SelectBuilder) (*domain.PmtMenu, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build menu query: %w", err)
	}
	var m domain.PmtMenu
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(menuDest(&m)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}
	return &m, nil
}

// ---- schedules ----

func scheduleSelect() sq.SelectBuilder {
	cols := append([]string{
		"s.id", "s.program_id", "s.child_id", "s.menu_id", "s.scheduled_date", "s.created_at",
		"c.name", "COALESCE(u.name, '')", "c.user_id",
		"l.id", "l.food_id", "l.portion", "l.photo_url", "l.notes", "l.logged_at",
	}, menuColumns...)
	return psql.Select(cols...).
		From("pmt_schedules s").
		Join("children c ON c.id = s.child_id").
		LeftJoin("users u ON u.id = c.user_id").
		Join("pmt_menus m ON m.id = s.menu_id").
		LeftJoin("pmt_logs l ON l.schedule_id = s.id")
}

func scanSchedule(s scanner) (*domain.PmtSchedule, error) {
	var (
		sch      domain.PmtSchedule
		menu     domain.PmtMenu
		logID    sql.NullInt64
		foodID   sql.NullInt64
		portion  sql.NullString
		photo    sql.NullString
		notes    sql.NullString
		loggedAt sql.NullTime
	)
	dest := append([]any{
		&sch.ID, &sch.ProgramID, &sch.ChildID, &sch.MenuID, &sch.ScheduledDate, &sch.CreatedAt,
		&sch.ChildName, &sch.ParentName, &sch.OwnerID,
		&logID, &foodID, &portion, &photo, &notes, &loggedAt,
	}, menuDest(&menu)...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	sch.Menu = &menu
	if logID.Valid {
		l := &domain.PmtLog{ID: logID.Int64, ScheduleID: sch.ID, Portion: portion.String, LoggedAt: loggedAt.Time}
		if foodID.Valid {
			l.FoodID = &foodID.Int64
		}
		if photo.Valid {
			l.PhotoURL = &photo.String
		}
		if notes.Valid {
			l.Notes = &notes.String
		}
		sch.Log = l
	}
	return &sch, nil
}

func (r *PostgresPmtRepository) ListSchedules(ctx context.Context, filters ScheduleFilters) ([]*domain.PmtSchedule, error) {
	b := scheduleSelect().Where("c.deleted_at IS NULL")
	if filters.ChildID != nil {
		b = b.Where(sq.Eq{"s.child_id": *filters.ChildID})
	}
	if filters.From != nil {
		b = b.Where(sq.GtOrEq{"s.scheduled_date": filters.From.Format(dateLayout)})
	}
	if filters.To != nil {
		b = b.Where(sq.LtOrEq{"s.scheduled_date": filters.To.Format(dateLayout)})
	}
	query, args, err := b.OrderBy("s.scheduled_date", "c.name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build schedules query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()
	out := []*domain.PmtSchedule{}
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresPmtRepository) GetSchedule(ctx context.Context, id int64) (*domain.PmtSchedule, error) {
	query, args, err := scheduleSelect().Where(sq.Eq{"s.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build schedule query: %w", err)
	}
	s, err := scanSchedule(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return s, nil
}

func (r *PostgresPmtRepository) CreateSchedule(ctx context.Context, s *domain.PmtSchedule) (int64, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO pmt_schedules (program_id, child_id, menu_id, scheduled_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		s.ProgramID, s.ChildID, s.MenuID, s.ScheduledDate.Format(dateLayout),
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("failed to create schedule: %w", err)
	}
	return s.ID, nil
}

func (r *PostgresPmtRepository) UpdateSchedule(ctx context.Context, s *domain.PmtSchedule) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE pmt_schedules SET menu_id = $2, scheduled_date = $3, updated_at = NOW() WHERE id = $1`,
		s.ID, s.MenuID, s.ScheduledDate.Format(dateLayout))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	return nil
}

func (r *PostgresPmtRepository) DeleteSchedule(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pmt_schedules WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return nil
}

func (r *PostgresPmtRepository) CountPendingSchedules(ctx context.Context, childID int64, date time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM pmt_schedules s
		LEFT JOIN pmt_logs l ON l.schedule_id = s.id
		WHERE s.child_id = $1 AND s.scheduled_date = $2 AND l.id IS NULL`,
		childID, date.Format(dateLayout)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending schedules: %w", err)
	}
	return n, nil
}

// ---- logs ----

func (r *PostgresPmtRepository) CreateLog(ctx context.Context, l *domain.PmtLog) (int64, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO pmt_logs (schedule_id, food_id, portion, photo_url, notes, logged_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		l.ScheduleID, l.FoodID, l.Portion, l.PhotoURL, l.Notes, l.LoggedAt,
	).Scan(&l.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("failed to create pmt log: %w", err)
	}
	return l.ID, nil
}

func (r *PostgresPmtRepository) UpdateLog(ctx context.Context, l *domain.PmtLog) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE pmt_logs
		SET food_id = $2, portion = $3, photo_url = $4, notes = $5, updated_at = NOW()
		WHERE id = $1`,
		l.ID, l.FoodID, l.Portion, l.PhotoURL, l.Notes)
	if err != nil {
		return fmt.Errorf("failed to update pmt log: %w", err)
	}
	return nil
}

func (r *PostgresPmtRepository) GetLogBySchedule(ctx context.Context, scheduleID int64) (*domain.PmtLog, error) {
	var l domain.PmtLog
	err := r.db.QueryRowContext(ctx, `
		SELECT id, schedule_id, food_id, portion, photo_url, notes, logged_at
		FROM pmt_logs WHERE schedule_id = $1`, scheduleID,
	).Scan(&l.ID, &l.ScheduleID, &l.FoodID, &l.Portion, &l.PhotoURL, &l.Notes, &l.LoggedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pmt log: %w", err)
	}
	return &l, nil
}

// ---- programs ----

func (r *PostgresPmtRepository) CreateProgram(ctx context.Context, p *domain.PmtProgram, dates []time.Time, menuID int64) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO pmt_programs (child_id, start_date, end_date, duration_days, status, created_by, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at`,
			p.ChildID, p.StartDate.Format(dateLayout), p.EndDate.Format(dateLayout),
			p.DurationDays, p.Status, p.CreatedBy, p.Notes,
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			DELETE FROM pmt_schedules
			WHERE child_id = $1 AND scheduled_date BETWEEN $2 AND $3`,
			p.ChildID, p.StartDate.Format(dateLayout), p.EndDate.Format(dateLayout)); err != nil {
			return err
		}

		if len(dates) == 0 {
			return nil
		}
		ins := psql.Insert("pmt_schedules").Columns("program_id", "child_id", "menu_id", "scheduled_date")
		for _, d := range dates {
			ins = ins.Values(p.ID, p.ChildID, menuID, d.Format(dateLayout))
		}
		query, args, err := ins.ToSql()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create pmt program: %w", err)
	}
	p.TotalDays = len(dates)
	return nil
}

func programSelect() sq.SelectBuilder {
	return psql.Select(
		"p.id", "p.child_id", "p.start_date", "p.end_date", "p.duration_days", "p.status",
		"p.created_by", "p.notes", "p.created_at", "p.updated_at", "c.name", "COALESCE(u.name, '')",
		"(SELECT COUNT(*) FROM pmt_schedules s JOIN pmt_logs l ON l.schedule_id = s.id WHERE s.program_id = p.id)",
		"(SELECT COUNT(*) FROM pmt_schedules s WHERE s.program_id = p.id)",
	).
		From("pmt_programs p").
		Join("children c ON c.id = p.child_id").
		LeftJoin("users u ON u.id = c.user_id")
}

func scanProgram(s scanner, p *domain.PmtProgram) error {
	return s.Scan(&p.ID, &p.ChildID, &p.StartDate, &p.EndDate, &p.DurationDays, &p.Status,
		&p.CreatedBy, &p.Notes, &p.CreatedAt, &p.UpdatedAt, &p.ChildName, &p.ParentName,
		&p.LoggedDays, &p.TotalDays)
}

func (r *PostgresPmtRepository) GetProgram(ctx context.Context, id int64) (*domain.PmtProgram, error) {
	return r.program(ctx, programSelect().Where(sq.Eq{"p.id": id}))
}

func (r *PostgresPmtRepository) ActiveProgramForChild(ctx context.Context, childID int64) (*domain.PmtProgram, error) {
	return r.program(ctx, programSelect().
		Where(sq.Eq{"p.child_id": childID, "p.status": domain.ProgramActive}).
		OrderBy("p.start_date DESC").Limit(1))
}

func (r *PostgresPmtRepository) program(ctx context.Context, b sq.SelectBuilder) (*domain.PmtProgram, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build program query: %w", err)
	}
	var p domain.PmtProgram
	if err := scanProgram(r.db.QueryRowContext(ctx, query, args...), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get program: %w", err)
	}
	return &p, nil
}

func (r *PostgresPmtRepository) ListPrograms(ctx context.Context, filters ProgramFilters, page Page) ([]*domain.PmtProgram, int, error) {
	where := sq.And{sq.Expr("c.deleted_at IS NULL")}
	if filters.Status != "" {
		where = append(where, sq.Eq{"p.status": filters.Status})
	}
	if filters.Search != "" {
		p := likePattern(filters.Search)
		where = append(where, sq.Or{sq.ILike{"c.name": p}, sq.ILike{"u.name": p}})
	}

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").
		From("pmt_programs p").
		Join("children c ON c.id = p.child_id").
		LeftJoin("users u ON u.id = c.user_id").
		Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count programs: %w", err)
	}

	limit, offset := page.limitOffset()
	query, args, err := programSelect().Where(where).
		OrderBy("p.created_at DESC").Limit(limit).Offset(offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build programs query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list programs: %w", err)
	}
	defer rows.Close()
	out := []*domain.PmtProgram{}
	for rows.Next() {
		var p domain.PmtProgram
		if err := scanProgram(rows, &p); err != nil {
			return nil, 0, fmt.Errorf("failed to scan program: %w", err)
		}
		out = append(out, &p)
	}
	return out, total, rows.Err()
}

func (r *PostgresPmtRepository) SetProgramStatus(ctx context.Context, id int64, status string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE pmt_programs SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update program status: %w", err)
	}
	return nil
}

// ---- reporting ----

func (r *PostgresPmtRepository) ScheduleStats(ctx context.Context, filters StatsFilters) (int, pmt.Breakdown, error) {
	var b pmt.Breakdown
	where := sq.And{sq.Expr("c.deleted_at IS NULL")}
	if filters.ChildID != nil {
		where = append(where, sq.Eq{"s.child_id": *filters.ChildID})
	}
	if filters.ProgramID != nil {
		where = append(where, sq.Eq{"s.program_id": *filters.ProgramID})
	}
	if filters.From != nil {
		where = append(where, sq.GtOrEq{"s.scheduled_date": filters.From.Format(dateLayout)})
	}
	if filters.To != nil {
		where = append(where, sq.LtOrEq{"s.scheduled_date": filters.To.Format(dateLayout)})
	}

	scheduled, err := count(ctx, r.db, psql.Select("COUNT(*)").
		From("pmt_schedules s").
		Join("children c ON c.id = s.child_id").
		Where(where))
	if err != nil {
		return 0, b, fmt.Errorf("failed to count schedules: %w", err)
	}

	query, args, err := psql.Select("l.portion", "COUNT(*)").
		From("pmt_schedules s").
		Join("children c ON c.id = s.child_id").
		Join("pmt_logs l ON l.schedule_id = s.id").
		Where(where).
		GroupBy("l.portion").
		ToSql()
	if err != nil {
		return 0, b, fmt.Errorf("failed to build portion query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, b, fmt.Errorf("failed to count portions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			portion string
			n       int
		)
		if err := rows.Scan(&portion, &n); err != nil {
			return 0, b, fmt.Errorf("failed to scan portion count: %w", err)
		}
		b.Add(portion, n)
	}
	return scheduled, b, rows.Err()
}

func (r *PostgresPmtRepository) ReportRows(ctx context.Context, f domain.PmtReportFilter, page *Page) ([]*domain.PmtReportRow, int, error) {
	where := sq.And{sq.Expr("c.deleted_at IS NULL")}
	if f.DateFrom != nil {
		where = append(where, sq.Expr("l.logged_at::date >= ?", f.DateFrom.Format(dateLayout)))
	}
	if f.DateTo != nil {
		where = append(where, sq.Expr("l.logged_at::date <= ?", f.DateTo.Format(dateLayout)))
	}
	if f.ProgramID != nil {
		where = append(where, sq.Eq{"s.program_id": *f.ProgramID})
	}
	if f.Portion != "" {
		where = append(where, sq.Eq{"l.portion": f.Portion})
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		where = append(where, sq.Or{sq.ILike{"c.name": p}, sq.ILike{"u.name": p}})
	}

	from := func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.From("pmt_logs l").
			Join("pmt_schedules s ON s.id = l.schedule_id").
			Join("children c ON c.id = s.child_id").
			LeftJoin("users u ON u.id = c.user_id").
			Join("pmt_menus m ON m.id = s.menu_id").
			Where(where)
	}

	total, err := count(ctx, r.db, from(psql.Select("COUNT(*)")))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count report rows: %w", err)
	}

	b := from(psql.Select(
		"l.id", "s.id", "s.program_id", "c.id", "c.name", "COALESCE(u.name, '')", "m.name",
		"s.scheduled_date", "l.portion", "l.notes", "l.logged_at",
	)).OrderBy("l.logged_at DESC", "l.id DESC")
	if page != nil {
		limit, offset := page.limitOffset()
		b = b.Limit(limit).Offset(offset)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build report query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list report rows: %w", err)
	}
	defer rows.Close()
	out := []*domain.PmtReportRow{}
	for rows.Next() {
		var row domain.PmtReportRow
		if err := rows.Scan(&row.LogID, &row.ScheduleID, &row.ProgramID, &row.ChildID, &row.ChildName,
			&row.ParentName, &row.MenuName, &row.ScheduledDate, &row.Portion, &row.Notes, &row.LoggedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan report row: %w", err)
		}
		out = append(out, &row)
	}
	return out, total, rows.Err()
}
