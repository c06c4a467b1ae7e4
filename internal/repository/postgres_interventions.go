package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
)

const interventionSelect = `
	SELECT i.id, i.screening_id, i.domain_id, d.code, d.name, i.type, i.action, i.notes, i.status,
	       i.follow_up_date, i.completed_at, i.created_by, u.name, i.created_at, i.updated_at
	FROM asq3_screening_interventions i
	LEFT JOIN asq3_domains d ON d.id = i.domain_id
	LEFT JOIN users u ON u.id = i.created_by`

func scanIntervention(s scanner, in *domain.Intervention) error {
	return s.Scan(&in.ID, &in.ScreeningID, &in.DomainID, &in.DomainCode, &in.DomainName, &in.Type,
		&in.Action, &in.Notes, &in.Status, &in.FollowUpDate, &in.CompletedAt, &in.CreatedBy,
		&in.CreatorName, &in.CreatedAt, &in.UpdatedAt)
}

func (r *PostgresScreeningsRepository) ListInterventions(ctx context.Context, screeningID int64) ([]*domain.Intervention, error) {
	rows, err := r.db.QueryContext(ctx, interventionSelect+`
		WHERE i.screening_id = $1
		ORDER BY i.created_at DESC, i.id DESC`, screeningID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interventions: %w", err)
	}
	defer rows.Close()
	out := []*domain.Intervention{}
	for rows.Next() {
		var in domain.Intervention
		if err := scanIntervention(rows, &in); err != nil {
			return nil, fmt.Errorf("failed to scan intervention: %w", err)
		}
		out = append(out, &in)
	}
	return out, rows.Err()
}

func (r *PostgresScreeningsRepository) GetIntervention(ctx context.Context, screeningID, id int64) (*domain.Intervention, error) {
	var in domain.Intervention
	err := scanIntervention(r.db.QueryRowContext(ctx, interventionSelect+`
		WHERE i.id = $1 AND i.screening_id = $2`, id, screeningID), &in)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get intervention: %w", err)
	}
	return &in, nil
}

func (r *PostgresScreeningsRepository) CreateIntervention(ctx context.Context, in *domain.Intervention) (int64, error) {
	query := `
		INSERT INTO asq3_screening_interventions (screening_id, domain_id, type, action, notes, status,
		                                          follow_up_date, completed_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		in.ScreeningID, in.DomainID, in.Type, in.Action, in.Notes, in.Status,
		in.FollowUpDate, in.CompletedAt, in.CreatedBy,
	).Scan(&in.ID, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to create intervention: %w", err)
	}
	return in.ID, nil
}

func (r *PostgresScreeningsRepository) UpdateIntervention(ctx context.Context, in *domain.Intervention) error {
	query := `
		UPDATE asq3_screening_interventions
		SET domain_id = $2, type = $3, action = $4, notes = $5, status = $6,
		    follow_up_date = $7, completed_at = $8, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		in.ID, in.DomainID, in.Type, in.Action, in.Notes, in.Status, in.FollowUpDate, in.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to update intervention: %w", err)
	}
	return nil
}

func (r *PostgresScreeningsRepository) DeleteIntervention(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM asq3_screening_interventions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete intervention: %w", err)
	}
	return nil
}
