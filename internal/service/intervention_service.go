package service

import (
	"context"
	"strings"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"

	"go.uber.org/zap"
)

const interventionTextMax = 5000

// InterventionService records the follow-up actions nakes plan for a screening.
type InterventionService interface {
	List(ctx context.Context, screeningID int64) ([]*domain.Intervention, error)
	Create(ctx context.Context, user *domain.User, screeningID int64, req InterventionRequest) (*domain.Intervention, error)
	Update(ctx context.Context, screeningID, id int64, req InterventionRequest) (*domain.Intervention, error)
	Complete(ctx context.Context, screeningID, id int64) (*domain.Intervention, error)
	Delete(ctx context.Context, screeningID, id int64) error
}

// InterventionRequest creates or updates an intervention. On update, nil
// fields are kept.
type InterventionRequest struct {
	DomainID     *int64  `json:"domain_id"`
	Type         *string `json:"type"`
	Action       *string `json:"action"`
	Notes        *string `json:"notes"`
	Status       *string `json:"status"`
	FollowUpDate *string `json:"follow_up_date"`
}

type interventionService struct {
	screenings repository.ScreeningsRepository
	clock      Clock
	logger     *zap.Logger
}

func NewInterventionService(screenings repository.ScreeningsRepository, clock Clock, logger *zap.Logger) InterventionService {
	return &interventionService{screenings: screenings, clock: clock, logger: logger}
}

func (s *interventionService) screening(ctx context.Context, id int64) error {
	sc, err := s.screenings.GetScreening(ctx, id)
	if err != nil {
		return err
	}
	if sc == nil {
		return NotFound(MsgScreeningNotFound)
	}
	return nil
}

func (s *interventionService) intervention(ctx context.Context, screeningID, id int64) (*domain.Intervention, error) {
	if err := s.screening(ctx, screeningID); err != nil {
		return nil, err
	}
	in, err := s.screenings.GetIntervention(ctx, screeningID, id)
	if err != nil {
		return nil, err
	}
	if in == nil {
		return nil, NotFound(MsgInterventionNotFound)
	}
	return in, nil
}

func (s *interventionService) List(ctx context.Context, screeningID int64) ([]*domain.Intervention, error) {
	if err := s.screening(ctx, screeningID); err != nil {
		return nil, err
	}
	return s.screenings.ListInterventions(ctx, screeningID)
}

func (s *interventionService) Create(ctx context.Context, user *domain.User, screeningID int64, req InterventionRequest) (*domain.Intervention, error) {
	if err := s.screening(ctx, screeningID); err != nil {
		return nil, err
	}
	in := &domain.Intervention{
		ScreeningID: screeningID,
		Status:      domain.InterventionPlanned,
		CreatedBy:   &user.ID,
	}
	if err := s.apply(in, req, true); err != nil {
		return nil, err
	}
	if _, err := s.screenings.CreateIntervention(ctx, in); err != nil {
		return nil, err
	}
	s.logger.Info("Intervention created",
		zap.Int64("screening_id", screeningID),
		zap.Int64("intervention_id", in.ID),
		zap.String("type", in.Type),
	)
	return in, nil
}

func (s *interventionService) Update(ctx context.Context, screeningID, id int64, req InterventionRequest) (*domain.Intervention, error) {
	in, err := s.intervention(ctx, screeningID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(in, req, false); err != nil {
		return nil, err
	}
	if err := s.screenings.UpdateIntervention(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}

func (s *interventionService) Complete(ctx context.Context, screeningID, id int64) (*domain.Intervention, error) {
	status := domain.InterventionCompleted
	return s.Update(ctx, screeningID, id, InterventionRequest{Status: &status})
}

func (s *interventionService) Delete(ctx context.Context, screeningID, id int64) error {
	if _, err := s.intervention(ctx, screeningID, id); err != nil {
		return err
	}
	return s.screenings.DeleteIntervention(ctx, id)
}

// apply validates req onto in and keeps completed_at in step with the status.
func (s *interventionService) apply(in *domain.Intervention, req InterventionRequest, create bool) error {
	v := &ValidationError{}
	if req.DomainID != nil {
		in.DomainID = req.DomainID
	}
	if req.Type != nil {
		switch *req.Type {
		case domain.InterventionStimulation, domain.InterventionReferral, domain.InterventionFollowUp,
			domain.InterventionCounseling, domain.InterventionOther:
			in.Type = *req.Type
		default:
			v.Add("type", "Jenis intervensi tidak valid.")
		}
	} else if create {
		v.Add("type", "Jenis intervensi wajib diisi.")
	}
	if req.Action != nil {
		in.Action = strings.TrimSpace(*req.Action)
	}
	if (create || req.Action != nil) && in.Action == "" {
		v.Add("action", "Tindakan wajib diisi.")
	}
	if chars(in.Action) > interventionTextMax {
		v.Add("action", "Tindakan maksimal 5000 karakter.")
	}
	if req.Notes != nil {
		if chars(*req.Notes) > interventionTextMax {
			v.Add("notes", "Catatan maksimal 5000 karakter.")
		}
		in.Notes = req.Notes
	}
	if req.FollowUpDate != nil {
		if *req.FollowUpDate == "" {
			in.FollowUpDate = nil
		} else if d, ok := parseDate(*req.FollowUpDate); !ok {
			v.Add("follow_up_date", "Format tanggal tidak valid.")
		} else if d.Before(s.clock.Today()) {
			v.Add("follow_up_date", "Tanggal tindak lanjut tidak boleh di masa lalu.")
		} else {
			in.FollowUpDate = &d
		}
	}
	if req.Status != nil {
		switch *req.Status {
		case domain.InterventionPlanned, domain.InterventionInProgress, domain.InterventionCompleted, domain.InterventionCancelled:
			in.Status = *req.Status
		default:
			v.Add("status", "Status intervensi tidak valid.")
		}
	}
	if err := v.OrNil(); err != nil {
		return err
	}

	switch {
	case in.Status == domain.InterventionCompleted && in.CompletedAt == nil:
		now := s.clock.Now()
		in.CompletedAt = &now
	case in.Status != domain.InterventionCompleted:
		in.CompletedAt = nil
	}
	return nil
}
