package service

import (
	"context"
	"errors"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
	"github.com/jagoanbunda/jagoanbunda-data/internal/growth"
	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"

	"go.uber.org/zap"
)

// AnthropometryService records measurements and computes their WHO z-scores.
type AnthropometryService interface {
	List(ctx context.Context, user *domain.User, childID int64) ([]*domain.AnthropometryMeasurement, error)
	Get(ctx context.Context, user *domain.User, childID, id int64) (*domain.AnthropometryMeasurement, error)
	Create(ctx context.Context, user *domain.User, childID int64, req MeasurementRequest) (*domain.AnthropometryMeasurement, error)
	Update(ctx context.Context, user *domain.User, childID, id int64, req MeasurementRequest) (*domain.AnthropometryMeasurement, error)
	Delete(ctx context.Context, user *domain.User, childID, id int64) error
	GrowthChart(ctx context.Context, user *domain.User, childID int64) (*GrowthChart, error)
}

// MeasurementRequest creates or updates a measurement. On update, nil fields are kept.
type MeasurementRequest struct {
	MeasurementDate     *string  `json:"measurement_date"`
	Weight              *float64 `json:"weight"`
	Height              *float64 `json:"height"`
	HeadCircumference   *float64 `json:"head_circumference"`
	IsLying             *bool    `json:"is_lying"`
	MeasurementLocation *string  `json:"measurement_location"`
	Notes               *string  `json:"notes"`
}

// GrowthChart is a child's measurements ordered by date.
type GrowthChart struct {
	Child struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Gender   string `json:"gender"`
		Birthday string `json:"birthday"`
	} `json:"child"`
	Measurements []growth.ChartPoint `json:"measurements"`
}

type anthropometryService struct {
	children repository.ChildrenRepository
	repo     repository.AnthropometryRepository
	clock    Clock
	logger   *zap.Logger
}

func NewAnthropometryService(children repository.ChildrenRepository, repo repository.AnthropometryRepository, clock Clock, logger *zap.Logger) AnthropometryService {
	return &anthropometryService{children: children, repo: repo, clock: clock, logger: logger}
}

func (s *anthropometryService) List(ctx context.Context, user *domain.User, childID int64) ([]*domain.AnthropometryMeasurement, error) {
	if _, err := authorizedChild(ctx, s.children, user, childID); err != nil {
		return nil, err
	}
	return s.repo.ListMeasurements(ctx, childID)
}

func (s *anthropometryService) Get(ctx context.Context, user *domain.User, childID, id int64) (*domain.AnthropometryMeasurement, error) {
	if _, err := authorizedChild(ctx, s.children, user, childID); err != nil {
		return nil, err
	}
	return s.measurement(ctx, childID, id)
}

func (s *anthropometryService) measurement(ctx context.Context, childID, id int64) (*domain.AnthropometryMeasurement, error) {
	m, err := s.repo.GetMeasurement(ctx, childID, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, NotFound(MsgMeasurementNotFound)
	}
	return m, nil
}

func (s *anthropometryService) Create(ctx context.Context, user *domain.User, childID int64, req MeasurementRequest) (*domain.AnthropometryMeasurement, error) {
	c, err := authorizedChild(ctx, s.children, user, childID)
	if err != nil {
		return nil, err
	}
	m := &domain.AnthropometryMeasurement{ChildID: c.ID, MeasurementLocation: domain.LocationPosyandu}
	if err := s.apply(c, m, req, true); err != nil {
		return nil, err
	}
	growth.Apply(c, m)
	if _, err := s.repo.CreateMeasurement(ctx, m); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Invalid("measurement_date", "Pengukuran pada tanggal ini sudah ada.")
		}
		return nil, err
	}
	s.logger.Info("Measurement recorded",
		zap.Int64("child_id", c.ID),
		zap.Int64("measurement_id", m.ID),
	)
	return m, nil
}

func (s *anthropometryService) Update(ctx context.Context, user *domain.User, childID, id int64, req MeasurementRequest) (*domain.AnthropometryMeasurement, error) {
	c, err := authorizedChild(ctx, s.children, user, childID)
	if err != nil {
		return nil, err
	}
	m, err := s.measurement(ctx, childID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(c, m, req, false); err != nil {
		return nil, err
	}
	growth.Apply(c, m)
	if err := s.repo.UpdateMeasurement(ctx, m); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Invalid("measurement_date", "Pengukuran pada tanggal ini sudah ada.")
		}
		return nil, err
	}
	return m, nil
}

func (s *anthropometryService) apply(c *domain.Child, m *domain.AnthropometryMeasurement, req MeasurementRequest, create bool) error {
	v := &ValidationError{}
	if req.MeasurementDate != nil {
		d, ok := parseDate(*req.MeasurementDate)
		switch {
		case !ok:
			v.Add("measurement_date", "Format tanggal pengukuran tidak valid.")
		case d.After(s.clock.Today()):
			v.Add("measurement_date", "Tanggal pengukuran tidak boleh di masa depan.")
		case d.Before(dateOnly(c.Birthday)):
			v.Add("measurement_date", "Tanggal pengukuran tidak boleh sebelum tanggal lahir.")
		default:
			m.MeasurementDate = d
		}
	} else if create {
		v.Add("measurement_date", "Tanggal pengukuran wajib diisi.")
	}

	checkRange := func(field string, val *float64, lo, hi float64) {
		if val != nil && (*val < lo || *val > hi) {
			v.Add(field, "Nilai di luar rentang yang diizinkan.")
		}
	}
	checkRange("weight", req.Weight, 0.5, 50)
	checkRange("height", req.Height, 30, 150)
	checkRange("head_circumference", req.HeadCircumference, 20, 60)
	if create && req.Weight == nil && req.Height == nil && req.HeadCircumference == nil {
		v.Add("weight", "Minimal satu ukuran wajib diisi.")
	}
	if req.Weight != nil {
		m.Weight = req.Weight
	}
	if req.Height != nil {
		m.Height = req.Height
	}
	if req.HeadCircumference != nil {
		m.HeadCircumference = req.HeadCircumference
	}
	if req.IsLying != nil {
		m.IsLying = *req.IsLying
	}
	if req.MeasurementLocation != nil {
		switch *req.MeasurementLocation {
		case domain.LocationPosyandu, domain.LocationHome, domain.LocationClinic,
			domain.LocationHospital, domain.LocationOther:
			m.MeasurementLocation = *req.MeasurementLocation
		default:
			v.Add("measurement_location", "Lokasi pengukuran tidak valid.")
		}
	}
	if req.Notes != nil {
		m.Notes = req.Notes
	}
	return v.OrNil()
}

func (s *anthropometryService) Delete(ctx context.Context, user *domain.User, childID, id int64) error {
	if _, err := authorizedChild(ctx, s.children, user, childID); err != nil {
		return err
	}
	if _, err := s.measurement(ctx, childID, id); err != nil {
		return err
	}
	return s.repo.DeleteMeasurement(ctx, id)
}

func (s *anthropometryService) GrowthChart(ctx context.Context, user *domain.User, childID int64) (*GrowthChart, error) {
	c, err := authorizedChild(ctx, s.children, user, childID)
	if err != nil {
		return nil, err
	}
	ms, err := s.repo.ListMeasurements(ctx, childID)
	if err != nil {
		return nil, err
	}
	values := make([]domain.AnthropometryMeasurement, 0, len(ms))
	for _, m := range ms {
		values = append(values, *m)
	}

	out := &GrowthChart{Measurements: growth.Chart(c, values)}
	out.Child.ID = c.ID
	out.Child.Name = c.Name
	out.Child.Gender = c.Gender
	out.Child.Birthday = c.Birthday.Format(dateLayout)
	return out, nil
}
