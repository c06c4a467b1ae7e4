package service

import (
	"context"
	"strings"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"

	"go.uber.org/zap"
)

// ChildService manages children. Parents only reach their own children; nakes
// reach every child.
type ChildService interface {
	ListOwn(ctx context.Context, user *domain.User) ([]*domain.Child, error)
	List(ctx context.Context, filters repository.ChildFilters, page repository.Page) ([]*domain.Child, int, error)
	Get(ctx context.Context, user *domain.User, id int64) (*domain.Child, error)
	Create(ctx context.Context, user *domain.User, req ChildRequest) (*domain.Child, error)
	Update(ctx context.Context, user *domain.User, id int64, req ChildRequest) (*domain.Child, error)
	Delete(ctx context.Context, user *domain.User, id int64) error
	Summary(ctx context.Context, user *domain.User, id int64) (*ChildSummary, error)
}

// ChildRequest creates or updates a child. On update, nil fields are kept.
type ChildRequest struct {
	UserID            *int64   `json:"user_id"`
	Name              *string  `json:"name"`
	Birthday          *string  `json:"birthday"`
	Gender            *string  `json:"gender"`
	AvatarURL         *string  `json:"avatar_url"`
	BirthWeight       *float64 `json:"birth_weight"`
	BirthHeight       *float64 `json:"birth_height"`
	HeadCircumference *float64 `json:"head_circumference"`
	IsActive          *bool    `json:"is_active"`
	Note              *string  `json:"note"`
}

// ChildSummary is the child card of the parent app.
type ChildSummary struct {
	Child             *domain.Child                    `json:"child"`
	AgeMonths         int                              `json:"age_months"`
	AgeDays           int                              `json:"age_days"`
	LatestMeasurement *domain.AnthropometryMeasurement `json:"latest_measurement"`
	LatestScreening   *domain.Asq3Screening            `json:"latest_screening"`
	TodayNutrition    domain.NutritionTotals           `json:"today_nutrition"`
}

type childService struct {
	children      repository.ChildrenRepository
	users         repository.UsersRepository
	anthropometry repository.AnthropometryRepository
	screenings    repository.ScreeningsRepository
	foodLogs      repository.FoodLogsRepository
	clock         Clock
	logger        *zap.Logger
}

func NewChildService(
	children repository.ChildrenRepository,
	users repository.UsersRepository,
	anthropometry repository.AnthropometryRepository,
	screenings repository.ScreeningsRepository,
	foodLogs repository.FoodLogsRepository,
	clock Clock,
	logger *zap.Logger,
) ChildService {
	return &childService{
		children:      children,
		users:         users,
		anthropometry: anthropometry,
		screenings:    screenings,
		foodLogs:      foodLogs,
		clock:         clock,
		logger:        logger,
	}
}

// authorizedChild loads a child the user may access.
func authorizedChild(ctx context.Context, repo repository.ChildrenRepository, user *domain.User, id int64) (*domain.Child, error) {
	c, err := repo.GetChild(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, NotFound(MsgChildNotFound)
	}
	if !user.IsNakes() && c.UserID != user.ID {
		return nil, Forbidden(MsgChildForbidden)
	}
	return c, nil
}

func (s *childService) ListOwn(ctx context.Context, user *domain.User) ([]*domain.Child, error) {
	return s.children.ListChildrenByUser(ctx, user.ID)
}

func (s *childService) List(ctx context.Context, filters repository.ChildFilters, page repository.Page) ([]*domain.Child, int, error) {
	return s.children.ListChildren(ctx, filters, page)
}

func (s *childService) Get(ctx context.Context, user *domain.User, id int64) (*domain.Child, error) {
	return authorizedChild(ctx, s.children, user, id)
}

func (s *childService) Create(ctx context.Context, user *domain.User, req ChildRequest) (*domain.Child, error) {
	c := &domain.Child{UserID: user.ID, IsActive: true}
	if user.IsNakes() {
		if req.UserID == nil {
			return nil, Invalid("user_id", "Orang tua wajib dipilih.")
		}
		parent, err := s.users.GetUser(ctx, *req.UserID)
		if err != nil {
			return nil, err
		}
		if !parent.IsParent() {
			return nil, Invalid("user_id", "Orang tua tidak ditemukan.")
		}
		c.UserID = parent.ID
	}
	if err := s.apply(c, req, true); err != nil {
		return nil, err
	}
	if _, err := s.children.CreateChild(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("Child created", zap.Int64("child_id", c.ID), zap.Int64("user_id", c.UserID))
	return c, nil
}

func (s *childService) Update(ctx context.Context, user *domain.User, id int64, req ChildRequest) (*domain.Child, error) {
	c, err := authorizedChild(ctx, s.children, user, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(c, req, false); err != nil {
		return nil, err
	}
	if err := s.children.UpdateChild(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *childService) apply(c *domain.Child, req ChildRequest, create bool) error {
	v := &ValidationError{}
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if (create || req.Name != nil) && (c.Name == "" || chars(c.Name) > 255) {
		v.Add("name", "Nama anak wajib diisi dan maksimal 255 karakter.")
	}
	if req.Birthday != nil {
		b, ok := parseDate(*req.Birthday)
		switch {
		case !ok:
			v.Add("birthday", "Format tanggal lahir tidak valid.")
		case b.After(s.clock.Today()):
			v.Add("birthday", "Tanggal lahir tidak boleh di masa depan.")
		default:
			c.Birthday = b
		}
	} else if create {
		v.Add("birthday", "Tanggal lahir wajib diisi.")
	}
	if req.Gender != nil {
		switch *req.Gender {
		case "male", "female", "other":
			c.Gender = *req.Gender
		default:
			v.Add("gender", "Jenis kelamin tidak valid.")
		}
	} else if create {
		v.Add("gender", "Jenis kelamin wajib diisi.")
	}
	if req.AvatarURL != nil {
		c.AvatarURL = req.AvatarURL
	}
	for field, val := range map[string]*float64{
		"birth_weight":       req.BirthWeight,
		"birth_height":       req.BirthHeight,
		"head_circumference": req.HeadCircumference,
	} {
		if val != nil && *val < 0 {
			v.Add(field, "Nilai tidak boleh negatif.")
		}
	}
	if req.BirthWeight != nil {
		c.BirthWeight = *req.BirthWeight
	}
	if req.BirthHeight != nil {
		c.BirthHeight = *req.BirthHeight
	}
	if req.HeadCircumference != nil {
		c.HeadCircumference = *req.HeadCircumference
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if req.Note != nil {
		c.Note = req.Note
	}
	return v.OrNil()
}

func (s *childService) Delete(ctx context.Context, user *domain.User, id int64) error {
	if _, err := authorizedChild(ctx, s.children, user, id); err != nil {
		return err
	}
	return s.children.DeleteChild(ctx, id)
}

func (s *childService) Summary(ctx context.Context, user *domain.User, id int64) (*ChildSummary, error) {
	c, err := authorizedChild(ctx, s.children, user, id)
	if err != nil {
		return nil, err
	}
	today := s.clock.Today()
	out := &ChildSummary{
		Child:     c,
		AgeMonths: c.AgeInMonths(today),
		AgeDays:   c.AgeInDays(today),
	}
	if out.LatestMeasurement, err = s.anthropometry.LatestMeasurement(ctx, c.ID); err != nil {
		return nil, err
	}
	if out.LatestScreening, err = s.screenings.LatestCompletedScreening(ctx, c.ID); err != nil {
		return nil, err
	}
	days, err := s.foodLogs.DailyTotals(ctx, c.ID, today, today)
	if err != nil {
		return nil, err
	}
	for _, d := range days {
		if d.Date.Format(dateLayout) == today.Format(dateLayout) {
			out.TodayNutrition = d.NutritionTotals
		}
	}
	return out, nil
}
