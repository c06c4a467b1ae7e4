package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"

	"go.uber.org/zap"
)

// FoodService manages the food catalog. Nakes manage system foods; parents
// add and edit only their own.
type FoodService interface {
	List(ctx context.Context, user *domain.User, filters repository.FoodFilters, page repository.Page) ([]*domain.Food, int, error)
	Get(ctx context.Context, user *domain.User, id int64) (*domain.Food, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, user *domain.User, req FoodRequest) (*domain.Food, error)
	Update(ctx context.Context, user *domain.User, id int64, req FoodRequest) (*domain.Food, error)
	Delete(ctx context.Context, user *domain.User, id int64) error
}

// FoodRequest creates or updates a food. On update, nil fields are kept.
type FoodRequest struct {
	Name         *string  `json:"name"`
	Category     *string  `json:"category"`
	Icon         *string  `json:"icon"`
	ServingSize  *float64 `json:"serving_size"`
	Calories     *float64 `json:"calories"`
	Protein      *float64 `json:"protein"`
	Fat          *float64 `json:"fat"`
	Carbohydrate *float64 `json:"carbohydrate"`
	Fiber        *float64 `json:"fiber"`
	Sugar        *float64 `json:"sugar"`
	MinAgeMonths *int     `json:"min_age_months"`
	MaxAgeMonths *int     `json:"max_age_months"`
	IsActive     *bool    `json:"is_active"`
}

const msgFoodForbidden = "Anda tidak memiliki akses untuk mengubah makanan ini"

type foodService struct {
	foods  repository.FoodsRepository
	logger *zap.Logger
}

func NewFoodService(foods repository.FoodsRepository, logger *zap.Logger) FoodService {
	return &foodService{foods: foods, logger: logger}
}

func (s *foodService) List(ctx context.Context, user *domain.User, filters repository.FoodFilters, page repository.Page) ([]*domain.Food, int, error) {
	if user.IsNakes() {
		filters.SystemOnly = true
	} else {
		filters.VisibleTo = &user.ID
		filters.ActiveOnly = true
	}
	return s.foods.ListFoods(ctx, filters, page)
}

func (s *foodService) Get(ctx context.Context, user *domain.User, id int64) (*domain.Food, error) {
	f, err := s.foods.GetFood(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil || (!f.IsSystem && !user.IsNakes() && (f.CreatedBy == nil || *f.CreatedBy != user.ID)) {
		return nil, NotFound(MsgFoodNotFound)
	}
	return f, nil
}

func (s *foodService) Categories(ctx context.Context) ([]string, error) {
	return s.foods.FoodCategories(ctx)
}

func (s *foodService) editable(ctx context.Context, user *domain.User, id int64) (*domain.Food, error) {
	f, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if user.IsNakes() {
		if !f.IsSystem {
			return nil, Forbidden(msgFoodForbidden)
		}
		return f, nil
	}
	if f.IsSystem || f.CreatedBy == nil || *f.CreatedBy != user.ID {
		return nil, Forbidden(msgFoodForbidden)
	}
	return f, nil
}

func (s *foodService) Create(ctx context.Context, user *domain.User, req FoodRequest) (*domain.Food, error) {
	f := &domain.Food{ServingSize: 100, IsActive: true, IsSystem: user.IsNakes()}
	if !user.IsNakes() {
		f.CreatedBy = &user.ID
	}
	if err := applyFood(f, req, true); err != nil {
		return nil, err
	}
	if _, err := s.foods.CreateFood(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *foodService) Update(ctx context.Context, user *domain.User, id int64, req FoodRequest) (*domain.Food, error) {
	f, err := s.editable(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if err := applyFood(f, req, false); err != nil {
		return nil, err
	}
	if err := s.foods.UpdateFood(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *foodService) Delete(ctx context.Context, user *domain.User, id int64) error {
	if _, err := s.editable(ctx, user, id); err != nil {
		return err
	}
	return s.foods.DeleteFood(ctx, id)
}

func applyFood(f *domain.Food, req FoodRequest, create bool) error {
	v := &ValidationError{}
	if req.Name != nil {
		f.Name = strings.TrimSpace(*req.Name)
	}
	if (create || req.Name != nil) && (f.Name == "" || chars(f.Name) > 255) {
		v.Add("name", "Nama makanan wajib diisi dan maksimal 255 karakter.")
	}
	if req.Category != nil {
		f.Category = strings.TrimSpace(*req.Category)
	}
	if (create || req.Category != nil) && f.Category == "" {
		v.Add("category", "Kategori wajib diisi.")
	}
	if req.Icon != nil {
		f.Icon = req.Icon
	}
	if req.ServingSize != nil {
		if *req.ServingSize <= 0 {
			v.Add("serving_size", "Takaran saji harus lebih dari 0.")
		}
		f.ServingSize = *req.ServingSize
	}
	nutrients := []struct {
		field string
		in    *float64
		out   *float64
	}{
		{"calories", req.Calories, &f.Calories},
		{"protein", req.Protein, &f.Protein},
		{"fat", req.Fat, &f.Fat},
		{"carbohydrate", req.Carbohydrate, &f.Carbohydrate},
	}
	for _, n := range nutrients {
		if n.in == nil {
			continue
		}
		if *n.in < 0 {
			v.Add(n.field, "Nilai tidak boleh negatif.")
		}
		*n.out = *n.in
	}
	if req.Fiber != nil {
		f.Fiber = req.Fiber
	}
	if req.Sugar != nil {
		f.Sugar = req.Sugar
	}
	if req.MinAgeMonths != nil {
		f.MinAgeMonths = req.MinAgeMonths
	}
	if req.MaxAgeMonths != nil {
		f.MaxAgeMonths = req.MaxAgeMonths
	}
	if f.MinAgeMonths != nil && f.MaxAgeMonths != nil && *f.MinAgeMonths > *f.MaxAgeMonths {
		v.Add("max_age_months", "Usia maksimal harus lebih besar dari usia minimal.")
	}
	if req.IsActive != nil {
		f.IsActive = *req.IsActive
	}
	return v.OrNil()
}

// FoodLogService records meals with their scaled nutrition.
type FoodLogService interface {
	List(ctx context.Context, user *domain.User, childID int64, filters repository.FoodLogFilters) ([]*domain.FoodLog, error)
	Get(ctx context.Context, user *domain.User, childID, id int64) (*domain.FoodLog, error)
	Create(ctx context.Context, user *domain.User, childID int64, req FoodLogRequest) (*domain.FoodLog, error)
	Update(ctx context.Context, user *domain.User, childID, id int64, req FoodLogRequest) (*domain.FoodLog, error)
	Delete(ctx context.Context, user *domain.User, childID, id int64) error
}

type FoodLogRequest struct {
	LogDate  *string              `json:"log_date"`
	MealTime *string              `json:"meal_time"`
	Notes    *string              `json:"notes"`
	Items    []FoodLogItemRequest `json:"items"`
}

type FoodLogItemRequest struct {
	FoodID      int64    `json:"food_id"`
	Quantity    float64  `json:"quantity"`
	ServingSize *float64 `json:"serving_size"`
}

type foodLogService struct {
	children repository.ChildrenRepository
	foods    repository.FoodsRepository
	logs     repository.FoodLogsRepository
	clock    Clock
	logger   *zap.Logger
}

func NewFoodLogService(children repository.ChildrenRepository, foods repository.FoodsRepository, logs repository.FoodLogsRepository, clock Clock, logger *zap.Logger) FoodLogService {
	return &foodLogService{children: children, foods: foods, logs: logs, clock: clock, logger: logger}
}

func (s *foodLogService) List(ctx context.Context, user *domain.User, childID int64, filters repository.FoodLogFilters) ([]*domain.FoodLog, error) {
	if _, err := authorizedChild(ctx, s.children, user, childID); err != nil {
		return nil, err
	}
	return s.logs.ListFoodLogs(ctx, childID, filters)
}

func (s *foodLogService) Get(ctx context.Context, user *domain.User, childID, id int64) (*domain.FoodLog, error) {
	if _, err := authorizedChild(ctx, s.children, user, childID); err != nil {
		return nil, err
	}
	return s.log(ctx, childID, id)
}

func (s *foodLogService) log(ctx context.Context, childID, id int64) (*domain.FoodLog, error) {
	l, err := s.logs.GetFoodLog(ctx, childID, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, NotFound(MsgFoodLogNotFound)
	}
	return l, nil
}

func (s *foodLogService) Create(ctx context.Context, user *domain.User, childID int64, req FoodLogRequest) (*domain.FoodLog, error) {
	if _, err := authorizedChild(ctx, s.children, user, childID); err != nil {
		return nil, err
	}
	l := &domain.FoodLog{ChildID: childID}
	if err := s.apply(ctx, l, req, true); err != nil {
		return nil, err
	}
	if _, err := s.logs.CreateFoodLog(ctx, l); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Invalid("meal_time", "Catatan untuk waktu makan ini sudah ada.")
		}
		return nil, err
	}
	return l, nil
}

func (s *foodLogService) Update(ctx context.Context, user *domain.User, childID, id int64, req FoodLogRequest) (*domain.FoodLog, error) {
	if _, err := authorizedChild(ctx, s.children, user, childID); err != nil {
		return nil, err
	}
	l, err := s.log(ctx, childID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, l, req, false); err != nil {
		return nil, err
	}
	if err := s.logs.UpdateFoodLog(ctx, l); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Invalid("meal_time", "Catatan untuk waktu makan ini sudah ada.")
		}
		return nil, err
	}
	return l, nil
}

// apply validates req onto l and rescales every item from its food. Items
// replace the existing ones when present.
func (s *foodLogService) apply(ctx context.Context, l *domain.FoodLog, req FoodLogRequest, create bool) error {
	v := &ValidationError{}
	if req.LogDate != nil {
		d, ok := parseDate(*req.LogDate)
		switch {
		case !ok:
			v.Add("log_date", "Format tanggal tidak valid.")
		case d.After(s.clock.Today()):
			v.Add("log_date", "Tanggal tidak boleh di masa depan.")
		default:
			l.LogDate = d
		}
	} else if create {
		v.Add("log_date", "Tanggal wajib diisi.")
	}
	if req.MealTime != nil {
		switch *req.MealTime {
		case domain.MealBreakfast, domain.MealLunch, domain.MealDinner, domain.MealSnack:
			l.MealTime = *req.MealTime
		default:
			v.Add("meal_time", "Waktu makan tidak valid.")
		}
	} else if create {
		v.Add("meal_time", "Waktu makan wajib diisi.")
	}
	if req.Notes != nil {
		l.Notes = req.Notes
	}
	if create && len(req.Items) == 0 {
		v.Add("items", "Minimal satu makanan wajib diisi.")
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	if req.Items == nil {
		return nil
	}

	ids := make([]int64, 0, len(req.Items))
	for _, it := range req.Items {
		ids = append(ids, it.FoodID)
	}
	foods, err := s.foods.GetFoodsByIDs(ctx, ids)
	if err != nil {
		return err
	}

	items := make([]domain.FoodLogItem, 0, len(req.Items))
	for i, it := range req.Items {
		food, ok := foods[it.FoodID]
		if !ok {
			v.Add(itemField(i, "food_id"), "Makanan tidak ditemukan.")
			continue
		}
		if it.Quantity <= 0 {
			v.Add(itemField(i, "quantity"), "Jumlah harus lebih dari 0.")
			continue
		}
		if it.ServingSize != nil && *it.ServingSize < 1 {
			v.Add(itemField(i, "serving_size"), "Ukuran porsi minimal 1.")
			continue
		}
		item := domain.FoodLogItem{
			FoodID:      food.ID,
			FoodName:    food.Name,
			Quantity:    it.Quantity,
			ServingSize: food.ServingSize,
		}
		if it.ServingSize != nil {
			item.ServingSize = *it.ServingSize
		}
		item.ScaleFrom(food)
		items = append(items, item)
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	l.Items = items
	l.RecalculateTotals()
	return nil
}

func itemField(i int, name string) string {
	return "items." + itoa(i) + "." + name
}

func (s *foodLogService) Delete(ctx context.Context, user *domain.User, childID, id int64) error {
	if _, err := authorizedChild(ctx, s.children, user, childID); err != nil {
		return err
	}
	if _, err := s.log(ctx, childID, id); err != nil {
		return err
	}
	return s.logs.DeleteFoodLog(ctx, id)
}
