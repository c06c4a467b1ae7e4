package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const msgEmailTaken = "Email sudah terdaftar."

// ParentService lets nakes manage parent accounts.
type ParentService interface {
	List(ctx context.Context, filters repository.UserFilters, page repository.Page) ([]*repository.ParentSummary, int, error)
	Get(ctx context.Context, id int64) (*ParentDetail, error)
	Create(ctx context.Context, req ParentRequest) (*domain.User, error)
	Update(ctx context.Context, id int64, req ParentRequest) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

// ParentRequest creates or updates a parent. An empty password on update
// keeps the current one.
type ParentRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Phone    *string `json:"phone"`
}

type ParentDetail struct {
	*domain.User
	Children []*domain.Child `json:"children"`
}

type parentService struct {
	users    repository.UsersRepository
	children repository.ChildrenRepository
	logger   *zap.Logger
}

func NewParentService(users repository.UsersRepository, children repository.ChildrenRepository, logger *zap.Logger) ParentService {
	return &parentService{users: users, children: children, logger: logger}
}

func (s *parentService) List(ctx context.Context, filters repository.UserFilters, page repository.Page) ([]*repository.ParentSummary, int, error) {
	return s.users.ListParents(ctx, filters, page)
}

func (s *parentService) parent(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsParent() {
		return nil, NotFound(MsgUserNotFound)
	}
	return u, nil
}

func (s *parentService) Get(ctx context.Context, id int64) (*ParentDetail, error) {
	u, err := s.parent(ctx, id)
	if err != nil {
		return nil, err
	}
	children, err := s.children.ListChildrenByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &ParentDetail{User: u, Children: children}, nil
}

func (s *parentService) apply(u *domain.User, req ParentRequest, create bool) (string, error) {
	v := &ValidationError{}
	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if (create || req.Name != nil) && (u.Name == "" || chars(u.Name) > 255) {
		v.Add("name", "Nama wajib diisi dan maksimal 255 karakter.")
	}
	if req.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if create || req.Email != nil {
		if _, err := mail.ParseAddress(u.Email); u.Email == "" || err != nil {
			v.Add("email", "Format email tidak valid.")
		}
	}
	if req.Phone != nil {
		if chars(*req.Phone) > 20 {
			v.Add("phone", "Nomor telepon maksimal 20 karakter.")
		}
		u.Phone = req.Phone
	}
	password := ""
	if req.Password != nil {
		password = *req.Password
	}
	if (create || password != "") && chars(password) < 8 {
		v.Add("password", "Password minimal 8 karakter.")
	}
	return password, v.OrNil()
}

func (s *parentService) Create(ctx context.Context, req ParentRequest) (*domain.User, error) {
	u := &domain.User{UserType: domain.UserTypeParent, PushNotifications: true, WeeklyReport: true}
	password, err := s.apply(u, req, true)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	if _, err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Invalid("email", msgEmailTaken)
		}
		return nil, err
	}
	s.logger.Info("Parent account created", zap.Int64("user_id", u.ID))
	return u, nil
}

func (s *parentService) Update(ctx context.Context, id int64, req ParentRequest) (*domain.User, error) {
	u, err := s.parent(ctx, id)
	if err != nil {
		return nil, err
	}
	password, err := s.apply(u, req, false)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Invalid("email", msgEmailTaken)
		}
		return nil, err
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		if err := s.users.UpdatePassword(ctx, u.ID, string(hash)); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func (s *parentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.parent(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Parent account deleted", zap.Int64("user_id", id))
	return s.users.DeleteUser(ctx, id)
}
