package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"
	"github.com/jagoanbunda/jagoanbunda-data/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService covers both login strategies. Parents get bearer tokens on the
// API; nakes get Redis-backed sessions on the web surface.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	// Authenticate verifies a bearer token and loads its user.
	Authenticate(ctx context.Context, raw string) (*domain.User, *Claims, error)
	Logout(ctx context.Context, claims *Claims) error
	Refresh(ctx context.Context, user *domain.User, claims *Claims) (*TokenResponse, error)

	WebLogin(ctx context.Context, req LoginRequest) (*store.Session, *domain.User, error)
	// SessionUser loads the user of a session; nil when the session is unknown.
	SessionUser(ctx context.Context, sessionID string) (*domain.User, error)
	WebLogout(ctx context.Context, sessionID string) error

	UpdateProfile(ctx context.Context, user *domain.User, req ProfileRequest) (*domain.User, error)
}

// TokenType is the typ claim of parent API tokens.
const TokenType = "parent_api"

// Claims are the parent API token claims: sub is the user id, jti the token id.
type Claims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

type RegisterRequest struct {
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	Password             string  `json:"password"`
	PasswordConfirmation string  `json:"password_confirmation"`
	Phone                *string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Message   string       `json:"message"`
	User      *domain.User `json:"user,omitempty"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// ProfileRequest updates only the fields that are present.
type ProfileRequest struct {
	Name              *string `json:"name"`
	Phone             *string `json:"phone"`
	AvatarURL         *string `json:"avatar_url"`
	PushNotifications *bool   `json:"push_notifications"`
	WeeklyReport      *bool   `json:"weekly_report"`
}

type authService struct {
	users    repository.UsersRepository
	sessions *store.SessionStore
	denylist *store.TokenDenylist
	secret   []byte
	tokenTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewAuthService(
	users repository.UsersRepository,
	sessions *store.SessionStore,
	denylist *store.TokenDenylist,
	secret string,
	tokenTTL time.Duration,
	logger *zap.Logger,
) AuthService {
	return &authService{
		users:    users,
		sessions: sessions,
		denylist: denylist,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	v := &ValidationError{}
	if req.Name == "" {
		v.Add("name", "Nama wajib diisi.")
	} else if chars(req.Name) > 255 {
		v.Add("name", "Nama maksimal 255 karakter.")
	}
	if _, err := mail.ParseAddress(req.Email); req.Email == "" || err != nil {
		v.Add("email", "Format email tidak valid.")
	}
	if chars(req.Password) < 8 {
		v.Add("password", "Password minimal 8 karakter.")
	} else if req.Password != req.PasswordConfirmation {
		v.Add("password", "Konfirmasi password tidak cocok.")
	}
	if req.Phone != nil && chars(*req.Phone) > 20 {
		v.Add("phone", "Nomor telepon maksimal 20 karakter.")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	u := &domain.User{
		Name:              req.Name,
		Email:             req.Email,
		PasswordHash:      string(hash),
		UserType:          domain.UserTypeParent,
		Phone:             req.Phone,
		PushNotifications: true,
	}
	if _, err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Invalid("email", "Email sudah terdaftar.")
		}
		return nil, err
	}

	token, exp, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Parent registered", zap.Int64("user_id", u.ID))
	return &TokenResponse{Message: "Registrasi berhasil", User: u, Token: token, ExpiresAt: exp}, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	u, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, err
	}
	if u.IsNakes() {
		s.logger.Warn("API login rejected: nakes user attempted API login",
			zap.Int64("user_id", u.ID),
			zap.String("email", u.Email),
		)
		return nil, &BusinessError{Status: http.StatusForbidden, Message: MsgNakesWebOnly, Code: CodeNakesWebOnly}
	}
	if u == nil || !checkPassword(u.PasswordHash, req.Password) {
		return nil, Invalid("email", MsgBadCredentials)
	}

	token, exp, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{Message: "Login berhasil", User: u, Token: token, ExpiresAt: exp}, nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *authService) issue(u *domain.User) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.tokenTTL)
	claims := Claims{
		Type: TokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp, nil
}

func (s *authService) Authenticate(ctx context.Context, raw string) (*domain.User, *Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || claims.Type != TokenType || claims.ID == "" {
		return nil, nil, ErrUnauthenticated
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if revoked {
		return nil, nil, ErrUnauthenticated
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, nil, ErrUnauthenticated
	}
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if u == nil {
		return nil, nil, ErrUnauthenticated
	}
	return u, claims, nil
}

func (s *authService) Logout(ctx context.Context, claims *Claims) error {
	return s.revoke(ctx, claims)
}

func (s *authService) revoke(ctx context.Context, claims *Claims) error {
	exp := s.now().Add(s.tokenTTL)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return s.denylist.Revoke(ctx, claims.ID, exp)
}

func (s *authService) Refresh(ctx context.Context, user *domain.User, claims *Claims) (*TokenResponse, error) {
	if err := s.revoke(ctx, claims); err != nil {
		return nil, err
	}
	token, exp, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{Message: "Token berhasil diperbarui", Token: token, ExpiresAt: exp}, nil
}

func (s *authService) WebLogin(ctx context.Context, req LoginRequest) (*store.Session, *domain.User, error) {
	u, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, nil, err
	}
	if u.IsParent() {
		s.logger.Warn("Web login rejected: parent user attempted web login",
			zap.Int64("user_id", u.ID),
			zap.String("email", u.Email),
		)
		return nil, nil, Unprocessable(MsgParentMobileOnly)
	}
	if u == nil || !checkPassword(u.PasswordHash, req.Password) {
		return nil, nil, Invalid("email", MsgBadCredentials)
	}

	sess, err := s.sessions.Create(ctx, u.ID)
	if err != nil {
		return nil, nil, err
	}
	return sess, u, nil
}

func (s *authService) SessionUser(ctx context.Context, sessionID string) (*domain.User, error) {
	if sessionID == "" {
		return nil, nil
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil || sess == nil {
		return nil, err
	}
	return s.users.GetUser(ctx, sess.UserID)
}

func (s *authService) WebLogout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Destroy(ctx, sessionID)
}

func (s *authService) UpdateProfile(ctx context.Context, user *domain.User, req ProfileRequest) (*domain.User, error) {
	v := &ValidationError{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || chars(name) > 255 {
			v.Add("name", "Nama wajib diisi dan maksimal 255 karakter.")
		}
		req.Name = &name
	}
	if req.Phone != nil && chars(*req.Phone) > 20 {
		v.Add("phone", "Nomor telepon maksimal 20 karakter.")
	}
	if req.AvatarURL != nil && chars(*req.AvatarURL) > 500 {
		v.Add("avatar_url", "URL avatar maksimal 500 karakter.")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	updated := *user
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.Phone != nil {
		updated.Phone = req.Phone
	}
	if req.AvatarURL != nil {
		updated.AvatarURL = req.AvatarURL
	}
	if req.PushNotifications != nil {
		updated.PushNotifications = *req.PushNotifications
	}
	if req.WeeklyReport != nil {
		updated.WeeklyReport = *req.WeeklyReport
	}
	if err := s.users.UpdateUser(ctx, &updated); err != nil {
		return nil, err
	}
	return s.users.GetUser(ctx, user.ID)
}
