package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"
	"github.com/jagoanbunda/jagoanbunda-data/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type fakeUsers struct {
	repository.UsersRepository
	users  map[int64]*domain.User
	nextID int64
}

func (f *fakeUsers) GetUser(_ context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) CreateUser(_ context.Context, u *domain.User) (int64, error) {
	for _, existing := range f.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return 0, repository.ErrDuplicate
		}
	}
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.users[u.ID] = &cp
	return u.ID, nil
}

func (f *fakeUsers) UpdateUser(_ context.Context, u *domain.User) error {
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func hashed(t *testing.T, password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

type authHarness struct {
	svc      AuthService
	users    *fakeUsers
	sessions *store.SessionStore
	mr       *miniredis.Miniredis
}

func newAuthHarness(t *testing.T) *authHarness {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	kv := store.NewRedisKV(client)

	users := &fakeUsers{users: map[int64]*domain.User{
		1: {ID: 1, Name: "Ibu Sari", Email: "sari@example.com", PasswordHash: hashed(t, "rahasia123"), UserType: domain.UserTypeParent},
		9: {ID: 9, Name: "Bidan Ani", Email: "ani@puskesmas.id", PasswordHash: hashed(t, "rahasia123"), UserType: domain.UserTypeNakes},
	}, nextID: 20}
	sessions := store.NewSessionStore(kv, time.Hour)
	svc := NewAuthService(users, sessions, store.NewTokenDenylist(kv), "test-secret", time.Hour, zap.NewNop())
	return &authHarness{svc: svc, users: users, sessions: sessions, mr: mr}
}

func TestAuthService_LoginAndAuthenticate(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()

	resp, err := h.svc.Login(ctx, LoginRequest{Email: "SARI@example.com", Password: "rahasia123"})
	require.NoError(t, err)
	assert.Equal(t, "Login berhasil", resp.Message)
	require.NotEmpty(t, resp.Token)

	u, claims, err := h.svc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, TokenType, claims.Type)
	assert.NotEmpty(t, claims.ID)
}

func TestAuthService_LoginRejectsNakes(t *testing.T) {
	h := newAuthHarness(t)

	_, err := h.svc.Login(context.Background(), LoginRequest{Email: "ani@puskesmas.id", Password: "rahasia123"})

	var be *BusinessError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, http.StatusForbidden, be.Status)
	assert.Equal(t, CodeNakesWebOnly, be.Code)
	assert.Equal(t, MsgNakesWebOnly, be.Message)
}

func TestAuthService_LoginBadCredentials(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()

	for _, req := range []LoginRequest{
		{Email: "sari@example.com", Password: "salah"},
		{Email: "nobody@example.com", Password: "rahasia123"},
	} {
		_, err := h.svc.Login(ctx, req)
		var ve *ValidationError
		require.True(t, errors.As(err, &ve), req.Email)
		assert.Equal(t, []string{MsgBadCredentials}, ve.Fields["email"])
	}
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()
	resp, err := h.svc.Login(ctx, LoginRequest{Email: "sari@example.com", Password: "rahasia123"})
	require.NoError(t, err)
	_, claims, err := h.svc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)

	require.NoError(t, h.svc.Logout(ctx, claims))

	_, _, err = h.svc.Authenticate(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.True(t, h.mr.Exists("revoked-token:"+claims.ID))
}

func TestAuthService_RefreshIssuesNewToken(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()
	resp, err := h.svc.Login(ctx, LoginRequest{Email: "sari@example.com", Password: "rahasia123"})
	require.NoError(t, err)
	u, claims, err := h.svc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)

	refreshed, err := h.svc.Refresh(ctx, u, claims)
	require.NoError(t, err)
	assert.Equal(t, "Token berhasil diperbarui", refreshed.Message)

	_, _, err = h.svc.Authenticate(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, _, err = h.svc.Authenticate(ctx, refreshed.Token)
	assert.NoError(t, err)
}

func TestAuthService_AuthenticateRejectsGarbage(t *testing.T) {
	h := newAuthHarness(t)

	_, _, err := h.svc.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthService_Register(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()

	resp, err := h.svc.Register(ctx, RegisterRequest{
		Name: "Ayah Budi", Email: "Budi@Example.com", Password: "rahasia123", PasswordConfirmation: "rahasia123",
	})
	require.NoError(t, err)
	assert.Equal(t, "Registrasi berhasil", resp.Message)
	assert.Equal(t, "budi@example.com", resp.User.Email)
	assert.Equal(t, domain.UserTypeParent, resp.User.UserType)

	_, err = h.svc.Register(ctx, RegisterRequest{
		Name: "Lagi", Email: "budi@example.com", Password: "rahasia123", PasswordConfirmation: "rahasia123",
	})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "email")

	_, err = h.svc.Register(ctx, RegisterRequest{Name: "", Email: "x", Password: "short", PasswordConfirmation: "short"})
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Fields, 3)
}

func TestAuthService_WebLogin(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()

	sess, u, err := h.svc.WebLogin(ctx, LoginRequest{Email: "ani@puskesmas.id", Password: "rahasia123"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), u.ID)

	got, err := h.svc.SessionUser(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsNakes())

	require.NoError(t, h.svc.WebLogout(ctx, sess.ID))
	got, err = h.svc.SessionUser(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAuthService_WebLoginRejectsParent(t *testing.T) {
	h := newAuthHarness(t)

	sess, _, err := h.svc.WebLogin(context.Background(), LoginRequest{Email: "sari@example.com", Password: "rahasia123"})

	var be *BusinessError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, MsgParentMobileOnly, be.Message)
	assert.Nil(t, sess)
	assert.Empty(t, h.mr.Keys())
}

func TestAuthService_UpdateProfile(t *testing.T) {
	h := newAuthHarness(t)
	u, _ := h.users.GetUser(context.Background(), 1)

	updated, err := h.svc.UpdateProfile(context.Background(), u, ProfileRequest{
		Name: ptr("  Ibu Sari W  "), WeeklyReport: ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ibu Sari W", updated.Name)
	assert.True(t, updated.WeeklyReport)
	assert.Equal(t, "Ibu Sari W", h.users.users[1].Name)
}
