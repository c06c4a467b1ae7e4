package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
	"github.com/jagoanbunda/jagoanbunda-data/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Middleware wraps a handler.
type Middleware func(http.Handler) http.Handler

func chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

type ctxKey int

const (
	userKey ctxKey = iota
	claimsKey
	sessionKey
	requestIDKey
)

// UserFrom returns the authenticated user, nil on public routes.
func UserFrom(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userKey).(*domain.User)
	return u
}

func claimsFrom(ctx context.Context) *service.Claims {
	c, _ := ctx.Value(claimsKey).(*service.Claims)
	return c
}

func sessionFrom(ctx context.Context) string {
	s, _ := ctx.Value(sessionKey).(string)
	return s
}

func RequestIDFrom(ctx context.Context) string {
	s, _ := ctx.Value(requestIDKey).(string)
	return s
}

// RequestID tags each request with X-Request-Id, keeping a client-supplied one.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get("X-Request-Id"))
			if id == "" || len(id) > 64 {
				id = uuid.NewString()
			}
			w.Header().Set("X-Request-Id", id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// AccessLog logs one line per request.
func AccessLog(logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
				zap.String("client_ip", getClientIP(r)),
				zap.String("request_id", RequestIDFrom(r.Context())),
			)
		})
	}
}

// Recover turns a panic into a 500 and reports it.
func Recover(errs *ErrorWriter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					if v == http.ErrAbortHandler {
						panic(v)
					}
					errs.Write(w, r, fmt.Errorf("panic: %v", v))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// TokenAuth authenticates the parent API bearer token.
func TokenAuth(auth service.AuthService, errs *ErrorWriter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				writeJSON(w, http.StatusUnauthorized, Fail(msgUnauthenticated))
				return
			}
			u, claims, err := auth.Authenticate(r.Context(), strings.TrimSpace(raw))
			if err != nil {
				errs.Write(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, u)
			ctx = context.WithValue(ctx, claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EnsureParent keeps the API to parent accounts.
func EnsureParent(logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := UserFrom(r.Context())
			if !u.IsParent() {
				if u != nil {
					logger.Warn("API access rejected: non-parent user",
						zap.Int64("user_id", u.ID),
						zap.String("user_type", string(u.UserType)),
						zap.String("path", r.URL.Path),
					)
				}
				writeJSON(w, http.StatusForbidden, ErrorBody{Message: service.MsgParentAPIOnly, Code: service.CodeParentAPIOnly})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CookieConfig describes the nakes session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

func (c CookieConfig) set(w http.ResponseWriter, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c CookieConfig) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionAuth loads the nakes web session named by the cookie.
func SessionAuth(auth service.AuthService, cookie CookieConfig, errs *ErrorWriter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(cookie.Name)
			if err != nil || c.Value == "" {
				writeJSON(w, http.StatusUnauthorized, Fail(msgUnauthenticated))
				return
			}
			u, err := auth.SessionUser(r.Context(), c.Value)
			if err != nil {
				errs.Write(w, r, err)
				return
			}
			if u == nil {
				cookie.clear(w)
				writeJSON(w, http.StatusUnauthorized, Fail(msgUnauthenticated))
				return
			}
			ctx := context.WithValue(r.Context(), userKey, u)
			ctx = context.WithValue(ctx, sessionKey, c.Value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EnsureNakes keeps the web surface to nakes accounts. Any other session is
// destroyed.
func EnsureNakes(auth service.AuthService, cookie CookieConfig, logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := UserFrom(r.Context())
			if !u.IsNakes() {
				if u != nil {
					logger.Warn("Web access rejected: non-nakes user",
						zap.Int64("user_id", u.ID),
						zap.String("user_type", string(u.UserType)),
						zap.String("path", r.URL.Path),
					)
				}
				if err := auth.WebLogout(r.Context(), sessionFrom(r.Context())); err != nil {
					logger.Warn("Failed to destroy session", zap.Error(err))
				}
				cookie.clear(w)
				writeJSON(w, http.StatusForbidden, Fail(service.MsgNakesOnly))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
