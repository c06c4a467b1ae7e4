package httpapi

import (
	"net/http"

	"github.com/jagoanbunda/jagoanbunda-data/internal/service"

	"go.uber.org/zap"
)

// AuthHandler serves the parent API token endpoints.
type AuthHandler struct {
	handlerBase
	auth service.AuthService
}

func NewAuthHandler(auth service.AuthService, deps HandlerDeps) *AuthHandler {
	return &AuthHandler{handlerBase: newBase(deps), auth: auth}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.auth.Register(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("Parent logged in",
		zap.Int64("user_id", resp.User.ID),
		zap.String("client_ip", getClientIP(r)),
	)
	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), claimsFrom(r.Context())); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, done("Logout berhasil"))
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	resp, err := h.auth.Refresh(r.Context(), UserFrom(r.Context()), claimsFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(UserFrom(r.Context())))
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req service.ProfileRequest
	if !h.decode(w, r, &req) {
		return
	}
	u, err := h.auth.UpdateProfile(r.Context(), UserFrom(r.Context()), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage("Profil berhasil diperbarui", u))
}
