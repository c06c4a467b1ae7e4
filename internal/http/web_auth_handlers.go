package httpapi

import (
	"net/http"

	"github.com/jagoanbunda/jagoanbunda-data/internal/service"

	"go.uber.org/zap"
)

// WebAuthHandler serves the nakes session login and profile.
type WebAuthHandler struct {
	handlerBase
	auth   service.AuthService
	cookie CookieConfig
}

func NewWebAuthHandler(auth service.AuthService, cookie CookieConfig, deps HandlerDeps) *WebAuthHandler {
	return &WebAuthHandler{handlerBase: newBase(deps), auth: auth, cookie: cookie}
}

func (h *WebAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}
	sess, u, err := h.auth.WebLogin(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.cookie.set(w, sess.ID, sess.ExpiresAt)
	h.logger.Info("Nakes logged in",
		zap.Int64("user_id", u.ID),
		zap.String("client_ip", getClientIP(r)),
	)
	writeJSON(w, http.StatusOK, OkMessage("Login berhasil", u))
}

func (h *WebAuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.WebLogout(r.Context(), sessionFrom(r.Context())); err != nil {
		h.fail(w, r, err)
		return
	}
	h.cookie.clear(w)
	writeJSON(w, http.StatusOK, done("Logout berhasil"))
}

func (h *WebAuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(UserFrom(r.Context())))
}

func (h *WebAuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
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
