package httpapi

import (
	"net/http"

	"github.com/jagoanbunda/jagoanbunda-data/internal/service"
)

type NotificationHandler struct {
	handlerBase
	notifications service.NotificationService
}

func NewNotificationHandler(notifications service.NotificationService, deps HandlerDeps) *NotificationHandler {
	return &NotificationHandler{handlerBase: newBase(deps), notifications: notifications}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	page := pageFrom(r)
	unread := r.URL.Query().Get("unread") == "true" || r.URL.Query().Get("unread") == "1"
	list, total, err := h.notifications.List(r.Context(), UserFrom(r.Context()), unread, page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paginate(list, total, page.Page, page.Size))
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.notifications.UnreadCount(r.Context(), UserFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]int{"count": n}))
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	if err := h.notifications.MarkRead(r.Context(), UserFrom(r.Context()), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, done("Notifikasi ditandai sudah dibaca"))
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.notifications.MarkAllRead(r.Context(), UserFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage("Semua notifikasi ditandai sudah dibaca", map[string]int64{"updated": n}))
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	if err := h.notifications.Delete(r.Context(), UserFrom(r.Context()), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, done("Notifikasi berhasil dihapus"))
}
