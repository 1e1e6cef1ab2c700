package notification

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pdv/internal/http/render"
	"github.com/MrJamesThe3rd/pdv/internal/notification"
	"github.com/MrJamesThe3rd/pdv/internal/pdv"
)

type Handler struct {
	svc *pdv.Service
}

func NewHandler(svc *pdv.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Delete("/", h.clear)
	r.Post("/scan", h.scan)
	r.Post("/{id}/read", h.markRead)
	r.Delete("/{id}", h.remove)
}

type listResponse struct {
	Unread        int                         `json:"unread"`
	Notifications []notification.Notification `json:"notifications"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, listResponse{
		Unread:        h.svc.UnreadNotifications(),
		Notifications: h.svc.Notifications(),
	})
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearNotifications()
	w.WriteHeader(http.StatusNoContent)
}

type scanResponse struct {
	Added int `json:"added"`
}

func (h *Handler) scan(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, scanResponse{Added: h.svc.ScanLowStock()})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	h.svc.MarkNotificationRead(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	h.svc.RemoveNotification(id)
	w.WriteHeader(http.StatusNoContent)
}
