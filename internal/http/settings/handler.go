package settings

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pdv/internal/http/render"
	"github.com/MrJamesThe3rd/pdv/internal/pdv"
)

type Handler struct {
	svc *pdv.Service
}

func NewHandler(svc *pdv.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Put("/", h.update)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, h.svc.Settings())
}

// update writes the given keys and leaves the others as they are.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if !render.Decode(w, r, &req) {
		return
	}

	if err := h.svc.UpdateSettings(r.Context(), req); err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, h.svc.Settings())
}
