package client

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pdv/internal/client"
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
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type clientRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (req clientRequest) toClient(id int64) client.Client {
	return client.Client{ID: id, Name: req.Name, Email: req.Email, Phone: req.Phone, Address: req.Address}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, h.svc.Clients())
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if !render.Decode(w, r, &req) {
		return
	}

	c, err := h.svc.AddClient(r.Context(), req.toClient(0))
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, c)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r, "id")
	if !ok {
		return
	}

	c, found := client.Find(h.svc.Clients(), id)
	if !found {
		http.Error(w, "client not found", http.StatusNotFound)
		return
	}

	render.JSON(w, http.StatusOK, c)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r, "id")
	if !ok {
		return
	}

	var req clientRequest
	if !render.Decode(w, r, &req) {
		return
	}

	c := req.toClient(id)
	if err := h.svc.UpdateClient(r.Context(), c); err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, c)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteClient(r.Context(), id); err != nil {
		render.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
