package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pdv/internal/auth"
	"github.com/MrJamesThe3rd/pdv/internal/http/render"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/token", h.token)
}

type tokenRequest struct {
	Operator string `json:"operator"`
	PIN      string `json:"pin"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *Handler) token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !render.Decode(w, r, &req) {
		return
	}

	if req.Operator == "" {
		req.Operator = "caixa"
	}

	token, expires, err := h.svc.Login(req.Operator, req.PIN)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidPIN) {
			http.Error(w, "PIN inválido", http.StatusUnauthorized)
			return
		}

		slog.Error("failed to issue token", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	render.JSON(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: expires})
}
