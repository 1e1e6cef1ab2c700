package exchange

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pdv/internal/exchange"
	"github.com/MrJamesThe3rd/pdv/internal/http/render"
	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/pdv"
	"github.com/MrJamesThe3rd/pdv/internal/receipt"
	"github.com/MrJamesThe3rd/pdv/internal/sale"
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
	r.Get("/reasons", h.reasons)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/status", h.updateStatus)
	r.Get("/{id}/receipt", h.receipt)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, h.svc.Exchanges())
}

func (h *Handler) reasons(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, exchange.Reasons)
}

type createRequest struct {
	SaleID          int64           `json:"saleId"`
	Reason          string          `json:"reason"`
	Description     string          `json:"description"`
	Status          exchange.Status `json:"status"`
	ReturnedValue   money.Cents     `json:"returnedValue"`
	ReceivedProduct string          `json:"receivedProduct"`
	Date            *time.Time      `json:"date,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !render.Decode(w, r, &req) {
		return
	}

	e := exchange.Exchange{
		SaleID:          req.SaleID,
		Reason:          req.Reason,
		Description:     req.Description,
		Status:          req.Status,
		ReturnedValue:   req.ReturnedValue,
		ReceivedProduct: req.ReceivedProduct,
	}

	if req.Date != nil {
		e.Date = *req.Date
	}

	e, err := h.svc.AddExchange(r.Context(), e)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, e)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r, "id")
	if !ok {
		return
	}

	e, found := h.svc.Exchange(id)
	if !found {
		http.Error(w, "exchange not found", http.StatusNotFound)
		return
	}

	render.JSON(w, http.StatusOK, e)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteExchange(r.Context(), id); err != nil {
		render.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// updateStatus accepts the status in any letter case.
func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r, "id")
	if !ok {
		return
	}

	var req updateStatusRequest
	if !render.Decode(w, r, &req) {
		return
	}

	status, err := exchange.ParseStatus(req.Status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateExchangeStatus(r.Context(), id, status); err != nil {
		render.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) receipt(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r, "id")
	if !ok {
		return
	}

	e, found := h.svc.Exchange(id)
	if !found {
		http.Error(w, "exchange not found", http.StatusNotFound)
		return
	}

	var original *sale.Sale
	if s, ok := h.svc.Sale(e.SaleID); ok {
		original = &s
	}

	doc := receipt.ForExchange(e, original, h.svc.Settings(), h.svc.Location())
	render.Receipt(w, doc, receipt.Format(r.URL.Query().Get("format")))
}
