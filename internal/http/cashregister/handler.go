package cashregister

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pdv/internal/cashregister"
	"github.com/MrJamesThe3rd/pdv/internal/http/render"
	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/pdv"
	"github.com/MrJamesThe3rd/pdv/internal/receipt"
)

type Handler struct {
	svc *pdv.Service
}

func NewHandler(svc *pdv.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Post("/open", h.open)
	r.Post("/close", h.close)
	r.Post("/products", h.addProduct)
	r.Get("/report", h.report)
	r.Get("/report.pdf", h.reportPDF)
}

type sessionResponse struct {
	cashregister.Session
	SalesTotal money.Cents `json:"salesTotal"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	s := h.svc.CashRegister()

	var total money.Cents
	for _, sl := range s.DailySales {
		total += sl.Total
	}

	render.JSON(w, http.StatusOK, sessionResponse{Session: s, SalesTotal: total})
}

type openRequest struct {
	Amount money.Cents `json:"amount"`
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if !render.Decode(w, r, &req) {
		return
	}

	if err := h.svc.OpenCashRegister(req.Amount); err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, h.svc.CashRegister())
}

// close returns the closing report, as JSON or as the PDF download with
// ?format=pdf.
func (h *Handler) close(w http.ResponseWriter, r *http.Request) {
	rep, err := h.svc.CloseCashRegister()
	if err != nil {
		render.Error(w, err)
		return
	}

	if r.URL.Query().Get("format") == "pdf" {
		h.writePDF(w, rep)
		return
	}

	render.JSON(w, http.StatusOK, toReportResponse(rep))
}

type productRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

func (h *Handler) addProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !render.Decode(w, r, &req) {
		return
	}

	if err := h.svc.AddDailyProduct(req.ProductID, req.Quantity); err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, h.svc.CashRegister())
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, toReportResponse(h.svc.GenerateDailyReport()))
}

func (h *Handler) reportPDF(w http.ResponseWriter, r *http.Request) {
	h.writePDF(w, h.svc.GenerateDailyReport())
}

// writePDF renders into memory first so a failure can still answer 500.
func (h *Handler) writePDF(w http.ResponseWriter, rep cashregister.DailyReport) {
	var buf bytes.Buffer
	if err := receipt.ClosingReportPDF(&buf, rep, h.svc.Settings(), h.svc.Location()); err != nil {
		slog.Error("failed to render closing report", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	render.Attachment(w, "application/pdf", receipt.ReportFileName(rep.ClosingDate.In(h.svc.Location())))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
