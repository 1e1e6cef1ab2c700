package label

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pdv/internal/http/render"
	"github.com/MrJamesThe3rd/pdv/internal/label"
	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/pdv"
)

type Handler struct {
	svc *pdv.Service
}

func NewHandler(svc *pdv.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/pdf", h.pdf)
	r.Get("/barcode/{code}", h.barcode)
}

type tileRequest struct {
	ProductID  int64         `json:"productId"`
	Variant    label.Variant `json:"variant"`
	PromoPrice money.Cents   `json:"promoPrice"`
	Copies     int           `json:"copies"`
}

type sheetRequest struct {
	Tiles []tileRequest `json:"tiles"`
}

func (h *Handler) pdf(w http.ResponseWriter, r *http.Request) {
	var req sheetRequest
	if !render.Decode(w, r, &req) {
		return
	}

	tiles := make([]label.Tile, 0, len(req.Tiles))

	for _, t := range req.Tiles {
		p, ok := h.svc.Product(t.ProductID)
		if !ok {
			http.Error(w, fmt.Sprintf("product %d not found", t.ProductID), http.StatusNotFound)
			return
		}

		variant := t.Variant
		if variant == "" {
			variant = label.VariantNormal
		}

		tiles = append(tiles, label.Tile{Product: p, Variant: variant, PromoPrice: t.PromoPrice, Copies: t.Copies})
	}

	var buf bytes.Buffer
	if err := label.SheetPDF(&buf, tiles, h.svc.Settings()); err != nil {
		if errors.Is(err, label.ErrInvalidPromo) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		slog.Error("failed to render labels", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	render.Attachment(w, "application/pdf", "etiquetas.pdf")

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// barcode serves the EAN-13 image of a 12-digit code.
func (h *Handler) barcode(w http.ResponseWriter, r *http.Request) {
	img, err := label.BarcodePNG(chi.URLParam(r, "code"), 380, 80)
	if err != nil {
		if errors.Is(err, label.ErrInvalidEAN13) {
			http.Error(w, label.InvalidCodeText, http.StatusBadRequest)
			return
		}

		slog.Error("failed to render barcode", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "image/png")

	if _, err := w.Write(img); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
