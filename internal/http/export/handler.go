package export

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pdv/internal/export"
	"github.com/MrJamesThe3rd/pdv/internal/http/render"
	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/sale"
)

const summaryFile = "resumo.txt"

type Handler struct {
	svc *export.Service
	loc *time.Location
}

func NewHandler(svc *export.Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}

	return &Handler{svc: svc, loc: loc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
}

type exportRequest struct {
	// Date is a calendar day, YYYY-MM-DD. Empty exports every sale.
	Date   string `json:"date,omitempty"`
	Client string `json:"client,omitempty"`
}

func (req exportRequest) filter(loc *time.Location) (sale.Filter, error) {
	f := sale.Filter{Client: req.Client, Loc: loc}

	if req.Date != "" {
		t, err := time.ParseInLocation(time.DateOnly, req.Date, loc)
		if err != nil {
			return sale.Filter{}, fmt.Errorf("invalid date %q", req.Date)
		}

		f.Date = t
	}

	return f, nil
}

type saleResponse struct {
	ID            int64              `json:"id"`
	Date          time.Time          `json:"date"`
	Client        string             `json:"client"`
	Total         money.Cents        `json:"total"`
	PaymentMethod sale.PaymentMethod `json:"paymentMethod"`
	Receipt       string             `json:"receipt,omitempty"`
}

type exportMetadataResponse struct {
	Sales   []saleResponse `json:"sales"`
	Summary string         `json:"summary"`
}

func toSaleResponse(item export.Item) saleResponse {
	s := item.Sale

	resp := saleResponse{
		ID:            s.ID,
		Date:          s.Date,
		Client:        s.ClientName(),
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
	}

	if item.FilePath != "" {
		resp.Receipt = filepath.Base(item.FilePath)
	}

	return resp
}

// run exports into a fresh temp directory. The caller removes it.
func (h *Handler) run(w http.ResponseWriter, r *http.Request) (string, []export.Item, bool) {
	var req exportRequest
	if !render.Decode(w, r, &req) {
		return "", nil, false
	}

	filter, err := req.filter(h.loc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", nil, false
	}

	tmpDir, err := os.MkdirTemp("", "pdv-export-*")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return "", nil, false
	}

	items, err := h.svc.Export(r.Context(), filter, tmpDir)
	if err != nil {
		os.RemoveAll(tmpDir)
		slog.Error("failed to export sales", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return "", nil, false
	}

	return tmpDir, items, true
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	tmpDir, items, ok := h.run(w, r)
	if !ok {
		return
	}
	defer os.RemoveAll(tmpDir)

	sales := make([]saleResponse, 0, len(items))
	for _, item := range items {
		sales = append(sales, toSaleResponse(item))
	}

	render.JSON(w, http.StatusOK, exportMetadataResponse{
		Sales:   sales,
		Summary: h.svc.GenerateSummary(items),
	})
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	tmpDir, items, ok := h.run(w, r)
	if !ok {
		return
	}
	defer os.RemoveAll(tmpDir)

	summary := h.svc.GenerateSummary(items)
	if err := os.WriteFile(filepath.Join(tmpDir, summaryFile), []byte(summary), 0o644); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	render.Attachment(w, "application/zip", fmt.Sprintf("vendas_%s.zip", time.Now().In(h.loc).Format("20060102")))

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	err := filepath.Walk(tmpDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		relPath, _ := filepath.Rel(tmpDir, path)

		zf, err := zipWriter.Create(relPath)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(zf, f)

		return err
	})
	if err != nil {
		slog.Error("failed to create zip", "error", err)
	}
}
