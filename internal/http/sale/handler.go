package sale

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

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
	r.Post("/", h.checkout)
	r.Get("/last", h.last)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/receipt", h.receipt)
}

// list accepts ?client=<name part> and ?date=YYYY-MM-DD.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := sale.Filter{Client: r.URL.Query().Get("client")}

	if s := r.URL.Query().Get("date"); s != "" {
		t, err := time.ParseInLocation(time.DateOnly, s, h.svc.Location())
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}

		filter.Date = t
	}

	render.JSON(w, http.StatusOK, toResponseList(h.svc.FilterSales(filter)))
}

type itemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type checkoutRequest struct {
	ClientID       int64                `json:"clientId"`
	Items          []itemRequest        `json:"items"`
	Discount       money.Cents          `json:"discount"`
	PaymentMethod  sale.PaymentMethod   `json:"paymentMethod"`
	PaymentDetails *sale.PaymentDetails `json:"paymentDetails"`
}

// checkout records a sale. Without items the current cart is sold.
func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !render.Decode(w, r, &req) {
		return
	}

	items := make([]sale.Item, 0, len(req.Items))

	for _, it := range req.Items {
		p, ok := h.svc.Product(it.ProductID)
		if !ok {
			http.Error(w, fmt.Sprintf("product %d not found", it.ProductID), http.StatusNotFound)
			return
		}

		items = append(items, sale.NewItem(p.ID, p.Name, p.Price, it.Quantity))
	}

	s, err := h.svc.ProcessSale(r.Context(), pdv.Checkout{
		ClientID:       req.ClientID,
		Items:          items,
		Discount:       req.Discount,
		PaymentMethod:  req.PaymentMethod,
		PaymentDetails: req.PaymentDetails,
	})
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(s))
}

func (h *Handler) last(w http.ResponseWriter, r *http.Request) {
	s, ok := h.svc.LastCompletedSale()
	if !ok {
		http.Error(w, "no completed sale", http.StatusNotFound)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(s))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r, "id")
	if !ok {
		return
	}

	s, found := h.svc.Sale(id)
	if !found {
		http.Error(w, "sale not found", http.StatusNotFound)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(s))
}

// delete removes the sale and puts its units back in stock.
func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteSale(r.Context(), id); err != nil {
		render.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// receipt renders the receipt as a standalone HTML page, or as text with
// ?format=text.
func (h *Handler) receipt(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r, "id")
	if !ok {
		return
	}

	s, found := h.svc.Sale(id)
	if !found {
		http.Error(w, "sale not found", http.StatusNotFound)
		return
	}

	doc := receipt.ForSale(s, h.svc.Settings(), h.svc.Location())
	render.Receipt(w, doc, receipt.Format(r.URL.Query().Get("format")))
}
