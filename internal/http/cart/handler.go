package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pdv/internal/http/render"
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
	r.Get("/", h.get)
	r.Delete("/", h.clear)
	r.Post("/items", h.add)
	r.Patch("/items/{productId}", h.update)
	r.Delete("/items/{productId}", h.remove)
}

type itemResponse struct {
	ProductID int64       `json:"productId"`
	Name      string      `json:"name"`
	Price     money.Cents `json:"price"`
	Quantity  int         `json:"quantity"`
	Total     money.Cents `json:"total"`
}

type cartResponse struct {
	Items      []itemResponse `json:"items"`
	Total      money.Cents    `json:"total"`
	TotalLabel string         `json:"totalLabel"`
}

func (h *Handler) respond(w http.ResponseWriter, status int) {
	items := h.svc.Cart()

	resp := cartResponse{Items: make([]itemResponse, len(items))}
	for i, it := range items {
		resp.Items[i] = itemResponse{
			ProductID: it.ID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Total:     it.Total(),
		}
	}

	resp.Total = pdv.CartTotal(items)
	resp.TotalLabel = resp.Total.String()

	render.JSON(w, status, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK)
}

type addRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if !render.Decode(w, r, &req) {
		return
	}

	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if err := h.svc.AddToCart(req.ProductID, req.Quantity); err != nil {
		render.Error(w, err)
		return
	}

	h.respond(w, http.StatusOK)
}

type updateRequest struct {
	Quantity int `json:"quantity"`
}

// update sets a line's quantity; zero or less removes the line.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r, "productId")
	if !ok {
		return
	}

	var req updateRequest
	if !render.Decode(w, r, &req) {
		return
	}

	h.svc.UpdateCartItem(id, req.Quantity)
	h.respond(w, http.StatusOK)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r, "productId")
	if !ok {
		return
	}

	h.svc.RemoveFromCart(id)
	h.respond(w, http.StatusOK)
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearCart()
	w.WriteHeader(http.StatusNoContent)
}
