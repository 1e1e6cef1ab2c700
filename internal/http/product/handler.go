package product

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pdv/internal/http/render"
	"github.com/MrJamesThe3rd/pdv/internal/importer"
	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/pdv"
	"github.com/MrJamesThe3rd/pdv/internal/product"
)

// maxImportSize bounds an uploaded catalog file.
const maxImportSize = 10 << 20

type Handler struct {
	svc      *pdv.Service
	importer *importer.Service
}

func NewHandler(svc *pdv.Service, imp *importer.Service) *Handler {
	return &Handler{svc: svc, importer: imp}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/search", h.search)
	r.Get("/low-stock", h.lowStock)
	r.Post("/import", h.importCatalog)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type productRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       money.Cents `json:"price"`
	Cost        money.Cents `json:"cost"`
	Stock       int         `json:"stock"`
	MinStock    int         `json:"minStock"`
	Category    string      `json:"category"`
	Barcode     string      `json:"barcode"`
	Brand       string      `json:"brand"`
	Model       string      `json:"model"`
	Supplier    string      `json:"supplier"`
	Image       string      `json:"image"`
}

func (req productRequest) toProduct(id int64) product.Product {
	return product.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Cost:        req.Cost,
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		Category:    req.Category,
		Barcode:     req.Barcode,
		Brand:       req.Brand,
		Model:       req.Model,
		Supplier:    req.Supplier,
		Image:       req.Image,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, toResponseList(h.svc.Products()))
}

// search sets the shared search term, like typing in the catalog screen,
// and returns the matching products.
func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	h.svc.SetSearchTerm(r.URL.Query().Get("q"))
	render.JSON(w, http.StatusOK, toResponseList(h.svc.SearchProducts()))
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, toResponseList(h.svc.LowStockProducts()))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !render.Decode(w, r, &req) {
		return
	}

	p, err := h.svc.AddProduct(r.Context(), req.toProduct(0))
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r, "id")
	if !ok {
		return
	}

	p, found := h.svc.Product(id)
	if !found {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r, "id")
	if !ok {
		return
	}

	var req productRequest
	if !render.Decode(w, r, &req) {
		return
	}

	p := req.toProduct(id)
	if err := h.svc.UpdateProduct(r.Context(), p); err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		render.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// importCatalog accepts a multipart upload in the "file" field.
func (h *Handler) importCatalog(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	format := importer.Format(r.FormValue("format"))

	products, err := h.importer.Import(format, file)
	if err != nil {
		http.Error(w, "failed to parse file: "+err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.svc.ImportProducts(r.Context(), products)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, res)
}
