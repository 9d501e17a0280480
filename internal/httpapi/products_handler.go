package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fulfillment/internal/service/product"
)

// ProductsHandler — HTTP-ручки каталога.
type ProductsHandler struct {
	svc    *product.Service
	logger *log.Entry
}

// NewProductsHandler создаёт handler каталога.
func NewProductsHandler(svc *product.Service, logger *log.Entry) *ProductsHandler {
	if logger == nil {
		logger = log.New().WithField("component", "products-handler")
	}
	return &ProductsHandler{svc: svc, logger: logger}
}

// Register монтирует маршруты каталога.
func (h *ProductsHandler) Register(r chi.Router) {
	r.Post("/products", h.create)
	r.Get("/products", h.list)
	r.Get("/products/{id}", h.get)
	r.Put("/products/{id}", h.update)
	r.Delete("/products/{id}", h.delete)
}

type createProductRequest struct {
	Name       string `json:"name"`
	PriceMinor int64  `json:"price_minor"`
	Stock      int32  `json:"stock"`
}

type updateProductRequest struct {
	Name       *string `json:"name"`
	PriceMinor *int64  `json:"price_minor"`
	Stock      *int32  `json:"stock"`
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	created, err := h.svc.Create(r.Context(), product.CreateInput{
		Name:       req.Name,
		PriceMinor: req.PriceMinor,
		Stock:      req.Stock,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductJSON(created))
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	found, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]productJSON, 0, len(found))
	for _, p := range found {
		out = append(out, toProductJSON(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	found, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductJSON(found))
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	updated, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), product.UpdateInput{
		Name:       req.Name,
		PriceMinor: req.PriceMinor,
		Stock:      req.Stock,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductJSON(updated))
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
