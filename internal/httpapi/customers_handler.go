package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fulfillment/internal/service/customer"
)

// CustomersHandler — HTTP-ручки покупателей.
type CustomersHandler struct {
	svc    *customer.Service
	logger *log.Entry
}

// NewCustomersHandler создаёт handler покупателей.
func NewCustomersHandler(svc *customer.Service, logger *log.Entry) *CustomersHandler {
	if logger == nil {
		logger = log.New().WithField("component", "customers-handler")
	}
	return &CustomersHandler{svc: svc, logger: logger}
}

// Register монтирует маршруты покупателей.
func (h *CustomersHandler) Register(r chi.Router) {
	r.Post("/customers", h.create)
	r.Get("/customers", h.search)
	r.Get("/customers/{id}", h.get)
	r.Put("/customers/{id}", h.update)
	r.Delete("/customers/{id}", h.delete)
}

type customerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (h *CustomersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	created, err := h.svc.Create(r.Context(), customer.CreateInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerJSON(created))
}

func (h *CustomersHandler) search(w http.ResponseWriter, r *http.Request) {
	found, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]customerJSON, 0, len(found))
	for _, c := range found {
		out = append(out, toCustomerJSON(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CustomersHandler) get(w http.ResponseWriter, r *http.Request) {
	found, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerJSON(found))
}

func (h *CustomersHandler) update(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	updated, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), customer.UpdateInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerJSON(updated))
}

func (h *CustomersHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
