package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
	"github.com/vladislavdragonenkov/fulfillment/internal/service/order"
)

// OrdersHandler — HTTP-ручки заказов поверх оркестратора.
type OrdersHandler struct {
	svc    *order.Service
	logger *log.Entry
}

// NewOrdersHandler создаёт handler заказов.
func NewOrdersHandler(svc *order.Service, logger *log.Entry) *OrdersHandler {
	if logger == nil {
		logger = log.New().WithField("component", "orders-handler")
	}
	return &OrdersHandler{svc: svc, logger: logger}
}

// Register монтирует маршруты заказов.
func (h *OrdersHandler) Register(r chi.Router) {
	r.Post("/orders", h.create)
	r.Get("/orders", h.list)
	r.Get("/orders/{id}", h.get)
	r.Post("/orders/{id}/cancel", h.cancel)
	r.Patch("/orders/{id}/status", h.updateStatus)
}

type createOrderRequest struct {
	CustomerID string `json:"customer_id"`
	Items      []struct {
		ProductID string `json:"product_id"`
		Qty       int32  `json:"qty"`
	} `json:"items"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	items := make([]order.ItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, order.ItemRequest{ProductID: item.ProductID, Qty: item.Qty})
	}

	created, err := h.svc.CreateOrder(r.Context(), req.CustomerID, items)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderJSON(created))
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := domain.OrderFilter{CustomerID: query.Get("customer_id")}
	if status := query.Get("status"); status != "" {
		parsed := domain.OrderStatus(status)
		if !parsed.Valid() {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown order status"})
			return
		}
		filter.Status = parsed
	}

	page := parseIntParam(query.Get("page"))
	limit := parseIntParam(query.Get("limit"))

	result, err := h.svc.ListOrders(r.Context(), filter, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]orderViewJSON, 0, len(result.Orders))
	for _, view := range result.Orders {
		views = append(views, toOrderViewJSON(view))
	}
	writeJSON(w, http.StatusOK, struct {
		Orders     []orderViewJSON `json:"orders"`
		Pagination paginationJSON  `json:"pagination"`
	}{
		Orders: views,
		Pagination: paginationJSON{
			Total: result.Pagination.Total,
			Page:  result.Pagination.Page,
			Pages: result.Pagination.Pages,
		},
	})
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.GetOrderByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderViewJSON(view))
}

func (h *OrdersHandler) cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.CancelOrder(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	view, err := h.svc.GetOrderByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderViewJSON(view))
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	status := domain.OrderStatus(req.Status)
	if !status.Valid() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown order status"})
		return
	}

	updated, err := h.svc.UpdateOrderStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderJSON(updated))
}

// parseIntParam возвращает 0 для пустых и некорректных значений:
// дефолты пагинации подставляет сервисный слой.
func parseIntParam(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
