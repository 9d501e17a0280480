package httpapi

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fulfillment/internal/service/customer"
	"github.com/vladislavdragonenkov/fulfillment/internal/service/order"
	"github.com/vladislavdragonenkov/fulfillment/internal/service/product"
)

const requestTimeout = 15 * time.Second

// NewRouter собирает HTTP API сервиса: заказы, покупатели, каталог.
func NewRouter(
	orders *order.Service,
	customers *customer.Service,
	products *product.Service,
	logger *log.Entry,
) *chi.Mux {
	if logger == nil {
		logger = log.New().WithField("component", "http-api")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	NewOrdersHandler(orders, logger).Register(r)
	NewCustomersHandler(customers, logger).Register(r)
	NewProductsHandler(products, logger).Register(r)

	return r
}
