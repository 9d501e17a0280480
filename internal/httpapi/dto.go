package httpapi

import (
	"time"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

type customerJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type productJSON struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	PriceMinor int64     `json:"price_minor"`
	Stock      int32     `json:"stock"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type orderJSON struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Status     string    `json:"status"`
	TotalMinor int64     `json:"total_minor"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type orderItemJSON struct {
	ID         string       `json:"id"`
	ProductID  string       `json:"product_id"`
	Qty        int32        `json:"qty"`
	PriceMinor int64        `json:"price_minor"`
	Product    *productJSON `json:"product,omitempty"`
}

type orderViewJSON struct {
	orderJSON
	Customer *customerJSON   `json:"customer,omitempty"`
	Items    []orderItemJSON `json:"items"`
}

type paginationJSON struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

func toCustomerJSON(c domain.Customer) customerJSON {
	return customerJSON{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toProductJSON(p domain.Product) productJSON {
	return productJSON{
		ID:         p.ID,
		Name:       p.Name,
		PriceMinor: p.PriceMinor,
		Stock:      p.Stock,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func toOrderJSON(o domain.Order) orderJSON {
	return orderJSON{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Status:     string(o.Status),
		TotalMinor: o.TotalMinor,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

func toOrderViewJSON(view domain.OrderView) orderViewJSON {
	out := orderViewJSON{
		orderJSON: toOrderJSON(view.Order),
		Items:     make([]orderItemJSON, 0, len(view.Items)),
	}
	if view.Customer != nil {
		c := toCustomerJSON(*view.Customer)
		out.Customer = &c
	}
	for _, item := range view.Items {
		itemJSON := orderItemJSON{
			ID:         item.Item.ID,
			ProductID:  item.Item.ProductID,
			Qty:        item.Item.Qty,
			PriceMinor: item.Item.PriceMinor,
		}
		if item.Product != nil {
			p := toProductJSON(*item.Product)
			itemJSON.Product = &p
		}
		out.Items = append(out.Items, itemJSON)
	}
	return out
}
