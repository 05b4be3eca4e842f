package orders

import "time"

type Order struct {
	ID          string       `json:"id"`
	UserID      string       `json:"userId"`
	OrderNumber string       `json:"orderNumber"`
	Status      Status       `json:"status"`
	TotalCents  int          `json:"totalAmount"`
	Shipping    ShippingInfo `json:"shippingInfo"`
	Lines       []Line       `json:"lines,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Line captures quantity and price at order time. The unit price is a snapshot,
// not a reference to the product's current price.
type Line struct {
	ID             string `json:"id"`
	OrderID        string `json:"orderId"`
	ProductID      string `json:"productId"`
	Qty            int    `json:"quantity"`
	UnitPriceCents int    `json:"price"`
}

type ShippingInfo struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`
}
