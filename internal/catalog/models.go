package catalog

import "time"

type Product struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Image      string    `json:"image"`
	PriceCents int       `json:"price"`
	Stock      int       `json:"stock"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
