package redisx

import "time"

const (
	// Session lookup: session:{token} -> hash {user_id, admin}
	KeySession = "session:%s"

	// Catalog cache: product:{product_id} -> product JSON
	KeyProduct = "product:%s"

	// Order status cache: order_status:{order_id} -> status string
	KeyOrderStatus = "order_status:%s"
)

var (
	TTLProductCache = 5 * time.Minute
	TTLStatusCache  = 5 * time.Minute
)
