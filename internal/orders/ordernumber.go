package orders

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// NewOrderNumber builds the human-readable label shown on receipts:
// wall-clock timestamp plus a random suffix. It carries no uniqueness
// guarantee; the order id remains the durable key.
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("TEA-%s-%04d", now.Format("20060102150405"), rand.IntN(10000))
}
