package orders

import (
	"regexp"
	"testing"
	"time"
)

func TestNewOrderNumber(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	n := NewOrderNumber(now)

	re := regexp.MustCompile(`^TEA-20250314092653-\d{4}$`)
	if !re.MatchString(n) {
		t.Fatalf("unexpected order number format: %s", n)
	}
}
