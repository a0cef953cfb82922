package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is an externally managed buyer. Customers own zero or more orders.
type Customer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product is a read-only catalog entry.
type Product struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Order is created exclusively by the order placement workflow and never
// mutated afterwards. OrderDate is always stored in UTC.
type Order struct {
	ID         int64           `json:"id"`
	CustomerID int64           `json:"customer_id"`
	Value      decimal.Decimal `json:"value"`
	OrderDate  time.Time       `json:"order_date"`
}

// RandomNumber is an audit record for every number handed out by the random service.
type RandomNumber struct {
	ID     int64 `json:"id"`
	Number int   `json:"number"`
}
