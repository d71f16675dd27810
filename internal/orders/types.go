package orders

import "time"

// Orders are created once and never mutated by this service. Status
// transitions happen out of band, during manual WhatsApp confirmation.
const StatusPending = "Pending"

// PaymentModeWhatsApp marks orders settled through the WhatsApp handoff.
const PaymentModeWhatsApp = "WhatsApp"

// LineItem is one cart row as persisted on the order. Name and unit price are
// the authoritative catalog values captured at reservation time, not the
// client-supplied display values.
type LineItem struct {
	ProductID string  `dynamodbav:"product_id"`
	Name      string  `dynamodbav:"name"`
	UnitPrice float64 `dynamodbav:"unit_price"`
	Quantity  int     `dynamodbav:"quantity"`
}

// Order is the item stored in the orders table.
type Order struct {
	OrderID      string     `dynamodbav:"order_id"` // PK, GMT-XXXXXX
	CustomerName string     `dynamodbav:"customer_name"`
	Email        string     `dynamodbav:"email"`
	Phone        string     `dynamodbav:"phone"` // digits only
	Items        []LineItem `dynamodbav:"items"`
	TotalAmount  float64    `dynamodbav:"total_amount"`
	Status       string     `dynamodbav:"status"`
	PaymentMode  string     `dynamodbav:"payment_mode"`
	CreatedAt    time.Time  `dynamodbav:"created_at"`
}

// OrderRef is the per-customer index entry, written alongside the order and
// never independently mutated.
type OrderRef struct {
	EmailKey    string    `dynamodbav:"email_key"` // PK
	OrderID     string    `dynamodbav:"order_id"`  // SK
	CreatedAt   time.Time `dynamodbav:"created_at"`
	TotalAmount float64   `dynamodbav:"total_amount"`
}
