package main

import "time"

// OrderCreatedEvent mirrors the API's order event feed payload.
type OrderCreatedEvent struct {
	EventID     string    `json:"event_id"`
	OrderID     string    `json:"order_id"`
	EmailKey    string    `json:"email_key"`
	TotalAmount float64   `json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
}
