package validation

// SendOTPRequest is the payload for POST /otp/send.
type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyOTPRequest is the payload for POST /otp/verify.
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// OrderItem is a single client cart row. Name and price are display data the
// workflow re-prices against the catalog.
type OrderItem struct {
	ProductID string  `json:"id" validate:"required"`
	Name      string  `json:"name"`
	Price     float64 `json:"price" validate:"required,gt=0"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
}

// CreateOrderRequest is the payload for POST /orders. Field order matters:
// validation failures are reported for the first offending field, top to
// bottom.
type CreateOrderRequest struct {
	Name        string      `json:"name" validate:"required"`
	Email       string      `json:"email" validate:"required,email"`
	Phone       string      `json:"phone" validate:"required,phone"`
	Items       []OrderItem `json:"items" validate:"required,min=1,dive"`
	TotalAmount float64     `json:"totalAmount" validate:"required,gt=0"`
}
