package validation

import (
	"math"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with the custom phone rule and the
// struct-level total check registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	_ = v.RegisterValidation("phone", func(fl validatorv10.FieldLevel) bool {
		_, ok := PhoneDigits(fl.Field().String())
		return ok
	})

	// The declared total must equal the client-price item sum to the cent.
	// The catalog re-pricing in the workflow is still authoritative; this
	// just rejects internally inconsistent carts before any store access.
	v.RegisterStructValidation(createOrderStructValidation, CreateOrderRequest{})

	return v
}

func createOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CreateOrderRequest)

	var sum float64
	for _, it := range req.Items {
		sum += float64(it.Quantity) * it.Price
	}

	sumCents := int(math.Round(sum * 100))
	totalCents := int(math.Round(req.TotalAmount * 100))
	if sumCents != totalCents {
		sl.ReportError(req.TotalAmount, "totalAmount", "TotalAmount", "total_match_items", "")
	}
}
