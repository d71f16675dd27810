package validation

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// BindAndValidate binds the JSON body into out and runs validation. On
// failure it writes the 400 response itself and returns an error so the
// handler can short-circuit.
func BindAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return err
	}

	if err := v.Struct(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": firstFailureMessage(err)})
		return err
	}
	return nil
}

// firstFailureMessage turns the first validation failure into the short
// user-facing message for its field.
func firstFailureMessage(err error) string {
	ve, ok := err.(validatorv10.ValidationErrors)
	if !ok || len(ve) == 0 {
		return "Invalid request"
	}
	fe := ve[0]

	if fe.Tag() == "total_match_items" {
		return "Total amount does not match the order items"
	}

	switch fe.Field() {
	case "Name":
		return "Name is required"
	case "Email":
		return "Invalid email address"
	case "Phone":
		return "Invalid phone number"
	case "Code":
		return "OTP must be 6 digits"
	case "Items":
		return "Order must contain at least one item"
	case "TotalAmount":
		return "Invalid total amount"
	case "ProductID":
		return "Order contains an item without an id"
	case "Price", "Quantity":
		return "Order contains an invalid item"
	default:
		return "Invalid request"
	}
}
