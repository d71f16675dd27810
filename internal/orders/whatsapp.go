package orders

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildWhatsAppLink renders the prefilled wa.me deep link for an order. The
// link is the sole checkout deliverable handed to the client; the recipient is
// the shop's WhatsApp number in international format without the plus sign.
func BuildWhatsAppLink(recipient string, o Order) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", recipient, encodeURIComponent(whatsAppMessage(o)))
}

func whatsAppMessage(o Order) string {
	lines := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, fmt.Sprintf("• %s x%d = ₹%.2f", it.Name, it.Quantity, it.UnitPrice*float64(it.Quantity)))
	}

	return fmt.Sprintf(
		"Hello! 👋\n\nI would like to place an order:\n\n*Order ID:* %s\n*Name:* %s\n*Email:* %s\n*Phone:* %s\n\n*Items:*\n%s\n\n*Total Amount:* ₹%.2f\n\nPlease confirm if this order is ready for checkout.\n\nThank you!",
		o.OrderID, o.CustomerName, o.Email, o.Phone, strings.Join(lines, "\n"), o.TotalAmount,
	)
}

// encodeURIComponent matches the JS escaping wa.me expects: spaces become %20,
// not +.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
