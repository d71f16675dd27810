package orders

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/grommetlabs/storefront-api/internal/apperr"
	"github.com/grommetlabs/storefront-api/internal/aws"
	"github.com/grommetlabs/storefront-api/internal/catalog"
	"github.com/grommetlabs/storefront-api/internal/emailkey"
	"github.com/grommetlabs/storefront-api/internal/logging"
	"github.com/grommetlabs/storefront-api/internal/validation"
)

const (
	orderIDPrefix = "GMT-"
	orderIDChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	orderIDLength = 6

	// maxIDAttempts bounds the collision retry loop on order creation.
	maxIDAttempts = 5
)

// SubmitInput is the untrusted cart submission. Item names and prices are
// advisory display data; the catalog is authoritative.
type SubmitInput struct {
	Name        string
	Email       string
	Phone       string
	Items       []LineItem
	TotalAmount float64
}

// SubmitResult carries the persisted order and its WhatsApp deep link.
type SubmitResult struct {
	Order        Order
	WhatsAppLink string
}

// Workflow converts a cart into a persisted order: validation, per-item stock
// reservation, server-side re-pricing, transactional persistence and the deep
// link. Publisher and Metrics are best-effort and may be nil.
type Workflow struct {
	Catalog   *catalog.Store
	Orders    *Store
	Recipient string
	Publisher *aws.Publisher
	Metrics   *aws.Metrics
	nowFunc   func() time.Time
}

// NewWorkflow wires a Workflow from its collaborators.
func NewWorkflow(catalogStore *catalog.Store, orderStore *Store, recipient string) *Workflow {
	return &Workflow{
		Catalog:   catalogStore,
		Orders:    orderStore,
		Recipient: recipient,
		nowFunc:   time.Now,
	}
}

// Submit runs the order workflow. Any failure leaves no order record behind;
// stock decremented for earlier line items is re-incremented before returning.
func (w *Workflow) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	phone, err := w.validate(&in)
	if err != nil {
		return nil, err
	}

	// Reserve sequentially so a failure names the exact line item.
	reserved := make([]LineItem, 0, len(in.Items))
	priced := make([]LineItem, 0, len(in.Items))
	for _, item := range in.Items {
		product, err := w.Catalog.Reserve(ctx, item.ProductID, item.Name, item.Quantity)
		if err != nil {
			w.compensate(ctx, reserved)
			if apperr.KindOf(err) == apperr.KindInternal {
				return nil, apperr.Wrap(apperr.KindInternal, "Failed to create order. Please try again.", err)
			}
			return nil, err
		}
		reserved = append(reserved, item)
		priced = append(priced, LineItem{
			ProductID: item.ProductID,
			Name:      product.Name,
			UnitPrice: product.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	// Re-price from the catalog and reject totals that drift beyond a cent.
	total := 0.0
	for _, item := range priced {
		total += item.UnitPrice * float64(item.Quantity)
	}
	if centsOf(total) != centsOf(in.TotalAmount) {
		w.compensate(ctx, reserved)
		return nil, apperr.Newf(apperr.KindValidation,
			"Order total does not match current prices. Expected: %.2f", total)
	}

	now := w.nowFunc()
	order := Order{
		CustomerName: strings.TrimSpace(in.Name),
		Email:        strings.TrimSpace(in.Email),
		Phone:        phone,
		Items:        priced,
		TotalAmount:  total,
		Status:       StatusPending,
		PaymentMode:  PaymentModeWhatsApp,
		CreatedAt:    now,
	}
	emailKey := emailkey.Encode(order.Email)

	if err := w.persist(ctx, &order, emailKey); err != nil {
		w.compensate(ctx, reserved)
		return nil, apperr.Wrap(apperr.KindInternal, "Failed to create order. Please try again.", err)
	}

	w.notify(ctx, order, emailKey)

	return &SubmitResult{
		Order:        order,
		WhatsAppLink: BuildWhatsAppLink(w.Recipient, order),
	}, nil
}

// validate enforces the submission constraints in order, short-circuiting on
// the first failure. Returns the digits-only phone number.
func (w *Workflow) validate(in *SubmitInput) (string, error) {
	if strings.TrimSpace(in.Name) == "" {
		return "", apperr.New(apperr.KindValidation, "Name is required")
	}
	if !validation.ValidEmail(in.Email) {
		return "", apperr.New(apperr.KindValidation, "Invalid email address")
	}
	phone, ok := validation.PhoneDigits(in.Phone)
	if !ok {
		return "", apperr.New(apperr.KindValidation, "Invalid phone number")
	}
	if len(in.Items) == 0 {
		return "", apperr.New(apperr.KindValidation, "Order must contain at least one item")
	}
	for _, item := range in.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return "", apperr.New(apperr.KindValidation, "Order contains an invalid item")
		}
	}
	if in.TotalAmount <= 0 {
		return "", apperr.New(apperr.KindValidation, "Invalid total amount")
	}
	return phone, nil
}

// persist writes the order and its index entry, regenerating the order id on
// collision.
func (w *Workflow) persist(ctx context.Context, order *Order, emailKey string) error {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := generateOrderID()
		if err != nil {
			return err
		}
		order.OrderID = id

		ref := OrderRef{
			EmailKey:    emailKey,
			OrderID:     id,
			CreatedAt:   order.CreatedAt,
			TotalAmount: order.TotalAmount,
		}
		err = w.Orders.CreateWithIndexTransaction(ctx, *order, ref)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrOrderIDTaken) {
			return err
		}
	}
	return fmt.Errorf("exhausted %d order id attempts", maxIDAttempts)
}

// compensate re-increments stock for every already-reserved item. Failures
// are logged and skipped; there is nothing better to do mid-unwind.
func (w *Workflow) compensate(ctx context.Context, reserved []LineItem) {
	for _, item := range reserved {
		if err := w.Catalog.Release(ctx, item.ProductID, item.Quantity); err != nil {
			logging.FromContext(ctx).Error("stock release failed",
				"product_id", item.ProductID, "quantity", item.Quantity, "err", err)
		}
	}
}

// notify emits the best-effort order event and metric. Neither can fail the
// submission.
func (w *Workflow) notify(ctx context.Context, order Order, emailKey string) {
	if w.Publisher.Enabled() {
		ev := aws.OrderCreatedEvent{
			OrderID:     order.OrderID,
			EmailKey:    emailKey,
			TotalAmount: order.TotalAmount,
			CreatedAt:   order.CreatedAt,
		}
		if err := w.Publisher.PublishOrderCreated(ctx, ev); err != nil {
			logging.FromContext(ctx).Error("order event publish failed", "order_id", order.OrderID, "err", err)
		}
	}
	if w.Metrics.Enabled() {
		if err := w.Metrics.Count(ctx, aws.MetricOrdersSubmitted, 1); err != nil {
			logging.FromContext(ctx).Warn("metric emit failed", "metric", aws.MetricOrdersSubmitted, "err", err)
		}
	}
}

// generateOrderID draws GMT- plus six uppercase alphanumerics.
func generateOrderID() (string, error) {
	var b strings.Builder
	b.WriteString(orderIDPrefix)
	max := big.NewInt(int64(len(orderIDChars)))
	for i := 0; i < orderIDLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("draw order id: %w", err)
		}
		b.WriteByte(orderIDChars[n.Int64()])
	}
	return b.String(), nil
}

func centsOf(amount float64) int {
	return int(math.Round(amount * 100))
}
