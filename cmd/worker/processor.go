package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/grommetlabs/storefront-api/internal/aws"
)

// Processor handles order event feed messages for the back-office
// confirmation flow. It only observes: orders are immutable once created.
type Processor struct {
	Metrics *aws.Metrics
	Logger  *slog.Logger
}

// Process decodes one message body and records the notification. A decode
// error is returned so the queue redrives the message.
func (p *Processor) Process(ctx context.Context, body string) error {
	var ev OrderCreatedEvent
	if err := json.Unmarshal([]byte(body), &ev); err != nil {
		return fmt.Errorf("unmarshal order event: %w", err)
	}
	if ev.OrderID == "" {
		return fmt.Errorf("order event %s has no order id", ev.EventID)
	}

	p.Logger.Info("order awaiting confirmation",
		"order_id", ev.OrderID,
		"email_key", ev.EmailKey,
		"total_amount", ev.TotalAmount,
		"created_at", ev.CreatedAt,
	)

	if p.Metrics.Enabled() {
		if err := p.Metrics.Count(ctx, aws.MetricOrdersNotified, 1); err != nil {
			p.Logger.Warn("metric emit failed", "metric", aws.MetricOrdersNotified, "err", err)
		}
	}
	return nil
}
