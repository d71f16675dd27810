package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metric names emitted by the API and the worker.
const (
	MetricOrdersSubmitted = "OrdersSubmitted"
	MetricOtpIssued       = "OtpIssued"
	MetricOtpVerified     = "OtpVerified"
	MetricOrdersNotified  = "OrdersNotified"
)

// Metrics emits best-effort operational counters to CloudWatch. Failures are
// returned to the caller for logging but must never fail a request.
type Metrics struct {
	CloudWatch CloudWatchAPI
	Namespace  string
	nowFunc    func() time.Time
}

// NewMetrics returns a Metrics emitter publishing into namespace.
func NewMetrics(cwClient CloudWatchAPI, namespace string) *Metrics {
	return &Metrics{
		CloudWatch: cwClient,
		Namespace:  namespace,
		nowFunc:    time.Now,
	}
}

// Enabled reports whether a namespace is configured.
func (m *Metrics) Enabled() bool {
	return m != nil && m.CloudWatch != nil && m.Namespace != ""
}

// Count publishes a single count datum for name.
func (m *Metrics) Count(ctx context.Context, name string, value float64) error {
	ts := m.nowFunc()
	input := &cloudwatch.PutMetricDataInput{
		Namespace: &m.Namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: &name,
				Timestamp:  &ts,
				Value:      &value,
				Unit:       cwtypes.StandardUnitCount,
			},
		},
	}
	if _, err := m.CloudWatch.PutMetricData(ctx, input); err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
