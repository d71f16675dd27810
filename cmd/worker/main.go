package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	"github.com/grommetlabs/storefront-api/internal/aws"
	"github.com/grommetlabs/storefront-api/internal/logging"
)

func newProcessor(ctx context.Context, logger *slog.Logger) (*Processor, error) {
	clients, err := aws.NewClients(ctx)
	if err != nil {
		return nil, err
	}
	return &Processor{
		Metrics: aws.NewMetrics(clients.CloudWatch, os.Getenv("METRICS_NAMESPACE")),
		Logger:  logger,
	}, nil
}

func main() {
	_ = godotenv.Load()

	logger := logging.New(os.Getenv("LOG_LEVEL"))
	slog.SetDefault(logger)

	proc, err := newProcessor(context.Background(), logger)
	if err != nil {
		log.Fatalf("failed to init worker: %v", err)
	}

	handle := func(ctx context.Context, event events.SQSEvent) error {
		logger.Info("received order events", "count", len(event.Records))
		for _, r := range event.Records {
			if err := proc.Process(ctx, r.Body); err != nil {
				// return the error so the queue redrives the batch
				return err
			}
		}
		return nil
	}

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		body := os.Getenv("LOCAL_SQS_BODY")
		if body == "" {
			body = `{"event_id":"local-event-1","order_id":"GMT-LOCAL1","email_key":"bG9jYWxAZXhhbXBsZS5jb20","total_amount":1.0}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{{Body: body}},
		}
		if err := handle(context.Background(), event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(handle)
}
