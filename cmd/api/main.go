package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/grommetlabs/storefront-api/internal/aws"
	"github.com/grommetlabs/storefront-api/internal/handlers"
	"github.com/grommetlabs/storefront-api/internal/logging"
)

func setupRouter(cfg handlers.Config, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		ctx := logging.IntoContext(c.Request.Context(), logger)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterRoutes(r, cfg)

	return r
}

func main() {
	_ = godotenv.Load()

	logger := logging.New(os.Getenv("LOG_LEVEL"))
	slog.SetDefault(logger)

	clients, err := aws.NewClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	cfg := handlers.Config{
		DynamoDB:   clients.DynamoDB,
		SQS:        clients.SQS,
		SES:        clients.SES,
		CloudWatch: clients.CloudWatch,

		StockTable:        os.Getenv("STOCK_TABLE"),
		VerificationTable: os.Getenv("VERIFICATION_TABLE"),
		OrdersTable:       os.Getenv("ORDERS_TABLE"),
		UserOrdersTable:   os.Getenv("USER_ORDERS_TABLE"),

		QueueURL:         os.Getenv("ORDER_EVENTS_QUEUE_URL"),
		WhatsAppPhone:    getenv("WHATSAPP_PHONE_NUMBER", "919876543210"),
		SenderEmail:      os.Getenv("OTP_SENDER_EMAIL"),
		SenderName:       getenv("OTP_SENDER_NAME", "Grommet"),
		MetricsNamespace: os.Getenv("METRICS_NAMESPACE"),
	}

	r := setupRouter(cfg, logger)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
