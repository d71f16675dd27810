// Package handlers wires the HTTP surface: OTP issuance/verification and the
// order workflow, plus the read endpoints backing the my-orders view.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/grommetlabs/storefront-api/internal/apperr"
	"github.com/grommetlabs/storefront-api/internal/aws"
	"github.com/grommetlabs/storefront-api/internal/catalog"
	"github.com/grommetlabs/storefront-api/internal/email"
	"github.com/grommetlabs/storefront-api/internal/logging"
	"github.com/grommetlabs/storefront-api/internal/orders"
	"github.com/grommetlabs/storefront-api/internal/otp"
	"github.com/grommetlabs/storefront-api/internal/validation"
)

// Config groups the dependencies and settings for all routes.
type Config struct {
	DynamoDB   aws.DynamoDBAPI
	SQS        aws.SQSAPI
	SES        aws.SESAPI
	CloudWatch aws.CloudWatchAPI

	StockTable        string
	VerificationTable string
	OrdersTable       string
	UserOrdersTable   string

	QueueURL         string
	WhatsAppPhone    string
	SenderEmail      string
	SenderName       string
	MetricsNamespace string
}

// RegisterRoutes constructs the stores, manager and workflow once and mounts
// every route on r.
func RegisterRoutes(r *gin.Engine, cfg Config) {
	v := validation.New()

	dispatcher := email.NewSESDispatcher(cfg.SES, cfg.SenderEmail, cfg.SenderName)
	manager := otp.NewManager(otp.NewStore(cfg.DynamoDB, cfg.VerificationTable), dispatcher)

	catalogStore := catalog.NewStore(cfg.DynamoDB, cfg.StockTable)
	orderStore := orders.NewStore(cfg.DynamoDB, cfg.OrdersTable, cfg.UserOrdersTable)
	workflow := orders.NewWorkflow(catalogStore, orderStore, cfg.WhatsAppPhone)
	workflow.Publisher = aws.NewPublisher(cfg.SQS, cfg.QueueURL)
	workflow.Metrics = aws.NewMetrics(cfg.CloudWatch, cfg.MetricsNamespace)

	registerOTPRoutes(r, v, manager, workflow.Metrics)
	registerOrderRoutes(r, v, workflow, orderStore)
}

// respondError maps a workflow error onto its status code and client-safe
// message, logging the full cause.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	logging.FromContext(c.Request.Context()).Warn("request failed",
		"path", c.FullPath(), "status", status, "kind", apperr.KindOf(err).String(), "err", err)
	c.JSON(status, gin.H{"error": apperr.UserMessage(err)})
}
