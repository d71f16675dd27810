package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/grommetlabs/storefront-api/internal/aws"
	"github.com/grommetlabs/storefront-api/internal/logging"
	"github.com/grommetlabs/storefront-api/internal/otp"
	"github.com/grommetlabs/storefront-api/internal/validation"
)

func registerOTPRoutes(r *gin.Engine, v *validatorv10.Validate, manager *otp.Manager, metrics *aws.Metrics) {
	r.POST("/otp/send", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.SendOTPRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		res, err := manager.Issue(ctx, req.Email)
		if err != nil {
			respondError(c, err)
			return
		}

		countMetric(c, metrics, aws.MetricOtpIssued)

		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"message":    "OTP sent successfully",
			"expiryTime": res.ExpiresAt.UnixMilli(),
		})
	})

	r.POST("/otp/verify", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.VerifyOTPRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		if err := manager.Verify(ctx, req.Email, req.Code); err != nil {
			respondError(c, err)
			return
		}

		countMetric(c, metrics, aws.MetricOtpVerified)

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"message":  "Email verified successfully",
			"verified": true,
		})
	})
}

func countMetric(c *gin.Context, metrics *aws.Metrics, name string) {
	if !metrics.Enabled() {
		return
	}
	ctx := c.Request.Context()
	if err := metrics.Count(ctx, name, 1); err != nil {
		logging.FromContext(ctx).Warn("metric emit failed", "metric", name, "err", err)
	}
}
