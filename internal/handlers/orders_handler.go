package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/grommetlabs/storefront-api/internal/apperr"
	"github.com/grommetlabs/storefront-api/internal/emailkey"
	"github.com/grommetlabs/storefront-api/internal/orders"
	"github.com/grommetlabs/storefront-api/internal/validation"
)

func registerOrderRoutes(r *gin.Engine, v *validatorv10.Validate, workflow *orders.Workflow, store *orders.Store) {
	r.POST("/orders", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.CreateOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		items := make([]orders.LineItem, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, orders.LineItem{
				ProductID: it.ProductID,
				Name:      it.Name,
				UnitPrice: it.Price,
				Quantity:  it.Quantity,
			})
		}

		res, err := workflow.Submit(ctx, orders.SubmitInput{
			Name:        req.Name,
			Email:       req.Email,
			Phone:       req.Phone,
			Items:       items,
			TotalAmount: req.TotalAmount,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success":      true,
			"message":      "Order created successfully",
			"orderId":      res.Order.OrderID,
			"whatsappLink": res.WhatsAppLink,
			"orderData": gin.H{
				"orderId":     res.Order.OrderID,
				"status":      res.Order.Status,
				"totalAmount": res.Order.TotalAmount,
				"createdAt":   res.Order.CreatedAt.UnixMilli(),
			},
		})
	})

	r.GET("/orders/:id", func(c *gin.Context) {
		ctx := c.Request.Context()

		order, err := store.Get(ctx, c.Param("id"))
		if err != nil {
			respondError(c, apperr.Wrap(apperr.KindInternal, "Internal server error. Please try again.", err))
			return
		}
		if order == nil {
			respondError(c, apperr.New(apperr.KindNotFound, "Order not found"))
			return
		}
		c.JSON(http.StatusOK, orderJSON(*order))
	})

	r.GET("/my-orders", func(c *gin.Context) {
		ctx := c.Request.Context()

		address := c.Query("email")
		if !validation.ValidEmail(address) {
			respondError(c, apperr.New(apperr.KindValidation, "Invalid email address"))
			return
		}

		refs, err := store.ListByEmailKey(ctx, emailkey.Encode(address))
		if err != nil {
			respondError(c, apperr.Wrap(apperr.KindInternal, "Internal server error. Please try again.", err))
			return
		}

		out := make([]gin.H, 0, len(refs))
		for _, ref := range refs {
			out = append(out, gin.H{
				"orderId":     ref.OrderID,
				"createdAt":   ref.CreatedAt.UnixMilli(),
				"totalAmount": ref.TotalAmount,
			})
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "orders": out})
	})
}

func orderJSON(o orders.Order) gin.H {
	items := make([]gin.H, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, gin.H{
			"id":       it.ProductID,
			"name":     it.Name,
			"price":    it.UnitPrice,
			"quantity": it.Quantity,
		})
	}
	return gin.H{
		"orderId":     o.OrderID,
		"name":        o.CustomerName,
		"email":       o.Email,
		"phone":       o.Phone,
		"items":       items,
		"totalAmount": o.TotalAmount,
		"status":      o.Status,
		"paymentMode": o.PaymentMode,
		"createdAt":   o.CreatedAt.UnixMilli(),
	}
}
