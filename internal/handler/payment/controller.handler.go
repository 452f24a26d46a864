package payment

import (
	"context"
	"net/http"
	types "readafrik-checkout/internal/common/type"
	"readafrik-checkout/internal/pkg/apperr"
	"readafrik-checkout/internal/pkg/helper"
	"readafrik-checkout/internal/pkg/jwt"
	"readafrik-checkout/internal/pkg/middleware"
	callbackService "readafrik-checkout/internal/service/callback"
	paymentService "readafrik-checkout/internal/service/payment"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx             context.Context
	paymentService  paymentService.IService
	callbackService callbackService.IService
	tokens          *jwt.Manager
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup)
	NewPageRoutes(e *gin.Engine)
}

func NewHandler(ctx context.Context, paymentService paymentService.IService, callbackService callbackService.IService, tokens *jwt.Manager) IHandler {
	return &Handler{
		ctx:             ctx,
		paymentService:  paymentService,
		callbackService: callbackService,
		tokens:          tokens,
	}
}

// InitializePayment handles POST /api/payment/initialize. It validates the
// purchase intent, opens a Paystack transaction and returns the hosted
// checkout URL.
func (h *Handler) InitializePayment(c *gin.Context) {
	send := c.MustGet(middleware.SendKey).(func(r *types.Response))

	var req paymentService.InitializePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Error:   apperr.Validation(err.Error()),
		}))
		return
	}

	send(h.paymentService.InitializePayment(c.Request.Context(), &req))
}

// VerifyPayment handles GET /api/payment/verify?reference=.
func (h *Handler) VerifyPayment(c *gin.Context) {
	send := c.MustGet(middleware.SendKey).(func(r *types.Response))
	send(h.paymentService.VerifyPayment(c.Request.Context(), c.Query("reference")))
}

// ListOrders handles GET /api/admin/orders.
func (h *Handler) ListOrders(c *gin.Context) {
	send := c.MustGet(middleware.SendKey).(func(r *types.Response))

	var req paymentService.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid query parameters",
			Error:   apperr.Validation(err.Error()),
		}))
		return
	}

	send(h.paymentService.ListOrders(c.Request.Context(), &req))
}

// GetOrder handles GET /api/admin/orders/:reference.
func (h *Handler) GetOrder(c *gin.Context) {
	send := c.MustGet(middleware.SendKey).(func(r *types.Response))
	send(h.paymentService.GetOrder(c.Request.Context(), c.Param("reference")))
}

// CallbackPage handles GET /payment/callback, where Paystack sends the
// customer back after checkout.
func (h *Handler) CallbackPage(c *gin.Context) {
	view := h.callbackService.Resolve(c.Request.Context(), c.Query("reference"))
	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, "callback.html", view)
}
