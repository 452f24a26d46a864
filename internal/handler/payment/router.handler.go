package payment

import (
	"readafrik-checkout/internal/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup) {
	payment := e.Group("/payment")

	payment.POST("/initialize", h.InitializePayment)
	payment.GET("/verify", h.VerifyPayment)

	admin := e.Group("/admin", middleware.AuthMiddleware(h.tokens))

	admin.GET("/orders", h.ListOrders)
	admin.GET("/orders/:reference", h.GetOrder)
}

func (h *Handler) NewPageRoutes(e *gin.Engine) {
	e.GET("/payment/callback", h.CallbackPage)
}
