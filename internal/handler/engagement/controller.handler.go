package engagement

import (
	"context"
	"net/http"
	types "readafrik-checkout/internal/common/type"
	"readafrik-checkout/internal/pkg/apperr"
	"readafrik-checkout/internal/pkg/helper"
	"readafrik-checkout/internal/pkg/middleware"
	engagementService "readafrik-checkout/internal/service/engagement"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx               context.Context
	engagementService engagementService.IService
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup)
}

func NewHandler(ctx context.Context, engagementService engagementService.IService) IHandler {
	return &Handler{
		ctx:               ctx,
		engagementService: engagementService,
	}
}

// Subscribe handles POST /api/subscribe.
func (h *Handler) Subscribe(c *gin.Context) {
	send := c.MustGet(middleware.SendKey).(func(r *types.Response))

	var req engagementService.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(badBody(err))
		return
	}

	send(h.engagementService.Subscribe(c.Request.Context(), &req))
}

// RegisterEvent handles POST /api/register-event.
func (h *Handler) RegisterEvent(c *gin.Context) {
	send := c.MustGet(middleware.SendKey).(func(r *types.Response))

	var req engagementService.RegisterEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(badBody(err))
		return
	}

	send(h.engagementService.RegisterEvent(c.Request.Context(), &req))
}

func badBody(err error) *types.Response {
	return helper.ParseResponse(&types.Response{
		Code:    http.StatusBadRequest,
		Message: "Invalid request body",
		Error:   apperr.Validation(err.Error()),
	})
}
