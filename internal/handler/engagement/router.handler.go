package engagement

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup) {
	e.POST("/subscribe", h.Subscribe)
	e.POST("/register-event", h.RegisterEvent)
}
