package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/horarios")

	group.Use(authMiddleware)
	{
		group.GET("/:resourceId", h.ListByResource)
		group.POST("", h.Create)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)

		group.POST("/unavailable-slot", h.CreateSlot)
		group.GET("/unavailable-slot/:resourceId", h.ListSlotsByResource)
		group.DELETE("/unavailable-slot/:id", h.DeleteSlot)
	}
}
