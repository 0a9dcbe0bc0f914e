package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all user-related routes (including Auth).
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	// Public Routes
	authGroup := g.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	// Authenticated Routes
	g.GET("/me", authMiddleware, h.Me)

	usersGroup := g.Group("/usuarios")
	usersGroup.Use(authMiddleware)
	{
		usersGroup.GET("", adminMiddleware, h.List)
		usersGroup.GET("/:id", h.Get)
	}
}
