package routes

import (
	"net/http"

	"savage_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты приложения.
// authMW - middleware проверки access токена; передается сюда,
// потому что ему нужен сконфигурированный TokenService.
func RegisterRoutes(router *gin.Engine, h *handlers.AppHandlers, authMW gin.HandlerFunc) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")

	h.AuthHandler.RegisterRoutes(api, authMW)
	h.PaymentHandler.RegisterRoutes(api)
	h.EnrollmentHandler.RegisterRoutes(api, authMW)
}
