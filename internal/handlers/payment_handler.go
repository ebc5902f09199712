package handlers

import (
	"net/http"

	"savage_backend/internal/logger"
	"savage_backend/internal/services"
	"savage_backend/internal/services/dto"
	"savage_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	*BaseHandler
	enrollmentService services.EnrollmentService
}

func NewPaymentHandler(base *BaseHandler, enrollmentService services.EnrollmentService) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:       base,
		enrollmentService: enrollmentService,
	}
}

// RegisterRoutes регистрирует маршруты платежей
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("/yookassa/webhook", h.YooKassaWebhook)
	}
}

// YooKassaWebhook - прием уведомлений об оплате.
// Нерелевантные события и повторные доставки подтверждаются как успех,
// чтобы провайдер не устраивал шторм ретраев. Ошибки шлюза и битые
// метаданные, наоборот, отдаются как ошибки - пусть провайдер ретраит,
// а битую интеграцию будет видно.
func (h *PaymentHandler) YooKassaWebhook(c *gin.Context) {
	var event dto.PaymentEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid webhook payload"))
		return
	}

	outcome, err := h.enrollmentService.HandlePaymentEvent(c.Request.Context(), &event)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	logger.CtxInfo(c.Request.Context(), "Payment event processed",
		"event", event.Event,
		"payment_id", event.Object.ID,
		"outcome", string(outcome),
	)

	c.JSON(http.StatusOK, gin.H{"received": true})
}
