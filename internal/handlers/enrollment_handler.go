package handlers

import (
	"net/http"

	"savage_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type EnrollmentHandler struct {
	*BaseHandler
	enrollmentService services.EnrollmentService
}

func NewEnrollmentHandler(base *BaseHandler, enrollmentService services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler:       base,
		enrollmentService: enrollmentService,
	}
}

// RegisterRoutes регистрирует маршруты записей на курс
func (h *EnrollmentHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	enrollments := rg.Group("/enrollments")
	enrollments.Use(authMW)
	{
		enrollments.POST("", h.Enroll)
	}
}

type enrollRequest struct {
	CourseID string `json:"course_id" validate:"required,uuid"`
}

// Enroll - самостоятельная запись текущего пользователя на курс
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req enrollRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	enrollment, err := h.enrollmentService.Enroll(userID, req.CourseID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}
