package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"savage_backend/internal/services"
	"savage_backend/internal/services/dto"
	"savage_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
	// appURL - адрес фронтенда для редиректа после OAuth callback
	appURL string
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, appURL string) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
		appURL:      appURL,
	}
}

// RegisterRoutes регистрирует все маршруты аутентификации
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.GET("/oauth/:provider", h.OAuthRedirect)
		auth.GET("/oauth/:provider/callback", h.OAuthCallback)
	}

	users := rg.Group("/users")
	users.Use(authMW)
	{
		users.GET("/me", h.Me)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.authService.Register(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.authService.Login(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.Me(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// OAuthRedirect отдает URL авторизации провайдера
func (h *AuthHandler) OAuthRedirect(c *gin.Context) {
	authURL, err := h.authService.OAuthAuthorizeURL(c.Param("provider"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"auth_url": authURL})
}

// OAuthCallback обменивает код провайдера на нашу пару токенов
// и редиректит на фронтенд
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing authorization code"))
		return
	}

	response, err := h.authService.OAuthCallback(c.Request.Context(), c.Param("provider"), code)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	redirectURL := fmt.Sprintf("%s/callback?access_token=%s&refresh_token=%s",
		h.appURL,
		url.QueryEscape(response.AccessToken),
		url.QueryEscape(response.RefreshToken),
	)
	c.Redirect(http.StatusFound, redirectURL)
}
