package auth

import (
	"net/http"

	"blogauth/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh-token", h.RefreshToken)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	authGroup := protected.Group("/auth")
	{
		authGroup.POST("/signout", h.Signout)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	messages, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register user")
		return
	}
	if len(messages) > 0 {
		response.ErrorWithDetails(c, http.StatusBadRequest, "REGISTRATION_REJECTED", "Registration was rejected", messages)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message": "Registration successful",
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login")
		return
	}
	if !result.IsAuthenticated {
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", result.ErrorMessage)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *Handler) RefreshToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid payload")
		return
	}

	result, err := h.service.Refresh(c.Request.Context(), req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "REFRESH_FAILED", "Failed to refresh token")
		return
	}
	if result == nil {
		// access token failed structural or signature validation
		response.Error(c, http.StatusBadRequest, "INVALID_TOKEN", MsgInvalidToken)
		return
	}
	if !result.IsAuthenticated {
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", result.ErrorMessage)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Signout revokes the caller's refresh token. The user id comes from
// the authenticated session, never from the request body.
func (h *Handler) Signout(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	if err := h.service.Revoke(c.Request.Context(), userID); err != nil {
		response.Error(c, http.StatusInternalServerError, "SIGNOUT_FAILED", "Failed to revoke token")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Signed out",
	})
}
