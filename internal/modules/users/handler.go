package users

import (
	"errors"
	"net/http"

	"blogauth/internal/middleware"
	"blogauth/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler manages HTTP interactions for user management
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	userGroup := protected.Group("/users")
	{
		userGroup.GET("", h.GetUser)

		admin := userGroup.Group("/")
		admin.Use(middleware.AdminOnly())
		{
			admin.GET("/list", h.ListUsers)
			admin.POST("/:username/suspend", h.Suspend)
			admin.POST("/:username/unsuspend", h.Unsuspend)
			admin.POST("/:username/change-username", h.ChangeUsername)
		}
	}
}

func (h *Handler) ListUsers(c *gin.Context) {
	suspendedOnly := c.Query("suspended") == "true"

	list, err := h.service.List(c.Request.Context(), suspendedOnly)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list users")
		return
	}

	out := make([]UserResponse, 0, len(list))
	for i := range list {
		out = append(out, toUserResponse(&list[i]))
	}
	response.Success(c, http.StatusOK, gin.H{"users": out})
}

// GetUser returns the profile for ?username=, defaulting to the caller.
func (h *Handler) GetUser(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		username = c.GetString("username")
	}
	if username == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	user, err := h.service.Get(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "GET_FAILED", "Failed to load user")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": toUserResponse(user)})
}

func (h *Handler) Suspend(c *gin.Context) {
	user, err := h.service.Suspend(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "SUSPEND_FAILED", "Failed to suspend user")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": toUserResponse(user)})
}

func (h *Handler) Unsuspend(c *gin.Context) {
	user, err := h.service.Unsuspend(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "UNSUSPEND_FAILED", "Failed to unsuspend user")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": toUserResponse(user)})
}

func (h *Handler) ChangeUsername(c *gin.Context) {
	var req ChangeUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	err := h.service.ChangeUsername(c.Request.Context(), c.Param("username"), req.NewUsername)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		case errors.Is(err, ErrUsernameTaken):
			response.Error(c, http.StatusConflict, "USERNAME_TAKEN", "This username is already taken")
		default:
			response.Error(c, http.StatusInternalServerError, "RENAME_FAILED", "Failed to change username")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Username changed"})
}
