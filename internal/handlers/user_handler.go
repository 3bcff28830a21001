package handlers

import (
	"net/http"
	"strconv"

	"visaflow_backend/internal/middleware"
	"visaflow_backend/internal/models"
	"visaflow_backend/internal/services"
	"visaflow_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{BaseHandler: base, userService: userService}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me", h.GetProfile)
		users.PUT("/me", h.UpdateProfile)
		users.POST("/me/devices", h.RegisterDevice)
		users.DELETE("/me/devices/:token", h.RemoveDevice)
	}

	admin := r.Group("/users")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("", h.ListUsers)
		admin.PATCH("/:userId/status", h.SetUserStatus)
		admin.PATCH("/:userId/role", h.SetUserRole)
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := h.AuthenticatedUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetProfile(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.AuthenticatedUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) RegisterDevice(c *gin.Context) {
	userID, ok := h.AuthenticatedUserID(c)
	if !ok {
		return
	}

	var req dto.RegisterDeviceRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.userService.RegisterDevice(userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Device registered"})
}

func (h *UserHandler) RemoveDevice(c *gin.Context) {
	userID, ok := h.AuthenticatedUserID(c)
	if !ok {
		return
	}

	if err := h.userService.RemoveDevice(userID, c.Param("token")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device removed"})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	users, err := h.userService.ListUsers(page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) SetUserRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" validate:"required,oneof=client agent admin"`
	}
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.userService.SetUserRole(c.Param("userId"), models.UserRole(req.Role)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated"})
}

func (h *UserHandler) SetUserStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" validate:"required,oneof=pending active suspended"`
	}
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.userService.SetUserStatus(c.Param("userId"), models.UserStatus(req.Status)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}
