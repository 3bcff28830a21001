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

type CaseHandler struct {
	*BaseHandler
	caseService services.CaseService
}

func NewCaseHandler(base *BaseHandler, caseService services.CaseService) *CaseHandler {
	return &CaseHandler{BaseHandler: base, caseService: caseService}
}

func (h *CaseHandler) RegisterRoutes(r *gin.RouterGroup) {
	cases := r.Group("/cases")
	cases.Use(middleware.AuthMiddleware())
	{
		cases.POST("", middleware.RequireRoles(models.UserRoleClient), h.CreateCase)
		cases.GET("", h.ListCases)
		cases.GET("/:caseId", h.GetCase)
		cases.GET("/:caseId/history", h.GetHistory)
		cases.PATCH("/:caseId/status", middleware.RequireStaff(), h.UpdateStatus)
		cases.PUT("/:caseId/agent", middleware.RequireRoles(models.UserRoleAdmin), h.AssignAgent)
	}
}

func (h *CaseHandler) CreateCase(c *gin.Context) {
	userID, ok := h.AuthenticatedUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCaseRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.caseService.CreateCase(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CaseHandler) ListCases(c *gin.Context) {
	userID, ok := h.AuthenticatedUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	criteria := dto.CaseCriteria{
		Status:      c.Query("status"),
		ServiceType: c.Query("service_type"),
		Page:        page,
		PageSize:    pageSize,
	}

	resp, err := h.caseService.ListCases(userID, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CaseHandler) GetCase(c *gin.Context) {
	userID, ok := h.AuthenticatedUserID(c)
	if !ok {
		return
	}

	resp, err := h.caseService.GetCase(userID, c.Param("caseId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CaseHandler) GetHistory(c *gin.Context) {
	userID, ok := h.AuthenticatedUserID(c)
	if !ok {
		return
	}

	history, err := h.caseService.GetHistory(userID, c.Param("caseId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (h *CaseHandler) UpdateStatus(c *gin.Context) {
	userID, ok := h.AuthenticatedUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCaseStatusRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.caseService.UpdateStatus(userID, c.Param("caseId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CaseHandler) AssignAgent(c *gin.Context) {
	var req dto.AssignAgentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.caseService.AssignAgent(c.Param("caseId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
