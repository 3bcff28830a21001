package handlers

import (
	"net/http"

	"visaflow_backend/internal/middleware"
	"visaflow_backend/internal/services"
	"visaflow_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	*BaseHandler
	documentService services.DocumentService
}

func NewDocumentHandler(base *BaseHandler, documentService services.DocumentService) *DocumentHandler {
	return &DocumentHandler{BaseHandler: base, documentService: documentService}
}

func (h *DocumentHandler) RegisterRoutes(r *gin.RouterGroup) {
	cases := r.Group("/cases")
	cases.Use(middleware.AuthMiddleware())
	{
		cases.POST("/:caseId/documents", h.AddDocument)
		cases.GET("/:caseId/documents", h.ListDocuments)
		cases.PATCH("/:caseId/documents/:documentId", middleware.RequireStaff(), h.ReviewDocument)
		cases.DELETE("/:caseId/documents/:documentId", h.DeleteDocument)
	}
}

func (h *DocumentHandler) AddDocument(c *gin.Context) {
	userID, ok := h.AuthenticatedUserID(c)
	if !ok {
		return
	}

	var req dto.CreateDocumentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.documentService.AddDocument(userID, c.Param("caseId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	userID, ok := h.AuthenticatedUserID(c)
	if !ok {
		return
	}

	docs, err := h.documentService.ListDocuments(userID, c.Param("caseId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

func (h *DocumentHandler) ReviewDocument(c *gin.Context) {
	userID, ok := h.AuthenticatedUserID(c)
	if !ok {
		return
	}

	var req dto.ReviewDocumentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.documentService.ReviewDocument(userID, c.Param("documentId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	userID, ok := h.AuthenticatedUserID(c)
	if !ok {
		return
	}

	if err := h.documentService.DeleteDocument(userID, c.Param("documentId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}
