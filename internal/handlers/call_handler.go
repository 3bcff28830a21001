package handlers

import (
	"net/http"

	"visaflow_backend/internal/middleware"
	"visaflow_backend/internal/services"
	"visaflow_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// CallHandler exposes the invitation lifecycle. The HTTP verb picks the
// transition: POST on a member accepts, DELETE rejects, PATCH cancels,
// PUT ends.
type CallHandler struct {
	*BaseHandler
	callService services.CallService
}

func NewCallHandler(base *BaseHandler, callService services.CallService) *CallHandler {
	return &CallHandler{BaseHandler: base, callService: callService}
}

func (h *CallHandler) RegisterRoutes(r *gin.RouterGroup) {
	calls := r.Group("/calls")
	calls.Use(middleware.AuthMiddleware())
	{
		calls.POST("/invitations", h.CreateInvitation)
		calls.POST("/invitations/:invitationId", h.AcceptInvitation)
		calls.DELETE("/invitations/:invitationId", h.RejectInvitation)
		calls.PATCH("/invitations/:invitationId", h.CancelInvitation)
		calls.PUT("/invitations/:invitationId", h.EndInvitation)
	}
}

func (h *CallHandler) CreateInvitation(c *gin.Context) {
	userID, ok := h.AuthenticatedUserID(c)
	if !ok {
		return
	}

	var req dto.CreateInvitationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.callService.CreateInvitation(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CallHandler) AcceptInvitation(c *gin.Context) {
	h.transition(c, h.callService.AcceptInvitation)
}

func (h *CallHandler) RejectInvitation(c *gin.Context) {
	h.transition(c, h.callService.RejectInvitation)
}

func (h *CallHandler) CancelInvitation(c *gin.Context) {
	h.transition(c, h.callService.CancelInvitation)
}

func (h *CallHandler) EndInvitation(c *gin.Context) {
	h.transition(c, h.callService.EndInvitation)
}

func (h *CallHandler) transition(c *gin.Context, apply func(actorID, invitationID string) (*dto.InvitationResponse, error)) {
	userID, ok := h.AuthenticatedUserID(c)
	if !ok {
		return
	}

	resp, err := apply(userID, c.Param("invitationId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
