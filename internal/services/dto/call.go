package dto

import "visaflow_backend/internal/models"

type CreateInvitationRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	RoomID      string `json:"room_id" validate:"required"`
	Mode        string `json:"mode" validate:"required,call_mode"`
}

type InvitationResponse struct {
	ID           string            `json:"id"`
	CallerUID    string            `json:"caller_uid"`
	RecipientUID string            `json:"recipient_uid"`
	RoomID       string            `json:"room_id"`
	Mode         models.CallMode   `json:"mode"`
	Status       models.CallStatus `json:"status"`
}
