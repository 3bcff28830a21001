package dto

import "visaflow_backend/internal/models"

type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone *string `json:"phone" validate:"omitempty,max=30"`
}

type RegisterDeviceRequest struct {
	Token    string                `json:"token" validate:"required"`
	Platform models.DevicePlatform `json:"platform" validate:"required,oneof=ios android web"`
}

type UserListResponse struct {
	Users      []*UserResponse `json:"users"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}
