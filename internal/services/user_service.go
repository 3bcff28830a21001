package services

import (
	"visaflow_backend/internal/auth"
	"visaflow_backend/internal/models"
	"visaflow_backend/internal/repositories"
	"visaflow_backend/internal/services/dto"
	"visaflow_backend/pkg/apperrors"
)

type UserService interface {
	GetProfile(userID string) (*dto.UserResponse, error)
	UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	RegisterDevice(userID string, req *dto.RegisterDeviceRequest) error
	RemoveDevice(userID, token string) error
	ListUsers(page, pageSize int) (*dto.UserListResponse, error)
	SetUserStatus(userID string, status models.UserStatus) error
	SetUserRole(userID string, role models.UserRole) error
}

type userService struct {
	userRepo        repositories.UserRepository
	deviceTokenRepo repositories.DeviceTokenRepository
}

func NewUserService(
	userRepo repositories.UserRepository,
	deviceTokenRepo repositories.DeviceTokenRepository,
) UserService {
	return &userService{
		userRepo:        userRepo,
		deviceTokenRepo: deviceTokenRepo,
	}
}

func (s *userService) GetProfile(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return buildUserResponse(user), nil
}

func (s *userService) UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildUserResponse(user), nil
}

func (s *userService) RegisterDevice(userID string, req *dto.RegisterDeviceRequest) error {
	token := &models.DeviceToken{
		UserID:   userID,
		Token:    req.Token,
		Platform: req.Platform,
	}
	if err := s.deviceTokenRepo.Upsert(token); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *userService) RemoveDevice(userID, token string) error {
	if err := s.deviceTokenRepo.DeleteByToken(userID, token); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *userService) ListUsers(page, pageSize int) (*dto.UserListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	users, total, err := s.userRepo.FindAll(pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, buildUserResponse(&users[i]))
	}

	return &dto.UserListResponse{
		Users:      responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: calculateTotalPages(total, pageSize),
	}, nil
}

func (s *userService) SetUserRole(userID string, role models.UserRole) error {
	if err := auth.ValidateRole(role); err != nil {
		return apperrors.ErrInvalidUserRole
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	user.Role = role
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *userService) SetUserStatus(userID string, status models.UserStatus) error {
	if err := s.userRepo.UpdateStatus(userID, status); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}
