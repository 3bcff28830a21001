package services

import (
	"time"

	"visaflow_backend/internal/auth"
	"visaflow_backend/internal/email"
	"visaflow_backend/internal/logger"
	"visaflow_backend/internal/models"
	"visaflow_backend/internal/realtime"
	"visaflow_backend/internal/repositories"
	"visaflow_backend/internal/services/dto"
	"visaflow_backend/pkg/apperrors"
)

const refreshTokenTTL = 30 * 24 * time.Hour

type AuthService interface {
	Register(req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(req *dto.RefreshRequest) (*dto.LoginResponse, error)
	Logout(refreshToken string) error
	VerifyEmail(token string) error
	ResendVerification(emailAddr string) error
	RequestPasswordReset(emailAddr string) error
	ResetPassword(req *dto.ResetPasswordRequest) error
	ChangePassword(userID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	emailProvider    email.Provider
	realtimeClient   realtime.Client
}

func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	emailProvider email.Provider,
	realtimeClient realtime.Client,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		emailProvider:    emailProvider,
		realtimeClient:   realtimeClient,
	}
}

func (s *authService) Register(req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:             req.Email,
		PasswordHash:      hash,
		Role:              models.UserRoleClient,
		Status:            models.UserStatusPending,
		Name:              req.Name,
		Phone:             req.Phone,
		VerificationToken: generateSecureToken(),
	}

	if err := s.userRepo.Create(user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	// Provisioning the realtime identity is best-effort; calls are
	// simply unavailable to the user until it succeeds.
	if uid, err := s.realtimeClient.ProvisionIdentity(user.ID, user.Name); err != nil {
		logger.Warn("realtime identity provisioning failed", "user_id", user.ID, "error", err)
	} else {
		user.RealtimeUID = uid
		if err := s.userRepo.Update(user); err != nil {
			logger.Warn("saving realtime identity failed", "user_id", user.ID, "error", err)
		}
	}

	if err := s.emailProvider.SendVerification(user.Email, user.VerificationToken); err != nil {
		logger.Warn("verification email failed", "user_id", user.ID, "error", err)
	}

	return buildUserResponse(user), nil
}

func (s *authService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.Status == models.UserStatusSuspended {
		return nil, apperrors.ErrUserSuspended
	}

	return s.issueTokens(user)
}

func (s *authService) Refresh(req *dto.RefreshRequest) (*dto.LoginResponse, error) {
	stored, err := s.refreshTokenRepo.FindByToken(req.RefreshToken)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.refreshTokenRepo.DeleteByToken(stored.Token)
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(stored.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	if user.Status == models.UserStatusSuspended {
		return nil, apperrors.ErrUserSuspended
	}

	// Single-use tokens: the presented token is burned and replaced.
	if err := s.refreshTokenRepo.DeleteByToken(stored.Token); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.issueTokens(user)
}

func (s *authService) Logout(refreshToken string) error {
	if err := s.refreshTokenRepo.DeleteByToken(refreshToken); err != nil &&
		!apperrors.Is(err, repositories.ErrRefreshTokenNotFound) {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *authService) VerifyEmail(token string) error {
	user, err := s.userRepo.FindByVerificationToken(token)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrInvalidToken
		}
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.VerifyUser(user.ID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// ResendVerification always reports success so the endpoint cannot be
// used to probe which addresses are registered.
func (s *authService) ResendVerification(emailAddr string) error {
	user, err := s.userRepo.FindByEmail(emailAddr)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return apperrors.InternalError(err)
	}
	if user.IsVerified {
		return nil
	}

	user.VerificationToken = generateSecureToken()
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.emailProvider.SendVerification(user.Email, user.VerificationToken); err != nil {
		logger.Warn("verification email failed", "user_id", user.ID, "error", err)
	}
	return nil
}

// RequestPasswordReset always reports success regardless of whether the
// address is registered.
func (s *authService) RequestPasswordReset(emailAddr string) error {
	user, err := s.userRepo.FindByEmail(emailAddr)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return apperrors.InternalError(err)
	}

	exp := time.Now().Add(1 * time.Hour)
	user.ResetToken = generateSecureToken()
	user.ResetTokenExp = &exp
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.emailProvider.SendPasswordReset(user.Email, user.ResetToken); err != nil {
		logger.Warn("password reset email failed", "user_id", user.ID, "error", err)
	}
	return nil
}

func (s *authService) ResetPassword(req *dto.ResetPasswordRequest) error {
	user, err := s.userRepo.FindByResetToken(req.Token)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrInvalidToken
		}
		return apperrors.InternalError(err)
	}
	if user.ResetTokenExp == nil || time.Now().After(*user.ResetTokenExp) {
		return apperrors.ErrInvalidToken
	}

	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return apperrors.ErrWeakPassword
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	user.PasswordHash = hash
	user.ResetToken = ""
	user.ResetTokenExp = nil
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}

	// Force re-login everywhere after a reset.
	if err := s.refreshTokenRepo.DeleteByUserID(user.ID); err != nil {
		logger.Warn("revoking sessions after reset failed", "user_id", user.ID, "error", err)
	}
	return nil
}

func (s *authService) ChangePassword(userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}
	user.PasswordHash = hash
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// ---------------- Helpers ----------------

func (s *authService) issueTokens(user *models.User) (*dto.LoginResponse, error) {
	accessToken, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refresh := &models.RefreshToken{
		UserID:    user.ID,
		Token:     generateSecureToken(),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.refreshTokenRepo.Create(refresh); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
		User:         buildUserResponse(user),
	}, nil
}

func buildUserResponse(user *models.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		Role:       user.Role,
		Status:     user.Status,
		Name:       user.Name,
		Phone:      user.Phone,
		IsVerified: user.IsVerified,
	}
}
