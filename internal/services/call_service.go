package services

import (
	"fmt"

	"visaflow_backend/internal/models"
	"visaflow_backend/internal/realtime"
	"visaflow_backend/internal/repositories"
	"visaflow_backend/internal/services/dto"
	"visaflow_backend/pkg/apperrors"
)

// CallService brokers call invitations between users and the external
// realtime backend. Invitation state lives entirely in the backend; this
// service resolves local users to realtime identities, relays the
// requested transition, and fans out the incoming-call notification.
type CallService interface {
	CreateInvitation(callerID string, req *dto.CreateInvitationRequest) (*dto.InvitationResponse, error)
	AcceptInvitation(actorID, invitationID string) (*dto.InvitationResponse, error)
	RejectInvitation(actorID, invitationID string) (*dto.InvitationResponse, error)
	CancelInvitation(actorID, invitationID string) (*dto.InvitationResponse, error)
	EndInvitation(actorID, invitationID string) (*dto.InvitationResponse, error)
}

type callService struct {
	userRepo       repositories.UserRepository
	realtimeClient realtime.Client
	notifier       NotificationService
}

func NewCallService(
	userRepo repositories.UserRepository,
	realtimeClient realtime.Client,
	notifier NotificationService,
) CallService {
	return &callService{
		userRepo:       userRepo,
		realtimeClient: realtimeClient,
		notifier:       notifier,
	}
}

func (s *callService) CreateInvitation(callerID string, req *dto.CreateInvitationRequest) (*dto.InvitationResponse, error) {
	caller, err := s.resolveIdentity(callerID)
	if err != nil {
		return nil, err
	}

	recipient, err := s.userRepo.FindByID(req.RecipientID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if recipient.RealtimeUID == "" {
		return nil, apperrors.ErrNoRealtimeIdentity
	}

	invitation, err := s.realtimeClient.CreateInvitation(realtime.CreateInvitationInput{
		CallerUID:    caller.RealtimeUID,
		RecipientUID: recipient.RealtimeUID,
		RoomID:       req.RoomID,
		Mode:         models.CallMode(req.Mode),
	})
	if err != nil {
		return nil, apperrors.ErrExternalService(err, "call", "Realtime backend rejected the invitation")
	}

	s.notifier.Dispatch(recipient.ID, dto.NotificationEvent{
		Type:    models.NotificationTypeIncomingCall,
		Title:   "Incoming call",
		Message: fmt.Sprintf("%s is calling you", caller.Name),
		Data: map[string]string{
			"invitation_id": invitation.ID,
			"room_id":       invitation.RoomID,
			"mode":          string(invitation.Mode),
			"caller_uid":    invitation.CallerUID,
		},
	})

	return buildInvitationResponse(invitation), nil
}

func (s *callService) AcceptInvitation(actorID, invitationID string) (*dto.InvitationResponse, error) {
	return s.transition(actorID, invitationID, s.realtimeClient.AcceptInvitation)
}

func (s *callService) RejectInvitation(actorID, invitationID string) (*dto.InvitationResponse, error) {
	return s.transition(actorID, invitationID, s.realtimeClient.RejectInvitation)
}

func (s *callService) CancelInvitation(actorID, invitationID string) (*dto.InvitationResponse, error) {
	return s.transition(actorID, invitationID, s.realtimeClient.CancelInvitation)
}

func (s *callService) EndInvitation(actorID, invitationID string) (*dto.InvitationResponse, error) {
	return s.transition(actorID, invitationID, s.realtimeClient.EndInvitation)
}

// transition relays one lifecycle move to the backend. Whether the move
// is legal for the invitation's current state is the backend's call.
func (s *callService) transition(
	actorID, invitationID string,
	apply func(invitationID, actorUID string) (*models.CallInvitation, error),
) (*dto.InvitationResponse, error) {
	actor, err := s.resolveIdentity(actorID)
	if err != nil {
		return nil, err
	}

	invitation, err := apply(invitationID, actor.RealtimeUID)
	if err != nil {
		return nil, apperrors.ErrExternalService(err, "call", "Realtime backend rejected the transition")
	}
	return buildInvitationResponse(invitation), nil
}

func (s *callService) resolveIdentity(userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if user.RealtimeUID == "" {
		return nil, apperrors.ErrNoRealtimeIdentity
	}
	return user, nil
}

func buildInvitationResponse(invitation *models.CallInvitation) *dto.InvitationResponse {
	return &dto.InvitationResponse{
		ID:           invitation.ID,
		CallerUID:    invitation.CallerUID,
		RecipientUID: invitation.RecipientUID,
		RoomID:       invitation.RoomID,
		Mode:         invitation.Mode,
		Status:       invitation.Status,
	}
}
