package realtime

import (
	"visaflow_backend/internal/models"
)

// CreateInvitationInput shapes a new invitation request to the realtime
// backend.
type CreateInvitationInput struct {
	CallerUID    string          `json:"caller_uid"`
	RecipientUID string          `json:"recipient_uid"`
	RoomID       string          `json:"room_id"`
	Mode         models.CallMode `json:"mode"`
}

// Client is the delegate to the external realtime backend. The backend
// owns invitation records and is the sole authority on legal state
// transitions; this client performs no local validation.
type Client interface {
	// ProvisionIdentity registers a user with the realtime backend and
	// returns the external identity id.
	ProvisionIdentity(userID, displayName string) (string, error)

	// CreateInvitation opens a pending invitation.
	CreateInvitation(input CreateInvitationInput) (*models.CallInvitation, error)

	// The four terminal transitions. Each is attributed to actorUID and
	// returns the backend's view of the invitation afterwards.
	AcceptInvitation(invitationID, actorUID string) (*models.CallInvitation, error)
	RejectInvitation(invitationID, actorUID string) (*models.CallInvitation, error)
	CancelInvitation(invitationID, actorUID string) (*models.CallInvitation, error)
	EndInvitation(invitationID, actorUID string) (*models.CallInvitation, error)
}
