package models

// Call invitation types mirror the external realtime backend's records.
// The backend owns the state; these types only shape requests and
// responses passing through this service.

type CallMode string

const (
	CallModeVideo CallMode = "video"
	CallModeAudio CallMode = "audio"
)

type CallStatus string

const (
	CallStatusPending   CallStatus = "pending"
	CallStatusAccepted  CallStatus = "accepted"
	CallStatusRejected  CallStatus = "rejected"
	CallStatusCancelled CallStatus = "cancelled"
	CallStatusEnded     CallStatus = "ended"
)

// CallInvitation is the realtime backend's invitation record as returned
// by its API. It is never persisted locally.
type CallInvitation struct {
	ID           string     `json:"id"`
	CallerUID    string     `json:"caller_uid"`
	RecipientUID string     `json:"recipient_uid"`
	RoomID       string     `json:"room_id"`
	Mode         CallMode   `json:"mode"`
	Status       CallStatus `json:"status"`
}
