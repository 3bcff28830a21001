package handlers

import (
	"visaflow_backend/internal/services"
	"visaflow_backend/internal/validator"
)

// AppHandlers groups every HTTP handler for route registration.
type AppHandlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Case         *CaseHandler
	Notification *NotificationHandler
	Call         *CallHandler
	Document     *DocumentHandler
}

func NewAppHandlers(sc *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		Auth:         NewAuthHandler(base, sc.Auth),
		User:         NewUserHandler(base, sc.User),
		Case:         NewCaseHandler(base, sc.Case),
		Notification: NewNotificationHandler(base, sc.Notification),
		Call:         NewCallHandler(base, sc.Call),
		Document:     NewDocumentHandler(base, sc.Document),
	}
}
