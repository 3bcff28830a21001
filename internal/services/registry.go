package services

import (
	"visaflow_backend/internal/email"
	"visaflow_backend/internal/push"
	"visaflow_backend/internal/realtime"
	"visaflow_backend/internal/repositories"

	"gorm.io/gorm"
)

// ServiceContainer wires every service with its repositories and
// providers. Built once at startup.
type ServiceContainer struct {
	Auth         AuthService
	User         UserService
	Case         CaseService
	Notification NotificationService
	Call         CallService
	Document     DocumentService
}

type ContainerDeps struct {
	DB             *gorm.DB
	EmailProvider  email.Provider
	PushProvider   push.Provider
	RealtimeClient realtime.Client
	Publisher      RealtimePublisher
}

func NewServiceContainer(deps ContainerDeps) *ServiceContainer {
	userRepo := repositories.NewUserRepository(deps.DB)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(deps.DB)
	caseRepo := repositories.NewCaseRepository(deps.DB)
	notificationRepo := repositories.NewNotificationRepository(deps.DB)
	deviceTokenRepo := repositories.NewDeviceTokenRepository(deps.DB)
	documentRepo := repositories.NewDocumentRepository(deps.DB)

	notifier := NewNotificationService(notificationRepo, deviceTokenRepo, deps.PushProvider, deps.Publisher)

	return &ServiceContainer{
		Auth:         NewAuthService(userRepo, refreshTokenRepo, deps.EmailProvider, deps.RealtimeClient),
		User:         NewUserService(userRepo, deviceTokenRepo),
		Case:         NewCaseService(caseRepo, userRepo, notifier),
		Notification: notifier,
		Call:         NewCallService(userRepo, deps.RealtimeClient, notifier),
		Document:     NewDocumentService(documentRepo, caseRepo, userRepo, notifier),
	}
}
