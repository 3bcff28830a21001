package services

import (
	"encoding/json"
	"sync"

	"visaflow_backend/internal/logger"
	"visaflow_backend/internal/models"
	"visaflow_backend/internal/push"
	"visaflow_backend/internal/repositories"
	"visaflow_backend/internal/services/dto"
	"visaflow_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

// RealtimePublisher delivers an event to a user's connected web clients.
// Implemented by the websocket hub.
type RealtimePublisher interface {
	Publish(userID string, event any)
}

type NotificationService interface {
	GetUserNotifications(userID string, criteria dto.NotificationCriteria) (*dto.NotificationListResponse, error)
	MarkAsRead(userID, notificationID string) error
	MarkAllAsRead(userID string) error
	DeleteNotification(userID, notificationID string) error
	GetUnreadCount(userID string) (int64, error)
	CleanOldNotifications(days int) (int64, error)

	// Dispatch fans the event out to every channel of the recipient:
	// mobile push to all registered devices and a realtime web
	// notification. The branches run concurrently with all-settle
	// semantics; a branch failure is logged and never surfaced, so the
	// triggering request cannot fail because of notification delivery.
	Dispatch(recipientID string, event dto.NotificationEvent)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	deviceTokenRepo  repositories.DeviceTokenRepository
	pushProvider     push.Provider
	publisher        RealtimePublisher
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	deviceTokenRepo repositories.DeviceTokenRepository,
	pushProvider push.Provider,
	publisher RealtimePublisher,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		deviceTokenRepo:  deviceTokenRepo,
		pushProvider:     pushProvider,
		publisher:        publisher,
	}
}

func (s *notificationService) GetUserNotifications(userID string, criteria dto.NotificationCriteria) (*dto.NotificationListResponse, error) {
	repoCriteria := repositories.NotificationCriteria{
		UnreadOnly: criteria.UnreadOnly,
		Page:       criteria.Page,
		PageSize:   criteria.PageSize,
	}

	notifications, total, err := s.notificationRepo.FindUserNotifications(userID, repoCriteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, buildNotificationResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		Page:          criteria.Page,
		PageSize:      criteria.PageSize,
		TotalPages:    calculateTotalPages(total, criteria.PageSize),
	}, nil
}

func (s *notificationService) MarkAsRead(userID, notificationID string) error {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	if notification.UserID != userID {
		return apperrors.NewForbiddenError("Access denied")
	}
	return s.notificationRepo.MarkAsRead(notificationID)
}

func (s *notificationService) MarkAllAsRead(userID string) error {
	return s.notificationRepo.MarkAllAsRead(userID)
}

func (s *notificationService) DeleteNotification(userID, notificationID string) error {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	if notification.UserID != userID {
		return apperrors.NewForbiddenError("Access denied")
	}
	return s.notificationRepo.Delete(notificationID)
}

func (s *notificationService) GetUnreadCount(userID string) (int64, error) {
	return s.notificationRepo.GetUnreadCount(userID)
}

func (s *notificationService) CleanOldNotifications(days int) (int64, error) {
	return s.notificationRepo.CleanOld(days)
}

// ---------------- Fan-out ----------------

func (s *notificationService) Dispatch(recipientID string, event dto.NotificationEvent) {
	// The badge reflects the unread count including the notification
	// this event is about to create.
	unread, err := s.notificationRepo.GetUnreadCount(recipientID)
	if err != nil {
		logger.Warn("fan-out: unread count failed, badge defaults to 1",
			"user_id", recipientID, "error", err)
		unread = 0
	}
	badge := unread + 1

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		s.dispatchPush(recipientID, event, badge)
	}()

	go func() {
		defer wg.Done()
		s.dispatchWeb(recipientID, event)
	}()

	wg.Wait()
}

func (s *notificationService) dispatchPush(recipientID string, event dto.NotificationEvent, badge int64) {
	devices, err := s.deviceTokenRepo.FindByUserID(recipientID)
	if err != nil {
		logger.Warn("fan-out: device lookup failed", "user_id", recipientID, "error", err)
		return
	}
	if len(devices) == 0 {
		return
	}

	tokens := make([]string, 0, len(devices))
	for _, d := range devices {
		tokens = append(tokens, d.Token)
	}

	payload := push.Payload{
		Title: event.Title,
		Body:  event.Message,
		Badge: badge,
		Data:  event.Data,
	}
	if err := s.pushProvider.Send(tokens, payload); err != nil {
		logger.Warn("fan-out: push dispatch failed", "user_id", recipientID, "error", err)
	}
}

func (s *notificationService) dispatchWeb(recipientID string, event dto.NotificationEvent) {
	var dataJSON datatypes.JSON
	if event.Data != nil {
		if raw, err := json.Marshal(event.Data); err == nil {
			dataJSON = datatypes.JSON(raw)
		}
	}

	notification := &models.Notification{
		UserID:    recipientID,
		Type:      event.Type,
		Title:     event.Title,
		Message:   event.Message,
		ActionURL: event.ActionURL,
		Data:      dataJSON,
		IsRead:    false,
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		logger.Warn("fan-out: notification insert failed", "user_id", recipientID, "error", err)
		return
	}

	if s.publisher != nil {
		s.publisher.Publish(recipientID, buildNotificationResponse(notification))
	}
}

// ---------------- Helpers ----------------

func buildNotificationResponse(notification *models.Notification) *dto.NotificationResponse {
	response := &dto.NotificationResponse{
		ID:        notification.ID,
		UserID:    notification.UserID,
		Type:      notification.Type,
		Title:     notification.Title,
		Message:   notification.Message,
		ActionURL: notification.ActionURL,
		IsRead:    notification.IsRead,
		ReadAt:    notification.ReadAt,
		CreatedAt: notification.CreatedAt,
	}

	if len(notification.Data) > 0 {
		var data map[string]interface{}
		if err := json.Unmarshal(notification.Data, &data); err == nil {
			response.Data = data
		}
	}
	return response
}
