package services

import (
	"testing"

	"visaflow_backend/internal/models"
	"visaflow_backend/internal/services/dto"
	"visaflow_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notificationFixture struct {
	svc              NotificationService
	notificationRepo *fakeNotificationRepo
	deviceTokenRepo  *fakeDeviceTokenRepo
	pushProvider     *fakePushProvider
	publisher        *fakePublisher
}

func newNotificationFixture(t *testing.T) *notificationFixture {
	t.Helper()

	f := &notificationFixture{
		notificationRepo: newFakeNotificationRepo(),
		deviceTokenRepo:  newFakeDeviceTokenRepo(),
		pushProvider:     &fakePushProvider{},
		publisher:        &fakePublisher{},
	}
	f.svc = NewNotificationService(f.notificationRepo, f.deviceTokenRepo, f.pushProvider, f.publisher)
	return f
}

func TestDispatchFansOutToAllChannels(t *testing.T) {
	f := newNotificationFixture(t)
	require.NoError(t, f.deviceTokenRepo.Upsert(&models.DeviceToken{
		UserID: "user-1", Token: "device-a", Platform: models.DevicePlatformIOS,
	}))
	require.NoError(t, f.deviceTokenRepo.Upsert(&models.DeviceToken{
		UserID: "user-1", Token: "device-b", Platform: models.DevicePlatformAndroid,
	}))

	f.svc.Dispatch("user-1", dto.NotificationEvent{
		Type:    models.NotificationTypeCaseStatus,
		Title:   "Case status updated",
		Message: "Your case is now PROCESSING",
		Data:    map[string]string{"case_id": "c1", "status": "PROCESSING"},
	})

	pushes := f.pushProvider.sent()
	require.Len(t, pushes, 1)
	assert.ElementsMatch(t, []string{"device-a", "device-b"}, pushes[0].tokens)
	assert.Equal(t, "Case status updated", pushes[0].payload.Title)

	stored := f.notificationRepo.forUser("user-1")
	require.Len(t, stored, 1)
	assert.Equal(t, models.NotificationTypeCaseStatus, stored[0].Type)
	assert.False(t, stored[0].IsRead)

	published := f.publisher.published()
	require.Len(t, published, 1)
	assert.Equal(t, "user-1", published[0].userID)
}

func TestDispatchBadgeCountsPendingNotification(t *testing.T) {
	f := newNotificationFixture(t)
	require.NoError(t, f.deviceTokenRepo.Upsert(&models.DeviceToken{
		UserID: "user-1", Token: "device-a", Platform: models.DevicePlatformIOS,
	}))

	// Two unread notifications already sitting in the inbox.
	for i := 0; i < 2; i++ {
		require.NoError(t, f.notificationRepo.Create(&models.Notification{
			UserID: "user-1", Type: models.NotificationTypeSystem, Title: "old",
		}))
	}

	f.svc.Dispatch("user-1", dto.NotificationEvent{
		Type: models.NotificationTypeSystem, Title: "new",
	})

	pushes := f.pushProvider.sent()
	require.Len(t, pushes, 1)
	assert.Equal(t, int64(3), pushes[0].payload.Badge)
}

func TestDispatchPushFailureDoesNotBlockWebChannel(t *testing.T) {
	f := newNotificationFixture(t)
	f.pushProvider.err = errBoom
	require.NoError(t, f.deviceTokenRepo.Upsert(&models.DeviceToken{
		UserID: "user-1", Token: "device-a", Platform: models.DevicePlatformIOS,
	}))

	f.svc.Dispatch("user-1", dto.NotificationEvent{
		Type: models.NotificationTypeSystem, Title: "hello",
	})

	assert.Len(t, f.notificationRepo.forUser("user-1"), 1)
	assert.Len(t, f.publisher.published(), 1)
}

func TestDispatchInsertFailureDoesNotBlockPush(t *testing.T) {
	f := newNotificationFixture(t)
	f.notificationRepo.createErr = errBoom
	require.NoError(t, f.deviceTokenRepo.Upsert(&models.DeviceToken{
		UserID: "user-1", Token: "device-a", Platform: models.DevicePlatformIOS,
	}))

	f.svc.Dispatch("user-1", dto.NotificationEvent{
		Type: models.NotificationTypeSystem, Title: "hello",
	})

	assert.Len(t, f.pushProvider.sent(), 1)
	// The web publish is skipped when the row cannot be written.
	assert.Empty(t, f.publisher.published())
}

func TestDispatchWithoutDevicesSkipsPush(t *testing.T) {
	f := newNotificationFixture(t)

	f.svc.Dispatch("user-1", dto.NotificationEvent{
		Type: models.NotificationTypeSystem, Title: "hello",
	})

	assert.Empty(t, f.pushProvider.sent())
	assert.Len(t, f.notificationRepo.forUser("user-1"), 1)
}

func TestMarkAsReadEnforcesOwnership(t *testing.T) {
	f := newNotificationFixture(t)
	n := &models.Notification{UserID: "user-1", Type: models.NotificationTypeSystem, Title: "x"}
	require.NoError(t, f.notificationRepo.Create(n))

	err := f.svc.MarkAsRead("user-2", n.ID)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.HTTPCode)

	require.NoError(t, f.svc.MarkAsRead("user-1", n.ID))
	count, _ := f.svc.GetUnreadCount("user-1")
	assert.Equal(t, int64(0), count)
}

func TestGetUserNotificationsUnreadFilter(t *testing.T) {
	f := newNotificationFixture(t)
	read := &models.Notification{UserID: "user-1", Type: models.NotificationTypeSystem, Title: "read", IsRead: true}
	require.NoError(t, f.notificationRepo.Create(read))
	require.NoError(t, f.notificationRepo.Create(&models.Notification{
		UserID: "user-1", Type: models.NotificationTypeSystem, Title: "unread",
	}))

	all, err := f.svc.GetUserNotifications("user-1", dto.NotificationCriteria{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)

	unread, err := f.svc.GetUserNotifications("user-1", dto.NotificationCriteria{UnreadOnly: true, Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread.Total)
}
