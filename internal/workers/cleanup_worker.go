package workers

import (
	"context"
	"time"

	"visaflow_backend/internal/logger"
	"visaflow_backend/internal/repositories"
	"visaflow_backend/internal/services"
)

const (
	cleanupInterval        = 6 * time.Hour
	notificationMaxAgeDays = 90
)

// CleanupWorker periodically removes read notifications past their
// retention window and expired refresh tokens.
type CleanupWorker struct {
	notifier         services.NotificationService
	refreshTokenRepo repositories.RefreshTokenRepository
}

func NewCleanupWorker(
	notifier services.NotificationService,
	refreshTokenRepo repositories.RefreshTokenRepository,
) *CleanupWorker {
	return &CleanupWorker{
		notifier:         notifier,
		refreshTokenRepo: refreshTokenRepo,
	}
}

// Run blocks until ctx is cancelled. Start it in its own goroutine.
func (w *CleanupWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	w.sweep()
	for {
		select {
		case <-ctx.Done():
			logger.Info("cleanup worker stopped")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *CleanupWorker) sweep() {
	if n, err := w.notifier.CleanOldNotifications(notificationMaxAgeDays); err != nil {
		logger.Warn("notification cleanup failed", "error", err)
	} else if n > 0 {
		logger.Info("old notifications removed", "count", n)
	}

	if n, err := w.refreshTokenRepo.DeleteExpired(); err != nil {
		logger.Warn("refresh token cleanup failed", "error", err)
	} else if n > 0 {
		logger.Info("expired refresh tokens removed", "count", n)
	}
}
