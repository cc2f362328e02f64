// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"github.com/gen2brain/beeep"

	"github.com/zhubert/forktend/internal/logger"
)

// Send sends a desktop notification with the given title and message.
func Send(title, message string) error {
	logger.Debug("Notification: title=%q, message=%q", title, message)
	// Empty icon path - beeep handles platform defaults
	err := beeep.Notify(title, message, "")
	if err != nil {
		logger.Warn("Notification: failed to send: %v", err)
	}
	return err
}

// SyncCompleted announces that a long-running sync or repair finished.
func SyncCompleted(operation string) error {
	return Send("forktend", operation+" finished")
}
