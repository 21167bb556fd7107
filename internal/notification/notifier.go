// Package notification delivers user notifications: to the log, to Redis and to live websocket streams.
package notification

import (
	"context"
	"errors"

	"auction-marketplace/internal/models"
	"auction-marketplace/utils"
)

// Sink delivers a notification to its addressee
type Sink interface {
	Emit(ctx context.Context, n models.Notification) error
}

// LogNotifier writes every notification to the structured log
type LogNotifier struct{}

// Emit logs n at info level
func (LogNotifier) Emit(_ context.Context, n models.Notification) error {
	utils.Info("notification: emitted", map[string]any{
		"notification_id": n.NotificationID,
		"user_id":         n.UserID,
		"type":            string(n.Type),
		"title":           n.Title,
		"related_listing": n.RelatedListing,
		"related_user":    n.RelatedUser,
	})
	return nil
}

// Multi fans a notification out to every sink. Each sink is attempted; failures are joined.
type Multi []Sink

// Emit delivers n to all sinks
func (m Multi) Emit(ctx context.Context, n models.Notification) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Emit(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
