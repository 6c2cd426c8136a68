// Package notification is the fire-and-forget boundary to the delivery
// system. Delivery mechanics live elsewhere; a failure here never rolls back
// a booking.
package notification

import (
	"context"

	"tapstead/models"

	"go.uber.org/zap"
)

// NotificationService sends booking confirmations to customers.
type NotificationService interface {
	SendBookingConfirmation(ctx context.Context, recipientEmail string, booking models.Booking, provider models.Provider) error
}

// LogNotificationService records confirmations to the log. It stands in for
// the real delivery pipeline, which is owned by another system.
type LogNotificationService struct {
	Logger *zap.Logger
}

func (s *LogNotificationService) SendBookingConfirmation(ctx context.Context, recipientEmail string, booking models.Booking, provider models.Provider) error {
	s.Logger.Info("booking confirmation",
		zap.String("recipient", recipientEmail),
		zap.String("bookingID", booking.ID),
		zap.String("provider", provider.Name),
		zap.String("date", booking.ScheduledDate),
		zap.String("time", booking.ScheduledTime))
	return nil
}
