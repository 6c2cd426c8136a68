package trackingRepo

import (
	"context"

	"tapstead/models"
)

// TrackingRepository is the append-only audit log for booking transitions.
type TrackingRepository interface {
	// Append inserts a tracking entry. Entries are never updated or deleted.
	Append(ctx context.Context, entry models.TrackingEntry) error
	// GetByBookingID returns all entries for a booking, oldest first.
	GetByBookingID(ctx context.Context, bookingID string) ([]models.TrackingEntry, error)
}
