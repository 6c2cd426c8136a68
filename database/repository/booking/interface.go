package bookingRepo

import (
	"context"
	"time"

	"tapstead/models"
)

// BookingRepository defines methods for the authoritative internal booking
// table. It is the single source of truth for conflict detection.
type BookingRepository interface {
	// Create inserts a new booking row.
	Create(ctx context.Context, booking *models.Booking) error
	// GetByID retrieves a booking by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// Delete removes a booking row. Used only for phase-1 compensation; normal
	// lifecycle ends in a terminal status instead.
	Delete(ctx context.Context, id string) error
	// AssignProvider sets the provider and moves the booking to scheduled.
	AssignProvider(ctx context.Context, bookingID, providerID string) error
	// LinkExternalBooking records the external calendar reference and moves the
	// booking to confirmed.
	LinkExternalBooking(ctx context.Context, bookingID, calBookingUID string) error
	// GetProviderBookingsForDate returns a provider's bookings on the given
	// date filtered to the supplied statuses.
	GetProviderBookingsForDate(ctx context.Context, providerID, date string, statuses []string) ([]models.Booking, error)
	// FindStalePending returns pending bookings older than the cutoff with no
	// external calendar reference; the reconciliation job sweeps these.
	FindStalePending(ctx context.Context, cutoff time.Time) ([]models.Booking, error)
}
