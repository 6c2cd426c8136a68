// Package calendar adapts the external calendar/booking service (a
// Cal.com-style API). The internal booking table stays the source of truth
// for committed jobs; this service is the source of truth for raw time-slot
// availability.
package calendar

import (
	"context"
	"time"
)

// SlotQuery asks for a provider's free slots over a window.
type SlotQuery struct {
	EventTypeID int
	StartTime   time.Time
	EndTime     time.Time
	TimeZone    string
}

// Attendee is the customer attached to an external booking.
type Attendee struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	TimeZone string `json:"timeZone"`
}

// CreateBookingRequest creates one external calendar booking. Metadata should
// carry the internal booking id for traceability.
type CreateBookingRequest struct {
	EventTypeID int
	Start       time.Time
	End         time.Time
	Attendee    Attendee
	Metadata    map[string]string
}

// ExternalBooking identifies a booking on the external service.
type ExternalBooking struct {
	ID  int64  `json:"id"`
	UID string `json:"uid"`
}

// CalendarService is the gateway over the external scheduling API.
//
// An empty slot list is a valid success result; network and timeout errors
// are returned as errors and must never be read as "no slots".
type CalendarService interface {
	GetAvailableSlots(ctx context.Context, query SlotQuery) ([]time.Time, error)
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*ExternalBooking, error)
	CancelBooking(ctx context.Context, uid, reason string) error
}
