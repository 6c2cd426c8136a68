package models

import "time"

// Booking statuses. A booking is created in StatusPendingAssignment and only
// moves to StatusScheduled once a provider is attached.
const (
	StatusPendingAssignment = "pending_assignment"
	StatusPending           = "pending" // phase-1 row of an explicit commit, not yet confirmed externally
	StatusScheduled         = "scheduled"
	StatusConfirmed         = "confirmed"
	StatusInProgress        = "in_progress"
	StatusCompleted         = "completed"
	StatusCancelled         = "cancelled"
	StatusRefunded          = "refunded"
)

// Booking is the authoritative internal record of a scheduled job.
//
// Invariants: a booking with status scheduled or later has a non-empty
// ProviderID; EstimatedDuration is positive (it drives conflict detection).
type Booking struct {
	ID                string    `bson:"id" json:"id"`
	CustomerID        string    `bson:"customerId" json:"customerId"`
	ProviderID        string    `bson:"providerId,omitempty" json:"providerId,omitempty"` // empty until assignment
	ServiceType       string    `bson:"serviceType" json:"serviceType"`
	ScheduledDate     string    `bson:"scheduledDate" json:"scheduledDate"` // "YYYY-MM-DD"
	ScheduledTime     string    `bson:"scheduledTime" json:"scheduledTime"` // "HH:MM", 24h
	EstimatedDuration float64   `bson:"estimatedDuration" json:"estimatedDuration"` // hours
	Address           string    `bson:"address" json:"address"`
	Status            string    `bson:"status" json:"status"`
	PaymentStatus     string    `bson:"paymentStatus,omitempty" json:"paymentStatus,omitempty"`
	EstimatedPrice    float64   `bson:"estimatedPrice" json:"estimatedPrice"`
	FinalPrice        float64   `bson:"finalPrice,omitempty" json:"finalPrice,omitempty"`
	CalBookingUID     string    `bson:"calBookingUid,omitempty" json:"calBookingUid,omitempty"` // external calendar reference
	CreatedAt         time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// StartEnd returns the booking's interval as minutes from midnight using
// half-open [start, end) semantics. A missing or non-positive duration falls
// back to defaultDurationHours; the second return reports whether the
// fallback was used.
func (b Booking) StartEnd(defaultDurationHours float64) (start, end int, usedFallback bool) {
	start = ParseMinuteOfDay(b.ScheduledTime)
	dur := b.EstimatedDuration
	if dur <= 0 {
		dur = defaultDurationHours
		usedFallback = true
	}
	end = start + int(dur*60)
	return start, end, usedFallback
}

// ParseMinuteOfDay converts an "HH:MM" clock string to minutes from midnight.
// Malformed input yields 0.
func ParseMinuteOfDay(clock string) int {
	if len(clock) < 5 || clock[2] != ':' {
		return 0
	}
	h := int(clock[0]-'0')*10 + int(clock[1]-'0')
	m := int(clock[3]-'0')*10 + int(clock[4]-'0')
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0
	}
	return h*60 + m
}

// TrackingEntry is an immutable audit row linked to a booking. Append-only.
type TrackingEntry struct {
	ID         string    `bson:"id" json:"id"`
	BookingID  string    `bson:"bookingId" json:"bookingId"`
	ProviderID string    `bson:"providerId,omitempty" json:"providerId,omitempty"`
	Status     string    `bson:"status" json:"status"`
	Note       string    `bson:"note" json:"note"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}
