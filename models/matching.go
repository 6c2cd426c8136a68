package models

import "time"

// Urgency tiers for a matching request.
const (
	UrgencyStandard  = "standard"
	UrgencyUrgent    = "urgent"
	UrgencyEmergency = "emergency"
)

// MatchPreferences are optional customer filters applied during matching.
type MatchPreferences struct {
	PreferVeteran bool    `json:"preferVeteran,omitempty"`
	MinRating     float64 `json:"minRating,omitempty"`
	MaxDistanceMi float64 `json:"maxDistanceMi,omitempty"`
	PriceMin      float64 `json:"priceMin,omitempty"`
	PriceMax      float64 `json:"priceMax,omitempty"`
}

// MatchingCriteria describes one match request. Request-scoped, never persisted.
type MatchingCriteria struct {
	ServiceType   string           `json:"serviceType" binding:"required"`
	Location      GeoPoint         `json:"location" binding:"required"`
	SearchRadius  float64          `json:"searchRadiusMi,omitempty"` // miles; 0 means the configured default
	ScheduledDate string           `json:"scheduledDate" binding:"required"` // "YYYY-MM-DD"
	ScheduledTime string           `json:"scheduledTime,omitempty"`          // "HH:MM"; empty means any time that day
	Urgency       string           `json:"urgency,omitempty" binding:"omitempty,oneof=standard urgent emergency"`
	Preferences   MatchPreferences `json:"preferences,omitzero"`
}

// PriceQuote is the priced breakdown for one candidate.
type PriceQuote struct {
	BaseRate          float64 `json:"baseRate"`
	UrgencyMultiplier float64 `json:"urgencyMultiplier"`
	TravelFee         float64 `json:"travelFee"`
	TotalEstimate     float64 `json:"totalEstimate"`
}

// AvailabilitySnapshot is a point-in-time view of a provider's free slots on
// the requested date.
type AvailabilitySnapshot struct {
	IsAvailable  bool        `json:"isAvailable"`
	NextFreeSlot *time.Time  `json:"nextFreeSlot,omitempty"`
	FreeSlots    []time.Time `json:"freeSlots,omitempty"`
}

// ProviderMatch is a provider joined with everything computed for one request.
// Derived per request, never persisted.
type ProviderMatch struct {
	Provider         Provider             `json:"provider"`
	DistanceMi       float64              `json:"distanceMi"`
	Quote            PriceQuote           `json:"quote"`
	EstimatedArrival time.Time            `json:"estimatedArrival"`
	Availability     AvailabilitySnapshot `json:"availability"`
}
