package models

import "time"

// GeoPoint represents a GeoJSON Point.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`               // Always "Point"
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // [longitude, latitude]
}

// Latitude returns the point's latitude, or 0 if the point is malformed.
func (g GeoPoint) Latitude() float64 {
	if len(g.Coordinates) < 2 {
		return 0
	}
	return g.Coordinates[1]
}

// Longitude returns the point's longitude, or 0 if the point is malformed.
func (g GeoPoint) Longitude() float64 {
	if len(g.Coordinates) < 2 {
		return 0
	}
	return g.Coordinates[0]
}

// Valid reports whether the point carries both coordinates.
func (g GeoPoint) Valid() bool {
	return len(g.Coordinates) == 2
}

// ContactInfo holds how customers and dispatch reach a provider.
type ContactInfo struct {
	Email       string `bson:"email" json:"email,omitempty"`
	PhoneNumber string `bson:"phoneNumber" json:"phoneNumber,omitempty"`
}

// Provider is a service professional. Providers are deactivated rather than
// deleted; Active gates candidate selection.
type Provider struct {
	ID              string      `bson:"id" json:"id"`
	Name            string      `bson:"name" json:"name"`
	Services        []string    `bson:"services" json:"services"`                 // offered service-type set
	LocationGeo     GeoPoint    `bson:"locationGeo" json:"locationGeo"`           // home base coordinates
	Active          bool        `bson:"active" json:"active"`
	Rating          float64     `bson:"rating" json:"rating"`                     // aggregate, 1.0–5.0
	ReviewCount     int         `bson:"reviewCount" json:"reviewCount"`
	BaseRate        float64     `bson:"baseRate" json:"baseRate"`                 // base job rate in currency units
	ServiceRadiusMi float64     `bson:"serviceRadiusMi" json:"serviceRadiusMi"`   // how far the provider travels
	MilitaryVeteran bool        `bson:"militaryVeteran" json:"militaryVeteran"`
	Specialties     []string    `bson:"specialties,omitempty" json:"specialties,omitempty"`
	CalEventTypeID  int         `bson:"calEventTypeId" json:"calEventTypeId"`     // external calendar event-type reference
	Contact         ContactInfo `bson:"contact" json:"contact,omitzero"`
	CreatedAt       time.Time   `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt       time.Time   `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// OffersService reports whether the provider's catalogue contains the service.
func (p Provider) OffersService(serviceType string) bool {
	for _, s := range p.Services {
		if s == serviceType {
			return true
		}
	}
	return false
}

// ProviderPerformance is the per-provider rollup used by auto-assignment
// scoring. Providers with no row yet are scored with NewProviderPerformance.
type ProviderPerformance struct {
	ProviderID    string    `bson:"providerId" json:"providerId"`
	Rating        float64   `bson:"rating" json:"rating"`
	CompletedJobs int       `bson:"completedJobs" json:"completedJobs"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// NewProviderPerformance is the stand-in record for providers with no
// performance history. They stay eligible but rank below established ones.
func NewProviderPerformance(providerID string) ProviderPerformance {
	return ProviderPerformance{
		ProviderID:    providerID,
		Rating:        2.5,
		CompletedJobs: 0,
	}
}
