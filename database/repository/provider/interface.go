package providerRepo

import (
	"context"

	"tapstead/models"
)

// CandidateCriteria narrows the provider pool before scoring. MinRating of 0
// means the configured default floor applies at the call site.
type CandidateCriteria struct {
	ServiceType string
	MinRating   float64
}

// ProviderRepository is the read surface over the provider pool. Provider
// onboarding and lifecycle writes belong to another system; this core only
// selects from the pool.
//
// FindCandidates must distinguish a genuinely empty result (nil error, empty
// slice) from a query failure: the matching engine aborts on the latter.
type ProviderRepository interface {
	// GetByID retrieves a provider by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	// FindCandidates returns all active providers offering the service with
	// rating >= MinRating.
	FindCandidates(ctx context.Context, criteria CandidateCriteria) ([]models.Provider, error)
}
