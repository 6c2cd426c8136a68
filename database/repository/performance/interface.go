package performanceRepo

import (
	"context"

	"tapstead/models"
)

// PerformanceRepository reads the provider_performance rollups that feed
// auto-assignment scoring.
type PerformanceRepository interface {
	// GetByProviderIDs returns rollups keyed by provider ID. Providers without
	// a record are simply absent from the map.
	GetByProviderIDs(ctx context.Context, providerIDs []string) (map[string]models.ProviderPerformance, error)
}
