package matching

import (
	"math"

	"tapstead/models"
)

// Travel fee: free within 15 miles, then a flat per-mile rate beyond.
const (
	travelFeeFreeMiles = 15.0
	travelFeePerMile   = 3.0
	standardMultiplier = 1.0
)

// UrgencyTable maps urgency tiers to their price multipliers. The urgent and
// emergency values are configurable; standard is always 1.0.
type UrgencyTable struct {
	Urgent    float64
	Emergency float64
}

// DefaultUrgencyTable is the canonical table. A second table (1.0/1.15/1.3)
// existed in client-side estimates and was rejected; see DESIGN.md.
var DefaultUrgencyTable = UrgencyTable{Urgent: 1.25, Emergency: 1.5}

// Multiplier returns the price multiplier for an urgency tier. Unknown tiers
// price as standard.
func (t UrgencyTable) Multiplier(urgency string) float64 {
	switch urgency {
	case models.UrgencyUrgent:
		return t.Urgent
	case models.UrgencyEmergency:
		return t.Emergency
	default:
		return standardMultiplier
	}
}

// TravelFee returns the distance surcharge in currency units.
func TravelFee(distanceMi float64) float64 {
	if distanceMi <= travelFeeFreeMiles {
		return 0
	}
	return (distanceMi - travelFeeFreeMiles) * travelFeePerMile
}

// PriceEstimate builds the quote for one candidate: base rate scaled by the
// urgency multiplier plus the travel fee, total rounded to the nearest
// currency unit.
func PriceEstimate(baseRate float64, urgency string, distanceMi float64, table UrgencyTable) models.PriceQuote {
	multiplier := table.Multiplier(urgency)
	travelFee := TravelFee(distanceMi)
	return models.PriceQuote{
		BaseRate:          baseRate,
		UrgencyMultiplier: multiplier,
		TravelFee:         travelFee,
		TotalEstimate:     math.Round(baseRate*multiplier + travelFee),
	}
}
