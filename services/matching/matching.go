package matching

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	providerRepo "tapstead/database/repository/provider"
	"tapstead/models"
	"tapstead/services/calendar"

	"go.uber.org/zap"
)

// ratingTieBand is the rating delta under which two candidates are treated as
// equally rated and the comparison falls through to the next criterion.
const ratingTieBand = 0.1

// MatchingService defines the interface for matching providers to a request.
type MatchingService interface {
	// FindMatchingProviders returns eligible providers ranked best-first. An
	// empty slice with a nil error means zero eligible providers, which is a
	// legitimate outcome and never conflated with a search failure.
	FindMatchingProviders(ctx context.Context, criteria models.MatchingCriteria) ([]models.ProviderMatch, error)
}

// Config carries the matching engine's tunables.
type Config struct {
	DefaultSearchRadiusMi float64
	DefaultMinRating      float64
	Urgency               UrgencyTable
	SlotWidth             time.Duration
	AvailabilityTimeout   time.Duration
	TimeZone              string
}

// DefaultMatchingService implements MatchingService.
type DefaultMatchingService struct {
	ProviderRepo providerRepo.ProviderRepository
	Calendar     calendar.CalendarService
	Cfg          Config
	Logger       *zap.Logger
}

// candidateResult carries one candidate through the availability fan-out.
type candidateResult struct {
	match models.ProviderMatch
	ok    bool
}

func (s *DefaultMatchingService) FindMatchingProviders(ctx context.Context, criteria models.MatchingCriteria) ([]models.ProviderMatch, error) {
	if err := validateCriteria(criteria); err != nil {
		return nil, err
	}

	minRating := s.Cfg.DefaultMinRating
	if criteria.Preferences.MinRating > minRating {
		minRating = criteria.Preferences.MinRating
	}

	candidates, err := s.ProviderRepo.FindCandidates(ctx, providerRepo.CandidateCriteria{
		ServiceType: criteria.ServiceType,
		MinRating:   minRating,
	})
	if err != nil {
		return nil, newSearchError("candidate lookup failed", err)
	}
	if len(candidates) == 0 {
		return []models.ProviderMatch{}, nil
	}

	// Radius filter. The binding constraint is the tightest of the requested
	// radius, the provider's own service radius and the preference cap.
	type scoped struct {
		provider models.Provider
		distance float64
	}
	var inRange []scoped
	for _, p := range candidates {
		if !p.LocationGeo.Valid() {
			continue
		}
		dist := geoDistanceMiles(criteria.Location, p.LocationGeo)
		if dist > s.effectiveRadius(criteria, p) {
			continue
		}
		inRange = append(inRange, scoped{provider: p, distance: dist})
	}
	if len(inRange) == 0 {
		return []models.ProviderMatch{}, nil
	}

	dayStart, requestedAt, err := s.requestWindow(criteria)
	if err != nil {
		return nil, err
	}
	dayEnd := dayStart.AddDate(0, 0, 1)
	now := time.Now()

	// Availability fan-out. Each candidate is checked independently with its
	// own timeout; a slow or failing calendar lookup excludes only that
	// candidate.
	resultsCh := make(chan candidateResult, len(inRange))
	var wg sync.WaitGroup
	for _, sc := range inRange {
		wg.Add(1)
		go func(sc scoped) {
			defer wg.Done()
			resultsCh <- s.evaluateCandidate(ctx, sc.provider, sc.distance, criteria, dayStart, dayEnd, requestedAt, now)
		}(sc)
	}
	wg.Wait()
	close(resultsCh)

	matches := []models.ProviderMatch{}
	for res := range resultsCh {
		if res.ok {
			matches = append(matches, res.match)
		}
	}

	s.rank(matches, criteria.Preferences.PreferVeteran)
	return matches, nil
}

// evaluateCandidate checks one candidate's calendar, prices it and applies the
// time-window and price-range exclusions.
func (s *DefaultMatchingService) evaluateCandidate(
	ctx context.Context,
	p models.Provider,
	distance float64,
	criteria models.MatchingCriteria,
	dayStart, dayEnd time.Time,
	requestedAt *time.Time,
	now time.Time,
) candidateResult {
	checkCtx, cancel := context.WithTimeout(ctx, s.Cfg.AvailabilityTimeout)
	defer cancel()

	slots, err := s.Calendar.GetAvailableSlots(checkCtx, calendar.SlotQuery{
		EventTypeID: p.CalEventTypeID,
		StartTime:   dayStart,
		EndTime:     dayEnd,
		TimeZone:    s.Cfg.TimeZone,
	})
	if err != nil {
		s.Logger.Warn("availability check failed, excluding candidate",
			zap.String("providerID", p.ID), zap.Error(err))
		return candidateResult{}
	}

	snapshot := buildSnapshot(slots, requestedAt, s.Cfg.SlotWidth)

	// A specific time was requested and the provider has nothing that day at
	// all: drop the candidate rather than returning an unusable match.
	if requestedAt != nil && !snapshot.IsAvailable && len(snapshot.FreeSlots) == 0 {
		return candidateResult{}
	}

	quote := PriceEstimate(p.BaseRate, criteria.Urgency, distance, s.Cfg.Urgency)
	prefs := criteria.Preferences
	if prefs.PriceMin > 0 && quote.TotalEstimate < prefs.PriceMin {
		return candidateResult{}
	}
	if prefs.PriceMax > 0 && quote.TotalEstimate > prefs.PriceMax {
		return candidateResult{}
	}

	return candidateResult{
		match: models.ProviderMatch{
			Provider:         p,
			DistanceMi:       distance,
			Quote:            quote,
			EstimatedArrival: EstimatedArrival(now, distance, quote.UrgencyMultiplier),
			Availability:     snapshot,
		},
		ok: true,
	}
}

// buildSnapshot derives the availability view from the raw slot list. When a
// specific time is requested the candidate counts as available only if that
// time falls inside some slot's fixed-width window.
func buildSnapshot(slots []time.Time, requestedAt *time.Time, slotWidth time.Duration) models.AvailabilitySnapshot {
	// The slice belongs to the calendar gateway; sort a copy.
	sorted := make([]time.Time, len(slots))
	copy(sorted, slots)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	snapshot := models.AvailabilitySnapshot{FreeSlots: sorted}
	if len(sorted) > 0 {
		next := sorted[0]
		snapshot.NextFreeSlot = &next
	}

	if requestedAt == nil {
		snapshot.IsAvailable = len(sorted) > 0
		return snapshot
	}
	for _, slot := range sorted {
		if !requestedAt.Before(slot) && requestedAt.Before(slot.Add(slotWidth)) {
			snapshot.IsAvailable = true
			break
		}
	}
	return snapshot
}

// effectiveRadius is the tightest of requested radius, provider service
// radius and preference max distance.
func (s *DefaultMatchingService) effectiveRadius(criteria models.MatchingCriteria, p models.Provider) float64 {
	radius := criteria.SearchRadius
	if radius <= 0 {
		radius = s.Cfg.DefaultSearchRadiusMi
	}
	if p.ServiceRadiusMi > 0 && p.ServiceRadiusMi < radius {
		radius = p.ServiceRadiusMi
	}
	if max := criteria.Preferences.MaxDistanceMi; max > 0 && max < radius {
		radius = max
	}
	return radius
}

// rank orders matches best-first: available-now before not, a decisive rating
// gap next, veteran preference breaking rating near-ties, distance last.
func (s *DefaultMatchingService) rank(matches []models.ProviderMatch, preferVeteran bool) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]

		if a.Availability.IsAvailable != b.Availability.IsAvailable {
			return a.Availability.IsAvailable
		}

		ratingDiff := a.Provider.Rating - b.Provider.Rating
		if ratingDiff >= ratingTieBand {
			return true
		}
		if ratingDiff <= -ratingTieBand {
			return false
		}

		// Ratings within the tie band: veteran preference decides, if set.
		if preferVeteran && a.Provider.MilitaryVeteran != b.Provider.MilitaryVeteran {
			return a.Provider.MilitaryVeteran
		}

		return a.DistanceMi < b.DistanceMi
	})
}

// requestWindow resolves the requested date (and optional time) in the
// configured zone. Returns the start of day and, when a time was given, the
// exact requested instant.
func (s *DefaultMatchingService) requestWindow(criteria models.MatchingCriteria) (time.Time, *time.Time, error) {
	loc, err := time.LoadLocation(s.Cfg.TimeZone)
	if err != nil {
		loc = time.UTC
	}
	dayStart, err := time.ParseInLocation("2006-01-02", criteria.ScheduledDate, loc)
	if err != nil {
		return time.Time{}, nil, &ValidationError{Field: "scheduledDate", Message: fmt.Sprintf("not a valid date: %q", criteria.ScheduledDate)}
	}
	if criteria.ScheduledTime == "" {
		return dayStart, nil, nil
	}
	clock, err := time.Parse("15:04", criteria.ScheduledTime)
	if err != nil {
		return time.Time{}, nil, &ValidationError{Field: "scheduledTime", Message: fmt.Sprintf("not a valid time: %q", criteria.ScheduledTime)}
	}
	requested := dayStart.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
	return dayStart, &requested, nil
}

func validateCriteria(criteria models.MatchingCriteria) error {
	if criteria.ServiceType == "" {
		return &ValidationError{Field: "serviceType", Message: "required"}
	}
	if !criteria.Location.Valid() {
		return &ValidationError{Field: "location", Message: "coordinates required"}
	}
	if criteria.ScheduledDate == "" {
		return &ValidationError{Field: "scheduledDate", Message: "required"}
	}
	switch criteria.Urgency {
	case "", models.UrgencyStandard, models.UrgencyUrgent, models.UrgencyEmergency:
	default:
		return &ValidationError{Field: "urgency", Message: fmt.Sprintf("unknown tier %q", criteria.Urgency)}
	}
	if prefs := criteria.Preferences; prefs.PriceMin > 0 && prefs.PriceMax > 0 && prefs.PriceMin > prefs.PriceMax {
		return &ValidationError{Field: "preferences", Message: "price range is inverted"}
	}
	return nil
}
