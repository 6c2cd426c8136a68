package booking

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "tapstead/database/repository/booking"
	providerRepo "tapstead/database/repository/provider"
	"tapstead/models"

	"go.uber.org/zap"
)

// completedJobsBonus is the per-completed-job scoring bonus. Small enough
// that experience never outweighs a full rating point.
const completedJobsBonus = 0.01

// AutoAssign selects the best conflict-free provider for a booking in
// pending_assignment and moves it to scheduled.
func (s *DefaultBookingService) AutoAssign(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := s.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.StatusPendingAssignment {
		return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("booking %s is %s, not awaiting assignment", bookingID, booking.Status)}
	}
	if booking.EstimatedDuration <= 0 {
		return nil, &ValidationError{Field: "estimatedDuration", Message: "must be positive"}
	}

	candidates, err := s.ProviderRepo.FindCandidates(ctx, providerRepo.CandidateCriteria{
		ServiceType: booking.ServiceType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates for auto-assignment: %w", err)
	}

	best, found, err := s.pickBestCandidate(ctx, candidates, booking)
	if err != nil {
		return nil, err
	}
	if !found {
		// Not a hard failure: leave the booking for operator follow-up.
		s.Logger.Warn("no eligible provider for auto-assignment",
			zap.String("bookingID", booking.ID),
			zap.String("serviceType", booking.ServiceType),
			zap.String("date", booking.ScheduledDate))
		s.appendTracking(ctx, models.TrackingEntry{
			BookingID: booking.ID,
			Status:    models.StatusPendingAssignment,
			Note:      "auto-assignment found no eligible provider; awaiting operator follow-up",
		})
		return booking, nil
	}

	if err := s.BookingRepo.AssignProvider(ctx, booking.ID, best.ID); err != nil {
		return nil, fmt.Errorf("failed to assign provider %s: %w", best.ID, err)
	}
	s.appendTracking(ctx, models.TrackingEntry{
		BookingID:  booking.ID,
		ProviderID: best.ID,
		Status:     models.StatusScheduled,
		Note:       fmt.Sprintf("automatically assigned to %s", best.Name),
	})

	booking.ProviderID = best.ID
	booking.Status = models.StatusScheduled
	return booking, nil
}

// pickBestCandidate scores conflict-free candidates and returns the winner.
func (s *DefaultBookingService) pickBestCandidate(ctx context.Context, candidates []models.Provider, booking *models.Booking) (models.Provider, bool, error) {
	if len(candidates) == 0 {
		return models.Provider{}, false, nil
	}

	ids := make([]string, 0, len(candidates))
	for _, p := range candidates {
		ids = append(ids, p.ID)
	}
	perfByID, err := s.PerformanceRepo.GetByProviderIDs(ctx, ids)
	if err != nil {
		return models.Provider{}, false, fmt.Errorf("failed to load performance rollups: %w", err)
	}

	newStart, newEnd, _ := booking.StartEnd(s.Cfg.DefaultJobDurationHrs)

	var (
		best      models.Provider
		bestScore float64
		found     bool
	)
	for _, p := range candidates {
		existing, err := s.BookingRepo.GetProviderBookingsForDate(ctx, p.ID, booking.ScheduledDate, conflictStatuses)
		if err != nil {
			return models.Provider{}, false, fmt.Errorf("failed to load schedule for provider %s: %w", p.ID, err)
		}
		if HasConflict(existing, newStart, newEnd, s.Cfg.DefaultJobDurationHrs, s.Logger) {
			continue
		}

		perf, ok := perfByID[p.ID]
		if !ok {
			perf = models.NewProviderPerformance(p.ID)
		}
		score := perf.Rating + float64(perf.CompletedJobs)*completedJobsBonus
		if !found || score > bestScore {
			best = p
			bestScore = score
			found = true
		}
	}
	return best, found, nil
}

// appendTracking writes an audit entry; tracking failures are logged, never
// propagated, so they cannot undo a completed transition.
func (s *DefaultBookingService) appendTracking(ctx context.Context, entry models.TrackingEntry) {
	if err := s.TrackingRepo.Append(ctx, entry); err != nil {
		s.Logger.Error("failed to append tracking entry",
			zap.String("bookingID", entry.BookingID), zap.Error(err))
	}
}

// IsNotFound reports whether err is a repository not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, bookingRepo.ErrNotFound) || errors.Is(err, providerRepo.ErrNotFound)
}
