package booking

import (
	"context"
	"fmt"
	"time"

	"tapstead/models"
	"tapstead/services/calendar"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookWithProvider runs the explicit booking commit:
//
//	phase 1: insert the internal row (pending) so a reference id exists
//	phase 2: create the external calendar booking, tagged with that id
//	phase 3: link the external reference and confirm the internal row
//
// Failure in phase 2 deletes the internal row. Failure in phase 3 cancels the
// external booking and deletes the internal row. Either way the caller gets a
// CommitError naming the phase, and no half-committed pair survives.
func (s *DefaultBookingService) BookWithProvider(ctx context.Context, req BookWithProviderRequest) (*models.Booking, error) {
	if err := validateBookRequest(req); err != nil {
		return nil, err
	}

	provider, err := s.ProviderRepo.GetByID(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}
	if !provider.Active {
		return nil, &ValidationError{Field: "providerId", Message: fmt.Sprintf("provider %s is not active", req.ProviderID)}
	}
	if !provider.OffersService(req.ServiceType) {
		return nil, &ValidationError{Field: "serviceType", Message: fmt.Sprintf("provider %s does not offer %s", req.ProviderID, req.ServiceType)}
	}

	// Conflict pre-check against the internal table, before any write.
	existing, err := s.BookingRepo.GetProviderBookingsForDate(ctx, req.ProviderID, req.ScheduledDate, conflictStatuses)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule for provider %s: %w", req.ProviderID, err)
	}
	newStart := models.ParseMinuteOfDay(req.ScheduledTime)
	newEnd := newStart + int(req.EstimatedDuration*60)
	if HasConflict(existing, newStart, newEnd, s.Cfg.DefaultJobDurationHrs, s.Logger) {
		return nil, &ConflictError{ProviderID: req.ProviderID, Date: req.ScheduledDate}
	}

	start, end, err := s.externalWindow(req)
	if err != nil {
		return nil, err
	}

	// Phase 1: internal system of record first.
	booking := &models.Booking{
		ID:                uuid.New().String(),
		CustomerID:        req.CustomerID,
		ProviderID:        req.ProviderID,
		ServiceType:       req.ServiceType,
		ScheduledDate:     req.ScheduledDate,
		ScheduledTime:     req.ScheduledTime,
		EstimatedDuration: req.EstimatedDuration,
		Address:           req.Address,
		Status:            models.StatusPending,
		EstimatedPrice:    req.EstimatedPrice,
	}
	if err := s.BookingRepo.Create(ctx, booking); err != nil {
		return nil, &CommitError{Phase: PhaseInternalInsert, Err: err}
	}

	// Phase 2: external calendar booking, tagged with the internal id.
	external, err := s.Calendar.CreateBooking(ctx, calendar.CreateBookingRequest{
		EventTypeID: provider.CalEventTypeID,
		Start:       start,
		End:         end,
		Attendee: calendar.Attendee{
			Name:     req.CustomerName,
			Email:    req.CustomerEmail,
			TimeZone: s.Cfg.TimeZone,
		},
		Metadata: map[string]string{"bookingId": booking.ID},
	})
	if err != nil {
		s.compensateInternal(booking.ID, "external booking creation failed")
		return nil, &CommitError{Phase: PhaseExternalCreate, Err: err}
	}

	// Phase 3: link the two records.
	if err := s.BookingRepo.LinkExternalBooking(ctx, booking.ID, external.UID); err != nil {
		s.compensateExternal(external.UID)
		s.compensateInternal(booking.ID, "external link write failed")
		return nil, &CommitError{Phase: PhaseExternalLink, Err: err}
	}

	booking.CalBookingUID = external.UID
	booking.Status = models.StatusConfirmed

	s.appendTracking(ctx, models.TrackingEntry{
		BookingID:  booking.ID,
		ProviderID: provider.ID,
		Status:     models.StatusConfirmed,
		Note:       fmt.Sprintf("booked with %s, calendar ref %s", provider.Name, external.UID),
	})

	// Fire-and-forget: a failed confirmation email never rolls back a booking.
	go s.notifyConfirmation(req.CustomerEmail, *booking, *provider)

	return booking, nil
}

// compensateInternal removes the phase-1 row. Best effort: if the delete
// itself fails the reconciliation sweep picks the row up later.
func (s *DefaultBookingService) compensateInternal(bookingID, reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.BookingRepo.Delete(ctx, bookingID); err != nil {
		s.Logger.Error("compensation failed to delete internal booking",
			zap.String("bookingID", bookingID),
			zap.String("reason", reason),
			zap.Error(err))
		return
	}
	s.appendTracking(ctx, models.TrackingEntry{
		BookingID: bookingID,
		Status:    models.StatusCancelled,
		Note:      "rolled back: " + reason,
	})
}

// compensateExternal cancels a just-created external booking. Best effort: an
// orphaned external booking is worse than a noisy log line.
func (s *DefaultBookingService) compensateExternal(uid string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Calendar.CancelBooking(ctx, uid, "internal booking commit failed"); err != nil {
		s.Logger.Error("compensation failed to cancel external booking",
			zap.String("calBookingUID", uid),
			zap.Error(err))
	}
}

func (s *DefaultBookingService) notifyConfirmation(email string, booking models.Booking, provider models.Provider) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.NotificationSvc.SendBookingConfirmation(ctx, email, booking, provider); err != nil {
		s.Logger.Warn("failed to send booking confirmation",
			zap.String("bookingID", booking.ID), zap.Error(err))
	}
}

// externalWindow resolves the job's start/end instants in the configured zone.
func (s *DefaultBookingService) externalWindow(req BookWithProviderRequest) (time.Time, time.Time, error) {
	loc, err := time.LoadLocation(s.Cfg.TimeZone)
	if err != nil {
		loc = time.UTC
	}
	start, err := time.ParseInLocation("2006-01-02 15:04", req.ScheduledDate+" "+req.ScheduledTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{Field: "scheduledDate", Message: fmt.Sprintf("cannot parse %q %q", req.ScheduledDate, req.ScheduledTime)}
	}
	end := start.Add(time.Duration(req.EstimatedDuration * float64(time.Hour)))
	return start, end, nil
}

func validateBookRequest(req BookWithProviderRequest) error {
	if req.ProviderID == "" {
		return &ValidationError{Field: "providerId", Message: "required"}
	}
	if req.CustomerID == "" {
		return &ValidationError{Field: "customerId", Message: "required"}
	}
	if req.ServiceType == "" {
		return &ValidationError{Field: "serviceType", Message: "required"}
	}
	if req.ScheduledDate == "" || req.ScheduledTime == "" {
		return &ValidationError{Field: "schedule", Message: "date and time are required"}
	}
	if req.EstimatedDuration <= 0 {
		return &ValidationError{Field: "estimatedDuration", Message: "must be positive"}
	}
	return nil
}
