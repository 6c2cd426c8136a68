package booking

import (
	"context"
	"time"

	bookingRepo "tapstead/database/repository/booking"
	performanceRepo "tapstead/database/repository/performance"
	providerRepo "tapstead/database/repository/provider"
	trackingRepo "tapstead/database/repository/tracking"
	"tapstead/models"
	"tapstead/services/calendar"
	"tapstead/services/notification"

	"go.uber.org/zap"
)

// BookWithProviderRequest carries one explicit booking commit.
type BookWithProviderRequest struct {
	ProviderID        string  `json:"providerId" binding:"required"`
	CustomerID        string  `json:"customerId" binding:"required"`
	CustomerName      string  `json:"customerName"`
	CustomerEmail     string  `json:"customerEmail" binding:"required,email"`
	ServiceType       string  `json:"serviceType" binding:"required"`
	ScheduledDate     string  `json:"scheduledDate" binding:"required"`
	ScheduledTime     string  `json:"scheduledTime" binding:"required"`
	EstimatedDuration float64 `json:"estimatedDuration" binding:"required,gt=0"` // hours
	Address           string  `json:"address"`
	EstimatedPrice    float64 `json:"estimatedPrice"`
}

// BookingService defines the booking orchestrator's operations.
type BookingService interface {
	// AutoAssign picks the best conflict-free provider for a booking awaiting
	// assignment. Zero eligible providers is not a failure: the booking stays
	// in pending_assignment for operator follow-up and the returned booking
	// reflects that.
	AutoAssign(ctx context.Context, bookingID string) (*models.Booking, error)
	// BookWithProvider commits a job against a chosen provider: internal row
	// first, then the external calendar booking, linked together. On partial
	// failure it compensates so neither artifact survives alone.
	BookWithProvider(ctx context.Context, req BookWithProviderRequest) (*models.Booking, error)
}

// Config carries the orchestrator's tunables.
type Config struct {
	DefaultJobDurationHrs float64
	SlotWidth             time.Duration
	TimeZone              string
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	BookingRepo     bookingRepo.BookingRepository
	ProviderRepo    providerRepo.ProviderRepository
	PerformanceRepo performanceRepo.PerformanceRepository
	TrackingRepo    trackingRepo.TrackingRepository
	Calendar        calendar.CalendarService
	NotificationSvc notification.NotificationService
	Cfg             Config
	Logger          *zap.Logger
}

// conflictStatuses are the booking states that hold a provider's time.
var conflictStatuses = []string{
	models.StatusScheduled,
	models.StatusConfirmed,
	models.StatusInProgress,
}
