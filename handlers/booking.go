package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	bookingRepo "tapstead/database/repository/booking"
	trackingRepo "tapstead/database/repository/tracking"
	"tapstead/models"
	"tapstead/services/booking"
	"tapstead/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var validate = validator.New()

// BookingHandler serves booking commits and lookups.
type BookingHandler struct {
	BookingSvc   booking.BookingService
	BookingRepo  bookingRepo.BookingRepository
	TrackingRepo trackingRepo.TrackingRepository
	Cache        *redis.Client
	SlotHours    float64 // width of a quoted slot, in hours
	Logger       *zap.Logger
}

func NewBookingHandler(
	bookingSvc booking.BookingService,
	bookings bookingRepo.BookingRepository,
	tracking trackingRepo.TrackingRepository,
	cache *redis.Client,
	slotHours float64,
	logger *zap.Logger,
) *BookingHandler {
	return &BookingHandler{
		BookingSvc:   bookingSvc,
		BookingRepo:  bookings,
		TrackingRepo: tracking,
		Cache:        cache,
		SlotHours:    slotHours,
		Logger:       logger,
	}
}

type confirmRequest struct {
	SessionID     string `json:"sessionId" validate:"required"`
	ProviderID    string `json:"providerId" validate:"required"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail" validate:"required,email"`
	Address       string `json:"address"`
}

// ConfirmBooking commits a booking against a provider quoted in a match
// session. The session pins the criteria and price so the confirm call
// cannot book an unquoted provider.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	ctx := c.Request.Context()
	sessionData, err := h.Cache.Get(ctx, req.SessionID).Result()
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "match session not found or expired", req.SessionID)
		return
	}
	var session models.MatchSession
	if err := json.Unmarshal([]byte(sessionData), &session); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to parse match session", err.Error())
		return
	}

	match, ok := session.FindMatch(req.ProviderID)
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "provider not in match session",
			"the selected provider was not part of the quoted results")
		return
	}

	scheduledTime := session.Criteria.ScheduledTime
	if scheduledTime == "" && match.Availability.NextFreeSlot != nil {
		scheduledTime = match.Availability.NextFreeSlot.Format("15:04")
	}

	// Quoted slots are fixed-width windows, so the booking reserves the full
	// configured width.
	duration := h.SlotHours
	if duration <= 0 {
		duration = 2
	}

	confirmed, err := h.BookingSvc.BookWithProvider(ctx, booking.BookWithProviderRequest{
		ProviderID:        req.ProviderID,
		CustomerID:        session.CustomerID,
		CustomerName:      req.CustomerName,
		CustomerEmail:     req.CustomerEmail,
		ServiceType:       session.Criteria.ServiceType,
		ScheduledDate:     session.Criteria.ScheduledDate,
		ScheduledTime:     scheduledTime,
		EstimatedDuration: duration,
		Address:           req.Address,
		EstimatedPrice:    match.Quote.TotalEstimate,
	})
	if err != nil {
		h.respondBookingError(c, err)
		return
	}

	h.Cache.Del(ctx, req.SessionID)
	c.JSON(http.StatusOK, gin.H{"booking": confirmed})
}

// AutoAssign picks the best available provider for a pending booking.
func (h *BookingHandler) AutoAssign(c *gin.Context) {
	bookingID := c.Param("bookingID")
	assigned, err := h.BookingSvc.AutoAssign(c.Request.Context(), bookingID)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	resp := gin.H{"booking": assigned}
	if assigned.Status == models.StatusPendingAssignment {
		resp["message"] = "no providers available for this time — try another slot"
	}
	c.JSON(http.StatusOK, resp)
}

// GetBooking returns a booking with its tracking history.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID := c.Param("bookingID")
	ctx := c.Request.Context()

	b, err := h.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	entries, err := h.TrackingRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		h.Logger.Error("failed to load tracking entries", zap.String("bookingID", bookingID), zap.Error(err))
		entries = []models.TrackingEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"booking": b, "tracking": entries})
}

func (h *BookingHandler) respondBookingError(c *gin.Context, err error) {
	var (
		vErr  *booking.ValidationError
		cErr  *booking.ConflictError
		cmErr *booking.CommitError
	)
	switch {
	case booking.IsNotFound(err):
		utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
	case errors.As(err, &vErr):
		utils.JSONError(c, http.StatusBadRequest, "invalid booking input", vErr.Error())
	case errors.As(err, &cErr):
		utils.JSONError(c, http.StatusConflict, "provider schedule conflict",
			"no providers available for this time — try another slot")
	case errors.As(err, &cmErr):
		h.Logger.Error("booking commit failed", zap.String("phase", cmErr.Phase), zap.Error(cmErr))
		utils.JSONError(c, http.StatusBadGateway, "booking commit failed",
			"something went wrong, try again")
	default:
		h.Logger.Error("booking operation failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "booking operation failed",
			"something went wrong, try again")
	}
}
