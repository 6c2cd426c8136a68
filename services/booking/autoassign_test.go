package booking

import (
	"context"
	"testing"

	"tapstead/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingBooking(id string) *models.Booking {
	return &models.Booking{
		ID:                id,
		CustomerID:        "cust-1",
		ServiceType:       "cleaning",
		ScheduledDate:     "2026-03-14",
		ScheduledTime:     "10:00",
		EstimatedDuration: 2,
		Status:            models.StatusPendingAssignment,
	}
}

func TestAutoAssign_PicksHighestScoringProvider(t *testing.T) {
	fx := newFixture(activeProvider("p1"), activeProvider("p2"))
	fx.perf.perf["p1"] = models.ProviderPerformance{ProviderID: "p1", Rating: 4.9, CompletedJobs: 120}
	fx.perf.perf["p2"] = models.ProviderPerformance{ProviderID: "p2", Rating: 4.0, CompletedJobs: 10}
	require.NoError(t, fx.bookings.Create(context.Background(), pendingBooking("bk1")))

	assigned, err := fx.svc.AutoAssign(context.Background(), "bk1")
	require.NoError(t, err)

	assert.Equal(t, "p1", assigned.ProviderID)
	assert.Equal(t, models.StatusScheduled, assigned.Status)
	assert.Equal(t, "p1", fx.bookings.assigned["bk1"])
	assert.Equal(t, models.StatusScheduled, fx.tracking.lastStatus())
}

func TestAutoAssign_SkipsConflictedProviderEvenWithTopScore(t *testing.T) {
	fx := newFixture(activeProvider("p1"), activeProvider("p2"))
	fx.perf.perf["p1"] = models.ProviderPerformance{ProviderID: "p1", Rating: 5.0, CompletedJobs: 500}
	fx.perf.perf["p2"] = models.ProviderPerformance{ProviderID: "p2", Rating: 3.5, CompletedJobs: 5}
	// p1 already works 09:00-11:00 that day, overlapping the 10:00-12:00 job.
	fx.bookings.byProvider["p1"] = []models.Booking{{
		ID:                "other",
		ScheduledDate:     "2026-03-14",
		ScheduledTime:     "09:00",
		EstimatedDuration: 2,
		Status:            models.StatusScheduled,
	}}
	require.NoError(t, fx.bookings.Create(context.Background(), pendingBooking("bk1")))

	assigned, err := fx.svc.AutoAssign(context.Background(), "bk1")
	require.NoError(t, err)
	assert.Equal(t, "p2", assigned.ProviderID)
}

func TestAutoAssign_NewProvidersScoreWithDefaultPerformance(t *testing.T) {
	fx := newFixture(activeProvider("p1"), activeProvider("p2"))
	// p1 has history; p2 has no rollup yet and scores as a 2.5 newcomer.
	fx.perf.perf["p1"] = models.ProviderPerformance{ProviderID: "p1", Rating: 3.0, CompletedJobs: 0}
	require.NoError(t, fx.bookings.Create(context.Background(), pendingBooking("bk1")))

	assigned, err := fx.svc.AutoAssign(context.Background(), "bk1")
	require.NoError(t, err)
	assert.Equal(t, "p1", assigned.ProviderID)
}

func TestAutoAssign_NoEligibleProviderLeavesBookingPending(t *testing.T) {
	fx := newFixture() // empty provider pool
	require.NoError(t, fx.bookings.Create(context.Background(), pendingBooking("bk1")))

	assigned, err := fx.svc.AutoAssign(context.Background(), "bk1")
	require.NoError(t, err, "an empty pool is an outcome, not a failure")

	assert.Equal(t, models.StatusPendingAssignment, assigned.Status)
	assert.Empty(t, assigned.ProviderID)
	assert.Equal(t, models.StatusPendingAssignment, fx.tracking.lastStatus(),
		"the dead-end must be recorded for operator follow-up")
}

func TestAutoAssign_AllProvidersConflictedLeavesBookingPending(t *testing.T) {
	fx := newFixture(activeProvider("p1"))
	fx.bookings.byProvider["p1"] = []models.Booking{{
		ID:                "other",
		ScheduledDate:     "2026-03-14",
		ScheduledTime:     "10:00",
		EstimatedDuration: 2,
		Status:            models.StatusConfirmed,
	}}
	require.NoError(t, fx.bookings.Create(context.Background(), pendingBooking("bk1")))

	assigned, err := fx.svc.AutoAssign(context.Background(), "bk1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingAssignment, assigned.Status)
	assert.Empty(t, fx.bookings.assigned)
}

func TestAutoAssign_RejectsWrongStatus(t *testing.T) {
	fx := newFixture(activeProvider("p1"))
	b := pendingBooking("bk1")
	b.Status = models.StatusScheduled
	b.ProviderID = "p1"
	require.NoError(t, fx.bookings.Create(context.Background(), b))

	_, err := fx.svc.AutoAssign(context.Background(), "bk1")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "status", vErr.Field)
}

func TestAutoAssign_UnknownBookingIsNotFound(t *testing.T) {
	fx := newFixture(activeProvider("p1"))

	_, err := fx.svc.AutoAssign(context.Background(), "ghost")
	assert.True(t, IsNotFound(err))
}
