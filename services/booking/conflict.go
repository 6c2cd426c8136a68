package booking

import (
	"tapstead/models"

	"go.uber.org/zap"
)

// Overlaps reports whether two half-open minute intervals [s1,e1) and
// [s2,e2) intersect. Adjacent intervals (e1 == s2) do not overlap.
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// HasConflict checks a candidate interval against a provider's existing jobs
// for the day. Existing jobs with a missing duration fall back to
// defaultDurationHours; every fallback is logged because a wrong default
// silently double-books or needlessly excludes.
func HasConflict(existing []models.Booking, newStart, newEnd int, defaultDurationHours float64, logger *zap.Logger) bool {
	for _, job := range existing {
		start, end, usedFallback := job.StartEnd(defaultDurationHours)
		if usedFallback && logger != nil {
			logger.Warn("existing booking has no duration, assuming default",
				zap.String("bookingID", job.ID),
				zap.Float64("defaultHours", defaultDurationHours))
		}
		if Overlaps(newStart, newEnd, start, end) {
			return true
		}
	}
	return false
}
