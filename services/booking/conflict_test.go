package booking

import (
	"testing"

	"tapstead/models"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 int
		want           bool
	}{
		{"identical intervals", 600, 720, 600, 720, true},
		{"partial overlap", 600, 720, 660, 780, true},
		{"containment", 600, 720, 630, 690, true},
		{"adjacent intervals do not overlap", 600, 720, 720, 840, false},
		{"disjoint", 600, 720, 900, 960, false},
		{"reversed adjacency", 720, 840, 600, 720, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.s1, tc.e1, tc.s2, tc.e2))
			assert.Equal(t, tc.want, Overlaps(tc.s2, tc.e2, tc.s1, tc.e1), "overlap must be symmetric")
		})
	}
}

func TestHasConflict(t *testing.T) {
	existing := []models.Booking{
		{ID: "b1", ScheduledTime: "09:00", EstimatedDuration: 2}, // 09:00-11:00
		{ID: "b2", ScheduledTime: "14:00", EstimatedDuration: 1}, // 14:00-15:00
	}

	// 11:00-13:00 touches the first job only at its boundary.
	assert.False(t, HasConflict(existing, 660, 780, 2, nil))
	// 10:00-12:00 overlaps the first job.
	assert.True(t, HasConflict(existing, 600, 720, 2, nil))
	// 14:30-16:30 overlaps the second job.
	assert.True(t, HasConflict(existing, 870, 990, 2, nil))
	assert.False(t, HasConflict(nil, 600, 720, 2, nil))
}

func TestHasConflict_MissingDurationFallsBack(t *testing.T) {
	// No duration recorded: the job is assumed to run the default 2 hours,
	// 09:00-11:00.
	existing := []models.Booking{{ID: "b1", ScheduledTime: "09:00"}}

	assert.True(t, HasConflict(existing, 600, 720, 2, nil))  // 10:00-12:00
	assert.False(t, HasConflict(existing, 660, 780, 2, nil)) // 11:00-13:00
}
