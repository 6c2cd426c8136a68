package matching

import (
	"context"
	"errors"
	"testing"
	"time"

	providerRepo "tapstead/database/repository/provider"
	"tapstead/models"
	"tapstead/services/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProviderRepo struct {
	candidates []models.Provider
	err        error
}

func (f *fakeProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	for i := range f.candidates {
		if f.candidates[i].ID == id {
			return &f.candidates[i], nil
		}
	}
	return nil, providerRepo.ErrNotFound
}

func (f *fakeProviderRepo) FindCandidates(ctx context.Context, criteria providerRepo.CandidateCriteria) ([]models.Provider, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}


type fakeCalendar struct {
	slots  map[int][]time.Time
	errFor map[int]error
}

func (f *fakeCalendar) GetAvailableSlots(ctx context.Context, query calendar.SlotQuery) ([]time.Time, error) {
	if err := f.errFor[query.EventTypeID]; err != nil {
		return nil, err
	}
	return f.slots[query.EventTypeID], nil
}

func (f *fakeCalendar) CreateBooking(ctx context.Context, req calendar.CreateBookingRequest) (*calendar.ExternalBooking, error) {
	return nil, errors.New("not used in matching")
}

func (f *fakeCalendar) CancelBooking(ctx context.Context, uid, reason string) error { return nil }

// searchOrigin is the customer location all distances are measured from.
// One degree of latitude is roughly 69.1 miles.
var searchOrigin = geo(40.0, -75.0)

func geo(lat, lon float64) models.GeoPoint {
	return models.GeoPoint{Type: "Point", Coordinates: []float64{lon, lat}}
}

func testProvider(id string, rating, latOffset float64, veteran bool) models.Provider {
	return models.Provider{
		ID:              id,
		Name:            "Provider " + id,
		Services:        []string{"cleaning"},
		LocationGeo:     geo(40.0+latOffset, -75.0),
		Active:          true,
		Rating:          rating,
		BaseRate:        100,
		MilitaryVeteran: veteran,
		CalEventTypeID:  1,
	}
}

func testService(repo providerRepo.ProviderRepository, cal calendar.CalendarService) *DefaultMatchingService {
	return &DefaultMatchingService{
		ProviderRepo: repo,
		Calendar:     cal,
		Cfg: Config{
			DefaultSearchRadiusMi: 50,
			DefaultMinRating:      3.0,
			Urgency:               DefaultUrgencyTable,
			SlotWidth:             2 * time.Hour,
			AvailabilityTimeout:   2 * time.Second,
			TimeZone:              "UTC",
		},
		Logger: zap.NewNop(),
	}
}

func baseCriteria() models.MatchingCriteria {
	return models.MatchingCriteria{
		ServiceType:   "cleaning",
		Location:      searchOrigin,
		ScheduledDate: "2026-03-14",
		Urgency:       models.UrgencyStandard,
	}
}

func slotsAllDay(eventTypeIDs ...int) map[int][]time.Time {
	morning := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	out := make(map[int][]time.Time, len(eventTypeIDs))
	for _, id := range eventTypeIDs {
		out[id] = []time.Time{morning}
	}
	return out
}

func TestFindMatchingProviders_DecisiveRatingGapBeatsDistance(t *testing.T) {
	far := testProvider("a", 4.9, 0.3, false) // ~20.7 mi
	near := testProvider("b", 4.0, 0.05, false)
	repo := &fakeProviderRepo{candidates: []models.Provider{near, far}}
	cal := &fakeCalendar{slots: slotsAllDay(1)}

	matches, err := testService(repo, cal).FindMatchingProviders(context.Background(), baseCriteria())
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].Provider.ID)
	assert.Equal(t, "b", matches[1].Provider.ID)
}

func TestFindMatchingProviders_VeteranBreaksRatingNearTie(t *testing.T) {
	civilian := testProvider("a", 4.9, 0.05, false)
	veteran := testProvider("b", 4.85, 0.3, true) // within the 0.1 rating band
	repo := &fakeProviderRepo{candidates: []models.Provider{civilian, veteran}}
	cal := &fakeCalendar{slots: slotsAllDay(1)}
	svc := testService(repo, cal)

	criteria := baseCriteria()
	criteria.Preferences.PreferVeteran = true
	matches, err := svc.FindMatchingProviders(context.Background(), criteria)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "b", matches[0].Provider.ID, "veteran should win a rating near-tie when preferred")

	// Without the preference the near-tie falls through to distance.
	matches, err = svc.FindMatchingProviders(context.Background(), baseCriteria())
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].Provider.ID)
}

func TestFindMatchingProviders_DecisiveRatingGapBeatsVeteranPreference(t *testing.T) {
	civilian := testProvider("a", 4.9, 0.05, false)
	veteran := testProvider("b", 4.5, 0.05, true) // gap well past the 0.1 band
	repo := &fakeProviderRepo{candidates: []models.Provider{veteran, civilian}}
	cal := &fakeCalendar{slots: slotsAllDay(1)}

	criteria := baseCriteria()
	criteria.Preferences.PreferVeteran = true
	matches, err := testService(repo, cal).FindMatchingProviders(context.Background(), criteria)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].Provider.ID,
		"a decisive rating gap must outrank veteran status even when preferred")
}

func TestFindMatchingProviders_ExcludesBeyondRadius(t *testing.T) {
	near := testProvider("a", 4.5, 0.2, false)
	far := testProvider("b", 5.0, 1.0, false) // ~69 mi, past the 50 mi default
	repo := &fakeProviderRepo{candidates: []models.Provider{near, far}}
	cal := &fakeCalendar{slots: slotsAllDay(1)}

	matches, err := testService(repo, cal).FindMatchingProviders(context.Background(), baseCriteria())
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].Provider.ID)
}

func TestFindMatchingProviders_ProviderServiceRadiusCapsReach(t *testing.T) {
	p := testProvider("a", 4.5, 0.2, false) // ~13.8 mi away
	p.ServiceRadiusMi = 10                  // but only travels 10 mi
	repo := &fakeProviderRepo{candidates: []models.Provider{p}}
	cal := &fakeCalendar{slots: slotsAllDay(1)}

	matches, err := testService(repo, cal).FindMatchingProviders(context.Background(), baseCriteria())
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindMatchingProviders_CandidateFailureExcludesOnlyThatCandidate(t *testing.T) {
	healthy := testProvider("a", 4.5, 0.1, false)
	healthy.CalEventTypeID = 1
	broken := testProvider("b", 4.9, 0.1, false)
	broken.CalEventTypeID = 99
	repo := &fakeProviderRepo{candidates: []models.Provider{healthy, broken}}
	cal := &fakeCalendar{
		slots:  slotsAllDay(1),
		errFor: map[int]error{99: errors.New("upstream timeout")},
	}

	matches, err := testService(repo, cal).FindMatchingProviders(context.Background(), baseCriteria())
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].Provider.ID)
}

func TestFindMatchingProviders_RepoFailureIsSearchError(t *testing.T) {
	repo := &fakeProviderRepo{err: errors.New("connection reset")}
	cal := &fakeCalendar{}

	matches, err := testService(repo, cal).FindMatchingProviders(context.Background(), baseCriteria())
	assert.Nil(t, matches)
	var sErr *SearchError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, "upstreamFailure", sErr.Code)
}

func TestFindMatchingProviders_EmptyPoolIsNotAnError(t *testing.T) {
	repo := &fakeProviderRepo{}
	cal := &fakeCalendar{}

	matches, err := testService(repo, cal).FindMatchingProviders(context.Background(), baseCriteria())
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestFindMatchingProviders_RequestedTimeMustFallInsideASlot(t *testing.T) {
	day := func(h int) time.Time { return time.Date(2026, 3, 14, h, 0, 0, 0, time.UTC) }

	covered := testProvider("a", 4.0, 0.05, false)
	covered.CalEventTypeID = 1
	lateOnly := testProvider("b", 4.0, 0.05, false)
	lateOnly.CalEventTypeID = 2
	noSlots := testProvider("c", 4.0, 0.05, false)
	noSlots.CalEventTypeID = 3

	repo := &fakeProviderRepo{candidates: []models.Provider{covered, lateOnly, noSlots}}
	cal := &fakeCalendar{slots: map[int][]time.Time{
		1: {day(9)},  // 09:00 slot + 2h width covers the 10:00 request
		2: {day(14)}, // free later that day, but not at the requested time
		3: {},        // fully booked
	}}

	criteria := baseCriteria()
	criteria.ScheduledTime = "10:00"
	matches, err := testService(repo, cal).FindMatchingProviders(context.Background(), criteria)
	require.NoError(t, err)
	require.Len(t, matches, 2, "fully booked provider should be dropped")

	assert.Equal(t, "a", matches[0].Provider.ID)
	assert.True(t, matches[0].Availability.IsAvailable)
	assert.Equal(t, "b", matches[1].Provider.ID)
	assert.False(t, matches[1].Availability.IsAvailable)
	require.NotNil(t, matches[1].Availability.NextFreeSlot)
	assert.Equal(t, day(14), *matches[1].Availability.NextFreeSlot)
}

func TestFindMatchingProviders_PriceRangeFilters(t *testing.T) {
	cheap := testProvider("a", 4.0, 0.05, false)
	cheap.BaseRate = 60
	pricey := testProvider("b", 4.9, 0.05, false)
	pricey.BaseRate = 250
	repo := &fakeProviderRepo{candidates: []models.Provider{cheap, pricey}}
	cal := &fakeCalendar{slots: slotsAllDay(1)}

	criteria := baseCriteria()
	criteria.Preferences.PriceMax = 100
	matches, err := testService(repo, cal).FindMatchingProviders(context.Background(), criteria)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].Provider.ID)
}

func TestFindMatchingProviders_RejectsBadCriteria(t *testing.T) {
	repo := &fakeProviderRepo{}
	cal := &fakeCalendar{}
	svc := testService(repo, cal)

	tests := []struct {
		name   string
		mutate func(*models.MatchingCriteria)
		field  string
	}{
		{"missing service type", func(c *models.MatchingCriteria) { c.ServiceType = "" }, "serviceType"},
		{"missing location", func(c *models.MatchingCriteria) { c.Location = models.GeoPoint{} }, "location"},
		{"missing date", func(c *models.MatchingCriteria) { c.ScheduledDate = "" }, "scheduledDate"},
		{"unknown urgency", func(c *models.MatchingCriteria) { c.Urgency = "asap" }, "urgency"},
		{"inverted price range", func(c *models.MatchingCriteria) {
			c.Preferences.PriceMin = 200
			c.Preferences.PriceMax = 100
		}, "preferences"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			criteria := baseCriteria()
			tc.mutate(&criteria)
			_, err := svc.FindMatchingProviders(context.Background(), criteria)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestBuildSnapshot_NoRequestedTime(t *testing.T) {
	later := time.Date(2026, 3, 14, 13, 0, 0, 0, time.UTC)
	earlier := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	snapshot := buildSnapshot([]time.Time{later, earlier}, nil, 2*time.Hour)
	assert.True(t, snapshot.IsAvailable)
	require.NotNil(t, snapshot.NextFreeSlot)
	assert.Equal(t, earlier, *snapshot.NextFreeSlot)

	empty := buildSnapshot(nil, nil, 2*time.Hour)
	assert.False(t, empty.IsAvailable)
	assert.Nil(t, empty.NextFreeSlot)
}

func TestBuildSnapshot_DoesNotMutateGatewaySlice(t *testing.T) {
	later := time.Date(2026, 3, 14, 13, 0, 0, 0, time.UTC)
	earlier := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	slots := []time.Time{later, earlier}

	snapshot := buildSnapshot(slots, nil, 2*time.Hour)
	assert.Equal(t, []time.Time{earlier, later}, snapshot.FreeSlots)
	assert.Equal(t, []time.Time{later, earlier}, slots, "the gateway's slice must stay untouched")
}

func TestBuildSnapshot_SlotWindowIsHalfOpen(t *testing.T) {
	slot := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	width := 2 * time.Hour

	atStart := slot
	assert.True(t, buildSnapshot([]time.Time{slot}, &atStart, width).IsAvailable)

	inside := slot.Add(90 * time.Minute)
	assert.True(t, buildSnapshot([]time.Time{slot}, &inside, width).IsAvailable)

	atEnd := slot.Add(width)
	assert.False(t, buildSnapshot([]time.Time{slot}, &atEnd, width).IsAvailable)
}
