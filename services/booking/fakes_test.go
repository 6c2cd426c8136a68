package booking

import (
	"context"
	"time"

	bookingRepo "tapstead/database/repository/booking"
	providerRepo "tapstead/database/repository/provider"
	"tapstead/models"
	"tapstead/services/calendar"

	"go.uber.org/zap"
)

type fakeBookingRepo struct {
	bookings   map[string]*models.Booking
	byProvider map[string][]models.Booking

	createErr error
	linkErr   error

	deleted  []string
	assigned map[string]string // bookingID -> providerID
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings:   map[string]*models.Booking{},
		byProvider: map[string][]models.Booking{},
		assigned:   map[string]string{},
	}
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	stored := *booking
	f.bookings[booking.ID] = &stored
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.bookings, id)
	return nil
}

func (f *fakeBookingRepo) AssignProvider(ctx context.Context, bookingID, providerID string) error {
	f.assigned[bookingID] = providerID
	if b, ok := f.bookings[bookingID]; ok {
		b.ProviderID = providerID
		b.Status = models.StatusScheduled
	}
	return nil
}

func (f *fakeBookingRepo) LinkExternalBooking(ctx context.Context, bookingID, calBookingUID string) error {
	if f.linkErr != nil {
		return f.linkErr
	}
	if b, ok := f.bookings[bookingID]; ok {
		b.CalBookingUID = calBookingUID
		b.Status = models.StatusConfirmed
	}
	return nil
}

func (f *fakeBookingRepo) GetProviderBookingsForDate(ctx context.Context, providerID, date string, statuses []string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.byProvider[providerID] {
		if b.ScheduledDate == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) FindStalePending(ctx context.Context, cutoff time.Time) ([]models.Booking, error) {
	return nil, nil
}

type fakeProviderRepo struct {
	providers map[string]*models.Provider
}

func newFakeProviderRepo(providers ...models.Provider) *fakeProviderRepo {
	f := &fakeProviderRepo{providers: map[string]*models.Provider{}}
	for i := range providers {
		f.providers[providers[i].ID] = &providers[i]
	}
	return f
}

func (f *fakeProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	p, ok := f.providers[id]
	if !ok {
		return nil, providerRepo.ErrNotFound
	}
	return p, nil
}

func (f *fakeProviderRepo) FindCandidates(ctx context.Context, criteria providerRepo.CandidateCriteria) ([]models.Provider, error) {
	var out []models.Provider
	for _, p := range f.providers {
		if p.Active && p.OffersService(criteria.ServiceType) && p.Rating >= criteria.MinRating {
			out = append(out, *p)
		}
	}
	return out, nil
}


type fakePerformanceRepo struct {
	perf map[string]models.ProviderPerformance
}

func (f *fakePerformanceRepo) GetByProviderIDs(ctx context.Context, providerIDs []string) (map[string]models.ProviderPerformance, error) {
	out := map[string]models.ProviderPerformance{}
	for _, id := range providerIDs {
		if p, ok := f.perf[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeTrackingRepo struct {
	entries []models.TrackingEntry
}

func (f *fakeTrackingRepo) Append(ctx context.Context, entry models.TrackingEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeTrackingRepo) GetByBookingID(ctx context.Context, bookingID string) ([]models.TrackingEntry, error) {
	var out []models.TrackingEntry
	for _, e := range f.entries {
		if e.BookingID == bookingID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeTrackingRepo) lastStatus() string {
	if len(f.entries) == 0 {
		return ""
	}
	return f.entries[len(f.entries)-1].Status
}

type fakeCalendar struct {
	createErr error
	created   []calendar.CreateBookingRequest
	cancelled []string
}

func (f *fakeCalendar) GetAvailableSlots(ctx context.Context, query calendar.SlotQuery) ([]time.Time, error) {
	return nil, nil
}

func (f *fakeCalendar) CreateBooking(ctx context.Context, req calendar.CreateBookingRequest) (*calendar.ExternalBooking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, req)
	return &calendar.ExternalBooking{ID: 4242, UID: "cal-uid-1"}, nil
}

func (f *fakeCalendar) CancelBooking(ctx context.Context, uid, reason string) error {
	f.cancelled = append(f.cancelled, uid)
	return nil
}

type fakeNotifier struct{}

func (f *fakeNotifier) SendBookingConfirmation(ctx context.Context, email string, booking models.Booking, provider models.Provider) error {
	return nil
}

type testFixture struct {
	svc      *DefaultBookingService
	bookings *fakeBookingRepo
	tracking *fakeTrackingRepo
	calendar *fakeCalendar
	perf     *fakePerformanceRepo
}

func newFixture(providers ...models.Provider) *testFixture {
	bookings := newFakeBookingRepo()
	tracking := &fakeTrackingRepo{}
	cal := &fakeCalendar{}
	perf := &fakePerformanceRepo{perf: map[string]models.ProviderPerformance{}}
	svc := &DefaultBookingService{
		BookingRepo:     bookings,
		ProviderRepo:    newFakeProviderRepo(providers...),
		PerformanceRepo: perf,
		TrackingRepo:    tracking,
		Calendar:        cal,
		NotificationSvc: &fakeNotifier{},
		Cfg: Config{
			DefaultJobDurationHrs: 2,
			SlotWidth:             2 * time.Hour,
			TimeZone:              "UTC",
		},
		Logger: zap.NewNop(),
	}
	return &testFixture{svc: svc, bookings: bookings, tracking: tracking, calendar: cal, perf: perf}
}

func activeProvider(id string, services ...string) models.Provider {
	if len(services) == 0 {
		services = []string{"cleaning"}
	}
	return models.Provider{
		ID:             id,
		Name:           "Provider " + id,
		Services:       services,
		Active:         true,
		Rating:         4.5,
		CalEventTypeID: 7,
	}
}
