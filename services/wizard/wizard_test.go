package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"salonbook/models"
)

func testSalon() *models.Salon {
	return &models.Salon{
		ID:          "salon-1",
		Name:        "Glow Studio",
		OpeningTime: "09:00",
		ClosingTime: "21:00",
		SlotMinutes: 30,
		IsActive:    true,
		Services: []models.ServiceItem{
			{ID: "cut", Name: "Haircut", Price: 300, Duration: 45, Category: "hair"},
			{ID: "facial", Name: "Facial", Price: 800, Duration: 60, Category: "skin"},
		},
		Staff: []models.Staff{
			{ID: "asha", Name: "Asha", Specializations: []string{"hair"}},
			{ID: "ravi", Name: "Ravi", Specializations: []string{"hair", "skin"}},
		},
	}
}

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)

func newWizard() *Wizard {
	return New(&models.BookingSession{SessionID: "s1", UserID: "u1", SalonID: "salon-1"}, testSalon()).
		WithClock(func() time.Time { return fixedNow })
}

func stageErr(t *testing.T, err error) *StageError {
	t.Helper()
	var se *StageError
	require.True(t, errors.As(err, &se), "expected StageError, got %v", err)
	return se
}

func TestServicesStepRequiresSelection(t *testing.T) {
	w := newWizard()
	assert.Equal(t, StageServices, w.Stage())
	stageErr(t, w.Next())

	require.NoError(t, w.ToggleService("cut"))
	require.NoError(t, w.Next())
	assert.Equal(t, StageStaff, w.Stage())
}

func TestToggleServiceTwiceRemovesIt(t *testing.T) {
	w := newWizard()
	require.NoError(t, w.ToggleService("cut"))
	require.NoError(t, w.ToggleService("cut"))
	assert.Equal(t, 0, w.Selection().Len())
	assert.Error(t, w.ToggleService("massage"))
}

func TestStaffStepBlocksIncompatibleStaff(t *testing.T) {
	w := newWizard()
	require.NoError(t, w.ToggleService("cut"))
	require.NoError(t, w.ToggleService("facial"))
	require.NoError(t, w.Next())

	// no staff selected yet
	se := stageErr(t, w.Next())
	assert.Equal(t, StageStaff, se.Stage)

	// Asha cannot do skin services
	stageErr(t, w.SelectStaff("asha"))
	assert.Empty(t, w.Session().StaffID)
	stageErr(t, w.Next())
	assert.Equal(t, StageStaff, w.Stage())

	compatible := w.CompatibleStaff()
	require.Len(t, compatible, 1)
	assert.Equal(t, "ravi", compatible[0].ID)

	require.NoError(t, w.SelectStaff("ravi"))
	require.NoError(t, w.Next())
	assert.Equal(t, StageDateTime, w.Stage())
}

func TestTogglingServiceClearsIncompatibleStaff(t *testing.T) {
	w := newWizard()
	require.NoError(t, w.ToggleService("cut"))
	require.NoError(t, w.Next())
	require.NoError(t, w.SelectStaff("asha"))
	w.Back()

	require.NoError(t, w.ToggleService("facial"))
	assert.Empty(t, w.Session().StaffID)
}

func TestBackKeepsSelections(t *testing.T) {
	w := newWizard()
	require.NoError(t, w.ToggleService("cut"))
	require.NoError(t, w.Next())
	require.NoError(t, w.SelectStaff("ravi"))
	w.Back()
	w.Back()
	assert.Equal(t, StageServices, w.Stage())
	assert.Equal(t, "ravi", w.Session().StaffID)
	assert.Equal(t, 1, w.Selection().Len())
}

// toDateTime walks a fresh wizard to a chosen 10:00 slot with the given staff member.
func toDateTime(t *testing.T, staffID string) *Wizard {
	t.Helper()
	w := newWizard()
	require.NoError(t, w.ToggleService("cut"))
	require.NoError(t, w.Next())
	require.NoError(t, w.SelectStaff(staffID))
	require.NoError(t, w.Next())
	require.NoError(t, w.SelectDate("2026-03-11"))
	require.NoError(t, w.SelectTime("10:00"))
	return w
}

func TestSwitchingStaffClearsChosenTime(t *testing.T) {
	w := toDateTime(t, "asha")
	w.Back()

	require.NoError(t, w.SelectStaff("asha"))
	assert.Equal(t, "10:00", w.Session().Time, "same staff keeps the slot")

	require.NoError(t, w.SelectStaff("ravi"))
	assert.Empty(t, w.Session().Time)
	assert.Equal(t, "2026-03-11", w.Session().Date)

	require.NoError(t, w.Next())
	se := stageErr(t, w.Next())
	assert.Equal(t, StageDateTime, se.Stage)
}

func TestLongerAppointmentClearsChosenTime(t *testing.T) {
	w := toDateTime(t, "ravi")
	w.Back()
	w.Back()

	require.NoError(t, w.ToggleService("facial"))
	assert.Equal(t, "ravi", w.Session().StaffID)
	assert.Empty(t, w.Session().Time)
}

func TestSelectionsOutsideTheirStage(t *testing.T) {
	w := newWizard()
	stageErr(t, w.SelectStaff("ravi"))
	stageErr(t, w.SelectDate("2026-03-11"))
	stageErr(t, w.SelectTime("10:00"))
}

func TestSelectDateUsesClockLocation(t *testing.T) {
	kiritimati := time.FixedZone("UTC+14", 14*60*60)
	w := New(&models.BookingSession{SessionID: "s1", UserID: "u1", SalonID: "salon-1"}, testSalon()).
		WithClock(func() time.Time { return time.Date(2026, 3, 11, 1, 0, 0, 0, kiritimati) })
	require.NoError(t, w.ToggleService("cut"))
	require.NoError(t, w.Next())
	require.NoError(t, w.SelectStaff("ravi"))
	require.NoError(t, w.Next())

	stageErr(t, w.SelectDate("2026-03-10"))
	require.NoError(t, w.SelectDate("2026-03-11"))
}

func TestDateTimeStep(t *testing.T) {
	w := newWizard()
	require.NoError(t, w.ToggleService("cut"))
	require.NoError(t, w.Next())
	require.NoError(t, w.SelectStaff("ravi"))
	require.NoError(t, w.Next())

	stageErr(t, w.SelectTime("10:00"))
	stageErr(t, w.SelectDate("2026-03-09"))
	stageErr(t, w.SelectDate("11/03/2026"))

	require.NoError(t, w.SelectDate("2026-03-11"))
	require.NoError(t, w.SelectTime("10:00"))
	require.NoError(t, w.SelectDate("2026-03-12"))
	assert.Empty(t, w.Session().Time)
	stageErr(t, w.Next())

	require.NoError(t, w.SelectTime("10:30"))
	require.NoError(t, w.Next())
	assert.Equal(t, StageConfirmation, w.Stage())
	assert.NoError(t, w.Ready())
	stageErr(t, w.Next())
}

func TestBuildSlots(t *testing.T) {
	salon := testSalon()
	bookings := []models.Booking{
		{StaffID: "ravi", Date: "2026-03-11", Time: "10:00", Duration: 60, Status: models.StatusConfirmed},
		{StaffID: "ravi", Date: "2026-03-11", Time: "14:00", Duration: 60, Status: models.StatusCancelled},
		{StaffID: "asha", Date: "2026-03-11", Time: "16:00", Duration: 60, Status: models.StatusPending},
	}

	slots, err := BuildSlots(salon, "ravi", "2026-03-11", 45, bookings, fixedNow)
	require.NoError(t, err)
	assert.Len(t, slots, 24)
	assert.Equal(t, "09:00", slots[0].Time)

	assert.True(t, IsAvailable(slots, "09:00"))
	assert.False(t, IsAvailable(slots, "09:30"), "45 minutes from 09:30 overlaps 10:00")
	assert.False(t, IsAvailable(slots, "10:00"))
	assert.False(t, IsAvailable(slots, "10:30"))
	assert.True(t, IsAvailable(slots, "11:00"))
	assert.True(t, IsAvailable(slots, "14:00"), "cancelled bookings release the slot")
	assert.True(t, IsAvailable(slots, "16:00"), "other staff members do not block")
	assert.False(t, IsAvailable(slots, "20:30"), "appointment must end by closing")
	assert.False(t, IsAvailable(slots, "07:00"))
}

func TestBuildSlotsClosesPastTimesToday(t *testing.T) {
	slots, err := BuildSlots(testSalon(), "ravi", "2026-03-10", 30, nil, fixedNow)
	require.NoError(t, err)
	assert.False(t, IsAvailable(slots, "11:30"))
	assert.False(t, IsAvailable(slots, "12:00"))
	assert.True(t, IsAvailable(slots, "12:30"))
}

type memSessions struct {
	data map[string]models.BookingSession
}

func (m *memSessions) Get(_ context.Context, id string) (*models.BookingSession, error) {
	s, ok := m.data[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (m *memSessions) Save(_ context.Context, s *models.BookingSession, _ time.Duration) error {
	m.data[s.SessionID] = *s
	return nil
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	delete(m.data, id)
	return nil
}

type fixedSalons struct{ salon *models.Salon }

func (f fixedSalons) GetByID(_ context.Context, id string) (*models.Salon, error) {
	if id != f.salon.ID {
		return nil, errors.New("salon not found")
	}
	s := *f.salon
	return &s, nil
}

type fixedBookings []models.Booking

func (f fixedBookings) ListBySalonDate(_ context.Context, _, date string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f {
		if b.Date == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func newService(bookings ...models.Booking) (*DefaultSessionService, *memSessions) {
	store := &memSessions{data: map[string]models.BookingSession{}}
	svc := NewSessionService(store, fixedSalons{testSalon()}, fixedBookings(bookings), 30*time.Minute, zap.NewNop())
	svc.Now = func() time.Time { return fixedNow }
	return svc, store
}

func TestSessionServiceFlow(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(models.Booking{
		SalonID: "salon-1", StaffID: "ravi", Date: "2026-03-11", Time: "10:00", Duration: 45, Status: models.StatusConfirmed,
	})

	v, err := svc.Start(ctx, "u1", "salon-1")
	require.NoError(t, err)
	id := v.Session.SessionID
	assert.False(t, v.CanAdvance)
	assert.NotEmpty(t, v.Blocker)

	v, err = svc.ToggleService(ctx, "u1", id, "cut")
	require.NoError(t, err)
	assert.True(t, v.CanAdvance)
	assert.Equal(t, 300.0, v.Summary.TotalPrice)

	_, err = svc.Next(ctx, "u1", id)
	require.NoError(t, err)
	_, err = svc.SelectStaff(ctx, "u1", id, "ravi")
	require.NoError(t, err)
	_, err = svc.Next(ctx, "u1", id)
	require.NoError(t, err)
	_, err = svc.SelectDate(ctx, "u1", id, "2026-03-11")
	require.NoError(t, err)

	_, err = svc.SelectTime(ctx, "u1", id, "10:00")
	stageErr(t, err)
	assert.Empty(t, store.data[id].Time, "failed mutation is not saved")

	v, err = svc.SelectTime(ctx, "u1", id, "11:00")
	require.NoError(t, err)
	assert.True(t, v.CanAdvance)

	v, err = svc.Next(ctx, "u1", id)
	require.NoError(t, err)
	assert.Equal(t, "confirmation", v.Stage)

	w, err := svc.Load(ctx, "u1", id)
	require.NoError(t, err)
	assert.NoError(t, w.Ready())
}

func TestNextRechecksChosenSlot(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(models.Booking{
		SalonID: "salon-1", StaffID: "ravi", Date: "2026-03-11", Time: "10:00", Duration: 45, Status: models.StatusConfirmed,
	})
	cut, _ := testSalon().FindService("cut")
	store.data["s1"] = models.BookingSession{
		SessionID: "s1", UserID: "u1", SalonID: "salon-1", Stage: int(StageDateTime),
		Services: []models.ServiceItem{cut}, StaffID: "ravi", Date: "2026-03-11", Time: "10:00",
	}

	_, err := svc.Next(ctx, "u1", "s1")
	se := stageErr(t, err)
	assert.Equal(t, StageDateTime, se.Stage)
	assert.Equal(t, int(StageDateTime), store.data["s1"].Stage)

	w, err := svc.Load(ctx, "u1", "s1")
	require.NoError(t, err)
	stageErr(t, svc.VerifySlot(ctx, w))

	sess := store.data["s1"]
	sess.Time = "11:00"
	store.data["s1"] = sess
	v, err := svc.Next(ctx, "u1", "s1")
	require.NoError(t, err)
	assert.Equal(t, "confirmation", v.Stage)
}

func TestSessionServiceOwnership(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	v, err := svc.Start(ctx, "u1", "salon-1")
	require.NoError(t, err)

	_, err = svc.Get(ctx, "u2", v.Session.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.Get(ctx, "u1", "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, svc.Discard(ctx, v.Session.SessionID))
	_, err = svc.Get(ctx, "u1", v.Session.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
