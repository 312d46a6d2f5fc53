package salon

import (
	"context"
	"errors"
	"testing"
	"time"

	salonRepo "salonbook/database/repository/salon"
	"salonbook/models"
	"salonbook/services/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memSalons map[string]*models.Salon

func (m memSalons) GetByID(_ context.Context, id string) (*models.Salon, error) {
	if s, ok := m[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, models.ErrNotFound
}

func (m memSalons) List(_ context.Context, f salonRepo.SalonFilter) ([]models.Salon, error) {
	out := []models.Salon{}
	for _, s := range m {
		if f.OwnerID != "" && s.OwnerID != f.OwnerID {
			continue
		}
		if f.ActiveOnly && !s.IsActive {
			continue
		}
		if f.City != "" && s.City != f.City {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (m memSalons) Create(_ context.Context, s *models.Salon) error {
	cp := *s
	m[s.ID] = &cp
	return nil
}

func (m memSalons) Update(_ context.Context, s *models.Salon) error {
	cp := *s
	m[s.ID] = &cp
	return nil
}

func (m memSalons) SetActive(_ context.Context, id string, active bool) error {
	m[id].IsActive = active
	return nil
}

func (m memSalons) AddImage(_ context.Context, id string, img models.SalonImage) error {
	m[id].Images = append(m[id].Images, img)
	return nil
}

func (m memSalons) RemoveImage(_ context.Context, id, publicID string) error {
	kept := m[id].Images[:0]
	for _, img := range m[id].Images {
		if img.PublicID != publicID {
			kept = append(kept, img)
		}
	}
	m[id].Images = kept
	return nil
}

type memOwners map[string]*models.SalonOwner

func (m memOwners) GetByID(_ context.Context, id string) (*models.SalonOwner, error) {
	if o, ok := m[id]; ok {
		return o, nil
	}
	return nil, models.ErrNotFound
}

func (m memOwners) AddSalon(_ context.Context, ownerID, salonID string) error {
	m[ownerID].SalonIDs = append(m[ownerID].SalonIDs, salonID)
	return nil
}

type completed []models.Booking

func (c completed) ListForEarnings(context.Context, []string, time.Time, time.Time) ([]models.Booking, error) {
	return c, nil
}

type settingsStub struct{}

func (settingsStub) Get(context.Context) (*models.PlatformSettings, error) {
	s := models.DefaultPlatformSettings()
	return &s, nil
}

type fakeImages struct {
	deleted []string
	fail    bool
}

func (f *fakeImages) Upload(_ context.Context, _ interface{}, folder string) (models.SalonImage, error) {
	if f.fail {
		return models.SalonImage{}, errors.New("upload failed")
	}
	return models.SalonImage{PublicID: folder + "/img1", URL: "https://img/1.jpg"}, nil
}

func (f *fakeImages) Delete(_ context.Context, publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}

func price(v float64) *float64 { return &v }

func validRequest() SalonRequest {
	return SalonRequest{
		Name:    "Glow Studio",
		Address: "12 MG Road",
		City:    "Pune",
		Services: []models.ServiceItem{
			{ID: "color", Name: "Hair Color", Price: 599, DiscountedPrice: price(499), Duration: 45, Category: "hair"},
			{ID: "facial", Name: "Facial", Price: 800, Duration: 60, Category: "skin"},
		},
		Staff: []models.Staff{
			{ID: "ravi", Name: "Ravi", Specializations: []string{"hair"}},
			{ID: "meera", Name: "Meera", Specializations: []string{"hair", "skin"}},
		},
	}
}

func newSalonFixture() (*DefaultSalonService, memSalons, memOwners, *fakeImages) {
	salons := memSalons{}
	owners := memOwners{"o1": {ID: "o1", Role: models.RoleSalonOwner, ApprovalStatus: "approved"}}
	images := &fakeImages{}
	svc := NewSalonService(salons, owners, completed{}, settingsStub{}, images, zap.NewNop())
	return svc, salons, owners, images
}

func ownerSession() *auth.Session {
	return &auth.Session{UserID: "o1", Role: models.RoleSalonOwner}
}

func TestCreateAppliesDefaultsAndLinksOwner(t *testing.T) {
	svc, salons, owners, _ := newSalonFixture()
	sess := ownerSession()

	s, err := svc.Create(context.Background(), sess, validRequest())
	require.NoError(t, err)
	assert.Equal(t, "09:00", s.OpeningTime)
	assert.Equal(t, "21:00", s.ClosingTime)
	assert.Equal(t, 30, s.SlotMinutes)
	assert.True(t, s.IsActive)
	assert.Contains(t, owners["o1"].SalonIDs, s.ID)
	assert.True(t, sess.ManagesSalon(s.ID))
	assert.Contains(t, salons, s.ID)

	_, err = svc.Create(context.Background(), &auth.Session{UserID: "u1", Role: models.RoleUser}, validRequest())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestValidateRejectsBadCatalogue(t *testing.T) {
	svc, _, _, _ := newSalonFixture()
	req := validRequest()
	req.Services[0].Price = -1
	req.Services = append(req.Services, models.ServiceItem{ID: "facial", Name: "Dup", Price: 10, Duration: 10, Category: "skin"})
	req.Staff = append(req.Staff, models.Staff{ID: "ravi", Name: "Ravi again"})
	req.OpeningTime, req.ClosingTime = "20:00", "10:00"

	_, err := svc.Create(context.Background(), ownerSession(), req)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Problems, 5)
}

func TestUpdateRequiresManager(t *testing.T) {
	svc, _, _, _ := newSalonFixture()
	sess := ownerSession()
	s, err := svc.Create(context.Background(), sess, validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.Name = "Glow Studio & Spa"
	updated, err := svc.Update(context.Background(), sess, s.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Glow Studio & Spa", updated.Name)

	_, err = svc.Update(context.Background(), &auth.Session{UserID: "o2", Role: models.RoleSalonOwner}, s.ID, req)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Update(context.Background(), &auth.Session{UserID: "a1", Role: models.RoleAdmin}, s.ID, req)
	assert.NoError(t, err)
}

func TestInactiveSalonHiddenFromPublic(t *testing.T) {
	svc, _, _, _ := newSalonFixture()
	sess := ownerSession()
	s, err := svc.Create(context.Background(), sess, validRequest())
	require.NoError(t, err)
	require.NoError(t, svc.SetActive(context.Background(), sess, s.ID, false))

	_, err = svc.Get(context.Background(), nil, s.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	list, err := svc.ListPublic(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := svc.Get(context.Background(), sess, s.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestStaffFilteredByServices(t *testing.T) {
	svc, _, _, _ := newSalonFixture()
	s, err := svc.Create(context.Background(), ownerSession(), validRequest())
	require.NoError(t, err)

	all, err := svc.Staff(context.Background(), s.ID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	both, err := svc.Staff(context.Background(), s.ID, []string{"color", "facial"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "meera", both[0].ID)
}

func TestGalleryImages(t *testing.T) {
	svc, salons, _, images := newSalonFixture()
	sess := ownerSession()
	s, err := svc.Create(context.Background(), sess, validRequest())
	require.NoError(t, err)

	img, err := svc.UploadImage(context.Background(), sess, s.ID, "photo.jpg")
	require.NoError(t, err)
	assert.Len(t, salons[s.ID].Images, 1)

	assert.ErrorIs(t, svc.DeleteImage(context.Background(), sess, s.ID, "nope"), ErrImageNotFound)
	require.NoError(t, svc.DeleteImage(context.Background(), sess, s.ID, img.PublicID))
	assert.Empty(t, salons[s.ID].Images)
	assert.Equal(t, []string{img.PublicID}, images.deleted)

	svc.Images = nil
	_, err = svc.UploadImage(context.Background(), sess, s.ID, "photo.jpg")
	assert.ErrorIs(t, err, ErrImagesDisabled)
}

func TestEarnings(t *testing.T) {
	svc, _, owners, _ := newSalonFixture()
	owners["o1"].SalonIDs = []string{"s1"}
	svc.Bookings = completed{
		{ID: "b1", Date: "2025-03-02", FinalAmount: 400},
		{ID: "b2", Date: "2025-03-20", FinalAmount: 200},
		{ID: "b3", Date: "2025-04-01", FinalAmount: 100},
	}

	r, err := svc.Earnings(context.Background(), ownerSession(), time.Time{}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 3, r.Bookings)
	assert.Equal(t, 700.0, r.Gross)
	assert.Equal(t, 0.15, r.CommissionRate)
	assert.Equal(t, 105.0, r.Commission)
	assert.Equal(t, 595.0, r.Net)
	assert.True(t, r.PayoutDue)
	require.Len(t, r.Months, 2)
	assert.Equal(t, "2025-03", r.Months[0].Month)
	assert.Equal(t, 600.0, r.Months[0].Gross)
	assert.Equal(t, 510.0, r.Months[0].Net)

	owners["o1"].Earnings.CommissionRate = 0.1
	r, err = svc.Earnings(context.Background(), ownerSession(), time.Time{}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 70.0, r.Commission)
}

func TestEarningsBelowMinimumPayout(t *testing.T) {
	report := Summarize(&EarningsReport{CommissionRate: 0.15, MinimumPayout: 100, Months: []MonthlyEarnings{}},
		[]models.Booking{{Date: "2025-03-02", FinalAmount: 50}})
	assert.Equal(t, 42.5, report.Net)
	assert.False(t, report.PayoutDue)
}
