package admin

import (
	"context"
	"testing"
	"time"

	"salonbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memStore struct {
	settings *models.PlatformSettings
	plans    map[string]models.SubscriptionPlan
	reads    int
}

func (m *memStore) Get(context.Context) (*models.PlatformSettings, error) {
	m.reads++
	if m.settings == nil {
		d := models.DefaultPlatformSettings()
		return &d, nil
	}
	s := *m.settings
	return &s, nil
}

func (m *memStore) Save(_ context.Context, s *models.PlatformSettings) error {
	cp := *s
	m.settings = &cp
	return nil
}

func (m *memStore) ListPlans(context.Context) ([]models.SubscriptionPlan, error) {
	out := []models.SubscriptionPlan{}
	for _, p := range m.plans {
		out = append(out, p)
	}
	return out, nil
}

func (m *memStore) GetPlan(_ context.Context, id string) (*models.SubscriptionPlan, error) {
	p, ok := m.plans[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) CreatePlan(_ context.Context, p *models.SubscriptionPlan) error {
	m.plans[p.ID] = *p
	return nil
}

func (m *memStore) UpdatePlan(_ context.Context, p *models.SubscriptionPlan) error {
	m.plans[p.ID] = *p
	return nil
}

func (m *memStore) DeletePlan(_ context.Context, id string) error {
	if _, ok := m.plans[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.plans, id)
	return nil
}

type ownerDir struct{ status map[string]string }

func (o *ownerDir) List(context.Context, int64) ([]models.SalonOwner, error) { return nil, nil }

func (o *ownerDir) SetApprovalStatus(_ context.Context, id, status string) error {
	o.status[id] = status
	return nil
}

type userDir struct{ limit int64 }

func (u *userDir) List(_ context.Context, _ models.Role, limit int64) ([]models.User, error) {
	u.limit = limit
	return nil, nil
}

func (u *userDir) SetActive(context.Context, string, bool) error { return nil }

func newAdmin() (*DefaultAdminService, *memStore, *userDir, *ownerDir) {
	store := &memStore{plans: map[string]models.SubscriptionPlan{}}
	users := &userDir{}
	owners := &ownerDir{status: map[string]string{}}
	svc := NewAdminService(store, NewSettingsCache(store, time.Minute), users, owners, zap.NewNop())
	return svc, store, users, owners
}

func TestValidateSettings(t *testing.T) {
	base := models.DefaultPlatformSettings()
	assert.NoError(t, ValidateSettings(&base))

	bad := []func(s *models.PlatformSettings){
		func(s *models.PlatformSettings) { s.Commission.Rate = 1.2 },
		func(s *models.PlatformSettings) { s.Commission.Rate = -0.1 },
		func(s *models.PlatformSettings) { s.Commission.MinimumPayout = -5 },
		func(s *models.PlatformSettings) { s.Commission.PayoutCycle = "daily" },
		func(s *models.PlatformSettings) { s.Platform.MaxBookingsPerUser = -1 },
	}
	for _, mutate := range bad {
		s := models.DefaultPlatformSettings()
		mutate(&s)
		var se *SettingsError
		assert.ErrorAs(t, ValidateSettings(&s), &se)
	}
}

func TestSettingsCachedAndRefreshedOnSave(t *testing.T) {
	svc, store, _, _ := newAdmin()
	ctx := context.Background()

	s, err := svc.Settings(ctx)
	require.NoError(t, err)
	assert.False(t, s.Platform.MaintenanceMode)
	_, err = svc.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.reads)

	s.Platform.MaintenanceMode = true
	_, err = svc.UpdateSettings(ctx, s)
	require.NoError(t, err)

	got, err := svc.Settings(ctx)
	require.NoError(t, err)
	assert.True(t, got.Platform.MaintenanceMode)
	assert.Equal(t, 1, store.reads)

	got.Platform.MaintenanceMode = false
	again, _ := svc.Settings(ctx)
	assert.True(t, again.Platform.MaintenanceMode)
}

func TestSettingsCacheExpires(t *testing.T) {
	store := &memStore{plans: map[string]models.SubscriptionPlan{}}
	cache := NewSettingsCache(store, time.Minute)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	_, err := cache.Get(context.Background())
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	_, err = cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, store.reads)
}

func TestPlanLifecycle(t *testing.T) {
	svc, store, _, _ := newAdmin()
	ctx := context.Background()

	_, err := svc.CreatePlan(ctx, &models.SubscriptionPlan{Name: "Pro", Price: 999, Duration: "weekly"})
	assert.Error(t, err)

	p, err := svc.CreatePlan(ctx, &models.SubscriptionPlan{Name: " Pro ", Price: 999, Duration: "monthly"})
	require.NoError(t, err)
	assert.Equal(t, "Pro", p.Name)
	assert.NotNil(t, p.Features)

	updated, err := svc.UpdatePlan(ctx, p.ID, &models.SubscriptionPlan{Name: "Pro", Price: 9999, Duration: "yearly"})
	require.NoError(t, err)
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)
	assert.Equal(t, 9999.0, store.plans[p.ID].Price)

	_, err = svc.UpdatePlan(ctx, "missing", &models.SubscriptionPlan{Name: "X", Duration: "monthly"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, svc.DeletePlan(ctx, p.ID))
	assert.Empty(t, store.plans)
}

func TestDirectories(t *testing.T) {
	svc, _, users, owners := newAdmin()
	ctx := context.Background()

	_, err := svc.ListUsers(ctx, "", 10000)
	require.NoError(t, err)
	assert.Equal(t, int64(100), users.limit)

	require.NoError(t, svc.SetOwnerApproval(ctx, "o1", "approved"))
	assert.Equal(t, "approved", owners.status["o1"])
	assert.ErrorIs(t, svc.SetOwnerApproval(ctx, "o1", "maybe"), ErrInvalidApproval)
}
