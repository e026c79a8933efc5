package users

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bustracker/backend/internal/auth"
	"github.com/bustracker/backend/internal/fleet"
	"github.com/bustracker/backend/internal/models"
	"github.com/bustracker/backend/internal/validate"
)

type memStore struct {
	users  map[uint]*models.User
	nextID uint
}

func newMemStore() *memStore {
	return &memStore{users: make(map[uint]*models.User), nextID: 1}
}

func (m *memStore) FindUserByEmail(email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memStore) FindUserByID(id uint) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) CreateUser(u *models.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	u.ID = m.nextID
	m.nextID++
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memStore) SaveUser(u *models.User) error {
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memStore) DeleteUser(id uint) error {
	delete(m.users, id)
	return nil
}

func (m *memStore) ListUsers(f ListFilter) ([]models.User, int64, error) {
	var out []models.User
	for id := uint(1); id < m.nextID; id++ {
		u, ok := m.users[id]
		if !ok {
			continue
		}
		if f.Role != "" && string(u.Role) != f.Role {
			continue
		}
		if f.IsActive != nil && u.IsActive != *f.IsActive {
			continue
		}
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (m *memStore) SetUsersActive(ids []uint, active bool) (int64, error) {
	var n int64
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			u.IsActive = active
			n++
		}
	}
	return n, nil
}

func (m *memStore) DeleteUsers(ids []uint) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := m.users[id]; ok {
			delete(m.users, id)
			n++
		}
	}
	return n, nil
}

func (m *memStore) UserStats() (UserStats, error) {
	stats := UserStats{ByRole: make(map[string]int64)}
	for _, u := range m.users {
		stats.Total++
		if u.IsActive {
			stats.Active++
		}
		stats.ByRole[string(u.Role)]++
	}
	return stats, nil
}

func (m *memStore) RecentUsers(limit int) ([]models.User, error) {
	list, _, _ := m.ListUsers(ListFilter{})
	if len(list) > limit {
		list = list[len(list)-limit:]
	}
	return list, nil
}

func (m *memStore) RecentActivity(limit int) ([]models.ActivityLog, error) {
	return nil, nil
}

type fakeBuses struct{}

func (fakeBuses) BusStats() (fleet.Stats, error) { return fleet.Stats{TotalBuses: 2}, nil }
func (fakeBuses) RecentBuses(int) ([]models.Bus, error) { return nil, nil }

type nopActivity struct{}

func (nopActivity) Record(userID uint, eventType, message string) {}

func newTestService() (*Service, *memStore) {
	st := newMemStore()
	codec := auth.NewTokenCodec("test-secret", time.Hour)
	return NewService(st, fakeBuses{}, codec, bcrypt.MinCost, nopActivity{}), st
}

func seedUser(t *testing.T, st *memStore, email string, role models.Role, active bool) *models.User {
	t.Helper()
	hash, err := auth.HashPassword("secret123", bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     active,
	}
	require.NoError(t, st.CreateUser(u))
	return u
}

func caller(u *models.User) auth.Caller {
	return auth.Caller{ID: u.ID, Role: u.Role, Authenticated: true}
}

func TestRegisterDefaultsToUserRole(t *testing.T) {
	svc, _ := newTestService()

	user, token, err := svc.Register(RegisterPayload{
		Name:     "Priya Sharma",
		Email:    "priya@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, token)
}

func TestRegisterDriverAllowedAdminRejected(t *testing.T) {
	svc, _ := newTestService()

	user, _, err := svc.Register(RegisterPayload{
		Name: "Rajesh", Email: "rajesh@example.com", Password: "secret123", Role: "driver",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleDriver, user.Role)

	// Self-registration can never mint an admin account.
	_, _, err = svc.Register(RegisterPayload{
		Name: "Evil", Email: "evil@example.com", Password: "secret123", Role: "admin",
	})
	var verr *validate.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestRegisterCollectsViolations(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.Register(RegisterPayload{Name: "A", Email: "not-an-email", Password: "123"})
	var verr *validate.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Violations, 3)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, st := newTestService()
	seedUser(t, st, "taken@example.com", models.RoleUser, true)

	_, _, err := svc.Register(RegisterPayload{
		Name: "Dup", Email: "taken@example.com", Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, st := newTestService()
	u := seedUser(t, st, "driver@example.com", models.RoleDriver, true)

	user, token, err := svc.Login(LoginPayload{Email: u.Email, Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, user.ID)
	assert.NotEmpty(t, token)
	assert.NotNil(t, user.LastLogin)

	_, _, err = svc.Login(LoginPayload{Email: u.Email, Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidLogin)

	_, _, err = svc.Login(LoginPayload{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidLogin)
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, st := newTestService()
	u := seedUser(t, st, "blocked@example.com", models.RoleUser, false)

	_, _, err := svc.Login(LoginPayload{Email: u.Email, Password: "secret123"})
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestLoginRoleMismatch(t *testing.T) {
	svc, st := newTestService()
	u := seedUser(t, st, "driver@example.com", models.RoleDriver, true)

	_, _, err := svc.Login(LoginPayload{Email: u.Email, Password: "secret123", Role: "admin"})
	assert.ErrorIs(t, err, ErrRoleMismatch)

	_, _, err = svc.Login(LoginPayload{Email: u.Email, Password: "secret123", Role: "driver"})
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	svc, st := newTestService()
	u := seedUser(t, st, "user@example.com", models.RoleUser, true)

	err := svc.ChangePassword(caller(u), ChangePasswordPayload{CurrentPassword: "wrong", NewPassword: "newsecret"})
	assert.ErrorIs(t, err, ErrWrongPassword)

	err = svc.ChangePassword(caller(u), ChangePasswordPayload{CurrentPassword: "secret123", NewPassword: "newsecret"})
	require.NoError(t, err)

	_, _, err = svc.Login(LoginPayload{Email: u.Email, Password: "newsecret"})
	assert.NoError(t, err)
}

func TestChangePasswordValidation(t *testing.T) {
	svc, st := newTestService()
	u := seedUser(t, st, "user@example.com", models.RoleUser, true)

	tests := []struct {
		name    string
		payload ChangePasswordPayload
		message string
	}{
		{
			"missing current",
			ChangePasswordPayload{NewPassword: "newsecret"},
			"Please provide current and new password",
		},
		{
			"missing new",
			ChangePasswordPayload{CurrentPassword: "secret123"},
			"Please provide current and new password",
		},
		{
			"short new password",
			ChangePasswordPayload{CurrentPassword: "secret123", NewPassword: "abc"},
			"Password must be at least 6 characters long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ChangePassword(caller(u), tt.payload)
			var verr *validate.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Violations, 1)
			assert.Equal(t, tt.message, verr.Violations[0].Message)
		})
	}
}

func TestListUsersAdminOnly(t *testing.T) {
	svc, st := newTestService()
	admin := seedUser(t, st, "admin@example.com", models.RoleAdmin, true)
	driver := seedUser(t, st, "driver@example.com", models.RoleDriver, true)

	_, _, err := svc.List(caller(driver), ListFilter{})
	assert.ErrorIs(t, err, auth.ErrInsufficientRole)

	list, total, err := svc.List(caller(admin), ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 2)

	list, _, err = svc.List(caller(admin), ListFilter{Role: "driver"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, driver.Email, list[0].Email)
}

func TestCreateDriver(t *testing.T) {
	svc, st := newTestService()
	admin := seedUser(t, st, "admin@example.com", models.RoleAdmin, true)
	rider := seedUser(t, st, "rider@example.com", models.RoleUser, true)

	_, err := svc.CreateDriver(caller(rider), CreateDriverPayload{
		Name: "New Driver", Email: "nd@example.com", Password: "secret123",
	})
	assert.ErrorIs(t, err, auth.ErrInsufficientRole)

	driver, err := svc.CreateDriver(caller(admin), CreateDriverPayload{
		Name: "New Driver", Email: "nd@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleDriver, driver.Role)
}

func TestDeleteUserSelfForbidden(t *testing.T) {
	svc, st := newTestService()
	admin := seedUser(t, st, "admin@example.com", models.RoleAdmin, true)
	victim := seedUser(t, st, "victim@example.com", models.RoleUser, true)

	err := svc.Delete(caller(admin), admin.ID)
	assert.ErrorIs(t, err, auth.ErrSelfActionForbidden)

	err = svc.Delete(caller(admin), victim.ID)
	require.NoError(t, err)
	_, err = st.FindUserByID(victim.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestToggleStatus(t *testing.T) {
	svc, st := newTestService()
	admin := seedUser(t, st, "admin@example.com", models.RoleAdmin, true)
	target := seedUser(t, st, "target@example.com", models.RoleUser, true)

	user, err := svc.ToggleStatus(caller(admin), target.ID)
	require.NoError(t, err)
	assert.False(t, user.IsActive)

	user, err = svc.ToggleStatus(caller(admin), target.ID)
	require.NoError(t, err)
	assert.True(t, user.IsActive)
}

func TestBulkActions(t *testing.T) {
	svc, st := newTestService()
	admin := seedUser(t, st, "admin@example.com", models.RoleAdmin, true)
	a := seedUser(t, st, "a@example.com", models.RoleUser, true)
	b := seedUser(t, st, "b@example.com", models.RoleUser, true)

	affected, err := svc.Bulk(caller(admin), BulkAction{
		Action: "deactivate", UserIDs: []uint{a.ID, b.ID},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected)

	// A bulk delete naming the caller is rejected outright.
	_, err = svc.Bulk(caller(admin), BulkAction{
		Action: "delete", UserIDs: []uint{a.ID, admin.ID},
	})
	assert.ErrorIs(t, err, auth.ErrSelfActionForbidden)
	_, err = st.FindUserByID(a.ID)
	assert.NoError(t, err, "nothing deleted when the request is rejected")

	affected, err = svc.Bulk(caller(admin), BulkAction{
		Action: "delete", UserIDs: []uint{a.ID, b.ID},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected)
}

func TestDashboard(t *testing.T) {
	svc, st := newTestService()
	admin := seedUser(t, st, "admin@example.com", models.RoleAdmin, true)
	seedUser(t, st, "driver@example.com", models.RoleDriver, true)

	_, err := svc.Overview(auth.Caller{ID: 9, Role: models.RoleDriver, Authenticated: true})
	assert.ErrorIs(t, err, auth.ErrInsufficientRole)

	dash, err := svc.Overview(caller(admin))
	require.NoError(t, err)
	assert.EqualValues(t, 2, dash.Users.Total)
	assert.EqualValues(t, 2, dash.Buses.TotalBuses)
	assert.EqualValues(t, 1, dash.Users.ByRole["driver"])
}

func TestLogsAdminOnly(t *testing.T) {
	svc, st := newTestService()
	admin := seedUser(t, st, "admin@example.com", models.RoleAdmin, true)
	driver := seedUser(t, st, "driver@example.com", models.RoleDriver, true)

	_, err := svc.Logs(caller(driver))
	assert.ErrorIs(t, err, auth.ErrInsufficientRole)

	_, err = svc.Logs(caller(admin))
	assert.NoError(t, err)
}
