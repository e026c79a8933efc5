package users

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bustracker/backend/internal/auth"
	"github.com/bustracker/backend/internal/fleet"
	"github.com/bustracker/backend/internal/models"
	"github.com/bustracker/backend/internal/validate"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidLogin    = errors.New("invalid email or password")
	ErrAccountInactive = errors.New("account has been deactivated")
	ErrRoleMismatch    = errors.New("invalid credentials for the selected role")
	ErrWrongPassword   = errors.New("current password is incorrect")
	ErrBadBulkAction   = errors.New("invalid bulk action")
)

// RegisterPayload is a public self-registration request. Self-registration
// may only create user or driver accounts; admins are provisioned separately.
type RegisterPayload struct {
	Name     string `json:"name" validate:"trimmin=2" errmsg:"Name must be at least 2 characters long"`
	Email    string `json:"email" validate:"required,email" errmsg:"Please provide a valid email address"`
	Password string `json:"password" validate:"required,min=6" errmsg:"Password must be at least 6 characters long"`
	Role     string `json:"role" validate:"omitempty,oneof=user driver" errmsg:"Invalid role specified"`
	Phone    string `json:"phone"`
}

// LoginPayload authenticates by email and password; Role, when set, must
// additionally match the stored account role.
type LoginPayload struct {
	Email    string `json:"email" validate:"trimmin=1" errmsg:"Email is required"`
	Password string `json:"password" validate:"trimmin=1" errmsg:"Password is required"`
	Role     string `json:"role"`
}

// ProfileUpdate changes the caller's own name and phone.
type ProfileUpdate struct {
	Name  *string `json:"name" validate:"omitempty,trimmin=2" errmsg:"Name must be at least 2 characters long"`
	Phone *string `json:"phone"`
}

// ChangePasswordPayload rotates the caller's own password.
type ChangePasswordPayload struct {
	CurrentPassword string `json:"currentPassword" validate:"trimmin=1" errmsg:"Please provide current and new password"`
	NewPassword     string `json:"newPassword" validate:"required,min=6" errmsg:"required=Please provide current and new password|min=Password must be at least 6 characters long"`
}

// AdminUserUpdate is an admin edit of another account.
type AdminUserUpdate struct {
	Name     *string `json:"name" validate:"omitempty,trimmin=2" errmsg:"Name must be at least 2 characters long"`
	Email    *string `json:"email" validate:"omitempty,email" errmsg:"Please provide a valid email address"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin driver user" errmsg:"Invalid role specified"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"isActive"`
}

// CreateDriverPayload provisions a driver account.
type CreateDriverPayload struct {
	Name     string `json:"name" validate:"trimmin=2" errmsg:"Name must be at least 2 characters long"`
	Email    string `json:"email" validate:"required,email" errmsg:"Please provide a valid email address"`
	Password string `json:"password" validate:"required,min=6" errmsg:"Password must be at least 6 characters long"`
	Phone    string `json:"phone"`
}

// BulkAction applies activate, deactivate or delete to a set of users.
type BulkAction struct {
	Action  string `json:"action" validate:"required,oneof=activate deactivate delete" errmsg:"Invalid action"`
	UserIDs []uint `json:"userIds" validate:"required,min=1" errmsg:"Action and userIds array are required"`
}

// ListFilter narrows and pages a user listing.
type ListFilter struct {
	Role     string
	IsActive *bool
	Page     int
	Limit    int
}

// UserStats summarizes the user base for the dashboard.
type UserStats struct {
	Total  int64            `json:"total"`
	Active int64            `json:"active"`
	ByRole map[string]int64 `json:"byRole"`
}

// Dashboard is the combined admin overview.
type Dashboard struct {
	Users       UserStats     `json:"users"`
	Buses       fleet.Stats   `json:"buses"`
	RecentBuses []models.Bus  `json:"recentBuses"`
	RecentUsers []models.User `json:"recentUsers"`
}

// Store is the persistence collaborator for user records.
type Store interface {
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(id uint) (*models.User, error)
	CreateUser(u *models.User) error
	SaveUser(u *models.User) error
	DeleteUser(id uint) error
	ListUsers(f ListFilter) ([]models.User, int64, error)
	SetUsersActive(ids []uint, active bool) (int64, error)
	DeleteUsers(ids []uint) (int64, error)
	UserStats() (UserStats, error)
	RecentUsers(limit int) ([]models.User, error)
	RecentActivity(limit int) ([]models.ActivityLog, error)
}

// BusOverview is the slice of the fleet store the dashboard needs.
type BusOverview interface {
	BusStats() (fleet.Stats, error)
	RecentBuses(limit int) ([]models.Bus, error)
}

// Service implements registration, login and admin user management.
type Service struct {
	store      Store
	buses      BusOverview
	codec      *auth.TokenCodec
	bcryptCost int
	activity   fleet.ActivityRecorder
}

func NewService(store Store, buses BusOverview, codec *auth.TokenCodec, bcryptCost int, activity fleet.ActivityRecorder) *Service {
	return &Service{store: store, buses: buses, codec: codec, bcryptCost: bcryptCost, activity: activity}
}

// Register creates an account and returns it with a fresh token.
func (s *Service) Register(p RegisterPayload) (*models.User, string, error) {
	if err := validate.StructError(&p); err != nil {
		return nil, "", err
	}
	if existing, err := s.store.FindUserByEmail(p.Email); err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, "", err
	} else if existing != nil {
		log.Printf("[REGISTER] email already exists: %s", p.Email)
		return nil, "", ErrEmailTaken
	}

	role := models.Role(p.Role)
	if role == "" {
		role = models.RoleUser
	}
	hash, err := auth.HashPassword(p.Password, s.bcryptCost)
	if err != nil {
		return nil, "", err
	}
	user := &models.User{
		Name:         p.Name,
		Email:        p.Email,
		PasswordHash: hash,
		Phone:        p.Phone,
		Role:         role,
		IsActive:     true,
	}
	if err := s.store.CreateUser(user); err != nil {
		return nil, "", err
	}

	token, err := s.codec.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	log.Printf("[REGISTER] new user %s with role %s", user.Email, user.Role)
	s.activity.Record(user.ID, "USER_REGISTERED", fmt.Sprintf("%s as %s", user.Email, user.Role))
	return user, token, nil
}

// Login verifies the password, rejects inactive accounts, records the login
// time and returns the user with a fresh token.
func (s *Service) Login(p LoginPayload) (*models.User, string, error) {
	if err := validate.StructError(&p); err != nil {
		return nil, "", err
	}
	user, err := s.store.FindUserByEmail(p.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidLogin
		}
		return nil, "", err
	}
	if !user.IsActive {
		log.Printf("[LOGIN] inactive account: %s", user.Email)
		return nil, "", ErrAccountInactive
	}
	if p.Role != "" && user.Role != models.Role(p.Role) {
		return nil, "", ErrRoleMismatch
	}
	if !auth.CheckPassword(user.PasswordHash, p.Password) {
		log.Printf("[LOGIN] invalid password for %s", user.Email)
		return nil, "", ErrInvalidLogin
	}

	now := time.Now().UTC()
	user.LastLogin = &now
	if err := s.store.SaveUser(user); err != nil {
		return nil, "", err
	}
	token, err := s.codec.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	log.Printf("[LOGIN] %s logged in as %s", user.Email, user.Role)
	s.activity.Record(user.ID, "USER_LOGIN", user.Email)
	return user, token, nil
}

// Logout only records the event; tokens expire on their own.
func (s *Service) Logout(caller auth.Caller) {
	log.Printf("[LOGOUT] user %d logged out", caller.ID)
	s.activity.Record(caller.ID, "USER_LOGOUT", "")
}

// Profile returns the caller's own account.
func (s *Service) Profile(caller auth.Caller) (*models.User, error) {
	if !caller.Authenticated {
		return nil, auth.ErrNotAuthenticated
	}
	return s.store.FindUserByID(caller.ID)
}

// UpdateProfile edits the caller's own name and phone.
func (s *Service) UpdateProfile(caller auth.Caller, p ProfileUpdate) (*models.User, error) {
	if !caller.Authenticated {
		return nil, auth.ErrNotAuthenticated
	}
	if err := validate.StructError(&p); err != nil {
		return nil, err
	}
	user, err := s.store.FindUserByID(caller.ID)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		user.Name = *p.Name
	}
	if p.Phone != nil {
		user.Phone = *p.Phone
	}
	if err := s.store.SaveUser(user); err != nil {
		return nil, err
	}
	s.activity.Record(user.ID, "PROFILE_UPDATED", user.Email)
	return user, nil
}

// ChangePassword verifies the current password before setting a new one.
func (s *Service) ChangePassword(caller auth.Caller, p ChangePasswordPayload) error {
	if !caller.Authenticated {
		return auth.ErrNotAuthenticated
	}
	if err := validate.StructError(&p); err != nil {
		return err
	}
	user, err := s.store.FindUserByID(caller.ID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, p.CurrentPassword) {
		return ErrWrongPassword
	}
	hash, err := auth.HashPassword(p.NewPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.store.SaveUser(user); err != nil {
		return err
	}
	s.activity.Record(user.ID, "PASSWORD_CHANGED", user.Email)
	return nil
}

// List pages through users. Admin only.
func (s *Service) List(caller auth.Caller, f ListFilter) ([]models.User, int64, error) {
	if err := auth.Authorize(caller, auth.OpUserList, 0); err != nil {
		return nil, 0, err
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	return s.store.ListUsers(f)
}

// CreateDriver provisions a driver account. Admin only.
func (s *Service) CreateDriver(caller auth.Caller, p CreateDriverPayload) (*models.User, error) {
	if err := auth.Authorize(caller, auth.OpUserCreate, 0); err != nil {
		return nil, err
	}
	if err := validate.StructError(&p); err != nil {
		return nil, err
	}
	if existing, err := s.store.FindUserByEmail(p.Email); err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}
	hash, err := auth.HashPassword(p.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	driver := &models.User{
		Name:         p.Name,
		Email:        p.Email,
		PasswordHash: hash,
		Phone:        p.Phone,
		Role:         models.RoleDriver,
		IsActive:     true,
	}
	if err := s.store.CreateUser(driver); err != nil {
		return nil, err
	}
	log.Printf("[ADMIN] driver account %s created by user %d", driver.Email, caller.ID)
	s.activity.Record(caller.ID, "DRIVER_CREATED", driver.Email)
	return driver, nil
}

// Update edits a user account. Admin only.
func (s *Service) Update(caller auth.Caller, id uint, p AdminUserUpdate) (*models.User, error) {
	if err := auth.Authorize(caller, auth.OpUserUpdate, id); err != nil {
		return nil, err
	}
	if err := validate.StructError(&p); err != nil {
		return nil, err
	}
	user, err := s.store.FindUserByID(id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		user.Name = *p.Name
	}
	if p.Email != nil {
		user.Email = *p.Email
	}
	if p.Role != nil {
		user.Role = models.Role(*p.Role)
	}
	if p.Phone != nil {
		user.Phone = *p.Phone
	}
	if p.IsActive != nil {
		user.IsActive = *p.IsActive
	}
	if err := s.store.SaveUser(user); err != nil {
		return nil, err
	}
	s.activity.Record(caller.ID, "USER_UPDATED", user.Email)
	return user, nil
}

// Delete removes a user account. Admin only; an admin may never delete
// their own account through this path.
func (s *Service) Delete(caller auth.Caller, id uint) error {
	if err := auth.Authorize(caller, auth.OpUserDelete, id); err != nil {
		return err
	}
	user, err := s.store.FindUserByID(id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteUser(user.ID); err != nil {
		return err
	}
	log.Printf("[ADMIN] user %s deleted by user %d", user.Email, caller.ID)
	s.activity.Record(caller.ID, "USER_DELETED", user.Email)
	return nil
}

// ToggleStatus flips a user between active and inactive. Admin only.
func (s *Service) ToggleStatus(caller auth.Caller, id uint) (*models.User, error) {
	if err := auth.Authorize(caller, auth.OpUserToggleStatus, id); err != nil {
		return nil, err
	}
	user, err := s.store.FindUserByID(id)
	if err != nil {
		return nil, err
	}
	user.IsActive = !user.IsActive
	if err := s.store.SaveUser(user); err != nil {
		return nil, err
	}
	log.Printf("[ADMIN] user %s now active=%v", user.Email, user.IsActive)
	s.activity.Record(caller.ID, "USER_STATUS_CHANGED",
		fmt.Sprintf("%s active=%v", user.Email, user.IsActive))
	return user, nil
}

// Bulk applies an action to several users at once. Admin only. A bulk
// delete naming the caller's own id is rejected outright.
func (s *Service) Bulk(caller auth.Caller, a BulkAction) (int64, error) {
	if err := auth.Authorize(caller, auth.OpUserBulkAction, 0); err != nil {
		return 0, err
	}
	if err := validate.StructError(&a); err != nil {
		return 0, err
	}

	var affected int64
	var err error
	switch a.Action {
	case "activate":
		affected, err = s.store.SetUsersActive(a.UserIDs, true)
	case "deactivate":
		affected, err = s.store.SetUsersActive(a.UserIDs, false)
	case "delete":
		for _, id := range a.UserIDs {
			if err := auth.Authorize(caller, auth.OpUserBulkAction, id); err != nil {
				return 0, err
			}
		}
		affected, err = s.store.DeleteUsers(a.UserIDs)
	default:
		return 0, ErrBadBulkAction
	}
	if err != nil {
		return 0, err
	}
	log.Printf("[ADMIN] bulk %s on %d users by user %d", a.Action, len(a.UserIDs), caller.ID)
	s.activity.Record(caller.ID, "BULK_ACTION", a.Action)
	return affected, nil
}

// Overview builds the admin dashboard. Admin only.
func (s *Service) Overview(caller auth.Caller) (*Dashboard, error) {
	if err := auth.Authorize(caller, auth.OpDashboard, 0); err != nil {
		return nil, err
	}
	userStats, err := s.store.UserStats()
	if err != nil {
		return nil, err
	}
	busStats, err := s.buses.BusStats()
	if err != nil {
		return nil, err
	}
	recentBuses, err := s.buses.RecentBuses(5)
	if err != nil {
		return nil, err
	}
	recentUsers, err := s.store.RecentUsers(5)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Users:       userStats,
		Buses:       busStats,
		RecentBuses: recentBuses,
		RecentUsers: recentUsers,
	}, nil
}

// Logs returns the most recent activity entries. Admin only.
func (s *Service) Logs(caller auth.Caller) ([]models.ActivityLog, error) {
	if err := auth.Authorize(caller, auth.OpActivityLogs, 0); err != nil {
		return nil, err
	}
	return s.store.RecentActivity(100)
}
