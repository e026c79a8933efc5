package store

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/bustracker/backend/internal/fleet"
	"github.com/bustracker/backend/internal/models"
	"github.com/bustracker/backend/internal/users"
)

// GormStore backs the fleet and user services with a gorm database.
type GormStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// ==== Buses ====

func (s *GormStore) FindBusByNumber(normalizedNumber string) (*models.Bus, error) {
	var bus models.Bus
	if err := s.db.Where("bus_number = ?", normalizedNumber).First(&bus).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fleet.ErrBusNotFound
		}
		return nil, err
	}
	return &bus, nil
}

func (s *GormStore) FindBusByID(id uint) (*models.Bus, error) {
	var bus models.Bus
	if err := s.db.First(&bus, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fleet.ErrBusNotFound
		}
		return nil, err
	}
	return &bus, nil
}

// CreateBus re-checks the bus number inside a transaction so two concurrent
// creations cannot both pass the duplicate check. The unique index on
// bus_number is the final backstop.
func (s *GormStore) CreateBus(bus *models.Bus) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Bus{}).
			Where("bus_number = ?", bus.BusNumber).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fleet.ErrDuplicateBusNumber
		}
		if err := tx.Create(bus).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fleet.ErrDuplicateBusNumber
			}
			return err
		}
		return nil
	})
}

func (s *GormStore) SaveBus(bus *models.Bus) error {
	return s.db.Save(bus).Error
}

func (s *GormStore) DeleteBus(id uint) error {
	return s.db.Delete(&models.Bus{}, id).Error
}

func (s *GormStore) ListBuses(f fleet.ListFilter) ([]models.Bus, int64, error) {
	q := s.db.Model(&models.Bus{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.BusType != "" {
		q = q.Where("bus_type = ?", f.BusType)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var buses []models.Bus
	err := q.Order("created_at desc").
		Offset((f.Page - 1) * f.Limit).Limit(f.Limit).
		Find(&buses).Error
	return buses, total, err
}

func (s *GormStore) ListActiveBuses() ([]models.Bus, error) {
	var buses []models.Bus
	err := s.db.Where("status = ?", models.StatusActive).Find(&buses).Error
	return buses, err
}

func (s *GormStore) RecentBuses(limit int) ([]models.Bus, error) {
	var buses []models.Bus
	err := s.db.Order("created_at desc").Limit(limit).Find(&buses).Error
	return buses, err
}

func (s *GormStore) BusStats() (fleet.Stats, error) {
	var stats fleet.Stats
	if err := s.db.Model(&models.Bus{}).Count(&stats.TotalBuses).Error; err != nil {
		return stats, err
	}
	if err := s.db.Model(&models.Bus{}).
		Where("status = ?", models.StatusActive).Count(&stats.ActiveBuses).Error; err != nil {
		return stats, err
	}
	if err := s.db.Model(&models.Bus{}).
		Where("status = ?", models.StatusInactive).Count(&stats.InactiveBuses).Error; err != nil {
		return stats, err
	}
	s.db.Model(&models.Bus{}).Select("coalesce(avg(estimated_time), 0)").Scan(&stats.AvgEstimatedTime)

	rows := []struct {
		BusType string
		Count   int64
	}{}
	if err := s.db.Model(&models.Bus{}).
		Select("bus_type, count(*) as count").Group("bus_type").Scan(&rows).Error; err != nil {
		return stats, err
	}
	stats.ByType = make(map[string]int64, len(rows))
	for _, r := range rows {
		stats.ByType[r.BusType] = r.Count
	}
	return stats, nil
}

// ==== Users ====

func (s *GormStore) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, users.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, users.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) CreateUser(u *models.User) error {
	if err := s.db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return users.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (s *GormStore) SaveUser(u *models.User) error {
	return s.db.Save(u).Error
}

func (s *GormStore) DeleteUser(id uint) error {
	return s.db.Delete(&models.User{}, id).Error
}

func (s *GormStore) ListUsers(f users.ListFilter) ([]models.User, int64, error) {
	q := s.db.Model(&models.User{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.User
	err := q.Order("created_at desc").
		Offset((f.Page - 1) * f.Limit).Limit(f.Limit).
		Find(&list).Error
	return list, total, err
}

func (s *GormStore) SetUsersActive(ids []uint, active bool) (int64, error) {
	res := s.db.Model(&models.User{}).Where("id IN ?", ids).Update("is_active", active)
	return res.RowsAffected, res.Error
}

func (s *GormStore) DeleteUsers(ids []uint) (int64, error) {
	res := s.db.Delete(&models.User{}, ids)
	return res.RowsAffected, res.Error
}

func (s *GormStore) UserStats() (users.UserStats, error) {
	var stats users.UserStats
	if err := s.db.Model(&models.User{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err := s.db.Model(&models.User{}).
		Where("is_active = ?", true).Count(&stats.Active).Error; err != nil {
		return stats, err
	}
	rows := []struct {
		Role  string
		Count int64
	}{}
	if err := s.db.Model(&models.User{}).
		Select("role, count(*) as count").Group("role").Scan(&rows).Error; err != nil {
		return stats, err
	}
	stats.ByRole = make(map[string]int64, len(rows))
	for _, r := range rows {
		stats.ByRole[r.Role] = r.Count
	}
	return stats, nil
}

func (s *GormStore) RecentUsers(limit int) ([]models.User, error) {
	var list []models.User
	err := s.db.Order("created_at desc").Limit(limit).Find(&list).Error
	return list, err
}

// ==== Activity log ====

func (s *GormStore) Record(userID uint, eventType, message string) {
	entry := models.ActivityLog{UserID: userID, EventType: eventType, Message: message}
	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("[LOG] failed to record %s: %v", eventType, err)
	}
}

func (s *GormStore) RecentActivity(limit int) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	err := s.db.Order("created_at desc").Limit(limit).Find(&logs).Error
	return logs, err
}
