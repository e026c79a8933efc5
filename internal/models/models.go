package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role of a system user
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDriver Role = "driver"
	RoleUser   Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleDriver || r == RoleUser
}

// Traffic condition along a bus route
type Traffic string

const (
	TrafficLow    Traffic = "low"
	TrafficMedium Traffic = "medium"
	TrafficHigh   Traffic = "high"
)

func (t Traffic) Valid() bool {
	return t == TrafficLow || t == TrafficMedium || t == TrafficHigh
}

// BusStatus lifecycle state
type BusStatus string

const (
	StatusActive    BusStatus = "active"
	StatusInactive  BusStatus = "inactive"
	StatusDelayed   BusStatus = "delayed"
	StatusCancelled BusStatus = "cancelled"
)

func (s BusStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDelayed, StatusCancelled:
		return true
	}
	return false
}

// BusTypes is the closed set of accepted bus types
var BusTypes = []string{"AC", "Non-AC", "Sleeper", "Semi-Sleeper", "Luxury", "Volvo"}

func ValidBusType(t string) bool {
	for _, bt := range BusTypes {
		if t == bt {
			return true
		}
	}
	return false
}

// NormalizeBusNumber upper-cases and trims a bus number; numbers are stored
// and compared in this form so uniqueness is case-insensitive.
func NormalizeBusNumber(n string) string {
	return strings.ToUpper(strings.TrimSpace(n))
}

// User of the system. ID and the timestamps carry explicit json tags so
// responses stay camelCase and the soft-delete marker never leaves the API.
type User struct {
	ID           uint           `json:"id" gorm:"primarykey"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
	Name         string         `json:"name"`
	Email        string         `json:"email" gorm:"uniqueIndex"`
	PasswordHash string         `json:"-"`
	Phone        string         `json:"phone"`
	Role         Role           `json:"role"`
	IsActive     bool           `json:"isActive" gorm:"default:true"`
	LastLogin    *time.Time     `json:"lastLogin,omitempty"`
	Buses        []Bus          `json:"-" gorm:"foreignKey:AddedByID"`
}

// Bus record tracked by the fleet
type Bus struct {
	ID              uint           `json:"id" gorm:"primarykey"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
	BusNumber       string         `json:"busNumber" gorm:"uniqueIndex"`
	BusType         string         `json:"busType"`
	Source          string         `json:"source" gorm:"index:idx_route"`
	Destination     string         `json:"destination" gorm:"index:idx_route"`
	CurrentLocation string         `json:"currentLocation"`
	NextStop        string         `json:"nextStop"`
	Capacity        int            `json:"capacity"`
	DriverName      string         `json:"driverName"`
	DriverPhone     string         `json:"driverPhone"`
	DistanceKm      float64        `json:"distance"`
	Traffic         Traffic        `json:"traffic"`
	PreviousStops   int            `json:"previousStops"`
	EstimatedTime   int            `json:"estimatedTime"` // minutes, always the ETA engine's output
	Status          BusStatus      `json:"status" gorm:"index"`
	AddedByID       uint           `json:"addedBy"`
	AddedBy         *User          `json:"-"`
	Latitude        *float64       `json:"latitude,omitempty"`
	Longitude       *float64       `json:"longitude,omitempty"`
	Fare            *float64       `json:"fare,omitempty"`
	DepartureTime   string         `json:"departureTime,omitempty"`
	ArrivalTime     string         `json:"arrivalTime,omitempty"`
}

// ActivityLog records significant system events
type ActivityLog struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	UserID    uint           `json:"userId"`
	EventType string         `json:"eventType"`
	Message   string         `json:"message"`
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Bus{}, &ActivityLog{})
}
