package fleet

import (
	"errors"
	"fmt"
	"log"

	"github.com/bustracker/backend/internal/auth"
	"github.com/bustracker/backend/internal/models"
)

var (
	ErrBusNotFound        = errors.New("bus not found")
	ErrDuplicateBusNumber = errors.New("bus number already exists")
)

// ListFilter narrows and pages a bus listing.
type ListFilter struct {
	Status  string
	BusType string
	Page    int
	Limit   int
}

// Stats is the fleet overview reported to admins.
type Stats struct {
	TotalBuses       int64            `json:"totalBuses"`
	ActiveBuses      int64            `json:"activeBuses"`
	InactiveBuses    int64            `json:"inactiveBuses"`
	AvgEstimatedTime float64          `json:"avgArrivalTime"`
	ByType           map[string]int64 `json:"busTypeDistribution"`
}

// Store is the persistence collaborator for bus records. CreateBus must
// perform the duplicate-number check and the insert as one atomic unit.
type Store interface {
	FindBusByNumber(normalizedNumber string) (*models.Bus, error)
	FindBusByID(id uint) (*models.Bus, error)
	CreateBus(bus *models.Bus) error
	SaveBus(bus *models.Bus) error
	DeleteBus(id uint) error
	ListBuses(f ListFilter) ([]models.Bus, int64, error)
	ListActiveBuses() ([]models.Bus, error)
	BusStats() (Stats, error)
}

// ActivityRecorder persists significant events for the admin log.
type ActivityRecorder interface {
	Record(userID uint, eventType, message string)
}

// Service applies the access policy, validation and ETA rules around the
// bus store.
type Service struct {
	store    Store
	activity ActivityRecorder
}

func NewService(store Store, activity ActivityRecorder) *Service {
	return &Service{store: store, activity: activity}
}

// Create validates the payload, rejects duplicate bus numbers, computes the
// estimated arrival time and persists the record owned by the caller.
func (s *Service) Create(caller auth.Caller, p BusPayload) (*models.Bus, error) {
	if err := auth.Authorize(caller, auth.OpBusCreate, 0); err != nil {
		return nil, err
	}
	if err := ValidateBus(p); err != nil {
		return nil, err
	}

	number := models.NormalizeBusNumber(p.BusNumber)
	existing, err := s.store.FindBusByNumber(number)
	if err != nil && !errors.Is(err, ErrBusNotFound) {
		return nil, err
	}
	if existing != nil {
		log.Printf("[BUS] duplicate bus number rejected: %s", number)
		return nil, ErrDuplicateBusNumber
	}

	traffic := models.Traffic(p.Traffic)
	if traffic == "" {
		traffic = models.TrafficLow
	}
	previousStops := 0
	if p.PreviousStops != nil {
		previousStops = *p.PreviousStops
	}

	bus := &models.Bus{
		BusNumber:       number,
		BusType:         p.BusType,
		Source:          p.Source,
		Destination:     p.Destination,
		CurrentLocation: p.CurrentLocation,
		NextStop:        p.NextStop,
		Capacity:        *p.Capacity,
		DriverName:      p.DriverName,
		DriverPhone:     p.DriverPhone,
		DistanceKm:      *p.DistanceKm,
		Traffic:         traffic,
		PreviousStops:   previousStops,
		EstimatedTime:   EstimateArrival(*p.DistanceKm, traffic, previousStops),
		Status:          models.StatusActive,
		AddedByID:       caller.ID,
		Latitude:        p.Latitude,
		Longitude:       p.Longitude,
		Fare:            p.Fare,
		DepartureTime:   p.DepartureTime,
		ArrivalTime:     p.ArrivalTime,
	}
	if err := s.store.CreateBus(bus); err != nil {
		return nil, err
	}

	log.Printf("[BUS] bus %s added by user %d", bus.BusNumber, caller.ID)
	s.activity.Record(caller.ID, "BUS_ADDED",
		fmt.Sprintf("bus %s, route %s to %s", bus.BusNumber, bus.Source, bus.Destination))
	return bus, nil
}

// Update applies a partial update. Only the owner or an admin may update;
// the estimated time is recomputed when distance, traffic or previousStops
// is supplied and left untouched otherwise.
func (s *Service) Update(caller auth.Caller, id uint, u BusUpdate) (*models.Bus, error) {
	bus, err := s.store.FindBusByID(id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(caller, auth.OpBusUpdate, bus.AddedByID); err != nil {
		return nil, err
	}
	if err := ValidateBusUpdate(u); err != nil {
		return nil, err
	}

	if u.BusType != nil {
		bus.BusType = *u.BusType
	}
	if u.Source != nil {
		bus.Source = *u.Source
	}
	if u.Destination != nil {
		bus.Destination = *u.Destination
	}
	if u.CurrentLocation != nil {
		bus.CurrentLocation = *u.CurrentLocation
	}
	if u.NextStop != nil {
		bus.NextStop = *u.NextStop
	}
	if u.Capacity != nil {
		bus.Capacity = *u.Capacity
	}
	if u.DriverName != nil {
		bus.DriverName = *u.DriverName
	}
	if u.DriverPhone != nil {
		bus.DriverPhone = *u.DriverPhone
	}
	if u.Status != nil {
		bus.Status = models.BusStatus(*u.Status)
	}
	if u.Fare != nil {
		bus.Fare = u.Fare
	}
	if u.DepartureTime != nil {
		bus.DepartureTime = *u.DepartureTime
	}
	if u.ArrivalTime != nil {
		bus.ArrivalTime = *u.ArrivalTime
	}
	if u.Latitude != nil {
		bus.Latitude = u.Latitude
	}
	if u.Longitude != nil {
		bus.Longitude = u.Longitude
	}

	if u.DistanceKm != nil || u.Traffic != nil || u.PreviousStops != nil {
		if u.DistanceKm != nil {
			bus.DistanceKm = *u.DistanceKm
		}
		if u.Traffic != nil {
			bus.Traffic = models.Traffic(*u.Traffic)
		}
		if u.PreviousStops != nil {
			bus.PreviousStops = *u.PreviousStops
		}
		bus.EstimatedTime = EstimateArrival(bus.DistanceKm, bus.Traffic, bus.PreviousStops)
	}

	if err := s.store.SaveBus(bus); err != nil {
		return nil, err
	}
	log.Printf("[BUS] bus %s updated by user %d", bus.BusNumber, caller.ID)
	s.activity.Record(caller.ID, "BUS_UPDATED", "bus "+bus.BusNumber)
	return bus, nil
}

// UpdateLocation moves a bus independently of full-record edits.
func (s *Service) UpdateLocation(caller auth.Caller, id uint, l LocationUpdate) (*models.Bus, error) {
	bus, err := s.store.FindBusByID(id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(caller, auth.OpBusUpdateLocation, bus.AddedByID); err != nil {
		return nil, err
	}
	if err := ValidateLocation(l); err != nil {
		return nil, err
	}

	bus.CurrentLocation = l.CurrentLocation
	bus.NextStop = l.NextStop
	if l.Latitude != nil {
		bus.Latitude = l.Latitude
	}
	if l.Longitude != nil {
		bus.Longitude = l.Longitude
	}
	if err := s.store.SaveBus(bus); err != nil {
		return nil, err
	}
	log.Printf("[BUS] location updated for bus %s", bus.BusNumber)
	s.activity.Record(caller.ID, "BUS_LOCATION_UPDATED",
		fmt.Sprintf("bus %s at %s", bus.BusNumber, bus.CurrentLocation))
	return bus, nil
}

// Delete removes a bus record. Admin only.
func (s *Service) Delete(caller auth.Caller, id uint) error {
	bus, err := s.store.FindBusByID(id)
	if err != nil {
		return err
	}
	if err := auth.Authorize(caller, auth.OpBusDelete, bus.AddedByID); err != nil {
		return err
	}
	if err := s.store.DeleteBus(bus.ID); err != nil {
		return err
	}
	log.Printf("[BUS] bus %s deleted by user %d", bus.BusNumber, caller.ID)
	s.activity.Record(caller.ID, "BUS_DELETED", "bus "+bus.BusNumber)
	return nil
}

// Get fetches a single bus. Public.
func (s *Service) Get(id uint) (*models.Bus, error) {
	return s.store.FindBusByID(id)
}

// List pages through the fleet with optional status/type filters. Public.
func (s *Service) List(f ListFilter) ([]models.Bus, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 50
	}
	return s.store.ListBuses(f)
}

// Search matches the active fleet against free-text route queries. Public.
func (s *Service) Search(q SearchQuery) ([]models.Bus, error) {
	if err := ValidateSearch(q); err != nil {
		return nil, err
	}
	fleet, err := s.store.ListActiveBuses()
	if err != nil {
		return nil, err
	}
	results := MatchRoutes(q.Source, q.Destination, fleet)
	log.Printf("[BUS] search %q to %q found %d buses", q.Source, q.Destination, len(results))
	return results, nil
}

// Overview reports fleet statistics. Admin only.
func (s *Service) Overview(caller auth.Caller) (Stats, error) {
	if err := auth.Authorize(caller, auth.OpBusStats, 0); err != nil {
		return Stats{}, err
	}
	return s.store.BusStats()
}
