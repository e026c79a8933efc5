package fleet

import "github.com/bustracker/backend/internal/validate"

// BusPayload is a full bus record as submitted on creation. Numeric fields
// are pointers so a missing field is distinguishable from a zero value.
type BusPayload struct {
	BusNumber       string   `json:"busNumber" validate:"trimmin=2" errmsg:"Bus number is required and must be at least 2 characters"`
	BusType         string   `json:"busType" validate:"required,oneof=AC Non-AC Sleeper Semi-Sleeper Luxury Volvo" errmsg:"Bus type must be one of: AC, Non-AC, Sleeper, Semi-Sleeper, Luxury, Volvo"`
	Source          string   `json:"source" validate:"trimmin=2" errmsg:"Source location is required"`
	Destination     string   `json:"destination" validate:"trimmin=2" errmsg:"Destination is required"`
	CurrentLocation string   `json:"currentLocation" validate:"trimmin=2" errmsg:"Current location is required"`
	NextStop        string   `json:"nextStop" validate:"trimmin=2" errmsg:"Next stop is required"`
	Capacity        *int     `json:"capacity" validate:"required,min=10,max=100" errmsg:"Capacity must be between 10 and 100"`
	DriverName      string   `json:"driverName" validate:"trimmin=2" errmsg:"Driver name is required"`
	DriverPhone     string   `json:"driverPhone" validate:"phone10" errmsg:"Driver phone must be a valid 10-digit number"`
	DistanceKm      *float64 `json:"distance" validate:"required,gte=0" errmsg:"Distance must be a non-negative number"`
	Traffic         string   `json:"traffic" validate:"omitempty,oneof=low medium high" errmsg:"Traffic must be one of: low, medium, high"`
	PreviousStops   *int     `json:"previousStops" validate:"omitempty,gte=0" errmsg:"Previous stops must be a non-negative integer"`
	Fare            *float64 `json:"fare" validate:"omitempty,gte=0" errmsg:"Fare cannot be negative"`
	DepartureTime   string   `json:"departureTime"`
	ArrivalTime     string   `json:"arrivalTime"`
	Latitude        *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90" errmsg:"Latitude must be between -90 and 90"`
	Longitude       *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180" errmsg:"Longitude must be between -180 and 180"`
}

// BusUpdate is a partial update; nil fields are left untouched.
type BusUpdate struct {
	BusType         *string  `json:"busType" validate:"omitempty,oneof=AC Non-AC Sleeper Semi-Sleeper Luxury Volvo" errmsg:"Bus type must be one of: AC, Non-AC, Sleeper, Semi-Sleeper, Luxury, Volvo"`
	Source          *string  `json:"source" validate:"omitempty,trimmin=2" errmsg:"Source location is required"`
	Destination     *string  `json:"destination" validate:"omitempty,trimmin=2" errmsg:"Destination is required"`
	CurrentLocation *string  `json:"currentLocation" validate:"omitempty,trimmin=2" errmsg:"Current location is required"`
	NextStop        *string  `json:"nextStop" validate:"omitempty,trimmin=2" errmsg:"Next stop is required"`
	Capacity        *int     `json:"capacity" validate:"omitempty,min=10,max=100" errmsg:"Capacity must be between 10 and 100"`
	DriverName      *string  `json:"driverName" validate:"omitempty,trimmin=2" errmsg:"Driver name is required"`
	DriverPhone     *string  `json:"driverPhone" validate:"omitempty,phone10" errmsg:"Driver phone must be a valid 10-digit number"`
	DistanceKm      *float64 `json:"distance" validate:"omitempty,gte=0" errmsg:"Distance must be a non-negative number"`
	Traffic         *string  `json:"traffic" validate:"omitempty,oneof=low medium high" errmsg:"Traffic must be one of: low, medium, high"`
	PreviousStops   *int     `json:"previousStops" validate:"omitempty,gte=0" errmsg:"Previous stops must be a non-negative integer"`
	Status          *string  `json:"status" validate:"omitempty,oneof=active inactive delayed cancelled" errmsg:"Status must be one of: active, inactive, delayed, cancelled"`
	Fare            *float64 `json:"fare" validate:"omitempty,gte=0" errmsg:"Fare cannot be negative"`
	DepartureTime   *string  `json:"departureTime"`
	ArrivalTime     *string  `json:"arrivalTime"`
	Latitude        *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90" errmsg:"Latitude must be between -90 and 90"`
	Longitude       *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180" errmsg:"Longitude must be between -180 and 180"`
}

// LocationUpdate moves a bus to a new location and next stop.
type LocationUpdate struct {
	CurrentLocation string   `json:"currentLocation" validate:"trimmin=2" errmsg:"Current location is required"`
	NextStop        string   `json:"nextStop" validate:"trimmin=2" errmsg:"Next stop is required"`
	Latitude        *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90" errmsg:"Latitude must be between -90 and 90"`
	Longitude       *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180" errmsg:"Longitude must be between -180 and 180"`
}

// SearchQuery holds the free-text route search parameters.
type SearchQuery struct {
	Source      string `json:"source" validate:"trimmin=1" errmsg:"Source parameter is required for search"`
	Destination string `json:"destination" validate:"trimmin=1" errmsg:"Destination parameter is required for search"`
}

// ValidateBus checks a creation payload and returns every violation at once.
func ValidateBus(p BusPayload) error {
	return validate.StructError(&p)
}

// ValidateBusUpdate checks only the fields present in a partial update.
func ValidateBusUpdate(u BusUpdate) error {
	return validate.StructError(&u)
}

// ValidateLocation checks a location update.
func ValidateLocation(l LocationUpdate) error {
	return validate.StructError(&l)
}

// ValidateSearch checks route search parameters.
func ValidateSearch(q SearchQuery) error {
	return validate.StructError(&q)
}
