package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bustracker/backend/internal/validate"
)

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string { return &v }

func validPayload() BusPayload {
	return BusPayload{
		BusNumber:       "MH12AB1234",
		BusType:         "AC",
		Source:          "Mumbai",
		Destination:     "Pune",
		CurrentLocation: "Dadar",
		NextStop:        "Lonavala",
		Capacity:        intPtr(45),
		DriverName:      "Rajesh Kumar",
		DriverPhone:     "9876543210",
		DistanceKm:      floatPtr(150),
	}
}

func TestValidateBusAccepts(t *testing.T) {
	assert.NoError(t, ValidateBus(validPayload()))
}

func TestValidateBusCollectsAllViolations(t *testing.T) {
	p := validPayload()
	p.BusNumber = ""
	p.Capacity = intPtr(5)
	p.DriverPhone = "123"

	err := ValidateBus(p)
	require.Error(t, err)

	var verr *validate.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 3)

	assert.Equal(t, "busNumber", verr.Violations[0].Field)
	assert.Equal(t, "Bus number is required and must be at least 2 characters", verr.Violations[0].Message)
	assert.Equal(t, "capacity", verr.Violations[1].Field)
	assert.Equal(t, "Capacity must be between 10 and 100", verr.Violations[1].Message)
	assert.Equal(t, "driverPhone", verr.Violations[2].Field)
	assert.Equal(t, "Driver phone must be a valid 10-digit number", verr.Violations[2].Message)
}

func TestValidateBusFieldRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BusPayload)
		field  string
	}{
		{"bus number too short", func(p *BusPayload) { p.BusNumber = "A" }, "busNumber"},
		{"bus number whitespace only", func(p *BusPayload) { p.BusNumber = "   " }, "busNumber"},
		{"unknown bus type", func(p *BusPayload) { p.BusType = "Minibus" }, "busType"},
		{"missing source", func(p *BusPayload) { p.Source = "" }, "source"},
		{"missing destination", func(p *BusPayload) { p.Destination = " " }, "destination"},
		{"missing current location", func(p *BusPayload) { p.CurrentLocation = "" }, "currentLocation"},
		{"missing next stop", func(p *BusPayload) { p.NextStop = "" }, "nextStop"},
		{"capacity missing", func(p *BusPayload) { p.Capacity = nil }, "capacity"},
		{"capacity too high", func(p *BusPayload) { p.Capacity = intPtr(101) }, "capacity"},
		{"driver name too short", func(p *BusPayload) { p.DriverName = "R" }, "driverName"},
		{"phone with letters", func(p *BusPayload) { p.DriverPhone = "98765x3210" }, "driverPhone"},
		{"phone too long", func(p *BusPayload) { p.DriverPhone = "98765432100" }, "driverPhone"},
		{"distance missing", func(p *BusPayload) { p.DistanceKm = nil }, "distance"},
		{"distance negative", func(p *BusPayload) { p.DistanceKm = floatPtr(-1) }, "distance"},
		{"bad traffic", func(p *BusPayload) { p.Traffic = "jam" }, "traffic"},
		{"negative previous stops", func(p *BusPayload) { p.PreviousStops = intPtr(-1) }, "previousStops"},
		{"latitude out of range", func(p *BusPayload) { p.Latitude = floatPtr(91) }, "latitude"},
		{"longitude out of range", func(p *BusPayload) { p.Longitude = floatPtr(-181) }, "longitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(&p)
			err := ValidateBus(p)
			var verr *validate.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Violations, 1)
			assert.Equal(t, tt.field, verr.Violations[0].Field)
		})
	}
}

func TestValidateBusOptionalFields(t *testing.T) {
	p := validPayload()
	p.Traffic = "high"
	p.PreviousStops = intPtr(0)
	p.Fare = floatPtr(450)
	p.Latitude = floatPtr(19.07)
	p.Longitude = floatPtr(72.87)
	assert.NoError(t, ValidateBus(p))
}

func TestValidateBusUpdatePartial(t *testing.T) {
	// An empty update is valid; only present fields are checked.
	assert.NoError(t, ValidateBusUpdate(BusUpdate{}))
	assert.NoError(t, ValidateBusUpdate(BusUpdate{Traffic: strPtr("medium")}))

	err := ValidateBusUpdate(BusUpdate{
		Capacity:    intPtr(5),
		DriverPhone: strPtr("123"),
	})
	var verr *validate.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Violations, 2)
}

func TestValidateSearch(t *testing.T) {
	assert.NoError(t, ValidateSearch(SearchQuery{Source: "m", Destination: "p"}))

	err := ValidateSearch(SearchQuery{Source: " ", Destination: ""})
	var verr *validate.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 2)
	assert.Equal(t, "Source parameter is required for search", verr.Violations[0].Message)
	assert.Equal(t, "Destination parameter is required for search", verr.Violations[1].Message)
}
