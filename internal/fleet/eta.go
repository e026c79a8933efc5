package fleet

import (
	"math"

	"github.com/bustracker/backend/internal/models"
)

const baseSpeedKmh = 40.0

var trafficMultiplier = map[models.Traffic]float64{
	models.TrafficLow:    1.0,
	models.TrafficMedium: 0.75,
	models.TrafficHigh:   0.5,
}

// EstimateArrival derives the estimated arrival time in whole minutes from
// distance, traffic condition and the number of stops already on the route.
// Each previous stop adds two minutes; the result is rounded half-up.
func EstimateArrival(distanceKm float64, traffic models.Traffic, previousStops int) int {
	mult, ok := trafficMultiplier[traffic]
	if !ok {
		mult = trafficMultiplier[models.TrafficLow]
	}
	effectiveSpeed := baseSpeedKmh * mult
	travelMinutes := distanceKm / effectiveSpeed * 60
	stopDelay := float64(previousStops) * 2
	return int(math.Round(travelMinutes + stopDelay))
}
