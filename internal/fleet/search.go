package fleet

import (
	"sort"
	"strings"

	"github.com/bustracker/backend/internal/models"
)

// MatchRoutes selects the active buses whose source and destination contain
// the query strings (case-insensitive substring match) and orders them by
// estimated arrival time, shortest first. Ties keep the input order.
func MatchRoutes(sourceQuery, destQuery string, fleet []models.Bus) []models.Bus {
	src := strings.ToLower(strings.TrimSpace(sourceQuery))
	dst := strings.ToLower(strings.TrimSpace(destQuery))

	matched := make([]models.Bus, 0)
	for _, bus := range fleet {
		if bus.Status != models.StatusActive {
			continue
		}
		if !strings.Contains(strings.ToLower(bus.Source), src) {
			continue
		}
		if !strings.Contains(strings.ToLower(bus.Destination), dst) {
			continue
		}
		matched = append(matched, bus)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].EstimatedTime < matched[j].EstimatedTime
	})
	return matched
}
