package httpapi

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bustracker/backend/internal/fleet"
)

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		badRequest(c, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

// pageQuery reads page/limit from the query string and clamps them so the
// echoed page and the page count are always computed from positive values.
// Garbage or non-positive limits fall back to the route's default.
func pageQuery(c *gin.Context, defaultLimit int) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

func pageCount(total int64, limit int) int {
	return int(math.Ceil(float64(total) / float64(limit)))
}

func CreateBus(svc *fleet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req fleet.BusPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		bus, err := svc.Create(callerFrom(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Bus added successfully",
			"data":    gin.H{"bus": bus},
		})
	}
}

func ListBuses(svc *fleet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pageQuery(c, 50)
		filter := fleet.ListFilter{
			Status:  c.Query("status"),
			BusType: c.Query("busType"),
			Page:    page,
			Limit:   limit,
		}
		buses, total, err := svc.List(filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   len(buses),
			"total":   total,
			"page":    page,
			"pages":   pageCount(total, limit),
			"data":    gin.H{"buses": buses},
		})
	}
}

func SearchBuses(svc *fleet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := fleet.SearchQuery{
			Source:      c.Query("source"),
			Destination: c.Query("destination"),
		}
		buses, err := svc.Search(query)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   len(buses),
			"data":    gin.H{"buses": buses},
		})
	}
}

func GetBus(svc *fleet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		bus, err := svc.Get(id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"bus": bus}})
	}
}

func UpdateBus(svc *fleet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var req fleet.BusUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		bus, err := svc.Update(callerFrom(c), id, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Bus updated successfully",
			"data":    gin.H{"bus": bus},
		})
	}
}

func UpdateBusLocation(svc *fleet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var req fleet.LocationUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		bus, err := svc.UpdateLocation(callerFrom(c), id, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Location updated successfully",
			"data":    gin.H{"bus": bus},
		})
	}
}

func DeleteBus(svc *fleet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		if err := svc.Delete(callerFrom(c), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Bus deleted successfully"})
	}
}

func BusStats(svc *fleet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.Overview(callerFrom(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
	}
}
