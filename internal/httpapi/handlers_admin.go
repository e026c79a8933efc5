package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bustracker/backend/internal/users"
)

func ListUsers(svc *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pageQuery(c, 20)
		filter := users.ListFilter{
			Role:  c.Query("role"),
			Page:  page,
			Limit: limit,
		}
		if v := c.Query("isActive"); v != "" {
			active := v == "true"
			filter.IsActive = &active
		}
		list, total, err := svc.List(callerFrom(c), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   len(list),
			"total":   total,
			"page":    page,
			"pages":   pageCount(total, limit),
			"data":    gin.H{"users": list},
		})
	}
}

func CreateDriver(svc *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req users.CreateDriverPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		driver, err := svc.CreateDriver(callerFrom(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Driver account created successfully",
			"data":    gin.H{"driver": driver},
		})
	}
}

func UpdateUser(svc *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var req users.AdminUserUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		user, err := svc.Update(callerFrom(c), id, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "User updated successfully",
			"data":    gin.H{"user": user},
		})
	}
}

func DeleteUser(svc *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		if err := svc.Delete(callerFrom(c), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
	}
}

func ToggleUserStatus(svc *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		user, err := svc.ToggleStatus(callerFrom(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		message := "User deactivated successfully"
		if user.IsActive {
			message = "User activated successfully"
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": message,
			"data":    gin.H{"user": user},
		})
	}
}

func BulkUserAction(svc *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req users.BulkAction
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		affected, err := svc.Bulk(callerFrom(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Bulk action '" + req.Action + "' completed successfully",
			"data":    gin.H{"affected": affected},
		})
	}
}

func AdminDashboard(svc *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		dashboard, err := svc.Overview(callerFrom(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": dashboard})
	}
}

func ActivityLogs(svc *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logs, err := svc.Logs(callerFrom(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"logs": logs}})
	}
}
