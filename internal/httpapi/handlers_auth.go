package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bustracker/backend/internal/users"
)

func Register(svc *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req users.RegisterPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		user, token, err := svc.Register(req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "User registered successfully",
			"data":    gin.H{"user": user, "token": token},
		})
	}
}

func Login(svc *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req users.LoginPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		user, token, err := svc.Login(req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Login successful",
			"data":    gin.H{"user": user, "token": token},
		})
	}
}

func Logout(svc *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		svc.Logout(callerFrom(c))
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
	}
}

func Me(svc *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := svc.Profile(callerFrom(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"user": user}})
	}
}

func UpdateProfile(svc *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req users.ProfileUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		user, err := svc.UpdateProfile(callerFrom(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Profile updated successfully",
			"data":    gin.H{"user": user},
		})
	}
}

func ChangePassword(svc *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req users.ChangePasswordPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		if err := svc.ChangePassword(callerFrom(c), req); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password changed successfully"})
	}
}
