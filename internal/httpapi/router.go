package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/bustracker/backend/internal/auth"
	"github.com/bustracker/backend/internal/fleet"
	"github.com/bustracker/backend/internal/users"
)

// Routes wires every endpoint. Bus reads and route search are public;
// everything else goes through RequireAuth and the service-level policy.
func Routes(r *gin.Engine, codec *auth.TokenCodec, store users.Store, fleetSvc *fleet.Service, userSvc *users.Service) {
	r.Use(RequestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authRequired := RequireAuth(codec, store)

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", Register(userSvc))
		authGroup.POST("/login", Login(userSvc))
		authGroup.POST("/logout", authRequired, Logout(userSvc))
		authGroup.GET("/me", authRequired, Me(userSvc))
		authGroup.PUT("/update-profile", authRequired, UpdateProfile(userSvc))
		authGroup.PUT("/change-password", authRequired, ChangePassword(userSvc))
	}

	buses := r.Group("/api/buses")
	{
		buses.GET("", ListBuses(fleetSvc))
		buses.GET("/search", SearchBuses(fleetSvc))
		buses.GET("/stats/overview", authRequired, BusStats(fleetSvc))
		buses.GET("/:id", GetBus(fleetSvc))
		buses.POST("", authRequired, CreateBus(fleetSvc))
		buses.PUT("/:id", authRequired, UpdateBus(fleetSvc))
		buses.PUT("/:id/location", authRequired, UpdateBusLocation(fleetSvc))
		buses.DELETE("/:id", authRequired, DeleteBus(fleetSvc))
	}

	admin := r.Group("/api/admin", authRequired)
	{
		admin.GET("/users", ListUsers(userSvc))
		admin.POST("/create-driver", CreateDriver(userSvc))
		admin.PUT("/users/:id", UpdateUser(userSvc))
		admin.DELETE("/users/:id", DeleteUser(userSvc))
		admin.PUT("/users/:id/toggle-status", ToggleUserStatus(userSvc))
		admin.POST("/bulk-action", BulkUserAction(userSvc))
		admin.GET("/dashboard", AdminDashboard(userSvc))
		admin.GET("/logs", ActivityLogs(userSvc))
	}
}
