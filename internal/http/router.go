package api

import (
	"log"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	intconfig "busops/internal/config"
	"busops/internal/domain/models"
	h "busops/internal/http/handlers"
	"busops/internal/http/middleware"
	"busops/internal/services"
)

// writerRoles may create, update and delete records when authentication is
// enabled.
var writerRoles = []string{
	string(models.RoleAdmin),
	string(models.RoleMovementManager),
	string(models.RoleSupervisor),
}

func NewRouter(env intconfig.Env, svc *services.Services) *gin.Engine {
	secret := []byte(env.JWTSecret)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		middleware.CORS(env.CORSOrigins),
		middleware.AuthOptional(secret),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":      "route not found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": middleware.GetRequestID(c),
		})
	})

	var guard []gin.HandlerFunc
	if len(secret) > 0 {
		guard = append(guard, middleware.RequireRoles(writerRoles...))
	}

	hd := h.New(svc, secret)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/store-check", hd.StoreCheck)
		api.GET("/system/routes", h.Routes)

		// Auth
		api.POST("/auth/login", hd.Login)

		// Trips
		hd.MountTrips(api.Group("/trips"), guard...)

		// Reports
		api.GET("/reports", hd.GetReport)

		// Reference data
		h.MountCRUD(api.Group("/routes"), svc.Routes, nil, guard...)
		h.MountCRUD(api.Group("/buses"), svc.Buses, nil, guard...)
		h.MountCRUD(api.Group("/users"), svc.Users, hd.ListUsers, guard...)

		// Trip dependents
		h.MountCRUD(api.Group("/bookings"), svc.Bookings, hd.ListBookings(), guard...)
		h.MountCRUD(api.Group("/payments"), svc.Payments, hd.ListPayments(), guard...)
		h.MountCRUD(api.Group("/attendance"), svc.Attendance, hd.ListAttendance(), guard...)
		h.MountCRUD(api.Group("/maintenance"), svc.Maintenance, hd.ListMaintenance(), guard...)

		// Notifications
		hd.MountNotifications(api.Group("/notifications"), guard...)
	}

	h.SetRouter(r)
	return r
}
