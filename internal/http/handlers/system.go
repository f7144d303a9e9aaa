package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for /api/routes.
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "transport back office is running"})
}

// StoreCheck loads the document and reports collection sizes.
func (h *Handler) StoreCheck(c *gin.Context) {
	doc, err := h.Svc.Store.Read(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	counts := gin.H{
		"trips":         len(doc.Trips),
		"routes":        len(doc.Routes),
		"buses":         len(doc.Buses),
		"users":         len(doc.Users),
		"bookings":      len(doc.Bookings),
		"payments":      len(doc.Payments),
		"attendance":    len(doc.Attendance),
		"maintenance":   len(doc.Maintenance),
		"notifications": len(doc.Notifications),
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "store OK",
		"commits":     h.Svc.Store.Commits(),
		"collections": counts,
	})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		RespondError(c, http.StatusServiceUnavailable, "router not ready")
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
