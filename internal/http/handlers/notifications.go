package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"busops/internal/domain"
	"busops/internal/domain/models"
	"busops/internal/http/middleware"
)

// PUT /api/notifications/:id/read
// With authentication enabled only the recipient or a staff role may mark
// a notification read.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id := targetID(c, nil)
	if id == "" {
		RespondDomainError(c, domain.ValidationError{Field: "id", Msg: "is required"})
		return
	}
	if len(h.Secret) > 0 {
		current, err := h.Svc.Notifications.Get(c.Request.Context(), id)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		caller := middleware.UserID(c)
		if caller == "" {
			RespondError(c, http.StatusUnauthorized, "unauthorized: missing credentials")
			return
		}
		if caller != current.UserID && !isStaff(middleware.UserRole(c)) {
			RespondError(c, http.StatusForbidden, "forbidden: not the recipient")
			return
		}
	}
	n, err := h.Svc.Notifications.Update(c.Request.Context(), requestID(c), id, []byte(`{"status":"read"}`))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func isStaff(role string) bool {
	switch models.Role(role) {
	case models.RoleAdmin, models.RoleMovementManager, models.RoleSupervisor:
		return true
	}
	return false
}

// Notifications are created by the system only; callers can list, read and
// delete them.
func (h *Handler) MountNotifications(g *gin.RouterGroup, guard ...gin.HandlerFunc) {
	col := h.Svc.Notifications
	g.GET("", h.ListNotifications())
	g.GET("/:id", GetRecord(col))
	g.PUT("/:id/read", h.MarkNotificationRead)
	g.DELETE("", chain(guard, DeleteRecord(col))...)
	g.DELETE("/:id", chain(guard, DeleteRecord(col))...)
}
