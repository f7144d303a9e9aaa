package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"busops/internal/domain"
	"busops/internal/domain/models"
	"busops/internal/enrich"
)

// listViews serves a dependent collection joined with its referenced
// entities and filtered by the common query parameters.
func listViews[V any](h *Handler, build func(*enrich.Index, enrich.ListFilter) []V) gin.HandlerFunc {
	return func(c *gin.Context) {
		var f enrich.ListFilter
		if err := c.ShouldBindQuery(&f); err != nil {
			RespondDomainError(c, domain.ValidationError{Msg: "invalid query", Err: err})
			return
		}
		idx, err := h.Svc.Views(c.Request.Context())
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, build(idx, f))
	}
}

func (h *Handler) ListBookings() gin.HandlerFunc { return listViews(h, enrich.Bookings) }
func (h *Handler) ListPayments() gin.HandlerFunc { return listViews(h, enrich.Payments) }
func (h *Handler) ListAttendance() gin.HandlerFunc { return listViews(h, enrich.Attendance) }
func (h *Handler) ListMaintenance() gin.HandlerFunc { return listViews(h, enrich.Maintenance) }
func (h *Handler) ListNotifications() gin.HandlerFunc { return listViews(h, enrich.Notifications) }

// GET /api/users?role=driver&status=active
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Svc.Users.List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	role := strings.TrimSpace(c.Query("role"))
	status := strings.TrimSpace(c.Query("status"))
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if role != "" && string(u.Role) != role {
			continue
		}
		if status != "" && u.Status != status {
			continue
		}
		out = append(out, u)
	}
	c.JSON(http.StatusOK, out)
}
