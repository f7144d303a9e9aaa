package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"busops/internal/domain"
	"busops/internal/enrich"
)

// GET /api/trips
func (h *Handler) ListTrips(c *gin.Context) {
	var f enrich.TripFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		RespondDomainError(c, domain.ValidationError{Msg: "invalid query", Err: err})
		return
	}
	list, err := h.Svc.Trips.ListEnriched(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/trips/:id
func (h *Handler) GetTrip(c *gin.Context) {
	view, err := h.Svc.Trips.GetEnriched(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) MountTrips(g *gin.RouterGroup, guard ...gin.HandlerFunc) {
	col := h.Svc.Trips.Collection
	g.GET("", h.ListTrips)
	g.GET("/:id", h.GetTrip)
	g.POST("", chain(guard, CreateRecord(col))...)
	g.PUT("", chain(guard, UpdateRecord(col))...)
	g.PUT("/:id", chain(guard, UpdateRecord(col))...)
	g.DELETE("", chain(guard, DeleteRecord(col))...)
	g.DELETE("/:id", chain(guard, DeleteRecord(col))...)
}
