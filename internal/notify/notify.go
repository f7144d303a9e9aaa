// Package notify emits notifications as a side effect of trip creation.
package notify

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"busops/internal/domain/models"
	"busops/internal/utils"
)

const TypeTripAssignment = "trip_assignment"

// Emitter appends notifications to a document inside the caller's store
// mutation, so they are persisted in the same write as the trip.
type Emitter struct {
	Now      func() time.Time
	NewID    func() string
	Validate func(any) error
}

func NewEmitter() *Emitter {
	return &Emitter{Now: time.Now, NewID: uuid.NewString, Validate: models.Validate}
}

// TripCreated appends one notification per assigned party and returns how
// many were added. It never fails the caller: on any error or panic the
// notification list is restored and the failure is logged.
func (e *Emitter) TripCreated(requestID string, doc *models.Document, trip models.Trip) (added int) {
	before := len(doc.Notifications)
	defer func() {
		if r := recover(); r != nil {
			doc.Notifications = doc.Notifications[:before]
			added = 0
			utils.LogEvent(requestID, "notify", "trip_created", fmt.Sprintf("trip_id=%s panic=%v", trip.ID, r))
		}
	}()

	notes, err := e.build(doc, trip)
	if err != nil {
		utils.LogEvent(requestID, "notify", "trip_created", fmt.Sprintf("trip_id=%s err=%v", trip.ID, err))
		return 0
	}
	doc.Notifications = append(doc.Notifications, notes...)
	if len(notes) > 0 {
		utils.LogEvent(requestID, "notify", "trip_created", fmt.Sprintf("trip_id=%s notifications=%d", trip.ID, len(notes)))
	}
	return len(notes)
}

func (e *Emitter) build(doc *models.Document, trip models.Trip) ([]models.Notification, error) {
	parties := []struct {
		userID string
		role   string
	}{
		{trip.DriverID, "driver"},
		{trip.SupervisorID, "supervisor"},
	}
	route := routeName(doc, trip.RouteID)
	now := e.Now()

	var out []models.Notification
	for _, p := range parties {
		if p.userID == "" {
			continue
		}
		n := models.Notification{
			UserID: p.userID,
			TripID: trip.ID,
			Type:   TypeTripAssignment,
			Title:  "New trip assignment",
			Message: fmt.Sprintf("You are assigned as %s for %s on %s at %s.",
				p.role, route, trip.Date, trip.StartTime),
		}
		n.ID = e.NewID()
		n.Touch(now)
		n.ApplyDefaults()
		if err := e.Validate(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func routeName(doc *models.Document, id string) string {
	for _, r := range doc.Routes {
		if r.ID == id {
			return "route " + r.Name
		}
	}
	return "a trip"
}
