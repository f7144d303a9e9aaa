package notify

import (
	"errors"
	"testing"

	"busops/internal/domain/models"
)

func newTrip(driverID, supervisorID string) models.Trip {
	return models.Trip{
		Meta:         models.Meta{ID: "t1"},
		RouteID:      "r1",
		DriverID:     driverID,
		SupervisorID: supervisorID,
		Date:         "2024-01-10",
		StartTime:    "07:00",
		EndTime:      "08:00",
	}
}

func TestTripCreatedNotifiesEachAssignedParty(t *testing.T) {
	cases := []struct {
		driver, supervisor string
		want               int
	}{
		{"d1", "s1", 2},
		{"d1", "", 1},
		{"", "s1", 1},
		{"", "", 0},
	}
	for _, tc := range cases {
		doc := models.NewDocument()
		doc.Routes = []models.Route{{Meta: models.Meta{ID: "r1"}, Name: "North Loop"}}
		got := NewEmitter().TripCreated("req", doc, newTrip(tc.driver, tc.supervisor))
		if got != tc.want || len(doc.Notifications) != tc.want {
			t.Fatalf("driver=%q supervisor=%q: expected %d notifications, got %d (%d stored)",
				tc.driver, tc.supervisor, tc.want, got, len(doc.Notifications))
		}
		for _, n := range doc.Notifications {
			if n.TripID != "t1" || n.ID == "" || n.Status != "unread" || n.CreatedAt.IsZero() {
				t.Fatalf("unexpected notification: %+v", n)
			}
		}
	}
}

func TestTripCreatedFailureLeavesNotificationsUntouched(t *testing.T) {
	doc := models.NewDocument()
	doc.Notifications = []models.Notification{{Meta: models.Meta{ID: "old"}}}

	e := NewEmitter()
	e.Validate = func(any) error { return errors.New("boom") }
	if got := e.TripCreated("req", doc, newTrip("d1", "s1")); got != 0 {
		t.Fatalf("expected 0 on failure, got %d", got)
	}
	if len(doc.Notifications) != 1 {
		t.Fatalf("failed emission changed notifications: %+v", doc.Notifications)
	}
}

func TestTripCreatedRecoversFromPanic(t *testing.T) {
	doc := models.NewDocument()
	calls := 0
	e := NewEmitter()
	e.NewID = func() string {
		calls++
		if calls == 2 {
			panic("id source exhausted")
		}
		return "n1"
	}
	if got := e.TripCreated("req", doc, newTrip("d1", "s1")); got != 0 {
		t.Fatalf("expected 0 after panic, got %d", got)
	}
	if len(doc.Notifications) != 0 {
		t.Fatalf("panic left partial notifications: %+v", doc.Notifications)
	}
}
