package models

import (
	"time"

	"busops/internal/utils"
)

type TripStatus string

const (
	TripScheduled TripStatus = "scheduled"
	TripActive    TripStatus = "active"
	TripCompleted TripStatus = "completed"
	TripCancelled TripStatus = "cancelled"
)

// IsTerminal reports whether no automatic transition may leave the status.
func (s TripStatus) IsTerminal() bool {
	return s == TripCompleted || s == TripCancelled
}

type Trip struct {
	Meta
	RouteID         string     `json:"routeId" validate:"required"`
	BusID           string     `json:"busId"`
	DriverID        string     `json:"driverId"`
	SupervisorID    string     `json:"supervisorId"`
	Date            string     `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime       string     `json:"startTime" validate:"required,clock"`
	EndTime         string     `json:"endTime" validate:"required,clock"`
	ActualStartTime string     `json:"actualStartTime,omitempty" validate:"omitempty,clock"`
	Status          TripStatus `json:"status" validate:"required,oneof=scheduled active completed cancelled"`
	Passengers      int        `json:"passengers" validate:"gte=0"`
	OperationalCost float64    `json:"operationalCost" validate:"gte=0"`
	Notes           string     `json:"notes,omitempty"`
}

func (t *Trip) ApplyDefaults() {
	if t.Status == "" {
		t.Status = TripScheduled
	}
}

// StartInstant combines Date and StartTime in the local timezone.
func (t Trip) StartInstant() (time.Time, bool) {
	return at(t.Date, t.StartTime)
}

// EndInstant combines Date and EndTime. An EndTime earlier than StartTime
// belongs to the following day.
func (t Trip) EndInstant() (time.Time, bool) {
	end, ok := at(t.Date, t.EndTime)
	if !ok {
		return time.Time{}, false
	}
	if start, ok := t.StartInstant(); ok && end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}
	return end, true
}

// DurationMinutes is the scheduled length of the trip; 0 when either time
// is missing or malformed.
func (t Trip) DurationMinutes() int {
	start, err := utils.ParseClock(t.StartTime)
	if err != nil {
		return 0
	}
	end, err := utils.ParseClock(t.EndTime)
	if err != nil {
		return 0
	}
	if end < start {
		end += 24 * time.Hour
	}
	return int((end - start) / time.Minute)
}

// OnTimeTolerance is how late an actual start may be and still count as on
// time.
const OnTimeTolerance = 5 * time.Minute

// IsOnTime reports whether the trip actually started no later than
// OnTimeTolerance after its scheduled start. Trips without a recorded
// actual start are not on time.
func (t Trip) IsOnTime() bool {
	if t.ActualStartTime == "" {
		return false
	}
	scheduled, err := utils.ParseClock(t.StartTime)
	if err != nil {
		return false
	}
	actual, err := utils.ParseClock(t.ActualStartTime)
	if err != nil {
		return false
	}
	return actual <= scheduled+OnTimeTolerance
}

func at(date, clock string) (time.Time, bool) {
	day, err := utils.ParseDate(date)
	if err != nil {
		return time.Time{}, false
	}
	offset, err := utils.ParseClock(clock)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local).Add(offset), true
}
