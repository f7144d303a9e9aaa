package models

import "busops/internal/utils"

type Route struct {
	Meta
	Name              string   `json:"name" validate:"required"`
	StartPoint        string   `json:"startPoint" validate:"required"`
	EndPoint          string   `json:"endPoint" validate:"required"`
	Distance          float64  `json:"distance" validate:"gte=0"`
	EstimatedDuration int      `json:"estimatedDuration" validate:"gte=0"`
	Stops             []string `json:"stops"`
	Status            string   `json:"status" validate:"required,oneof=active inactive"`
}

func (r *Route) ApplyDefaults() {
	if r.Status == "" {
		r.Status = "active"
	}
	if r.Stops == nil {
		r.Stops = []string{}
	}
}

const (
	BusActive      = "active"
	BusMaintenance = "maintenance"
	BusInactive    = "inactive"
)

type Bus struct {
	Meta
	Number          string `json:"number" validate:"required"`
	Model           string `json:"model,omitempty"`
	Capacity        int    `json:"capacity" validate:"gte=0"`
	Status          string `json:"status" validate:"required,oneof=active maintenance inactive"`
	LastMaintenance string `json:"lastMaintenance,omitempty" validate:"omitempty,datetime=2006-01-02"`
	NextMaintenance string `json:"nextMaintenance,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (b *Bus) ApplyDefaults() {
	if b.Status == "" {
		b.Status = BusActive
	}
}

type MaintenanceStatus string

const (
	MaintenanceOpen       MaintenanceStatus = "open"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
)

// MaintenancePriorities lists priorities from least to most urgent.
var MaintenancePriorities = []string{"low", "medium", "high", "critical"}

type MaintenanceRecord struct {
	Meta
	BusID         string            `json:"busId" validate:"required"`
	Type          string            `json:"type,omitempty"`
	Description   string            `json:"description,omitempty"`
	Status        MaintenanceStatus `json:"status" validate:"required,oneof=open in_progress completed"`
	Priority      string            `json:"priority" validate:"required,oneof=low medium high critical"`
	EstimatedCost float64           `json:"estimatedCost" validate:"gte=0"`
	ActualCost    float64           `json:"actualCost" validate:"gte=0"`
	Date          string            `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (m *MaintenanceRecord) ApplyDefaults() {
	if m.Status == "" {
		m.Status = MaintenanceOpen
	}
	if m.Priority == "" {
		m.Priority = "medium"
	}
}

// DateLike is the calendar date used for range filters: Date when set,
// otherwise the creation day.
func (m MaintenanceRecord) DateLike() string {
	if m.Date != "" {
		return m.Date
	}
	if m.CreatedAt.IsZero() {
		return ""
	}
	return utils.FormatDate(m.CreatedAt)
}
