package reports

import (
	"github.com/shopspring/decimal"

	"busops/internal/domain/models"
	"busops/internal/enrich"
)

type TripCounts struct {
	Total          int     `json:"total"`
	Scheduled      int     `json:"scheduled"`
	Active         int     `json:"active"`
	Completed      int     `json:"completed"`
	Cancelled      int     `json:"cancelled"`
	CompletionRate float64 `json:"completionRate"`
}

func (c *TripCounts) add(t *models.Trip) {
	c.Total++
	switch t.Status {
	case models.TripScheduled:
		c.Scheduled++
	case models.TripActive:
		c.Active++
	case models.TripCompleted:
		c.Completed++
	case models.TripCancelled:
		c.Cancelled++
	}
}

func (c *TripCounts) finish() {
	c.CompletionRate = enrich.Rate(c.Completed, c.Total)
}

func countTrips(trips []*models.Trip) TripCounts {
	var c TripCounts
	for _, t := range trips {
		c.add(t)
	}
	c.finish()
	return c
}

// revenue splits payment amounts by status. Each amount lands in exactly
// one bucket.
type revenue struct {
	completed, pending, failed decimal.Decimal
	count                      int
}

func (r *revenue) add(p *models.Payment) {
	r.count++
	amount := enrich.Money(p.Amount)
	switch p.Status {
	case models.PaymentCompleted:
		r.completed = r.completed.Add(amount)
	case models.PaymentPending:
		r.pending = r.pending.Add(amount)
	case models.PaymentFailed:
		r.failed = r.failed.Add(amount)
	}
}

type MaintenanceCounts struct {
	Total          int            `json:"total"`
	Open           int            `json:"open"`
	InProgress     int            `json:"inProgress"`
	Completed      int            `json:"completed"`
	CompletionRate float64        `json:"completionRate"`
	ByPriority     map[string]int `json:"byPriority"`
	EstimatedCost  float64        `json:"estimatedCost"`
	ActualCost     float64        `json:"actualCost"`
	CostVariance   float64        `json:"costVariance"`

	estimated, actual decimal.Decimal
}

func newMaintenanceCounts() MaintenanceCounts {
	c := MaintenanceCounts{ByPriority: map[string]int{}}
	for _, p := range models.MaintenancePriorities {
		c.ByPriority[p] = 0
	}
	return c
}

func (c *MaintenanceCounts) add(m *models.MaintenanceRecord) {
	c.Total++
	switch m.Status {
	case models.MaintenanceOpen:
		c.Open++
	case models.MaintenanceInProgress:
		c.InProgress++
	case models.MaintenanceCompleted:
		c.Completed++
	}
	c.ByPriority[m.Priority]++
	c.estimated = c.estimated.Add(enrich.Money(m.EstimatedCost))
	c.actual = c.actual.Add(enrich.Money(m.ActualCost))
}

func (c *MaintenanceCounts) finish() {
	c.CompletionRate = enrich.Rate(c.Completed, c.Total)
	c.EstimatedCost = enrich.Amount(c.estimated)
	c.ActualCost = enrich.Amount(c.actual)
	c.CostVariance = enrich.Amount(c.actual.Sub(c.estimated))
}

func countMaintenance(records []*models.MaintenanceRecord) MaintenanceCounts {
	c := newMaintenanceCounts()
	for _, m := range records {
		c.add(m)
	}
	c.finish()
	return c
}

type FleetStats struct {
	TotalBuses      int     `json:"totalBuses"`
	ActiveBuses     int     `json:"activeBuses"`
	InMaintenance   int     `json:"inMaintenance"`
	Inactive        int     `json:"inactive"`
	UtilizationRate float64 `json:"utilizationRate"`
}

func fleetStats(buses []models.Bus) FleetStats {
	var f FleetStats
	for _, b := range buses {
		f.TotalBuses++
		switch b.Status {
		case models.BusActive:
			f.ActiveBuses++
		case models.BusMaintenance:
			f.InMaintenance++
		case models.BusInactive:
			f.Inactive++
		}
	}
	f.UtilizationRate = enrich.Rate(f.ActiveBuses, f.TotalBuses)
	return f
}

type UserCounts struct {
	Total  int            `json:"total"`
	ByRole map[string]int `json:"byRole"`
}

func countUsers(users []models.User) UserCounts {
	c := UserCounts{ByRole: map[string]int{}}
	for _, r := range models.Roles {
		c.ByRole[string(r)] = 0
	}
	for _, u := range users {
		c.Total++
		c.ByRole[string(u.Role)]++
	}
	return c
}
