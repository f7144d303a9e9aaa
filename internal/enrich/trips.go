package enrich

import (
	"strings"

	"github.com/shopspring/decimal"

	"busops/internal/domain/models"
)

// TripFilter narrows the trip list. Empty fields match everything.
type TripFilter struct {
	Status       string `form:"status"`
	Date         string `form:"date"`
	RouteID      string `form:"routeId"`
	BusID        string `form:"busId"`
	DriverID     string `form:"driverId"`
	SupervisorID string `form:"supervisorId"`
	Search       string `form:"search"`
}

// FilterTrips returns the trips matching f, in document order.
func FilterTrips(idx *Index, f TripFilter) []models.Trip {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.Trip, 0, len(idx.Doc.Trips))
	for _, t := range idx.Doc.Trips {
		if f.Status != "" && string(t.Status) != f.Status {
			continue
		}
		if f.Date != "" && !SameDate(t.Date, f.Date) {
			continue
		}
		if f.RouteID != "" && t.RouteID != f.RouteID {
			continue
		}
		if f.BusID != "" && t.BusID != f.BusID {
			continue
		}
		if f.DriverID != "" && t.DriverID != f.DriverID {
			continue
		}
		if f.SupervisorID != "" && t.SupervisorID != f.SupervisorID {
			continue
		}
		if search != "" && !matchesSearch(idx, t, search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchesSearch(idx *Index, t models.Trip, needle string) bool {
	fields := []string{t.ID, idx.UserName(t.DriverID), idx.UserName(t.SupervisorID)}
	if r := idx.Route(t.RouteID); r != nil {
		fields = append(fields, r.Name)
	}
	if b := idx.Bus(t.BusID); b != nil {
		fields = append(fields, b.Number)
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

type BookingStats struct {
	Total            int     `json:"total"`
	Pending          int     `json:"pending"`
	Confirmed        int     `json:"confirmed"`
	Cancelled        int     `json:"cancelled"`
	Completed        int     `json:"completed"`
	ConfirmationRate float64 `json:"confirmationRate"`
}

type PaymentStats struct {
	Count          int     `json:"count"`
	TotalRevenue   float64 `json:"totalRevenue"`
	PendingRevenue float64 `json:"pendingRevenue"`
	FailedRevenue  float64 `json:"failedRevenue"`
	Profit         float64 `json:"profit"`
	ProfitMargin   float64 `json:"profitMargin"`
}

type AttendanceStats struct {
	Total   int     `json:"total"`
	Present int     `json:"present"`
	Absent  int     `json:"absent"`
	Late    int     `json:"late"`
	Rate    float64 `json:"rate"`
}

type Performance struct {
	TripDuration    int     `json:"tripDuration"`
	UtilizationRate float64 `json:"utilizationRate"`
	IsOnTime        bool    `json:"isOnTime"`
}

// TripView is a trip with its references resolved and its dependent
// records aggregated.
type TripView struct {
	models.Trip
	Route       *models.Route   `json:"route"`
	Bus         *models.Bus     `json:"bus"`
	Driver      *models.User    `json:"driver"`
	Supervisor  *models.User    `json:"supervisor"`
	Bookings    BookingStats    `json:"bookings"`
	Payments    PaymentStats    `json:"payments"`
	Attendance  AttendanceStats `json:"attendance"`
	Performance Performance     `json:"performance"`
}

func EnrichTrip(idx *Index, t models.Trip) TripView {
	v := TripView{
		Trip:       t,
		Route:      idx.Route(t.RouteID),
		Bus:        idx.Bus(t.BusID),
		Driver:     idx.User(t.DriverID),
		Supervisor: idx.User(t.SupervisorID),
	}
	v.Bookings = CountBookings(idx.BookingsByTrip[t.ID])
	v.Payments = SumPayments(idx.PaymentsByTrip[t.ID], t.OperationalCost)
	v.Attendance = CountAttendance(idx.AttendanceByTrip[t.ID])
	v.Performance = Performance{
		TripDuration: t.DurationMinutes(),
		IsOnTime:     t.IsOnTime(),
	}
	if v.Bus != nil {
		v.Performance.UtilizationRate = Rate(t.Passengers, v.Bus.Capacity)
	}
	return v
}

func EnrichTrips(idx *Index, trips []models.Trip) []TripView {
	out := make([]TripView, 0, len(trips))
	for _, t := range trips {
		out = append(out, EnrichTrip(idx, t))
	}
	return out
}

// CountBookings tallies bookings by status.
func CountBookings(bookings []*models.Booking) BookingStats {
	var s BookingStats
	for _, b := range bookings {
		s.Total++
		switch b.Status {
		case models.BookingPending:
			s.Pending++
		case models.BookingConfirmed:
			s.Confirmed++
		case models.BookingCancelled:
			s.Cancelled++
		case models.BookingCompleted:
			s.Completed++
		}
	}
	s.ConfirmationRate = Rate(s.Confirmed, s.Total)
	return s
}

// SumPayments splits payment amounts into exactly one revenue bucket each
// and derives profit against operationalCost.
func SumPayments(payments []*models.Payment, operationalCost float64) PaymentStats {
	var completed, pending, failed decimal.Decimal
	for _, p := range payments {
		switch p.Status {
		case models.PaymentCompleted:
			completed = completed.Add(Money(p.Amount))
		case models.PaymentPending:
			pending = pending.Add(Money(p.Amount))
		case models.PaymentFailed:
			failed = failed.Add(Money(p.Amount))
		}
	}
	profit := completed.Sub(Money(operationalCost))
	return PaymentStats{
		Count:          len(payments),
		TotalRevenue:   Amount(completed),
		PendingRevenue: Amount(pending),
		FailedRevenue:  Amount(failed),
		Profit:         Amount(profit),
		ProfitMargin:   Ratio(profit, completed),
	}
}

func CountAttendance(records []*models.AttendanceRecord) AttendanceStats {
	var s AttendanceStats
	for _, a := range records {
		s.Total++
		switch a.Status {
		case models.AttendancePresent:
			s.Present++
		case models.AttendanceAbsent:
			s.Absent++
		case models.AttendanceLate:
			s.Late++
		}
	}
	s.Rate = Rate(s.Present, s.Total)
	return s
}

// TripSummary aggregates a trip list response.
type TripSummary struct {
	Total              int     `json:"total"`
	Scheduled          int     `json:"scheduled"`
	Active             int     `json:"active"`
	Completed          int     `json:"completed"`
	Cancelled          int     `json:"cancelled"`
	TotalPassengers    int     `json:"totalPassengers"`
	TotalRevenue       float64 `json:"totalRevenue"`
	TotalCost          float64 `json:"totalCost"`
	TotalProfit        float64 `json:"totalProfit"`
	OnTimeRate         float64 `json:"onTimeRate"`
	AverageUtilization float64 `json:"averageUtilization"`
}

func Summarize(trips []TripView) TripSummary {
	var s TripSummary
	var revenue, cost, utilization decimal.Decimal
	onTime := 0
	for _, t := range trips {
		s.Total++
		switch t.Status {
		case models.TripScheduled:
			s.Scheduled++
		case models.TripActive:
			s.Active++
		case models.TripCompleted:
			s.Completed++
		case models.TripCancelled:
			s.Cancelled++
		}
		s.TotalPassengers += t.Passengers
		revenue = revenue.Add(Money(t.Payments.TotalRevenue))
		cost = cost.Add(Money(t.OperationalCost))
		utilization = utilization.Add(decimal.NewFromFloat(t.Performance.UtilizationRate))
		if t.Performance.IsOnTime {
			onTime++
		}
	}
	s.TotalRevenue = Amount(revenue)
	s.TotalCost = Amount(cost)
	s.TotalProfit = Amount(revenue.Sub(cost))
	s.OnTimeRate = Rate(onTime, s.Total)
	s.AverageUtilization = Average(utilization, s.Total)
	return s
}
