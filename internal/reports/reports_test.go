package reports

import (
	"bytes"
	"testing"
	"time"

	"busops/internal/domain"
	"busops/internal/domain/models"
)

func fixture() *models.Document {
	doc := models.NewDocument()
	doc.Routes = []models.Route{
		{Meta: models.Meta{ID: "r1"}, Name: "North Loop"},
		{Meta: models.Meta{ID: "r2"}, Name: "South Express"},
	}
	doc.Buses = []models.Bus{
		{Meta: models.Meta{ID: "b1"}, Number: "BUS-01", Capacity: 40, Status: models.BusActive},
		{Meta: models.Meta{ID: "b2"}, Number: "BUS-02", Capacity: 30, Status: models.BusMaintenance},
	}
	doc.Users = []models.User{
		{Meta: models.Meta{ID: "d1"}, Name: "Driver One", Role: models.RoleDriver},
		{Meta: models.Meta{ID: "d2"}, Name: "Driver Two", Role: models.RoleDriver},
		{Meta: models.Meta{ID: "s1"}, Name: "Supervisor", Role: models.RoleSupervisor},
		{Meta: models.Meta{ID: "st1"}, Name: "Student One", Role: models.RoleStudent},
		{Meta: models.Meta{ID: "st2"}, Name: "Student Two", Role: models.RoleStudent},
		{Meta: models.Meta{ID: "st3"}, Name: "Idle Student", Role: models.RoleStudent},
	}
	doc.Trips = []models.Trip{
		{Meta: models.Meta{ID: "t1"}, RouteID: "r1", BusID: "b1", DriverID: "d1", SupervisorID: "s1", Date: "2024-01-10",
			StartTime: "07:00", EndTime: "08:00", ActualStartTime: "07:03", Status: models.TripCompleted, Passengers: 20, OperationalCost: 5},
		{Meta: models.Meta{ID: "t2"}, RouteID: "r2", BusID: "b2", DriverID: "d2", Date: "2024-01-11",
			StartTime: "09:00", EndTime: "10:30", Status: models.TripScheduled, Passengers: 10},
		{Meta: models.Meta{ID: "t3"}, RouteID: "r1", BusID: "b1", DriverID: "d1", Date: "2024-01-12",
			StartTime: "07:00", EndTime: "08:00", Status: models.TripCancelled},
		{Meta: models.Meta{ID: "t4"}, RouteID: "r-gone", BusID: "b-gone", Date: "2024-01-10",
			StartTime: "12:00", EndTime: "13:00", ActualStartTime: "12:20", Status: models.TripCompleted, Passengers: 5, OperationalCost: 2.5},
	}
	doc.Bookings = []models.Booking{
		{Meta: models.Meta{ID: "bk1"}, TripID: "t1", StudentID: "st1", Status: models.BookingConfirmed, Date: "2024-01-10"},
		{Meta: models.Meta{ID: "bk2"}, TripID: "t2", StudentID: "st2", Status: models.BookingPending, Date: "2024-01-11"},
		{Meta: models.Meta{ID: "bk3"}, TripID: "t-gone", StudentID: "st-gone", Status: models.BookingConfirmed, Date: "2024-01-10"},
		{Meta: models.Meta{ID: "bk4"}, TripID: "t3", StudentID: "st1", Status: models.BookingCancelled, Date: "2024-01-12"},
	}
	doc.Payments = []models.Payment{
		{Meta: models.Meta{ID: "p1"}, TripID: "t1", StudentID: "st1", Amount: 10.5, Status: models.PaymentCompleted, Date: "2024-01-10"},
		{Meta: models.Meta{ID: "p2"}, TripID: "t2", StudentID: "st2", Amount: 20.25, Status: models.PaymentPending, Date: "2024-01-11"},
		{Meta: models.Meta{ID: "p3"}, TripID: "t-gone", StudentID: "st1", Amount: 5, Status: models.PaymentFailed, Date: "2024-01-10"},
		{Meta: models.Meta{ID: "p4"}, TripID: "t4", StudentID: "st2", Amount: 30, Status: models.PaymentCompleted, Date: "2024-01-10"},
		{Meta: models.Meta{ID: "p5"}, TripID: "t3", StudentID: "st-gone", Amount: 8, Status: models.PaymentCompleted, Date: "2024-01-12"},
	}
	doc.Attendance = []models.AttendanceRecord{
		{Meta: models.Meta{ID: "a1"}, TripID: "t1", StudentID: "st1", Status: models.AttendancePresent, Date: "2024-01-10"},
		{Meta: models.Meta{ID: "a2"}, TripID: "t2", StudentID: "st2", Status: models.AttendanceAbsent, Date: "2024-01-11"},
		{Meta: models.Meta{ID: "a3"}, TripID: "t-gone", StudentID: "st-gone", Status: models.AttendanceLate, Date: "2024-01-10"},
	}
	doc.Maintenance = []models.MaintenanceRecord{
		{Meta: models.Meta{ID: "m1"}, BusID: "b1", Status: models.MaintenanceCompleted, Priority: "high",
			EstimatedCost: 100, ActualCost: 120, Date: "2024-01-10"},
		{Meta: models.Meta{ID: "m2", CreatedAt: time.Date(2024, 1, 11, 9, 0, 0, 0, time.Local)}, BusID: "b-gone",
			Status: models.MaintenanceOpen, Priority: "medium", EstimatedCost: 50},
		{Meta: models.Meta{ID: "m3"}, BusID: "b2", Status: models.MaintenanceInProgress, Priority: "critical",
			EstimatedCost: 30, Date: "2024-01-12"},
	}
	return doc
}

func build(t *testing.T, doc *models.Document, f Filter) *Report {
	t.Helper()
	r, err := Build(doc, f)
	if err != nil {
		t.Fatalf("build %s: %v", f.Type, err)
	}
	return r
}

func TestFinancialRevenueConservation(t *testing.T) {
	doc := fixture()
	s := build(t, doc, Filter{Type: TypeFinancial}).Summary.(FinancialSummary)

	var all float64
	for _, p := range doc.Payments {
		all += p.Amount
	}
	if got := s.TotalRevenue + s.PendingRevenue + s.FailedRevenue; got != all {
		t.Fatalf("revenue buckets sum to %v, payments sum to %v", got, all)
	}
	if s.TotalRevenue != 48.5 || s.PendingRevenue != 20.25 || s.FailedRevenue != 5 {
		t.Fatalf("unexpected buckets: %+v", s)
	}

	doc.Payments[1].Status = models.PaymentCompleted
	moved := build(t, doc, Filter{Type: TypeFinancial}).Summary.(FinancialSummary)
	if moved.TotalRevenue != s.TotalRevenue+20.25 || moved.PendingRevenue != s.PendingRevenue-20.25 {
		t.Fatalf("payment amount did not move between buckets: before %+v after %+v", s, moved)
	}
	if moved.TotalRevenue+moved.PendingRevenue+moved.FailedRevenue != all {
		t.Fatalf("moving a payment changed the total")
	}
}

func TestFinancialBreakdownConservation(t *testing.T) {
	r := build(t, fixture(), Filter{Type: TypeFinancial})
	s := r.Summary.(FinancialSummary)
	b := r.Breakdown.(FinancialBreakdown)

	for name, groups := range map[string][]FinanceGroup{"route": b.ByRoute, "bus": b.ByBus} {
		var trips, payments int
		var revenue, pending, failed, cost float64
		for _, g := range groups {
			trips += g.Trips
			payments += g.Payments
			revenue += g.Revenue
			pending += g.PendingRevenue
			failed += g.FailedRevenue
			cost += g.OperationalCost
		}
		if trips != s.TotalTrips || payments != s.Payments {
			t.Fatalf("by %s: counts %d/%d, summary %d/%d", name, trips, payments, s.TotalTrips, s.Payments)
		}
		if revenue != s.TotalRevenue || pending != s.PendingRevenue || failed != s.FailedRevenue || cost != s.OperationalCost {
			t.Fatalf("by %s: amounts do not add up to the summary", name)
		}
		if last := groups[len(groups)-1]; last.Key != Unassigned {
			t.Fatalf("by %s: expected unassigned group last, got %s", name, last.Key)
		}
	}
}

func TestOverviewBreakdownConservation(t *testing.T) {
	r := build(t, fixture(), Filter{Type: TypeOverview})
	s := r.Summary.(OverviewSummary)
	var trips, completed, bookings, attendance int
	var revenue float64
	for _, g := range r.Breakdown.(OverviewBreakdown).ByRoute {
		trips += g.Trips
		completed += g.CompletedTrips
		bookings += g.Bookings
		attendance += g.Attendance
		revenue += g.Revenue
	}
	if trips != s.Trips.Total || completed != s.Trips.Completed || bookings != s.Bookings.Total ||
		attendance != s.Attendance.Total || revenue != s.TotalRevenue {
		t.Fatalf("breakdown does not add up: summary %+v", s)
	}
	if s.Fleet.TotalBuses != 2 || s.Fleet.UtilizationRate != 50 {
		t.Fatalf("unexpected fleet stats: %+v", s.Fleet)
	}
	if s.Users.ByRole["student"] != 3 || s.Users.ByRole["admin"] != 0 {
		t.Fatalf("unexpected role counts: %+v", s.Users.ByRole)
	}
}

func TestOperationalBreakdownConservation(t *testing.T) {
	r := build(t, fixture(), Filter{Type: TypeOperational})
	s := r.Summary.(OperationalSummary)
	var trips, completed, bookings, confirmed, attendance, present, passengers int
	for _, g := range r.Breakdown.(OperationalBreakdown).ByRoute {
		trips += g.Trips.Total
		completed += g.Trips.Completed
		bookings += g.Bookings.Total
		confirmed += g.Bookings.Confirmed
		attendance += g.Attendance.Total
		present += g.Attendance.Present
		passengers += g.Passengers
	}
	if trips != s.Trips.Total || completed != s.Trips.Completed || bookings != s.Bookings.Total ||
		confirmed != s.Bookings.Confirmed || attendance != s.Attendance.Total || present != s.Attendance.Present ||
		passengers != s.Passengers {
		t.Fatalf("breakdown does not add up: summary %+v", s)
	}
}

func TestPerformanceUsesToleranceAndConserves(t *testing.T) {
	r := build(t, fixture(), Filter{Type: TypePerformance})
	s := r.Summary.(PerformanceSummary)
	if s.Started != 2 || s.OnTime != 1 || s.OnTimeRate != 50 {
		t.Fatalf("expected one of two started trips on time: %+v", s)
	}
	var trips, onTime, attendance int
	for _, g := range r.Breakdown.(PerformanceBreakdown).ByDriver {
		trips += g.Trips
		onTime += g.OnTime
		attendance += g.Attendance.Total
		if g.DriverID == "d1" && g.OnTimeRate != 100 {
			t.Fatalf("driver one started 3 minutes late and is on time: %+v", g)
		}
	}
	if trips != s.Trips || onTime != s.OnTime || attendance != s.Attendance.Total {
		t.Fatalf("breakdown does not add up: summary %+v", s)
	}
}

func TestMaintenanceBreakdownConservation(t *testing.T) {
	r := build(t, fixture(), Filter{Type: TypeMaintenance})
	s := r.Summary.(MaintenanceCounts)
	if s.CostVariance != -60 || s.ByPriority["critical"] != 1 || s.ByPriority["low"] != 0 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	var total, open int
	var estimated, actual float64
	priority := map[string]int{}
	for _, g := range r.Breakdown.(MaintenanceBreakdown).ByBus {
		total += g.Total
		open += g.Open
		estimated += g.EstimatedCost
		actual += g.ActualCost
		for k, v := range g.ByPriority {
			priority[k] += v
		}
	}
	if total != s.Total || open != s.Open || estimated != s.EstimatedCost || actual != s.ActualCost {
		t.Fatalf("breakdown does not add up: summary %+v", s)
	}
	for k, v := range s.ByPriority {
		if priority[k] != v {
			t.Fatalf("priority %s: breakdown %d, summary %d", k, priority[k], v)
		}
	}
}

func TestMaintenanceDateFallsBackToCreatedAt(t *testing.T) {
	r := build(t, fixture(), Filter{Type: TypeMaintenance, DateFrom: "2024-01-11", DateTo: "2024-01-11"})
	s := r.Summary.(MaintenanceCounts)
	if s.Total != 1 || s.Open != 1 {
		t.Fatalf("expected only the record created on 2024-01-11: %+v", s)
	}
}

func TestUserActivityConservation(t *testing.T) {
	r := build(t, fixture(), Filter{Type: TypeUser})
	s := r.Summary.(UserSummary)
	b := r.Breakdown.(UserBreakdown)

	var bookings, payments, attendance, trips int
	var paid float64
	idle := false
	for _, g := range b.Students {
		bookings += g.Bookings
		payments += g.Payments
		attendance += g.Attendance
		paid += g.AmountPaid
		if g.StudentID == "st3" {
			idle = true
		}
	}
	for _, g := range b.Drivers {
		trips += g.Trips
	}
	if !idle {
		t.Fatalf("students without activity must still be listed")
	}
	if bookings != s.Bookings || payments != s.Payments || attendance != s.Attendance || paid != s.AmountPaid || trips != s.Trips {
		t.Fatalf("breakdown does not add up: summary %+v", s)
	}
}

func TestOverviewInclusiveDateFilter(t *testing.T) {
	doc := models.NewDocument()
	doc.Trips = []models.Trip{
		{Meta: models.Meta{ID: "a"}, RouteID: "r", Date: "2024-01-10", StartTime: "07:00", EndTime: "08:00", Status: models.TripCompleted},
		{Meta: models.Meta{ID: "b"}, RouteID: "r", Date: "2024-01-11", StartTime: "07:00", EndTime: "08:00", Status: models.TripScheduled},
		{Meta: models.Meta{ID: "c"}, RouteID: "r", Date: "2024-01-12", StartTime: "07:00", EndTime: "08:00", Status: models.TripCancelled},
	}
	s := build(t, doc, Filter{Type: TypeOverview, DateFrom: "2024-01-10", DateTo: "2024-01-11"}).Summary.(OverviewSummary)
	if s.Trips.Total != 2 {
		t.Fatalf("expected 2 trips, got %d", s.Trips.Total)
	}
	if s.Trips.Cancelled != 0 || s.Trips.CompletionRate != 50 {
		t.Fatalf("completion rate must be over the 2 trips in range: %+v", s.Trips)
	}

	single := build(t, doc, Filter{Type: TypeOverview, DateFrom: "2024-01-12", DateTo: "2024-01-12"}).Summary.(OverviewSummary)
	if single.Trips.Total != 1 {
		t.Fatalf("dateFrom == dateTo must include that day, got %d", single.Trips.Total)
	}
}

func TestEntityFiltersOnlyNarrowTrips(t *testing.T) {
	r := build(t, fixture(), Filter{Type: TypeOperational, RouteID: "r2"})
	s := r.Summary.(OperationalSummary)
	if s.Trips.Total != 1 {
		t.Fatalf("expected the single r2 trip, got %d", s.Trips.Total)
	}
	if s.Bookings.Total != 4 {
		t.Fatalf("bookings are not narrowed by entity filters, got %d", s.Bookings.Total)
	}
}

func TestBuildRejectsBadInput(t *testing.T) {
	doc := fixture()
	cases := []struct {
		f     Filter
		field string
	}{
		{Filter{Type: "weekly"}, "type"},
		{Filter{Type: TypeOverview, DateFrom: "10/01/2024"}, "dateFrom"},
		{Filter{Type: TypeOverview, DateTo: "tomorrow"}, "dateTo"},
		{Filter{Type: TypeOverview, DateFrom: "2024-01-12", DateTo: "2024-01-10"}, "dateFrom"},
	}
	for _, tc := range cases {
		_, err := Build(doc, tc.f)
		ve, ok := err.(domain.ValidationError)
		if !ok {
			t.Fatalf("%+v: expected validation error, got %v", tc.f, err)
		}
		if ve.Field != tc.field {
			t.Fatalf("%+v: expected field %s, got %s", tc.f, tc.field, ve.Field)
		}
	}

	r, err := Build(doc, Filter{})
	if err != nil || r.Type != TypeOverview {
		t.Fatalf("empty type defaults to overview, got %v %v", r, err)
	}
}

func TestRenderPDF(t *testing.T) {
	for _, typ := range Types {
		r := build(t, fixture(), Filter{Type: typ})
		data, name, err := RenderPDF(r)
		if err != nil {
			t.Fatalf("%s: render: %v", typ, err)
		}
		if !bytes.HasPrefix(data, []byte("%PDF")) {
			t.Fatalf("%s: output is not a PDF", typ)
		}
		if name == "" {
			t.Fatalf("%s: expected a filename", typ)
		}
	}
}

func TestUserActivityKeysByRole(t *testing.T) {
	doc := fixture()
	doc.Bookings = append(doc.Bookings,
		models.Booking{Meta: models.Meta{ID: "bk-driver"}, TripID: "t1", StudentID: "d1", Status: models.BookingPending, Date: "2024-01-10"})
	doc.Payments = append(doc.Payments,
		models.Payment{Meta: models.Meta{ID: "p-admin"}, TripID: "t1", StudentID: "s1", Amount: 3, Status: models.PaymentCompleted, Date: "2024-01-10"})
	doc.Trips = append(doc.Trips,
		models.Trip{Meta: models.Meta{ID: "t-st"}, RouteID: "r1", DriverID: "st1", Date: "2024-01-10", StartTime: "09:00", EndTime: "10:00", Status: models.TripScheduled})

	r := build(t, doc, Filter{Type: TypeUser})
	s := r.Summary.(UserSummary)
	b := r.Breakdown.(UserBreakdown)

	var bookings, payments, trips int
	for _, g := range b.Students {
		if g.StudentID == "d1" || g.StudentID == "s1" {
			t.Fatalf("non-student listed as student: %+v", g)
		}
		bookings += g.Bookings
		payments += g.Payments
	}
	for _, g := range b.Drivers {
		if g.DriverID == "st1" {
			t.Fatalf("student listed as driver: %+v", g)
		}
		trips += g.Trips
	}
	if bookings != s.Bookings || payments != s.Payments || trips != s.Trips {
		t.Fatalf("breakdown does not add up: summary %+v", s)
	}
	last := b.Students[len(b.Students)-1]
	if last.StudentID != Unassigned || last.Bookings < 1 || last.Payments < 1 {
		t.Fatalf("expected non-student references under %s, got %+v", Unassigned, last)
	}
}
