package reports

import (
	"github.com/shopspring/decimal"

	"busops/internal/domain/models"
	"busops/internal/enrich"
)

type OverviewSummary struct {
	Trips        TripCounts             `json:"trips"`
	Bookings     enrich.BookingStats    `json:"bookings"`
	Attendance   enrich.AttendanceStats `json:"attendance"`
	Maintenance  MaintenanceCounts      `json:"maintenance"`
	TotalRevenue float64                `json:"totalRevenue"`
	Fleet        FleetStats             `json:"fleet"`
	Users        UserCounts             `json:"users"`
}

type OverviewGroup struct {
	RouteID        string  `json:"routeId"`
	RouteName      string  `json:"routeName"`
	Trips          int     `json:"trips"`
	CompletedTrips int     `json:"completedTrips"`
	Bookings       int     `json:"bookings"`
	Attendance     int     `json:"attendance"`
	Revenue        float64 `json:"revenue"`

	revenue decimal.Decimal
}

type OverviewBreakdown struct {
	ByRoute []OverviewGroup `json:"byRoute"`
}

func overview(s *scope) (any, any) {
	var completed decimal.Decimal
	byRoute := newGroups(func(key string) *OverviewGroup {
		return &OverviewGroup{RouteID: key, RouteName: s.routeName(key)}
	})
	for _, t := range s.trips {
		g := byRoute.at(s.routeKey(t))
		g.Trips++
		if t.Status == models.TripCompleted {
			g.CompletedTrips++
		}
	}
	for _, b := range s.bookings {
		byRoute.at(s.routeKey(s.idx.Trip(b.TripID))).Bookings++
	}
	for _, a := range s.attendance {
		byRoute.at(s.routeKey(s.idx.Trip(a.TripID))).Attendance++
	}
	for _, p := range s.payments {
		if p.Status != models.PaymentCompleted {
			continue
		}
		amount := enrich.Money(p.Amount)
		completed = completed.Add(amount)
		g := byRoute.at(s.routeKey(s.idx.Trip(p.TripID)))
		g.revenue = g.revenue.Add(amount)
	}

	summary := OverviewSummary{
		Trips:        countTrips(s.trips),
		Bookings:     enrich.CountBookings(s.bookings),
		Attendance:   enrich.CountAttendance(s.attendance),
		Maintenance:  countMaintenance(s.maintenance),
		TotalRevenue: enrich.Amount(completed),
		Fleet:        fleetStats(s.idx.Doc.Buses),
		Users:        countUsers(s.idx.Doc.Users),
	}
	breakdown := OverviewBreakdown{
		ByRoute: byRoute.list(func(g *OverviewGroup) { g.Revenue = enrich.Amount(g.revenue) }),
	}
	return summary, breakdown
}

type FinancialSummary struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	PendingRevenue    float64 `json:"pendingRevenue"`
	FailedRevenue     float64 `json:"failedRevenue"`
	Payments          int     `json:"payments"`
	TotalTrips        int     `json:"totalTrips"`
	RevenuePerTrip    float64 `json:"revenuePerTrip"`
	OperationalCost   float64 `json:"operationalCost"`
	Profit            float64 `json:"profit"`
	ProfitMargin      float64 `json:"profitMargin"`
	CompletedPayments int     `json:"completedPayments"`
}

type FinanceGroup struct {
	Key                   string  `json:"key"`
	Name                  string  `json:"name"`
	Trips                 int     `json:"trips"`
	Payments              int     `json:"payments"`
	Revenue               float64 `json:"revenue"`
	PendingRevenue        float64 `json:"pendingRevenue"`
	FailedRevenue         float64 `json:"failedRevenue"`
	OperationalCost       float64 `json:"operationalCost"`
	AverageRevenuePerTrip float64 `json:"averageRevenuePerTrip"`

	rev  revenue
	cost decimal.Decimal
}

func (g *FinanceGroup) finish() {
	g.Payments = g.rev.count
	g.Revenue = enrich.Amount(g.rev.completed)
	g.PendingRevenue = enrich.Amount(g.rev.pending)
	g.FailedRevenue = enrich.Amount(g.rev.failed)
	g.OperationalCost = enrich.Amount(g.cost)
	g.AverageRevenuePerTrip = enrich.Average(g.rev.completed, g.Trips)
}

type FinancialBreakdown struct {
	ByRoute []FinanceGroup `json:"byRoute"`
	ByBus   []FinanceGroup `json:"byBus"`
}

func financial(s *scope) (any, any) {
	var total revenue
	var cost decimal.Decimal
	completedPayments := 0
	byRoute := newGroups(func(key string) *FinanceGroup {
		return &FinanceGroup{Key: key, Name: s.routeName(key)}
	})
	byBus := newGroups(func(key string) *FinanceGroup {
		return &FinanceGroup{Key: key, Name: s.busNumber(key)}
	})

	for _, t := range s.trips {
		c := enrich.Money(t.OperationalCost)
		cost = cost.Add(c)
		for _, g := range []*FinanceGroup{byRoute.at(s.routeKey(t)), byBus.at(s.busKey(t))} {
			g.Trips++
			g.cost = g.cost.Add(c)
		}
	}
	for _, p := range s.payments {
		total.add(p)
		if p.Status == models.PaymentCompleted {
			completedPayments++
		}
		trip := s.idx.Trip(p.TripID)
		byRoute.at(s.routeKey(trip)).rev.add(p)
		byBus.at(s.busKey(trip)).rev.add(p)
	}

	profit := total.completed.Sub(cost)
	summary := FinancialSummary{
		TotalRevenue:      enrich.Amount(total.completed),
		PendingRevenue:    enrich.Amount(total.pending),
		FailedRevenue:     enrich.Amount(total.failed),
		Payments:          total.count,
		TotalTrips:        len(s.trips),
		RevenuePerTrip:    enrich.Average(total.completed, len(s.trips)),
		OperationalCost:   enrich.Amount(cost),
		Profit:            enrich.Amount(profit),
		ProfitMargin:      enrich.Ratio(profit, total.completed),
		CompletedPayments: completedPayments,
	}
	finish := func(g *FinanceGroup) { g.finish() }
	return summary, FinancialBreakdown{ByRoute: byRoute.list(finish), ByBus: byBus.list(finish)}
}

type OperationalSummary struct {
	Trips           TripCounts             `json:"trips"`
	Bookings        enrich.BookingStats    `json:"bookings"`
	Attendance      enrich.AttendanceStats `json:"attendance"`
	Passengers      int                    `json:"passengers"`
	AverageDuration float64                `json:"averageDuration"`
}

type OperationalGroup struct {
	RouteID    string                 `json:"routeId"`
	RouteName  string                 `json:"routeName"`
	Trips      TripCounts             `json:"trips"`
	Bookings   enrich.BookingStats    `json:"bookings"`
	Attendance enrich.AttendanceStats `json:"attendance"`
	Passengers int                    `json:"passengers"`

	bookings   []*models.Booking
	attendance []*models.AttendanceRecord
}

type OperationalBreakdown struct {
	ByRoute []OperationalGroup `json:"byRoute"`
}

func operational(s *scope) (any, any) {
	passengers, minutes := 0, 0
	byRoute := newGroups(func(key string) *OperationalGroup {
		return &OperationalGroup{RouteID: key, RouteName: s.routeName(key)}
	})
	for _, t := range s.trips {
		g := byRoute.at(s.routeKey(t))
		g.Trips.add(t)
		g.Passengers += t.Passengers
		passengers += t.Passengers
		minutes += t.DurationMinutes()
	}
	for _, b := range s.bookings {
		g := byRoute.at(s.routeKey(s.idx.Trip(b.TripID)))
		g.bookings = append(g.bookings, b)
	}
	for _, a := range s.attendance {
		g := byRoute.at(s.routeKey(s.idx.Trip(a.TripID)))
		g.attendance = append(g.attendance, a)
	}

	summary := OperationalSummary{
		Trips:           countTrips(s.trips),
		Bookings:        enrich.CountBookings(s.bookings),
		Attendance:      enrich.CountAttendance(s.attendance),
		Passengers:      passengers,
		AverageDuration: enrich.Average(decimal.NewFromInt(int64(minutes)), len(s.trips)),
	}
	breakdown := OperationalBreakdown{ByRoute: byRoute.list(func(g *OperationalGroup) {
		g.Trips.finish()
		g.Bookings = enrich.CountBookings(g.bookings)
		g.Attendance = enrich.CountAttendance(g.attendance)
	})}
	return summary, breakdown
}

type PerformanceSummary struct {
	Trips          int                    `json:"trips"`
	Completed      int                    `json:"completed"`
	Started        int                    `json:"started"`
	OnTime         int                    `json:"onTime"`
	CompletionRate float64                `json:"completionRate"`
	OnTimeRate     float64                `json:"onTimeRate"`
	Attendance     enrich.AttendanceStats `json:"attendance"`
	Maintenance    MaintenanceCounts      `json:"maintenance"`
}

type DriverPerformance struct {
	DriverID       string                 `json:"driverId"`
	Name           string                 `json:"name"`
	Trips          int                    `json:"trips"`
	Completed      int                    `json:"completed"`
	Started        int                    `json:"started"`
	OnTime         int                    `json:"onTime"`
	CompletionRate float64                `json:"completionRate"`
	OnTimeRate     float64                `json:"onTimeRate"`
	Attendance     enrich.AttendanceStats `json:"attendance"`

	attendance []*models.AttendanceRecord
}

type PerformanceBreakdown struct {
	ByDriver []DriverPerformance `json:"byDriver"`
}

// performance measures on-time rate over trips that recorded an actual
// start, using Trip.IsOnTime.
func performance(s *scope) (any, any) {
	var sum PerformanceSummary
	byDriver := newGroups(func(key string) *DriverPerformance {
		return &DriverPerformance{DriverID: key, Name: s.userName(key)}
	})
	for _, t := range s.trips {
		g := byDriver.at(s.driverKey(t))
		g.Trips++
		sum.Trips++
		if t.Status == models.TripCompleted {
			g.Completed++
			sum.Completed++
		}
		if t.ActualStartTime != "" {
			g.Started++
			sum.Started++
		}
		if t.IsOnTime() {
			g.OnTime++
			sum.OnTime++
		}
	}
	for _, a := range s.attendance {
		g := byDriver.at(s.driverKey(s.idx.Trip(a.TripID)))
		g.attendance = append(g.attendance, a)
	}

	sum.CompletionRate = enrich.Rate(sum.Completed, sum.Trips)
	sum.OnTimeRate = enrich.Rate(sum.OnTime, sum.Started)
	sum.Attendance = enrich.CountAttendance(s.attendance)
	sum.Maintenance = countMaintenance(s.maintenance)

	breakdown := PerformanceBreakdown{ByDriver: byDriver.list(func(g *DriverPerformance) {
		g.CompletionRate = enrich.Rate(g.Completed, g.Trips)
		g.OnTimeRate = enrich.Rate(g.OnTime, g.Started)
		g.Attendance = enrich.CountAttendance(g.attendance)
	})}
	return sum, breakdown
}

type MaintenanceGroup struct {
	BusID     string `json:"busId"`
	BusNumber string `json:"busNumber"`
	MaintenanceCounts
}

type MaintenanceBreakdown struct {
	ByBus []MaintenanceGroup `json:"byBus"`
}

func maintenance(s *scope) (any, any) {
	byBus := newGroups(func(key string) *MaintenanceGroup {
		return &MaintenanceGroup{BusID: key, BusNumber: s.busNumber(key), MaintenanceCounts: newMaintenanceCounts()}
	})
	for _, m := range s.maintenance {
		byBus.at(s.busKeyOf(m.BusID)).add(m)
	}
	breakdown := MaintenanceBreakdown{ByBus: byBus.list(func(g *MaintenanceGroup) { g.finish() })}
	return countMaintenance(s.maintenance), breakdown
}

type UserSummary struct {
	Users      UserCounts `json:"users"`
	Bookings   int        `json:"bookings"`
	Payments   int        `json:"payments"`
	AmountPaid float64    `json:"amountPaid"`
	Attendance int        `json:"attendance"`
	Trips      int        `json:"trips"`
	Completed  int        `json:"completed"`
}

type StudentActivity struct {
	StudentID  string  `json:"studentId"`
	Name       string  `json:"name"`
	Bookings   int     `json:"bookings"`
	Payments   int     `json:"payments"`
	AmountPaid float64 `json:"amountPaid"`
	Attendance int     `json:"attendance"`

	paid decimal.Decimal
}

type DriverActivity struct {
	DriverID       string  `json:"driverId"`
	Name           string  `json:"name"`
	Trips          int     `json:"trips"`
	Completed      int     `json:"completed"`
	CompletionRate float64 `json:"completionRate"`
}

type UserBreakdown struct {
	Students []StudentActivity `json:"students"`
	Drivers  []DriverActivity  `json:"drivers"`
}

// userActivity lists every student and driver, including those with no
// activity in range.
func userActivity(s *scope) (any, any) {
	students := newGroups(func(key string) *StudentActivity {
		return &StudentActivity{StudentID: key, Name: s.userName(key)}
	})
	drivers := newGroups(func(key string) *DriverActivity {
		return &DriverActivity{DriverID: key, Name: s.userName(key)}
	})
	for _, u := range s.idx.Doc.Users {
		switch u.Role {
		case models.RoleStudent:
			students.at(u.ID)
		case models.RoleDriver:
			drivers.at(u.ID)
		}
	}

	sum := UserSummary{Users: countUsers(s.idx.Doc.Users)}
	var paid decimal.Decimal
	for _, b := range s.bookings {
		students.at(s.studentKey(b.StudentID)).Bookings++
		sum.Bookings++
	}
	for _, p := range s.payments {
		g := students.at(s.studentKey(p.StudentID))
		g.Payments++
		sum.Payments++
		if p.Status == models.PaymentCompleted {
			g.paid = g.paid.Add(enrich.Money(p.Amount))
			paid = paid.Add(enrich.Money(p.Amount))
		}
	}
	for _, a := range s.attendance {
		students.at(s.studentKey(a.StudentID)).Attendance++
		sum.Attendance++
	}
	for _, t := range s.trips {
		g := drivers.at(s.driverKey(t))
		g.Trips++
		sum.Trips++
		if t.Status == models.TripCompleted {
			g.Completed++
			sum.Completed++
		}
	}
	sum.AmountPaid = enrich.Amount(paid)

	breakdown := UserBreakdown{
		Students: students.list(func(g *StudentActivity) { g.AmountPaid = enrich.Amount(g.paid) }),
		Drivers: drivers.list(func(g *DriverActivity) {
			g.CompletionRate = enrich.Rate(g.Completed, g.Trips)
		}),
	}
	return sum, breakdown
}
