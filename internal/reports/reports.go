// Package reports computes summary and breakdown reports over a date and
// entity filtered view of the document.
//
// Only trips are narrowed by the entity filters (route, bus, driver,
// supervisor). Bookings, payments, attendance and maintenance are narrowed
// by the date range alone, so a booking in range is reported even when its
// trip was filtered out.
//
// Every count and amount in a breakdown sums to the matching summary
// field. Records whose grouping key does not resolve are reported under
// the Unassigned group rather than dropped.
package reports

import (
	"slices"
	"strings"
	"time"

	"busops/internal/domain"
	"busops/internal/domain/models"
	"busops/internal/enrich"
)

const (
	TypeOverview    = "overview"
	TypeFinancial   = "financial"
	TypeOperational = "operational"
	TypePerformance = "performance"
	TypeMaintenance = "maintenance"
	TypeUser        = "user"
)

var Types = []string{TypeOverview, TypeFinancial, TypeOperational, TypePerformance, TypeMaintenance, TypeUser}

// Unassigned is the group key for records whose reference is empty or
// dangling.
const Unassigned = "unassigned"

type Filter struct {
	Type         string `json:"type" form:"type"`
	DateFrom     string `json:"dateFrom,omitempty" form:"dateFrom"`
	DateTo       string `json:"dateTo,omitempty" form:"dateTo"`
	RouteID      string `json:"routeId,omitempty" form:"routeId"`
	BusID        string `json:"busId,omitempty" form:"busId"`
	DriverID     string `json:"driverId,omitempty" form:"driverId"`
	SupervisorID string `json:"supervisorId,omitempty" form:"supervisorId"`
}

type Report struct {
	Type        string    `json:"type"`
	Filters     Filter    `json:"filters"`
	GeneratedAt time.Time `json:"generatedAt"`
	Summary     any       `json:"summary"`
	Breakdown   any       `json:"breakdown"`
}

var builders = map[string]func(s *scope) (any, any){
	TypeOverview:    overview,
	TypeFinancial:   financial,
	TypeOperational: operational,
	TypePerformance: performance,
	TypeMaintenance: maintenance,
	TypeUser:        userActivity,
}

// Build computes the report named by f.Type (overview when empty) over doc.
func Build(doc *models.Document, f Filter) (*Report, error) {
	if f.Type == "" {
		f.Type = TypeOverview
	}
	build, ok := builders[f.Type]
	if !ok {
		return nil, domain.ValidationError{Field: "type", Msg: "must be one of: " + strings.Join(Types, ", ")}
	}
	dates, err := enrich.ParseDateRange(f.DateFrom, f.DateTo)
	if err != nil {
		field := "dateTo"
		if _, e := enrich.ParseDateRange(f.DateFrom, ""); e != nil {
			field = "dateFrom"
		}
		return nil, domain.ValidationError{Field: field, Msg: "must use format YYYY-MM-DD", Err: err}
	}
	if !dates.From.IsZero() && !dates.To.IsZero() && dates.From.After(dates.To) {
		return nil, domain.ValidationError{Field: "dateFrom", Msg: "must not be after dateTo"}
	}

	s := newScope(doc, f, dates)
	summary, breakdown := build(s)
	return &Report{
		Type:        f.Type,
		Filters:     f,
		GeneratedAt: time.Now(),
		Summary:     summary,
		Breakdown:   breakdown,
	}, nil
}

// scope is the filtered view every report is computed from. The index
// covers the whole document so references outside the filter still
// resolve.
type scope struct {
	idx         *enrich.Index
	trips       []*models.Trip
	bookings    []*models.Booking
	payments    []*models.Payment
	attendance  []*models.AttendanceRecord
	maintenance []*models.MaintenanceRecord
}

func newScope(doc *models.Document, f Filter, dates enrich.DateRange) *scope {
	s := &scope{idx: enrich.NewIndex(doc)}
	for i := range doc.Trips {
		t := &doc.Trips[i]
		if !dates.Contains(t.Date) {
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
		s.trips = append(s.trips, t)
	}
	for i := range doc.Bookings {
		if dates.Contains(doc.Bookings[i].Date) {
			s.bookings = append(s.bookings, &doc.Bookings[i])
		}
	}
	for i := range doc.Payments {
		if dates.Contains(doc.Payments[i].Date) {
			s.payments = append(s.payments, &doc.Payments[i])
		}
	}
	for i := range doc.Attendance {
		if dates.Contains(doc.Attendance[i].Date) {
			s.attendance = append(s.attendance, &doc.Attendance[i])
		}
	}
	for i := range doc.Maintenance {
		if dates.Contains(doc.Maintenance[i].DateLike()) {
			s.maintenance = append(s.maintenance, &doc.Maintenance[i])
		}
	}
	return s
}

func (s *scope) routeKey(t *models.Trip) string {
	if t == nil || s.idx.Route(t.RouteID) == nil {
		return Unassigned
	}
	return t.RouteID
}

func (s *scope) busKey(t *models.Trip) string {
	if t == nil {
		return Unassigned
	}
	return s.busKeyOf(t.BusID)
}

func (s *scope) busKeyOf(busID string) string {
	if s.idx.Bus(busID) == nil {
		return Unassigned
	}
	return busID
}

func (s *scope) driverKey(t *models.Trip) string {
	if t == nil {
		return Unassigned
	}
	return s.roleKey(t.DriverID, models.RoleDriver)
}

func (s *scope) studentKey(id string) string {
	return s.roleKey(id, models.RoleStudent)
}

// roleKey is id when it names a user holding role, Unassigned otherwise.
func (s *scope) roleKey(id string, role models.Role) string {
	if u := s.idx.User(id); u == nil || u.Role != role {
		return Unassigned
	}
	return id
}

func (s *scope) routeName(key string) string {
	if r := s.idx.Route(key); r != nil {
		return r.Name
	}
	return "Unassigned"
}

func (s *scope) busNumber(key string) string {
	if b := s.idx.Bus(key); b != nil {
		return b.Number
	}
	return "Unassigned"
}

func (s *scope) userName(key string) string {
	if name := s.idx.UserName(key); name != "" {
		return name
	}
	return "Unassigned"
}

// groups accumulates breakdown entries in first-seen order, with the
// Unassigned entry last.
type groups[G any] struct {
	keys     []string
	byKey    map[string]*G
	newEntry func(key string) *G
}

func newGroups[G any](mk func(key string) *G) *groups[G] {
	return &groups[G]{byKey: map[string]*G{}, newEntry: mk}
}

func (g *groups[G]) at(key string) *G {
	if v, ok := g.byKey[key]; ok {
		return v
	}
	v := g.newEntry(key)
	g.byKey[key] = v
	g.keys = append(g.keys, key)
	return v
}

func (g *groups[G]) list(finish func(*G)) []G {
	keys := slices.Clone(g.keys)
	if i := slices.Index(keys, Unassigned); i >= 0 {
		keys = append(slices.Delete(keys, i, i+1), Unassigned)
	}
	out := make([]G, 0, len(keys))
	for _, k := range keys {
		v := g.byKey[k]
		if finish != nil {
			finish(v)
		}
		out = append(out, *v)
	}
	return out
}
