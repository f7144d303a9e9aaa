// Package enrich resolves foreign keys across the collections of a document
// snapshot and attaches per-record metrics. Every lookup is null-safe: a
// dangling reference resolves to nil and an empty dependent set yields zero
// counts and rates.
package enrich

import "busops/internal/domain/models"

// Index holds id lookups over one document snapshot. Build it once per
// request; it must not outlive the snapshot it was built from.
type Index struct {
	Doc *models.Document

	Trips    map[string]*models.Trip
	Routes   map[string]*models.Route
	Buses    map[string]*models.Bus
	Users    map[string]*models.User
	Bookings map[string]*models.Booking

	BookingsByTrip   map[string][]*models.Booking
	PaymentsByTrip   map[string][]*models.Payment
	AttendanceByTrip map[string][]*models.AttendanceRecord
}

func NewIndex(doc *models.Document) *Index {
	idx := &Index{
		Doc:              doc,
		Trips:            make(map[string]*models.Trip, len(doc.Trips)),
		Routes:           make(map[string]*models.Route, len(doc.Routes)),
		Buses:            make(map[string]*models.Bus, len(doc.Buses)),
		Users:            make(map[string]*models.User, len(doc.Users)),
		Bookings:         make(map[string]*models.Booking, len(doc.Bookings)),
		BookingsByTrip:   map[string][]*models.Booking{},
		PaymentsByTrip:   map[string][]*models.Payment{},
		AttendanceByTrip: map[string][]*models.AttendanceRecord{},
	}
	for i := range doc.Trips {
		idx.Trips[doc.Trips[i].ID] = &doc.Trips[i]
	}
	for i := range doc.Routes {
		idx.Routes[doc.Routes[i].ID] = &doc.Routes[i]
	}
	for i := range doc.Buses {
		idx.Buses[doc.Buses[i].ID] = &doc.Buses[i]
	}
	for i := range doc.Users {
		idx.Users[doc.Users[i].ID] = &doc.Users[i]
	}
	for i := range doc.Bookings {
		b := &doc.Bookings[i]
		idx.Bookings[b.ID] = b
		idx.BookingsByTrip[b.TripID] = append(idx.BookingsByTrip[b.TripID], b)
	}
	for i := range doc.Payments {
		p := &doc.Payments[i]
		idx.PaymentsByTrip[p.TripID] = append(idx.PaymentsByTrip[p.TripID], p)
	}
	for i := range doc.Attendance {
		a := &doc.Attendance[i]
		idx.AttendanceByTrip[a.TripID] = append(idx.AttendanceByTrip[a.TripID], a)
	}
	return idx
}

func (idx *Index) Route(id string) *models.Route {
	if id == "" {
		return nil
	}
	return idx.Routes[id]
}

func (idx *Index) Bus(id string) *models.Bus {
	if id == "" {
		return nil
	}
	return idx.Buses[id]
}

func (idx *Index) Trip(id string) *models.Trip {
	if id == "" {
		return nil
	}
	return idx.Trips[id]
}

func (idx *Index) Booking(id string) *models.Booking {
	if id == "" {
		return nil
	}
	return idx.Bookings[id]
}

// User returns a credential-free copy of the user, or nil.
func (idx *Index) User(id string) *models.User {
	if id == "" {
		return nil
	}
	u, ok := idx.Users[id]
	if !ok {
		return nil
	}
	pub := u.Public()
	return &pub
}

// UserName is "" for unresolved ids.
func (idx *Index) UserName(id string) string {
	if u := idx.Users[id]; u != nil {
		return u.Name
	}
	return ""
}
