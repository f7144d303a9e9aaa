package models

import "slices"

// Document is the whole persisted state: one array per collection.
type Document struct {
	Trips         []Trip              `json:"trips"`
	Routes        []Route             `json:"routes"`
	Buses         []Bus               `json:"buses"`
	Users         []User              `json:"users"`
	Bookings      []Booking           `json:"bookings"`
	Payments      []Payment           `json:"payments"`
	Attendance    []AttendanceRecord  `json:"attendance"`
	Maintenance   []MaintenanceRecord `json:"maintenance"`
	Notifications []Notification      `json:"notifications"`
}

func NewDocument() *Document {
	d := &Document{}
	d.Normalize()
	return d
}

// Normalize replaces missing collections with empty ones so the document
// always serializes every array.
func (d *Document) Normalize() {
	if d.Trips == nil {
		d.Trips = []Trip{}
	}
	if d.Routes == nil {
		d.Routes = []Route{}
	}
	if d.Buses == nil {
		d.Buses = []Bus{}
	}
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.Bookings == nil {
		d.Bookings = []Booking{}
	}
	if d.Payments == nil {
		d.Payments = []Payment{}
	}
	if d.Attendance == nil {
		d.Attendance = []AttendanceRecord{}
	}
	if d.Maintenance == nil {
		d.Maintenance = []MaintenanceRecord{}
	}
	if d.Notifications == nil {
		d.Notifications = []Notification{}
	}
}

// Clone returns a deep copy that shares no mutable state with d.
func (d *Document) Clone() *Document {
	out := &Document{
		Trips:         slices.Clone(d.Trips),
		Routes:        slices.Clone(d.Routes),
		Buses:         slices.Clone(d.Buses),
		Users:         slices.Clone(d.Users),
		Bookings:      slices.Clone(d.Bookings),
		Payments:      slices.Clone(d.Payments),
		Attendance:    slices.Clone(d.Attendance),
		Maintenance:   slices.Clone(d.Maintenance),
		Notifications: slices.Clone(d.Notifications),
	}
	for i := range out.Routes {
		out.Routes[i].Stops = slices.Clone(out.Routes[i].Stops)
	}
	out.Normalize()
	return out
}
