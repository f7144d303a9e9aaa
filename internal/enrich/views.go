package enrich

import (
	"busops/internal/domain/models"
	"busops/internal/utils"
)

// ListFilter narrows the dependent-entity lists. Fields that do not apply
// to an entity are ignored.
type ListFilter struct {
	Status    string `form:"status"`
	TripID    string `form:"tripId"`
	StudentID string `form:"studentId"`
	BusID     string `form:"busId"`
	UserID    string `form:"userId"`
	Date      string `form:"date"`
}

func (f ListFilter) keep(status, tripID, studentID, busID, userID, date string) bool {
	if f.Status != "" && status != f.Status {
		return false
	}
	if f.TripID != "" && tripID != f.TripID {
		return false
	}
	if f.StudentID != "" && studentID != f.StudentID {
		return false
	}
	if f.BusID != "" && busID != f.BusID {
		return false
	}
	if f.UserID != "" && userID != f.UserID {
		return false
	}
	if f.Date != "" && !SameDate(date, f.Date) {
		return false
	}
	return true
}

type BookingView struct {
	models.Booking
	Student *models.User  `json:"student"`
	Trip    *models.Trip  `json:"trip"`
	Route   *models.Route `json:"route"`
}

func Bookings(idx *Index, f ListFilter) []BookingView {
	out := []BookingView{}
	for _, b := range idx.Doc.Bookings {
		if !f.keep(string(b.Status), b.TripID, b.StudentID, "", b.StudentID, b.Date) {
			continue
		}
		v := BookingView{Booking: b, Student: idx.User(b.StudentID), Trip: idx.Trip(b.TripID)}
		if v.Trip != nil {
			v.Route = idx.Route(v.Trip.RouteID)
		}
		out = append(out, v)
	}
	return out
}

type PaymentView struct {
	models.Payment
	Student *models.User    `json:"student"`
	Trip    *models.Trip    `json:"trip"`
	Booking *models.Booking `json:"booking"`
}

func Payments(idx *Index, f ListFilter) []PaymentView {
	out := []PaymentView{}
	for _, p := range idx.Doc.Payments {
		if !f.keep(string(p.Status), p.TripID, p.StudentID, "", p.StudentID, p.Date) {
			continue
		}
		out = append(out, PaymentView{
			Payment: p,
			Student: idx.User(p.StudentID),
			Trip:    idx.Trip(p.TripID),
			Booking: idx.Booking(p.BookingID),
		})
	}
	return out
}

type AttendanceView struct {
	models.AttendanceRecord
	Student *models.User  `json:"student"`
	Trip    *models.Trip  `json:"trip"`
	Route   *models.Route `json:"route"`
}

func Attendance(idx *Index, f ListFilter) []AttendanceView {
	out := []AttendanceView{}
	for _, a := range idx.Doc.Attendance {
		if !f.keep(string(a.Status), a.TripID, a.StudentID, "", a.StudentID, a.Date) {
			continue
		}
		v := AttendanceView{AttendanceRecord: a, Student: idx.User(a.StudentID), Trip: idx.Trip(a.TripID)}
		if v.Trip != nil {
			v.Route = idx.Route(v.Trip.RouteID)
		}
		out = append(out, v)
	}
	return out
}

type MaintenanceView struct {
	models.MaintenanceRecord
	Bus          *models.Bus `json:"bus"`
	CostVariance float64     `json:"costVariance"`
}

func Maintenance(idx *Index, f ListFilter) []MaintenanceView {
	out := []MaintenanceView{}
	for _, m := range idx.Doc.Maintenance {
		if !f.keep(string(m.Status), "", "", m.BusID, "", m.DateLike()) {
			continue
		}
		out = append(out, MaintenanceView{
			MaintenanceRecord: m,
			Bus:               idx.Bus(m.BusID),
			CostVariance:      Amount(Money(m.ActualCost).Sub(Money(m.EstimatedCost))),
		})
	}
	return out
}

type NotificationView struct {
	models.Notification
	User *models.User `json:"user"`
	Trip *models.Trip `json:"trip"`
}

func Notifications(idx *Index, f ListFilter) []NotificationView {
	out := []NotificationView{}
	for _, n := range idx.Doc.Notifications {
		date := ""
		if !n.CreatedAt.IsZero() {
			date = utils.FormatDate(n.CreatedAt)
		}
		if !f.keep(n.Status, n.TripID, "", "", n.UserID, date) {
			continue
		}
		out = append(out, NotificationView{Notification: n, User: idx.User(n.UserID), Trip: idx.Trip(n.TripID)})
	}
	return out
}
