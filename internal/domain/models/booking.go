package models

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Booking reserves a seat for a student on a trip.
type Booking struct {
	Meta
	StudentID  string        `json:"studentId" validate:"required"`
	TripID     string        `json:"tripId" validate:"required"`
	Status     BookingStatus `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	Date       string        `json:"date" validate:"required,datetime=2006-01-02"`
	SeatNumber string        `json:"seatNumber,omitempty"`
}

func (b *Booking) ApplyDefaults() {
	if b.Status == "" {
		b.Status = BookingPending
	}
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

type AttendanceRecord struct {
	Meta
	StudentID   string           `json:"studentId" validate:"required"`
	TripID      string           `json:"tripId" validate:"required"`
	Status      AttendanceStatus `json:"status" validate:"required,oneof=present absent late"`
	Date        string           `json:"date" validate:"required,datetime=2006-01-02"`
	CheckInTime string           `json:"checkInTime,omitempty" validate:"omitempty,clock"`
}

func (a *AttendanceRecord) ApplyDefaults() {
	if a.Status == "" {
		a.Status = AttendancePresent
	}
}
