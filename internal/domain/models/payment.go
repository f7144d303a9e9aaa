package models

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment is a student's payment for a trip, optionally tied to a booking.
// Amount counts towards exactly one revenue bucket, chosen by Status.
type Payment struct {
	Meta
	BookingID string        `json:"bookingId"`
	TripID    string        `json:"tripId" validate:"required"`
	StudentID string        `json:"studentId" validate:"required"`
	Amount    float64       `json:"amount" validate:"gte=0"`
	Method    string        `json:"method,omitempty"`
	Status    PaymentStatus `json:"status" validate:"required,oneof=pending completed failed"`
	Date      string        `json:"date" validate:"required,datetime=2006-01-02"`
}

func (p *Payment) ApplyDefaults() {
	if p.Status == "" {
		p.Status = PaymentPending
	}
}
