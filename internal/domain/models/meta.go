package models

import "time"

// Meta carries the identity and audit timestamps shared by every record.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *Meta) Base() *Meta { return m }

// Init stamps a new record, discarding any client-supplied identity.
func (m *Meta) Init(id string, now time.Time) {
	m.ID = id
	m.CreatedAt = now
	m.UpdatedAt = now
}

// Touch refreshes UpdatedAt and fills CreatedAt on first save.
func (m *Meta) Touch(now time.Time) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

// Record is implemented by pointers to every stored entity.
type Record interface {
	Base() *Meta
	ApplyDefaults()
}
