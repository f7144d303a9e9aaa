package models

type Role string

const (
	RoleAdmin           Role = "admin"
	RoleSupervisor      Role = "supervisor"
	RoleMovementManager Role = "movement-manager"
	RoleDriver          Role = "driver"
	RoleStudent         Role = "student"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleSupervisor, RoleMovementManager, RoleDriver, RoleStudent}

type User struct {
	Meta
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email,omitempty" validate:"omitempty,email"`
	Phone  string `json:"phone,omitempty"`
	Role   Role   `json:"role" validate:"required,oneof=admin supervisor movement-manager driver student"`
	Status string `json:"status" validate:"required,oneof=active inactive"`

	// Password is only accepted on input; it is replaced by PasswordHash
	// before the record is stored.
	Password     string `json:"password,omitempty"`
	PasswordHash string `json:"passwordHash,omitempty"`
}

func (u *User) ApplyDefaults() {
	if u.Status == "" {
		u.Status = "active"
	}
}

// Public strips credentials for API responses.
func (u User) Public() User {
	u.Password = ""
	u.PasswordHash = ""
	return u
}

type Notification struct {
	Meta
	UserID   string `json:"userId" validate:"required"`
	TripID   string `json:"tripId,omitempty"`
	Type     string `json:"type" validate:"required"`
	Priority string `json:"priority" validate:"required,oneof=low normal high"`
	Status   string `json:"status" validate:"required,oneof=unread read"`
	Title    string `json:"title,omitempty"`
	Message  string `json:"message" validate:"required"`
}

func (n *Notification) ApplyDefaults() {
	if n.Priority == "" {
		n.Priority = "normal"
	}
	if n.Status == "" {
		n.Status = "unread"
	}
}
