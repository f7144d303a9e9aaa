package services

import (
	"encoding/json"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"busops/internal/domain"
	"busops/internal/domain/models"
	"busops/internal/lifecycle"
	"busops/internal/notify"
	"busops/internal/store"
)

// Services groups the per-collection services around one store.
type Services struct {
	Store     *store.Store
	Lifecycle *lifecycle.Engine

	Trips         *TripService
	Routes        *Collection[models.Route, *models.Route]
	Buses         *Collection[models.Bus, *models.Bus]
	Users         *Collection[models.User, *models.User]
	Bookings      *Collection[models.Booking, *models.Booking]
	Payments      *Collection[models.Payment, *models.Payment]
	Attendance    *Collection[models.AttendanceRecord, *models.AttendanceRecord]
	Maintenance   *Collection[models.MaintenanceRecord, *models.MaintenanceRecord]
	Notifications *Collection[models.Notification, *models.Notification]
}

func New(st *store.Store) *Services {
	engine := lifecycle.NewEngine(st)
	return &Services{
		Store:     st,
		Lifecycle: engine,
		Trips:     NewTripService(st, engine, notify.NewEmitter()),
		Routes: &Collection[models.Route, *models.Route]{
			Name:  "route",
			Store: st,
			Slice: func(d *models.Document) *[]models.Route { return &d.Routes },
		},
		Buses: &Collection[models.Bus, *models.Bus]{
			Name:  "bus",
			Store: st,
			Slice: func(d *models.Document) *[]models.Bus { return &d.Buses },
			Check: uniqueBusNumber,
		},
		Users: &Collection[models.User, *models.User]{
			Name:         "user",
			Store:        st,
			Slice:        func(d *models.Document) *[]models.User { return &d.Users },
			Prepare:      hashUserPassword,
			PreparePatch: hashPatchPassword,
			Check:        uniqueUserEmail,
			View:         models.User.Public,
		},
		Bookings: &Collection[models.Booking, *models.Booking]{
			Name:  "booking",
			Store: st,
			Slice: func(d *models.Document) *[]models.Booking { return &d.Bookings },
		},
		Payments: &Collection[models.Payment, *models.Payment]{
			Name:  "payment",
			Store: st,
			Slice: func(d *models.Document) *[]models.Payment { return &d.Payments },
		},
		Attendance: &Collection[models.AttendanceRecord, *models.AttendanceRecord]{
			Name:  "attendance",
			Store: st,
			Slice: func(d *models.Document) *[]models.AttendanceRecord { return &d.Attendance },
		},
		Maintenance: &Collection[models.MaintenanceRecord, *models.MaintenanceRecord]{
			Name:  "maintenance",
			Store: st,
			Slice: func(d *models.Document) *[]models.MaintenanceRecord { return &d.Maintenance },
		},
		Notifications: &Collection[models.Notification, *models.Notification]{
			Name:  "notification",
			Store: st,
			Slice: func(d *models.Document) *[]models.Notification { return &d.Notifications },
		},
	}
}

func uniqueBusNumber(doc *models.Document, b *models.Bus) error {
	number := strings.TrimSpace(b.Number)
	for _, other := range doc.Buses {
		if other.ID != b.ID && strings.EqualFold(strings.TrimSpace(other.Number), number) {
			return domain.ConflictError{Resource: "bus", Msg: "number " + number + " already exists"}
		}
	}
	return nil
}

func uniqueUserEmail(doc *models.Document, u *models.User) error {
	email := strings.TrimSpace(u.Email)
	if email == "" {
		return nil
	}
	for _, other := range doc.Users {
		if other.ID != u.ID && strings.EqualFold(strings.TrimSpace(other.Email), email) {
			return domain.ConflictError{Resource: "user", Msg: "email already registered"}
		}
	}
	return nil
}

// hashUserPassword replaces a plaintext password with its bcrypt hash.
// Client-supplied hashes are ignored.
func hashUserPassword(u *models.User) error {
	u.PasswordHash = ""
	if u.Password == "" {
		return nil
	}
	hash, err := hashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = ""
	u.PasswordHash = hash
	return nil
}

func hashPatchPassword(patch map[string]json.RawMessage) error {
	deleteFold(patch, "passwordHash")
	raw, ok := deleteFold(patch, "password")
	if !ok {
		return nil
	}
	var password string
	if err := json.Unmarshal(raw, &password); err != nil {
		return domain.ValidationError{Field: "password", Msg: "must be a string", Err: err}
	}
	if password == "" {
		return nil
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	encoded, _ := json.Marshal(hash)
	patch["passwordHash"] = encoded
	return nil
}

func hashPassword(password string) (string, error) {
	if len(password) < 6 {
		return "", domain.ValidationError{Field: "password", Msg: "must be at least 6 characters"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", domain.ValidationError{Field: "password", Msg: "cannot be hashed", Err: err}
	}
	return string(hash), nil
}
