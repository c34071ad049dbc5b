package model

import "time"

const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
)

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Date and time formats used everywhere a slot is parsed or rendered.
const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04"
)

// DoctorProfile holds the fields that only exist for doctor accounts.
type DoctorProfile struct {
	Specialization string
	LicenseNumber  string
}

// User is a patient or a doctor. Doctor is non-nil exactly when
// Role == RoleDoctor.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Doctor       *DoctorProfile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) IsDoctor() bool  { return u.Role == RoleDoctor }
func (u *User) IsPatient() bool { return u.Role == RolePatient }

type Appointment struct {
	ID        string
	PatientID string
	DoctorID  string
	Date      string // DateFormat
	Time      string // TimeFormat
	Reason    string
	Status    string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Filled by list queries for rendering, empty otherwise.
	PatientName string
	DoctorName  string
}

// DoctorSchedule rows are a read-only lookup of a doctor's advertised
// availability windows. Nothing in the booking path mutates them.
type DoctorSchedule struct {
	ID          string
	DoctorID    string
	DayOfWeek   int
	StartTime   string
	EndTime     string
	IsAvailable bool
}
