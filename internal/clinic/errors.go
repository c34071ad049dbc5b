package clinic

import "errors"

// Typed failures from the ledger/service layer. Handlers translate these
// into user-facing flash messages; anything not in this list is treated
// as an infrastructure failure and reported generically.
var (
	ErrBadCredentials = errors.New("invalid email or password")

	ErrMissingFields        = errors.New("required fields missing")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidRole          = errors.New("unknown role")
	ErrDoctorFieldsRequired = errors.New("specialization and license required for doctors")

	ErrPatientsOnly   = errors.New("only patients can book")
	ErrDoctorsOnly    = errors.New("only doctors can complete")
	ErrBadDateTime    = errors.New("invalid date or time format")
	ErrPastDate       = errors.New("appointment date must be in the future")
	ErrDoctorNotFound = errors.New("doctor not found")
	ErrSlotTaken      = errors.New("slot already booked")

	ErrNotFound     = errors.New("appointment not found")
	ErrNotYours     = errors.New("not your appointment")
	ErrNotScheduled = errors.New("appointment is no longer scheduled")
)
