// Package clinic holds the appointment ledger and identity rules: who
// may book, cancel and complete, and what makes a slot available.
package clinic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"medicare/internal/auth"
	"medicare/internal/model"
	"medicare/internal/store"
)

type Service struct {
	store *store.Store
}

func New(st *store.Store) *Service {
	return &Service{store: st}
}

// Authenticate looks a user up by (email, role) and verifies the
// password. Unknown user and wrong password are indistinguishable to the
// caller.
func (s *Service) Authenticate(ctx context.Context, email, password, role string) (*model.User, error) {
	u, err := s.store.UserByEmailAndRole(ctx, email, role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrBadCredentials
	}
	return u, nil
}

type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Role            string
	Specialization  string
	LicenseNumber   string
}

// Register validates in a fixed order, each failure short-circuiting
// with exactly one reason, then inserts the hashed credential.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return nil, ErrMissingFields
	}
	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if len(in.Password) < 6 {
		return nil, ErrPasswordTooShort
	}

	taken, err := s.store.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	if in.Role != model.RolePatient && in.Role != model.RoleDoctor {
		return nil, ErrInvalidRole
	}

	u := &model.User{
		ID:    uuid.New().String(),
		Name:  in.Name,
		Email: in.Email,
		Role:  in.Role,
	}
	if in.Role == model.RoleDoctor {
		if in.Specialization == "" || in.LicenseNumber == "" {
			return nil, ErrDoctorFieldsRequired
		}
		u.Doctor = &model.DoctorProfile{
			Specialization: in.Specialization,
			LicenseNumber:  in.LicenseNumber,
		}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash

	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Book schedules an appointment for the acting patient. Preconditions
// run in order; each failure maps to its own user-facing reason.
func (s *Service) Book(ctx context.Context, actor *model.User, doctorID, date, timeOfDay, reason string) (*model.Appointment, error) {
	if !actor.IsPatient() {
		return nil, ErrPatientsOnly
	}
	if doctorID == "" || date == "" || timeOfDay == "" {
		return nil, ErrMissingFields
	}

	d, err := time.Parse(model.DateFormat, date)
	if err != nil {
		return nil, ErrBadDateTime
	}
	t, err := time.Parse(model.TimeFormat, timeOfDay)
	if err != nil {
		return nil, ErrBadDateTime
	}
	// canonical slot strings, so "9:5" never sneaks past the conflict check
	date = d.Format(model.DateFormat)
	timeOfDay = t.Format(model.TimeFormat)

	today, _ := time.Parse(model.DateFormat, time.Now().Format(model.DateFormat))
	if !d.After(today) {
		return nil, ErrPastDate
	}

	doctor, err := s.store.DoctorByID(ctx, doctorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup doctor: %w", err)
	}

	taken, err := s.store.SlotTaken(ctx, doctor.ID, date, timeOfDay)
	if err != nil {
		return nil, fmt.Errorf("conflict check: %w", err)
	}
	if taken {
		return nil, ErrSlotTaken
	}

	a := &model.Appointment{
		ID:         uuid.New().String(),
		PatientID:  actor.ID,
		DoctorID:   doctor.ID,
		Date:       date,
		Time:       timeOfDay,
		Reason:     reason,
		Status:     model.StatusScheduled,
		DoctorName: doctor.Name,
	}
	if err := s.store.CreateAppointment(ctx, a); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	return a, nil
}

// Cancel moves a scheduled appointment to cancelled. Patients may cancel
// their own, doctors the ones assigned to them.
func (s *Service) Cancel(ctx context.Context, actor *model.User, apptID string) (*model.Appointment, error) {
	a, err := s.loadAppointment(ctx, apptID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case model.RolePatient:
		if a.PatientID != actor.ID {
			return nil, ErrNotYours
		}
	case model.RoleDoctor:
		if a.DoctorID != actor.ID {
			return nil, ErrNotYours
		}
	default:
		return nil, ErrNotYours
	}

	ok, err := s.store.SetStatus(ctx, a.ID, model.StatusCancelled, nil)
	if err != nil {
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}
	if !ok {
		return nil, ErrNotScheduled
	}
	a.Status = model.StatusCancelled
	return a, nil
}

// Complete marks a scheduled appointment done, storing the doctor's
// notes. Patients are denied regardless of ownership.
func (s *Service) Complete(ctx context.Context, actor *model.User, apptID, notes string) (*model.Appointment, error) {
	if !actor.IsDoctor() {
		return nil, ErrDoctorsOnly
	}

	a, err := s.loadAppointment(ctx, apptID)
	if err != nil {
		return nil, err
	}
	if a.DoctorID != actor.ID {
		return nil, ErrNotYours
	}

	ok, err := s.store.SetStatus(ctx, a.ID, model.StatusCompleted, &notes)
	if err != nil {
		return nil, fmt.Errorf("complete appointment: %w", err)
	}
	if !ok {
		return nil, ErrNotScheduled
	}
	a.Status = model.StatusCompleted
	a.Notes = notes
	return a, nil
}

func (s *Service) loadAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	a, err := s.store.GetAppointment(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}
	return a, nil
}

func (s *Service) UserByID(ctx context.Context, id string) (*model.User, error) {
	return s.store.UserByID(ctx, id)
}

// PatientDashboard: the patient's appointments newest first, plus every
// doctor for the booking form's selection control.
func (s *Service) PatientDashboard(ctx context.Context, patientID string) ([]model.Appointment, []model.User, error) {
	appts, err := s.store.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, nil, fmt.Errorf("list appointments: %w", err)
	}
	doctors, err := s.store.ListDoctors(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list doctors: %w", err)
	}
	return appts, doctors, nil
}

// DoctorDashboard: the doctor's appointments earliest first, plus their
// advertised schedule windows.
func (s *Service) DoctorDashboard(ctx context.Context, doctorID string) ([]model.Appointment, []model.DoctorSchedule, error) {
	appts, err := s.store.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, nil, fmt.Errorf("list appointments: %w", err)
	}
	sched, err := s.store.SchedulesByDoctor(ctx, doctorID)
	if err != nil {
		return nil, nil, fmt.Errorf("list schedules: %w", err)
	}
	return appts, sched, nil
}

func (s *Service) CountUsers(ctx context.Context) (int, error) {
	return s.store.CountUsers(ctx)
}
