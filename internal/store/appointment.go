package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"

	"medicare/internal/model"
)

func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO appointments (id, patient_id, doctor_id, appointment_date, appointment_time, reason, status, notes)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.PatientID, a.DoctorID, a.Date, a.Time, a.Reason, a.Status, a.Notes,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// SlotTaken is the app-level conflict check: one scheduled appointment
// per (doctor, date, time). Point-in-time read, not race-safe.
func (s *Store) SlotTaken(ctx context.Context, doctorID, date, timeOfDay string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM appointments
			WHERE doctor_id = $1
			  AND appointment_date = $2
			  AND appointment_time = $3
			  AND status = 'scheduled')`,
		doctorID, date, timeOfDay,
	).Scan(&exists)
	return exists, err
}

const apptCols = `id, patient_id, doctor_id, appointment_date, appointment_time,
	reason, status, notes, created_at, updated_at`

func (s *Store) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	a := &model.Appointment{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE id = $1`, id,
	).Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.Date, &a.Time,
		&a.Reason, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// SetStatus moves a scheduled appointment to its terminal status. The
// status guard in the WHERE clause blocks transitions out of completed
// or cancelled; zero rows updated means the guard (or the id) missed.
func (s *Store) SetStatus(ctx context.Context, id, status string, notes *string) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var tag pgconn.CommandTag
	if notes != nil {
		tag, err = tx.Exec(ctx,
			`UPDATE appointments SET status=$1, notes=$2, updated_at=NOW()
			 WHERE id=$3 AND status='scheduled'`, status, *notes, id)
	} else {
		tag, err = tx.Exec(ctx,
			`UPDATE appointments SET status=$1, updated_at=NOW()
			 WHERE id=$2 AND status='scheduled'`, status, id)
	}
	if err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ListByPatient returns the patient's appointments newest slot first,
// with the doctor's name joined in for display.
func (s *Store) ListByPatient(ctx context.Context, patientID string) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT a.id, a.patient_id, a.doctor_id, a.appointment_date, a.appointment_time,
		        a.reason, a.status, a.notes, a.created_at, a.updated_at, d.name
		 FROM appointments a
		 JOIN users d ON d.id = a.doctor_id
		 WHERE a.patient_id = $1
		 ORDER BY a.appointment_date DESC, a.appointment_time DESC`, patientID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(
			&a.ID, &a.PatientID, &a.DoctorID, &a.Date, &a.Time,
			&a.Reason, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt, &a.DoctorName,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListByDoctor returns the doctor's appointments earliest slot first,
// with the patient's name joined in.
func (s *Store) ListByDoctor(ctx context.Context, doctorID string) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT a.id, a.patient_id, a.doctor_id, a.appointment_date, a.appointment_time,
		        a.reason, a.status, a.notes, a.created_at, a.updated_at, p.name
		 FROM appointments a
		 JOIN users p ON p.id = a.patient_id
		 WHERE a.doctor_id = $1
		 ORDER BY a.appointment_date ASC, a.appointment_time ASC`, doctorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(
			&a.ID, &a.PatientID, &a.DoctorID, &a.Date, &a.Time,
			&a.Reason, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt, &a.PatientName,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
