package store

import (
	"context"

	"medicare/internal/model"
)

// SchedulesByDoctor lists a doctor's availability windows for rendering.
// The table is an external lookup; this codebase never writes to it.
func (s *Store) SchedulesByDoctor(ctx context.Context, doctorID string) ([]model.DoctorSchedule, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, doctor_id, day_of_week, start_time, end_time, is_available
		 FROM doctor_schedules
		 WHERE doctor_id = $1
		 ORDER BY day_of_week, start_time`, doctorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DoctorSchedule
	for rows.Next() {
		var ds model.DoctorSchedule
		if err := rows.Scan(&ds.ID, &ds.DoctorID, &ds.DayOfWeek,
			&ds.StartTime, &ds.EndTime, &ds.IsAvailable); err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, rows.Err()
}
