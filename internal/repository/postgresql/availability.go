package postgresql

import (
	"context"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/availability"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/database"
)

type availabilityRepositoryImpl struct {
	db *database.DB
}

func NewAvailabilityRepository(db *database.DB) availability.AvailabilityRepository {
	return &availabilityRepositoryImpl{db: db}
}

// ReplaceSkills implements availability.AvailabilityRepository. Callers run it
// inside a transaction so the delete and insert commit together.
func (r *availabilityRepositoryImpl) ReplaceSkills(ctx context.Context, teacherID string, masterClassIDs []string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM teacher_skills WHERE teacher_id = $1`, teacherID); err != nil {
		return err
	}
	if len(masterClassIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO teacher_skills (teacher_id, master_class_id)
		SELECT $1, UNNEST($2::uuid[])
	`
	if _, err := q.Exec(ctx, query, teacherID, masterClassIDs); err != nil {
		if database.IsUniqueViolation(err, "") {
			return availability.ErrDuplicateEntry
		}
		if database.IsForeignKeyViolation(err) {
			return catalog.ErrMasterClassNotFound
		}
		return err
	}
	return nil
}

func (r *availabilityRepositoryImpl) ListSkills(ctx context.Context, teacherID string) ([]catalog.MasterClass, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT mc.id, mc.name, mc.description, mc.default_max_izin
		FROM teacher_skills ts
		INNER JOIN master_classes mc ON mc.id = ts.master_class_id
		WHERE ts.teacher_id = $1
		ORDER BY mc.name
	`
	rows, err := q.Query(ctx, query, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skills []catalog.MasterClass
	for rows.Next() {
		var mc catalog.MasterClass
		if err := rows.Scan(&mc.ID, &mc.Name, &mc.Description, &mc.DefaultMaxIzin); err != nil {
			return nil, err
		}
		skills = append(skills, mc)
	}
	return skills, rows.Err()
}

// ReplaceAvailability implements availability.AvailabilityRepository.
func (r *availabilityRepositoryImpl) ReplaceAvailability(ctx context.Context, teacherID string, entries []availability.Availability) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM teacher_availabilities WHERE teacher_id = $1`, teacherID); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	query := `
		INSERT INTO teacher_availabilities (teacher_id, master_class_id, day_of_week, timeslot_id)
		VALUES ($1, $2, $3, $4)
	`
	for _, e := range entries {
		if _, err := q.Exec(ctx, query, teacherID, e.MasterClassID, e.DayOfWeek, e.TimeSlotID); err != nil {
			if database.IsUniqueViolation(err, "") {
				return availability.ErrDuplicateEntry
			}
			if database.IsForeignKeyViolation(err) {
				return catalog.ErrTimeSlotNotFound
			}
			return err
		}
	}
	return nil
}

func (r *availabilityRepositoryImpl) ListByTeacher(ctx context.Context, teacherID string) ([]availability.Availability, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ta.teacher_id, ta.master_class_id, ta.day_of_week, ta.timeslot_id,
			   mc.name, t.name, t.start_time, t.end_time
		FROM teacher_availabilities ta
		INNER JOIN master_classes mc ON mc.id = ta.master_class_id
		INNER JOIN timeslots t ON t.id = ta.timeslot_id
		WHERE ta.teacher_id = $1
		ORDER BY ta.day_of_week, t.start_time, mc.name
	`
	rows, err := q.Query(ctx, query, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []availability.Availability
	for rows.Next() {
		var a availability.Availability
		err := rows.Scan(
			&a.TeacherID,
			&a.MasterClassID,
			&a.DayOfWeek,
			&a.TimeSlotID,
			&a.MasterClassName,
			&a.TimeSlotName,
			&a.StartTime,
			&a.EndTime,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, a)
	}
	return entries, rows.Err()
}

// ListCandidates implements availability.AvailabilityRepository.
func (r *availabilityRepositoryImpl) ListCandidates(ctx context.Context, masterClassID string) ([]availability.Candidate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT u.id, u.name, ta.day_of_week,
			   t.id, t.name, t.start_time, t.end_time, t.is_online
		FROM teacher_availabilities ta
		INNER JOIN teacher_skills ts ON ts.teacher_id = ta.teacher_id AND ts.master_class_id = ta.master_class_id
		INNER JOIN users u ON u.id = ta.teacher_id AND u.role = 'teacher'
		INNER JOIN timeslots t ON t.id = ta.timeslot_id
		WHERE ta.master_class_id = $1
	`
	rows, err := q.Query(ctx, query, masterClassID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []availability.Candidate
	for rows.Next() {
		var c availability.Candidate
		err := rows.Scan(
			&c.TeacherID,
			&c.TeacherName,
			&c.DayOfWeek,
			&c.TimeSlot.ID,
			&c.TimeSlot.Name,
			&c.TimeSlot.StartTime,
			&c.TimeSlot.EndTime,
			&c.TimeSlot.IsOnline,
		)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}
