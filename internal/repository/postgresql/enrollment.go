package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type enrollmentRepositoryImpl struct {
	db *database.DB
}

func NewEnrollmentRepository(db *database.DB) enrollment.EnrollmentRepository {
	return &enrollmentRepositoryImpl{db: db}
}

const enrollmentSelect = `
	SELECT e.id, e.student_id, e.program_id, e.status, e.first_class_date, e.created_at, e.updated_at,
		   u.name, u.phone_number, p.name
	FROM enrollments e
	INNER JOIN users u ON u.id = e.student_id
	INNER JOIN programs p ON p.id = e.program_id
`

func scanEnrollment(row pgx.Row) (*enrollment.Enrollment, error) {
	var e enrollment.Enrollment
	err := row.Scan(
		&e.ID,
		&e.StudentID,
		&e.ProgramID,
		&e.Status,
		&e.FirstClassDate,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.StudentName,
		&e.StudentPhone,
		&e.ProgramName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, enrollment.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Create implements enrollment.EnrollmentRepository.
func (r *enrollmentRepositoryImpl) Create(ctx context.Context, e *enrollment.Enrollment) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO enrollments (student_id, program_id, status, first_class_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	return q.QueryRow(ctx, query, e.StudentID, e.ProgramID, e.Status, e.FirstClassDate).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// GetByID implements enrollment.EnrollmentRepository.
func (r *enrollmentRepositoryImpl) GetByID(ctx context.Context, id string) (*enrollment.Enrollment, error) {
	q := GetQuerier(ctx, r.db)
	return scanEnrollment(q.QueryRow(ctx, enrollmentSelect+` WHERE e.id = $1`, id))
}

// GetByStudentAndStatus implements enrollment.EnrollmentRepository.
func (r *enrollmentRepositoryImpl) GetByStudentAndStatus(ctx context.Context, studentID string, status enrollment.Status) (*enrollment.Enrollment, error) {
	q := GetQuerier(ctx, r.db)
	query := enrollmentSelect + ` WHERE e.student_id = $1 AND e.status = $2 ORDER BY e.created_at DESC LIMIT 1`
	return scanEnrollment(q.QueryRow(ctx, query, studentID, status))
}

// List implements enrollment.EnrollmentRepository.
func (r *enrollmentRepositoryImpl) List(ctx context.Context, filter enrollment.EnrollmentFilter) ([]enrollment.Enrollment, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("e.student_id = $%d", argIdx))
		args = append(args, filter.StudentID)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("e.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	query := enrollmentSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY e.created_at DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []enrollment.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, *e)
	}
	return enrollments, rows.Err()
}

// UpdateStatus implements enrollment.EnrollmentRepository.
func (r *enrollmentRepositoryImpl) UpdateStatus(ctx context.Context, id string, status enrollment.Status) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `UPDATE enrollments SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return enrollment.ErrEnrollmentNotFound
	}
	return nil
}

// SetFirstClassDate implements enrollment.EnrollmentRepository.
func (r *enrollmentRepositoryImpl) SetFirstClassDate(ctx context.Context, id string, date time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE enrollments
		SET first_class_date = $2, updated_at = NOW()
		WHERE id = $1 AND first_class_date IS NULL
	`
	commandTag, err := q.Exec(ctx, query, id, date)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 1 {
		return nil
	}

	// Distinguish a missing row from an already-set date.
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return enrollment.ErrFirstClassDateAlreadySet
}

// CompleteIfFinished implements enrollment.EnrollmentRepository.
func (r *enrollmentRepositoryImpl) CompleteIfFinished(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE enrollments
		SET status = 'completed', updated_at = NOW()
		WHERE id = $1
		  AND status = 'active'
		  AND NOT EXISTS (
			SELECT 1 FROM class_enrollments ce
			WHERE ce.enrollment_id = $1 AND ce.status = 'active'
		  )
	`
	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return commandTag.RowsAffected() == 1, nil
}

type classEnrollmentRepositoryImpl struct {
	db *database.DB
}

func NewClassEnrollmentRepository(db *database.DB) enrollment.ClassEnrollmentRepository {
	return &classEnrollmentRepositoryImpl{db: db}
}

const classEnrollmentSelect = `
	SELECT ce.id, ce.enrollment_id, ce.program_class_id, ce.sessions_remaining, ce.izin_used, ce.status,
		   COALESCE(NULLIF(pc.name, ''), mc.name), pc.master_class_id, pc.total_sessions,
		   pc.sessions_per_week, pc.is_batch, pc.max_izin, pc.display_order
	FROM class_enrollments ce
	INNER JOIN program_classes pc ON pc.id = ce.program_class_id
	INNER JOIN master_classes mc ON mc.id = pc.master_class_id
`

func scanClassEnrollment(row pgx.Row) (*enrollment.ClassEnrollment, error) {
	var c enrollment.ClassEnrollment
	err := row.Scan(
		&c.ID,
		&c.EnrollmentID,
		&c.ProgramClassID,
		&c.SessionsRemaining,
		&c.IzinUsed,
		&c.Status,
		&c.ClassName,
		&c.MasterClassID,
		&c.TotalSessions,
		&c.SessionsPerWeek,
		&c.IsBatch,
		&c.MaxIzin,
		&c.DisplayOrder,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, enrollment.ErrClassEnrollmentNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *classEnrollmentRepositoryImpl) Create(ctx context.Context, c *enrollment.ClassEnrollment) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO class_enrollments (enrollment_id, program_class_id, sessions_remaining, izin_used, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return q.QueryRow(ctx, query, c.EnrollmentID, c.ProgramClassID, c.SessionsRemaining, c.IzinUsed, c.Status).
		Scan(&c.ID)
}

func (r *classEnrollmentRepositoryImpl) GetByID(ctx context.Context, id string) (*enrollment.ClassEnrollment, error) {
	q := GetQuerier(ctx, r.db)
	return scanClassEnrollment(q.QueryRow(ctx, classEnrollmentSelect+` WHERE ce.id = $1`, id))
}

func (r *classEnrollmentRepositoryImpl) ListByEnrollment(ctx context.Context, enrollmentID string) ([]enrollment.ClassEnrollment, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, classEnrollmentSelect+` WHERE ce.enrollment_id = $1 ORDER BY pc.display_order, ce.id`, enrollmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []enrollment.ClassEnrollment
	for rows.Next() {
		c, err := scanClassEnrollment(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, *c)
	}
	return classes, rows.Err()
}

// ConsumeSession implements enrollment.ClassEnrollmentRepository. The guard
// and the decrement run as one statement so concurrent submits cannot push
// the counter below zero.
func (r *classEnrollmentRepositoryImpl) ConsumeSession(ctx context.Context, id string) (*enrollment.ClassEnrollment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE class_enrollments
		SET sessions_remaining = sessions_remaining - 1,
			status = CASE WHEN sessions_remaining - 1 = 0 THEN 'completed' ELSE status END
		WHERE id = $1 AND sessions_remaining > 0
		RETURNING id
	`
	var updatedID string
	if err := q.QueryRow(ctx, query, id).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, enrollment.ErrNoSessionsRemaining
		}
		return nil, err
	}
	return r.GetByID(ctx, updatedID)
}

// ConsumeIzin implements enrollment.ClassEnrollmentRepository.
func (r *classEnrollmentRepositoryImpl) ConsumeIzin(ctx context.Context, id string) (*enrollment.ClassEnrollment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE class_enrollments ce
		SET izin_used = ce.izin_used + 1
		FROM program_classes pc
		WHERE ce.id = $1 AND pc.id = ce.program_class_id AND ce.izin_used < pc.max_izin
		RETURNING ce.id
	`
	var updatedID string
	if err := q.QueryRow(ctx, query, id).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, enrollment.ErrIzinQuotaExhausted
		}
		return nil, err
	}
	return r.GetByID(ctx, updatedID)
}

func (r *classEnrollmentRepositoryImpl) Update(ctx context.Context, id string, sessionsRemaining int, status enrollment.ClassStatus) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `UPDATE class_enrollments SET sessions_remaining = $2, status = $3 WHERE id = $1`, id, sessionsRemaining, status)
	if err != nil {
		if database.IsCheckViolation(err) {
			return enrollment.ErrInvalidSessionsRemaining
		}
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return enrollment.ErrClassEnrollmentNotFound
	}
	return nil
}

type weeklyScheduleRepositoryImpl struct {
	db *database.DB
}

func NewWeeklyScheduleRepository(db *database.DB) enrollment.WeeklyScheduleRepository {
	return &weeklyScheduleRepositoryImpl{db: db}
}

const weeklyScheduleSelect = `
	SELECT ws.id, ws.enrollment_id, ws.class_enrollment_id, ws.teacher_id, ws.day_of_week, ws.timeslot_id,
		   t.name, ts.name, ts.start_time, ts.end_time,
		   e.student_id, s.name, COALESCE(NULLIF(pc.name, ''), mc.name), e.first_class_date
	FROM weekly_schedules ws
	INNER JOIN users t ON t.id = ws.teacher_id
	INNER JOIN timeslots ts ON ts.id = ws.timeslot_id
	INNER JOIN enrollments e ON e.id = ws.enrollment_id
	INNER JOIN users s ON s.id = e.student_id
	INNER JOIN class_enrollments ce ON ce.id = ws.class_enrollment_id
	INNER JOIN program_classes pc ON pc.id = ce.program_class_id
	INNER JOIN master_classes mc ON mc.id = pc.master_class_id
`

func scanWeeklySchedules(rows pgx.Rows) ([]enrollment.WeeklySchedule, error) {
	defer rows.Close()

	var schedules []enrollment.WeeklySchedule
	for rows.Next() {
		var s enrollment.WeeklySchedule
		err := rows.Scan(
			&s.ID,
			&s.EnrollmentID,
			&s.ClassEnrollmentID,
			&s.TeacherID,
			&s.DayOfWeek,
			&s.TimeSlotID,
			&s.TeacherName,
			&s.TimeSlotName,
			&s.StartTime,
			&s.EndTime,
			&s.StudentID,
			&s.StudentName,
			&s.ClassName,
			&s.FirstClassDate,
		)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// Create implements enrollment.WeeklyScheduleRepository.
func (r *weeklyScheduleRepositoryImpl) Create(ctx context.Context, s *enrollment.WeeklySchedule) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO weekly_schedules (enrollment_id, class_enrollment_id, teacher_id, day_of_week, timeslot_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := q.QueryRow(ctx, query, s.EnrollmentID, s.ClassEnrollmentID, s.TeacherID, s.DayOfWeek, s.TimeSlotID).Scan(&s.ID)
	if err != nil {
		if database.IsUniqueViolation(err, "weekly_schedules_enrollment_id_day_of_week_timeslot_id_key") {
			return enrollment.ErrScheduleSlotTaken
		}
		return err
	}
	return nil
}

// GetByID implements enrollment.WeeklyScheduleRepository.
func (r *weeklyScheduleRepositoryImpl) GetByID(ctx context.Context, id string) (*enrollment.WeeklySchedule, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, weeklyScheduleSelect+` WHERE ws.id = $1`, id)
	if err != nil {
		return nil, err
	}
	schedules, err := scanWeeklySchedules(rows)
	if err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return nil, enrollment.ErrScheduleNotFound
	}
	return &schedules[0], nil
}

// Delete implements enrollment.WeeklyScheduleRepository.
func (r *weeklyScheduleRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM weekly_schedules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return enrollment.ErrScheduleNotFound
	}
	return nil
}

func (r *weeklyScheduleRepositoryImpl) ListByEnrollment(ctx context.Context, enrollmentID string) ([]enrollment.WeeklySchedule, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, weeklyScheduleSelect+` WHERE ws.enrollment_id = $1 ORDER BY ws.day_of_week, ts.start_time`, enrollmentID)
	if err != nil {
		return nil, err
	}
	return scanWeeklySchedules(rows)
}

// ListActive implements enrollment.WeeklyScheduleRepository.
func (r *weeklyScheduleRepositoryImpl) ListActive(ctx context.Context, teacherIDs []string) ([]enrollment.WeeklySchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := weeklyScheduleSelect + ` WHERE e.status = 'active' AND ce.status = 'active'`
	var args []interface{}
	if len(teacherIDs) > 0 {
		query += ` AND ws.teacher_id = ANY($1::uuid[])`
		args = append(args, teacherIDs)
	}
	query += ` ORDER BY ws.day_of_week, ts.start_time, s.name`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanWeeklySchedules(rows)
}
