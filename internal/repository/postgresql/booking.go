package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/booking"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type bookingRepositoryImpl struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) booking.BookingRepository {
	return &bookingRepositoryImpl{db: db}
}

const bookingSelect = `
	SELECT b.id, b.enrollment_id, b.class_enrollment_id, b.date, b.timeslot_id, b.teacher_id,
		   b.status, b.izin_reason, b.created_at, b.updated_at,
		   e.student_id, s.name, s.phone_number, p.name, COALESCE(NULLIF(pc.name, ''), mc.name),
		   t.name, t.phone_number, ts.name, ts.start_time, ts.end_time, a.status
	FROM bookings b
	INNER JOIN enrollments e ON e.id = b.enrollment_id
	INNER JOIN users s ON s.id = e.student_id
	INNER JOIN programs p ON p.id = e.program_id
	INNER JOIN class_enrollments ce ON ce.id = b.class_enrollment_id
	INNER JOIN program_classes pc ON pc.id = ce.program_class_id
	INNER JOIN master_classes mc ON mc.id = pc.master_class_id
	INNER JOIN users t ON t.id = b.teacher_id
	INNER JOIN timeslots ts ON ts.id = b.timeslot_id
	LEFT JOIN attendances a ON a.booking_id = b.id
`

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var b booking.Booking
	err := row.Scan(
		&b.ID,
		&b.EnrollmentID,
		&b.ClassEnrollmentID,
		&b.Date,
		&b.TimeSlotID,
		&b.TeacherID,
		&b.Status,
		&b.IzinReason,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.StudentID,
		&b.StudentName,
		&b.StudentPhone,
		&b.ProgramName,
		&b.ClassName,
		&b.TeacherName,
		&b.TeacherPhone,
		&b.SlotName,
		&b.SlotStart,
		&b.SlotEnd,
		&b.AttendanceStatus,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Create implements booking.BookingRepository.
func (r *bookingRepositoryImpl) Create(ctx context.Context, b *booking.Booking) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO bookings (enrollment_id, class_enrollment_id, date, timeslot_id, teacher_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		b.EnrollmentID, b.ClassEnrollmentID, b.Date, b.TimeSlotID, b.TeacherID, b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "uq_bookings_enrollment_date_slot") {
			return booking.ErrDuplicateBooking
		}
		return err
	}
	return nil
}

// CreateIfAbsent implements booking.BookingRepository.
func (r *bookingRepositoryImpl) CreateIfAbsent(ctx context.Context, b *booking.Booking) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO bookings (enrollment_id, class_enrollment_id, date, timeslot_id, teacher_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ON CONSTRAINT uq_bookings_enrollment_date_slot DO NOTHING
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		b.EnrollmentID, b.ClassEnrollmentID, b.Date, b.TimeSlotID, b.TeacherID, b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetByID implements booking.BookingRepository.
func (r *bookingRepositoryImpl) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	q := GetQuerier(ctx, r.db)
	return scanBooking(q.QueryRow(ctx, bookingSelect+` WHERE b.id = $1`, id))
}

// LockByID implements booking.BookingRepository.
func (r *bookingRepositoryImpl) LockByID(ctx context.Context, id string) (*booking.Booking, error) {
	q := GetQuerier(ctx, r.db)
	return scanBooking(q.QueryRow(ctx, bookingSelect+` WHERE b.id = $1 FOR UPDATE OF b`, id))
}

// List implements booking.BookingRepository.
func (r *bookingRepositoryImpl) List(ctx context.Context, filter booking.BookingFilter) ([]booking.Booking, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	add := func(format string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(format, argIdx))
		args = append(args, value)
		argIdx++
	}

	if filter.EnrollmentID != "" {
		add("b.enrollment_id = $%d", filter.EnrollmentID)
	}
	if filter.ClassEnrollmentID != "" {
		add("b.class_enrollment_id = $%d", filter.ClassEnrollmentID)
	}
	if filter.StudentID != "" {
		add("e.student_id = $%d", filter.StudentID)
	}
	if len(filter.TeacherIDs) > 0 {
		add("b.teacher_id = ANY($%d::uuid[])", filter.TeacherIDs)
	}
	if filter.DateFrom != nil {
		add("b.date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		add("b.date <= $%d", *filter.DateTo)
	}
	if filter.TimeSlotID != "" {
		add("b.timeslot_id = $%d", filter.TimeSlotID)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		add("b.status = ANY($%d::text[])", statuses)
	}

	query := bookingSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY b.date, ts.start_time, s.name"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// Transition implements booking.BookingRepository.
func (r *bookingRepositoryImpl) Transition(ctx context.Context, id string, status booking.Status, izinReason *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE bookings
		SET status = $2, izin_reason = COALESCE($3, izin_reason), updated_at = NOW()
		WHERE id = $1 AND status = 'booked'
	`
	commandTag, err := q.Exec(ctx, query, id, status, izinReason)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 1 {
		return nil
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return booking.ErrBookingNotBooked
}

// Reinstate implements booking.BookingRepository.
func (r *bookingRepositoryImpl) Reinstate(ctx context.Context, id, teacherID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE bookings
		SET status = 'booked', teacher_id = $2, izin_reason = NULL, updated_at = NOW()
		WHERE id = $1 AND status = 'cancelled'
	`
	commandTag, err := q.Exec(ctx, query, id, teacherID)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 1 {
		return nil
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return booking.ErrBookingNotCancelled
}

// Delete implements booking.BookingRepository. Dependent rows go through
// the ON DELETE clauses of the schema.
func (r *bookingRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return booking.ErrBookingNotFound
	}
	return nil
}

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) booking.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// Create implements booking.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a *booking.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (booking_id, teacher_id, date, status, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := q.QueryRow(ctx, query, a.BookingID, a.TeacherID, a.Date, a.Status, a.Notes).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "attendances_booking_id_key") {
			return booking.ErrBookingAlreadyAttended
		}
		return err
	}
	return nil
}

const attendanceSelect = `
	SELECT a.id, a.booking_id, a.teacher_id, a.date, a.status, a.notes, a.created_at, u.name, ts.name
	FROM attendances a
	INNER JOIN bookings b ON b.id = a.booking_id
	INNER JOIN users u ON u.id = a.teacher_id
	INNER JOIN timeslots ts ON ts.id = b.timeslot_id
`

func scanAttendance(row pgx.Row) (*booking.Attendance, error) {
	var a booking.Attendance
	err := row.Scan(&a.ID, &a.BookingID, &a.TeacherID, &a.Date, &a.Status, &a.Notes, &a.CreatedAt, &a.TeacherName, &a.SlotName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, booking.ErrAttendanceNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepositoryImpl) GetByBooking(ctx context.Context, bookingID string) (*booking.Attendance, error) {
	q := GetQuerier(ctx, r.db)
	return scanAttendance(q.QueryRow(ctx, attendanceSelect+` WHERE a.booking_id = $1`, bookingID))
}

func (r *attendanceRepositoryImpl) ListRecentByClassEnrollment(ctx context.Context, classEnrollmentID string, limit int) ([]booking.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := attendanceSelect + ` WHERE b.class_enrollment_id = $1 ORDER BY a.date DESC, ts.start_time DESC LIMIT $2`
	rows, err := q.Query(ctx, query, classEnrollmentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attendances []booking.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		attendances = append(attendances, *a)
	}
	return attendances, rows.Err()
}

// Tally implements booking.AttendanceRepository. Izin bookings without an
// attendance row still count as Izin.
func (r *attendanceRepositoryImpl) Tally(ctx context.Context, classEnrollmentID string) (booking.Tally, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE a.status = 'Hadir'),
			COUNT(*) FILTER (WHERE a.status = 'Izin' OR (a.id IS NULL AND b.status = 'izin')),
			COUNT(*) FILTER (WHERE a.status = 'Alpha')
		FROM bookings b
		LEFT JOIN attendances a ON a.booking_id = b.id
		WHERE b.class_enrollment_id = $1
	`
	var t booking.Tally
	if err := q.QueryRow(ctx, query, classEnrollmentID).Scan(&t.Hadir, &t.Izin, &t.Alpha); err != nil {
		return booking.Tally{}, err
	}
	return t, nil
}

type attendanceRequestRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRequestRepository(db *database.DB) booking.AttendanceRequestRepository {
	return &attendanceRequestRepositoryImpl{db: db}
}

const attendanceRequestSelect = `
	SELECT ar.id, ar.booking_id, ar.teacher_id, ar.status, ar.notes, ar.reason, ar.approval_status,
		   ar.approved_by, ar.approved_at, ar.rejection_reason, ar.attendance_id, ar.created_at,
		   b.date, ts.name, s.name, COALESCE(NULLIF(pc.name, ''), mc.name), t.name
	FROM attendance_requests ar
	INNER JOIN bookings b ON b.id = ar.booking_id
	INNER JOIN timeslots ts ON ts.id = b.timeslot_id
	INNER JOIN enrollments e ON e.id = b.enrollment_id
	INNER JOIN users s ON s.id = e.student_id
	INNER JOIN class_enrollments ce ON ce.id = b.class_enrollment_id
	INNER JOIN program_classes pc ON pc.id = ce.program_class_id
	INNER JOIN master_classes mc ON mc.id = pc.master_class_id
	INNER JOIN users t ON t.id = ar.teacher_id
`

func scanAttendanceRequest(row pgx.Row) (*booking.AttendanceRequest, error) {
	var ar booking.AttendanceRequest
	err := row.Scan(
		&ar.ID,
		&ar.BookingID,
		&ar.TeacherID,
		&ar.Status,
		&ar.Notes,
		&ar.Reason,
		&ar.ApprovalStatus,
		&ar.ApprovedBy,
		&ar.ApprovedAt,
		&ar.RejectionReason,
		&ar.AttendanceID,
		&ar.CreatedAt,
		&ar.Date,
		&ar.SlotName,
		&ar.StudentName,
		&ar.ClassName,
		&ar.TeacherName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, booking.ErrRequestNotFound
		}
		return nil, err
	}
	return &ar, nil
}

// Create implements booking.AttendanceRequestRepository.
func (r *attendanceRequestRepositoryImpl) Create(ctx context.Context, ar *booking.AttendanceRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_requests (booking_id, teacher_id, status, notes, reason, approval_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := q.QueryRow(ctx, query, ar.BookingID, ar.TeacherID, ar.Status, ar.Notes, ar.Reason, ar.ApprovalStatus).
		Scan(&ar.ID, &ar.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "uq_attendance_requests_pending") {
			return booking.ErrLateRequestPending
		}
		return err
	}
	return nil
}

func (r *attendanceRequestRepositoryImpl) GetByID(ctx context.Context, id string) (*booking.AttendanceRequest, error) {
	q := GetQuerier(ctx, r.db)
	return scanAttendanceRequest(q.QueryRow(ctx, attendanceRequestSelect+` WHERE ar.id = $1`, id))
}

func (r *attendanceRequestRepositoryImpl) HasPending(ctx context.Context, bookingID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM attendance_requests WHERE booking_id = $1 AND approval_status = 'pending')`
	if err := q.QueryRow(ctx, query, bookingID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *attendanceRequestRepositoryImpl) List(ctx context.Context, filter booking.AttendanceRequestFilter) ([]booking.AttendanceRequest, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.ApprovalStatus != nil {
		conditions = append(conditions, fmt.Sprintf("ar.approval_status = $%d", argIdx))
		args = append(args, *filter.ApprovalStatus)
		argIdx++
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("ar.teacher_id = $%d", argIdx))
		args = append(args, filter.TeacherID)
		argIdx++
	}

	query := attendanceRequestSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY ar.created_at DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []booking.AttendanceRequest
	for rows.Next() {
		ar, err := scanAttendanceRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *ar)
	}
	return requests, rows.Err()
}

// Resolve implements booking.AttendanceRequestRepository.
func (r *attendanceRequestRepositoryImpl) Resolve(ctx context.Context, ar *booking.AttendanceRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_requests
		SET approval_status = $2, approved_by = $3, approved_at = $4, rejection_reason = $5, attendance_id = $6
		WHERE id = $1 AND approval_status = 'pending'
	`
	commandTag, err := q.Exec(ctx, query,
		ar.ID, ar.ApprovalStatus, ar.ApprovedBy, ar.ApprovedAt, ar.RejectionReason, ar.AttendanceID,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return booking.ErrRequestAlreadyProcessed
	}
	return nil
}
