package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/reschedule"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type rescheduleRepositoryImpl struct {
	db *database.DB
}

func NewRescheduleRepository(db *database.DB) reschedule.RescheduleRepository {
	return &rescheduleRepositoryImpl{db: db}
}

const rescheduleSelect = `
	SELECT rr.id, rr.booking_id, rr.requested_by, rr.original_date, rr.original_timeslot_id, rr.original_teacher_id,
		   rr.new_date, rr.new_timeslot_id, rr.new_teacher_id, rr.reason, rr.status,
		   rr.approved_by, rr.approved_at, rr.rejection_reason, rr.new_booking_id, rr.created_at,
		   s.name, COALESCE(NULLIF(pc.name, ''), mc.name), rq.name, ots.name, nts.name, ot.name, nt.name
	FROM reschedule_requests rr
	INNER JOIN bookings b ON b.id = rr.booking_id
	INNER JOIN enrollments e ON e.id = b.enrollment_id
	INNER JOIN users s ON s.id = e.student_id
	INNER JOIN class_enrollments ce ON ce.id = b.class_enrollment_id
	INNER JOIN program_classes pc ON pc.id = ce.program_class_id
	INNER JOIN master_classes mc ON mc.id = pc.master_class_id
	INNER JOIN users rq ON rq.id = rr.requested_by
	INNER JOIN timeslots ots ON ots.id = rr.original_timeslot_id
	INNER JOIN timeslots nts ON nts.id = rr.new_timeslot_id
	INNER JOIN users ot ON ot.id = rr.original_teacher_id
	INNER JOIN users nt ON nt.id = rr.new_teacher_id
`

func scanReschedule(row pgx.Row) (*reschedule.Request, error) {
	var rr reschedule.Request
	err := row.Scan(
		&rr.ID,
		&rr.BookingID,
		&rr.RequestedBy,
		&rr.OriginalDate,
		&rr.OriginalTimeSlotID,
		&rr.OriginalTeacherID,
		&rr.NewDate,
		&rr.NewTimeSlotID,
		&rr.NewTeacherID,
		&rr.Reason,
		&rr.Status,
		&rr.ApprovedBy,
		&rr.ApprovedAt,
		&rr.RejectionReason,
		&rr.NewBookingID,
		&rr.CreatedAt,
		&rr.StudentName,
		&rr.ClassName,
		&rr.RequestedByName,
		&rr.OriginalSlotName,
		&rr.NewSlotName,
		&rr.OriginalTeacherName,
		&rr.NewTeacherName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, reschedule.ErrRequestNotFound
		}
		return nil, err
	}
	return &rr, nil
}

// Create implements reschedule.RescheduleRepository.
func (r *rescheduleRepositoryImpl) Create(ctx context.Context, rr *reschedule.Request) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO reschedule_requests (
			booking_id, requested_by, original_date, original_timeslot_id, original_teacher_id,
			new_date, new_timeslot_id, new_teacher_id, reason, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`
	err := q.QueryRow(ctx, query,
		rr.BookingID, rr.RequestedBy, rr.OriginalDate, rr.OriginalTimeSlotID, rr.OriginalTeacherID,
		rr.NewDate, rr.NewTimeSlotID, rr.NewTeacherID, rr.Reason, rr.Status,
	).Scan(&rr.ID, &rr.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "uq_reschedule_requests_pending") {
			return reschedule.ErrRequestPending
		}
		return err
	}
	return nil
}

func (r *rescheduleRepositoryImpl) GetByID(ctx context.Context, id string) (*reschedule.Request, error) {
	q := GetQuerier(ctx, r.db)
	return scanReschedule(q.QueryRow(ctx, rescheduleSelect+` WHERE rr.id = $1`, id))
}

func (r *rescheduleRepositoryImpl) List(ctx context.Context, filter reschedule.Filter) ([]reschedule.Request, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("rr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.RequestedBy != "" {
		conditions = append(conditions, fmt.Sprintf("rr.requested_by = $%d", argIdx))
		args = append(args, filter.RequestedBy)
		argIdx++
	}

	query := rescheduleSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY rr.created_at DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []reschedule.Request
	for rows.Next() {
		rr, err := scanReschedule(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *rr)
	}
	return requests, rows.Err()
}

// Resolve implements reschedule.RescheduleRepository.
func (r *rescheduleRepositoryImpl) Resolve(ctx context.Context, rr *reschedule.Request) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE reschedule_requests
		SET status = $2, approved_by = $3, approved_at = $4, rejection_reason = $5, new_booking_id = $6
		WHERE id = $1 AND status = 'pending'
	`
	commandTag, err := q.Exec(ctx, query, rr.ID, rr.Status, rr.ApprovedBy, rr.ApprovedAt, rr.RejectionReason, rr.NewBookingID)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return reschedule.ErrRequestAlreadyProcessed
	}
	return nil
}
