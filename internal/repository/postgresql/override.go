package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/override"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type overrideRepositoryImpl struct {
	db *database.DB
}

func NewOverrideRepository(db *database.DB) override.OverrideRepository {
	return &overrideRepositoryImpl{db: db}
}

const overrideSelect = `
	SELECT o.id, o.date, o.timeslot_id, o.original_teacher_id, o.substitute_teacher_id, o.created_by, o.reason, o.created_at,
		   ot.name, st.name, ts.name
	FROM teacher_session_overrides o
	INNER JOIN users ot ON ot.id = o.original_teacher_id
	INNER JOIN users st ON st.id = o.substitute_teacher_id
	INNER JOIN timeslots ts ON ts.id = o.timeslot_id
`

func scanOverride(row pgx.Row) (*override.Override, error) {
	var o override.Override
	err := row.Scan(
		&o.ID,
		&o.Date,
		&o.TimeSlotID,
		&o.OriginalTeacherID,
		&o.SubstituteTeacherID,
		&o.CreatedBy,
		&o.Reason,
		&o.CreatedAt,
		&o.OriginalTeacherName,
		&o.SubstituteTeacherName,
		&o.TimeSlotName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, override.ErrOverrideNotFound
		}
		return nil, err
	}
	return &o, nil
}

// Upsert implements override.OverrideRepository.
func (r *overrideRepositoryImpl) Upsert(ctx context.Context, o *override.Override) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO teacher_session_overrides (date, timeslot_id, original_teacher_id, substitute_teacher_id, created_by, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (date, timeslot_id, original_teacher_id) DO UPDATE
		SET substitute_teacher_id = EXCLUDED.substitute_teacher_id,
			created_by = EXCLUDED.created_by,
			reason = EXCLUDED.reason,
			created_at = NOW()
		RETURNING id, created_at
	`
	err := q.QueryRow(ctx, query, o.Date, o.TimeSlotID, o.OriginalTeacherID, o.SubstituteTeacherID, o.CreatedBy, o.Reason).
		Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		if database.IsCheckViolation(err) {
			return override.ErrSameTeacher
		}
		return err
	}
	return nil
}

func (r *overrideRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM teacher_session_overrides WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return override.ErrOverrideNotFound
	}
	return nil
}

func (r *overrideRepositoryImpl) Find(ctx context.Context, date time.Time, slotID, originalTeacherID string) (*override.Override, error) {
	q := GetQuerier(ctx, r.db)
	query := overrideSelect + ` WHERE o.date = $1 AND o.timeslot_id = $2 AND o.original_teacher_id = $3`
	return scanOverride(q.QueryRow(ctx, query, date, slotID, originalTeacherID))
}

// ListBetween implements override.OverrideRepository. Both bounds are inclusive.
func (r *overrideRepositoryImpl) ListBetween(ctx context.Context, from, to time.Time) ([]override.Override, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, overrideSelect+` WHERE o.date BETWEEN $1 AND $2 ORDER BY o.date, ts.start_time`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overrides []override.Override
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, *o)
	}
	return overrides, rows.Err()
}
