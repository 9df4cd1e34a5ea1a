package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type timeSlotRepositoryImpl struct {
	db *database.DB
}

func NewTimeSlotRepository(db *database.DB) catalog.TimeSlotRepository {
	return &timeSlotRepositoryImpl{db: db}
}

func (r *timeSlotRepositoryImpl) Create(ctx context.Context, slot *catalog.TimeSlot) error {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO timeslots (name, start_time, end_time, is_online)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return q.QueryRow(ctx, query, slot.Name, slot.StartTime, slot.EndTime, slot.IsOnline).Scan(&slot.ID)
}

func (r *timeSlotRepositoryImpl) GetByID(ctx context.Context, id string) (*catalog.TimeSlot, error) {
	q := GetQuerier(ctx, r.db)

	var s catalog.TimeSlot
	err := q.QueryRow(ctx, `SELECT id, name, start_time, end_time, is_online FROM timeslots WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.StartTime, &s.EndTime, &s.IsOnline)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrTimeSlotNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *timeSlotRepositoryImpl) List(ctx context.Context) ([]catalog.TimeSlot, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, name, start_time, end_time, is_online FROM timeslots ORDER BY start_time, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []catalog.TimeSlot
	for rows.Next() {
		var s catalog.TimeSlot
		if err := rows.Scan(&s.ID, &s.Name, &s.StartTime, &s.EndTime, &s.IsOnline); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

type masterClassRepositoryImpl struct {
	db *database.DB
}

func NewMasterClassRepository(db *database.DB) catalog.MasterClassRepository {
	return &masterClassRepositoryImpl{db: db}
}

func (r *masterClassRepositoryImpl) Create(ctx context.Context, mc *catalog.MasterClass) error {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO master_classes (name, description, default_max_izin)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := q.QueryRow(ctx, query, mc.Name, mc.Description, mc.DefaultMaxIzin).Scan(&mc.ID)
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return catalog.ErrMasterClassNameExists
		}
		return err
	}
	return nil
}

func (r *masterClassRepositoryImpl) GetByID(ctx context.Context, id string) (*catalog.MasterClass, error) {
	q := GetQuerier(ctx, r.db)

	var mc catalog.MasterClass
	err := q.QueryRow(ctx, `SELECT id, name, description, default_max_izin FROM master_classes WHERE id = $1`, id).
		Scan(&mc.ID, &mc.Name, &mc.Description, &mc.DefaultMaxIzin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrMasterClassNotFound
		}
		return nil, err
	}
	return &mc, nil
}

func (r *masterClassRepositoryImpl) List(ctx context.Context) ([]catalog.MasterClass, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, name, description, default_max_izin FROM master_classes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []catalog.MasterClass
	for rows.Next() {
		var mc catalog.MasterClass
		if err := rows.Scan(&mc.ID, &mc.Name, &mc.Description, &mc.DefaultMaxIzin); err != nil {
			return nil, err
		}
		classes = append(classes, mc)
	}
	return classes, rows.Err()
}

type programRepositoryImpl struct {
	db *database.DB
}

func NewProgramRepository(db *database.DB) catalog.ProgramRepository {
	return &programRepositoryImpl{db: db}
}

const programClassSelect = `
	SELECT pc.id, pc.program_id, pc.master_class_id, pc.name, pc.total_sessions, pc.sessions_per_week,
		   pc.is_batch, pc.max_izin, pc.display_order, mc.name
	FROM program_classes pc
	INNER JOIN master_classes mc ON mc.id = pc.master_class_id
`

func scanProgramClass(row pgx.Row) (*catalog.ProgramClass, error) {
	var c catalog.ProgramClass
	err := row.Scan(
		&c.ID,
		&c.ProgramID,
		&c.MasterClassID,
		&c.Name,
		&c.TotalSessions,
		&c.SessionsPerWeek,
		&c.IsBatch,
		&c.MaxIzin,
		&c.DisplayOrder,
		&c.MasterClassName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrProgramClassNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *programRepositoryImpl) Create(ctx context.Context, p *catalog.Program) error {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO programs (name, description, is_batch_based)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return q.QueryRow(ctx, query, p.Name, p.Description, p.IsBatchBased).Scan(&p.ID, &p.CreatedAt)
}

// GetByID implements catalog.ProgramRepository.
func (r *programRepositoryImpl) GetByID(ctx context.Context, id string) (*catalog.Program, error) {
	q := GetQuerier(ctx, r.db)

	var p catalog.Program
	err := q.QueryRow(ctx, `SELECT id, name, description, is_batch_based, created_at FROM programs WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.IsBatchBased, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrProgramNotFound
		}
		return nil, err
	}

	rows, err := q.Query(ctx, programClassSelect+` WHERE pc.program_id = $1 ORDER BY pc.display_order, pc.id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanProgramClass(rows)
		if err != nil {
			return nil, err
		}
		p.Classes = append(p.Classes, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	p.TotalSessions = catalog.TotalSessions(p.Classes)
	return &p, nil
}

// List implements catalog.ProgramRepository. The session total is summed in SQL.
func (r *programRepositoryImpl) List(ctx context.Context) ([]catalog.Program, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT p.id, p.name, p.description, p.is_batch_based, p.created_at,
			   COALESCE(SUM(pc.total_sessions), 0)
		FROM programs p
		LEFT JOIN program_classes pc ON pc.program_id = p.id
		GROUP BY p.id
		ORDER BY p.name
	`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var programs []catalog.Program
	for rows.Next() {
		var p catalog.Program
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.IsBatchBased, &p.CreatedAt, &p.TotalSessions); err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

// AddClass implements catalog.ProgramRepository.
func (r *programRepositoryImpl) AddClass(ctx context.Context, c *catalog.ProgramClass) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO program_classes (
			program_id, master_class_id, name, total_sessions, sessions_per_week, is_batch, max_izin, display_order
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			(SELECT COALESCE(MAX(display_order), -1) + 1 FROM program_classes WHERE program_id = $1)
		) RETURNING id, display_order
	`
	err := q.QueryRow(ctx, query,
		c.ProgramID, c.MasterClassID, c.Name, c.TotalSessions, c.SessionsPerWeek, c.IsBatch, c.MaxIzin,
	).Scan(&c.ID, &c.DisplayOrder)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return catalog.ErrProgramNotFound
		}
		return err
	}
	return nil
}

func (r *programRepositoryImpl) GetClass(ctx context.Context, id string) (*catalog.ProgramClass, error) {
	q := GetQuerier(ctx, r.db)
	return scanProgramClass(q.QueryRow(ctx, programClassSelect+` WHERE pc.id = $1`, id))
}

type syllabusRepositoryImpl struct {
	db *database.DB
}

func NewSyllabusRepository(db *database.DB) catalog.SyllabusRepository {
	return &syllabusRepositoryImpl{db: db}
}

func (r *syllabusRepositoryImpl) ListByClass(ctx context.Context, programClassID string) ([]catalog.SyllabusItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, program_class_id, topic, description, sessions, display_order
		FROM syllabi
		WHERE program_class_id = $1
		ORDER BY display_order, id
	`
	rows, err := q.Query(ctx, query, programClassID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []catalog.SyllabusItem
	for rows.Next() {
		var it catalog.SyllabusItem
		if err := rows.Scan(&it.ID, &it.ProgramClassID, &it.Topic, &it.Description, &it.Sessions, &it.DisplayOrder); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *syllabusRepositoryImpl) GetByID(ctx context.Context, id string) (*catalog.SyllabusItem, error) {
	q := GetQuerier(ctx, r.db)

	var it catalog.SyllabusItem
	err := q.QueryRow(ctx, `SELECT id, program_class_id, topic, description, sessions, display_order FROM syllabi WHERE id = $1`, id).
		Scan(&it.ID, &it.ProgramClassID, &it.Topic, &it.Description, &it.Sessions, &it.DisplayOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrSyllabusNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *syllabusRepositoryImpl) Create(ctx context.Context, item *catalog.SyllabusItem) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO syllabi (program_class_id, topic, description, sessions, display_order)
		VALUES (
			$1, $2, $3, $4,
			(SELECT COALESCE(MAX(display_order), -1) + 1 FROM syllabi WHERE program_class_id = $1)
		) RETURNING id, display_order
	`
	return q.QueryRow(ctx, query, item.ProgramClassID, item.Topic, item.Description, item.Sessions).
		Scan(&item.ID, &item.DisplayOrder)
}

func (r *syllabusRepositoryImpl) Update(ctx context.Context, item *catalog.SyllabusItem) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE syllabi
		SET topic = $2, description = $3, sessions = $4
		WHERE id = $1
		RETURNING display_order
	`
	err := q.QueryRow(ctx, query, item.ID, item.Topic, item.Description, item.Sessions).Scan(&item.DisplayOrder)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.ErrSyllabusNotFound
	}
	return err
}

func (r *syllabusRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM syllabi WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return catalog.ErrSyllabusNotFound
	}
	return nil
}
