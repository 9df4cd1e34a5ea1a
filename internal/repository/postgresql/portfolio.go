package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/portfolio"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type portfolioRepositoryImpl struct {
	db *database.DB
}

func NewPortfolioRepository(db *database.DB) portfolio.PortfolioRepository {
	return &portfolioRepositoryImpl{db: db}
}

func (r *portfolioRepositoryImpl) Create(ctx context.Context, p *portfolio.Portfolio) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO portfolios (class_enrollment_id, syllabus_id, title, file_id, file_url, file_path)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return q.QueryRow(ctx, query, p.ClassEnrollmentID, p.SyllabusID, p.Title, p.FileID, p.FileURL, p.FilePath).
		Scan(&p.ID, &p.CreatedAt)
}

func (r *portfolioRepositoryImpl) GetByID(ctx context.Context, id string) (*portfolio.Portfolio, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT p.id, p.class_enrollment_id, p.syllabus_id, p.title, p.file_id, p.file_url, p.file_path, p.created_at, s.topic
		FROM portfolios p
		LEFT JOIN syllabi s ON s.id = p.syllabus_id
		WHERE p.id = $1
	`
	var p portfolio.Portfolio
	err := q.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.ClassEnrollmentID, &p.SyllabusID, &p.Title, &p.FileID, &p.FileURL, &p.FilePath, &p.CreatedAt, &p.SyllabusTopic)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, portfolio.ErrPortfolioNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *portfolioRepositoryImpl) ListByClassEnrollment(ctx context.Context, classEnrollmentID string) ([]portfolio.Portfolio, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT p.id, p.class_enrollment_id, p.syllabus_id, p.title, p.file_id, p.file_url, p.file_path, p.created_at, s.topic
		FROM portfolios p
		LEFT JOIN syllabi s ON s.id = p.syllabus_id
		WHERE p.class_enrollment_id = $1
		ORDER BY p.created_at DESC
	`
	rows, err := q.Query(ctx, query, classEnrollmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []portfolio.Portfolio
	for rows.Next() {
		var p portfolio.Portfolio
		err := rows.Scan(&p.ID, &p.ClassEnrollmentID, &p.SyllabusID, &p.Title, &p.FileID, &p.FileURL, &p.FilePath, &p.CreatedAt, &p.SyllabusTopic)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *portfolioRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM portfolios WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return portfolio.ErrPortfolioNotFound
	}
	return nil
}
