package portfolio

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/portfolio"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/storage"
)

type portfolioServiceImpl struct {
	portfolioRepo  portfolio.PortfolioRepository
	classRepo      enrollment.ClassEnrollmentRepository
	enrollmentRepo enrollment.EnrollmentRepository
	syllabusRepo   catalog.SyllabusRepository
	storage        storage.FileStorage
}

func NewPortfolioService(
	portfolioRepo portfolio.PortfolioRepository,
	classRepo enrollment.ClassEnrollmentRepository,
	enrollmentRepo enrollment.EnrollmentRepository,
	syllabusRepo catalog.SyllabusRepository,
	fileStorage storage.FileStorage,
) portfolio.PortfolioService {
	return &portfolioServiceImpl{
		portfolioRepo:  portfolioRepo,
		classRepo:      classRepo,
		enrollmentRepo: enrollmentRepo,
		syllabusRepo:   syllabusRepo,
		storage:        fileStorage,
	}
}

// ownedClass loads the class enrollment and checks it belongs to studentID.
func (s *portfolioServiceImpl) ownedClass(ctx context.Context, studentID, classEnrollmentID string) (*enrollment.ClassEnrollment, error) {
	ce, err := s.classRepo.GetByID(ctx, classEnrollmentID)
	if err != nil {
		return nil, err
	}
	e, err := s.enrollmentRepo.GetByID(ctx, ce.EnrollmentID)
	if err != nil {
		return nil, err
	}
	if e.StudentID != studentID {
		return nil, enrollment.ErrClassEnrollmentNotOwned
	}
	return ce, nil
}

// Upload implements portfolio.PortfolioService.
func (s *portfolioServiceImpl) Upload(ctx context.Context, studentID string, req portfolio.UploadRequest) (*portfolio.Portfolio, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ce, err := s.ownedClass(ctx, studentID, req.ClassEnrollmentID)
	if err != nil {
		return nil, err
	}
	if req.SyllabusID != nil {
		item, err := s.syllabusRepo.GetByID(ctx, *req.SyllabusID)
		if err != nil {
			return nil, err
		}
		if item.ProgramClassID != ce.ProgramClassID {
			return nil, portfolio.ErrSyllabusMismatch
		}
	}

	obj, err := s.storage.Save(ctx, "portfolios/"+ce.ID, req.FileName, req.File)
	if err != nil {
		return nil, fmt.Errorf("failed to store portfolio file: %w", err)
	}

	p := &portfolio.Portfolio{
		ClassEnrollmentID: ce.ID,
		SyllabusID:        req.SyllabusID,
		Title:             req.Title,
		FileID:            obj.ID,
		FileURL:           obj.URL,
		FilePath:          obj.Path,
	}
	if err := s.portfolioRepo.Create(ctx, p); err != nil {
		if derr := s.storage.Delete(ctx, obj.Path); derr != nil {
			slog.Warn("Failed to remove orphaned portfolio file", "path", obj.Path, "error", derr)
		}
		return nil, fmt.Errorf("failed to create portfolio: %w", err)
	}

	slog.Info("Portfolio uploaded", "portfolio_id", p.ID, "class_enrollment_id", ce.ID, "student_id", studentID)
	return p, nil
}

// ListForStudent implements portfolio.PortfolioService.
func (s *portfolioServiceImpl) ListForStudent(ctx context.Context, studentID, classEnrollmentID string) ([]portfolio.Portfolio, error) {
	if _, err := s.ownedClass(ctx, studentID, classEnrollmentID); err != nil {
		return nil, err
	}
	return s.List(ctx, classEnrollmentID)
}

// List implements portfolio.PortfolioService.
func (s *portfolioServiceImpl) List(ctx context.Context, classEnrollmentID string) ([]portfolio.Portfolio, error) {
	items, err := s.portfolioRepo.ListByClassEnrollment(ctx, classEnrollmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	if items == nil {
		items = []portfolio.Portfolio{}
	}
	return items, nil
}

// DeleteForStudent implements portfolio.PortfolioService.
func (s *portfolioServiceImpl) DeleteForStudent(ctx context.Context, studentID, portfolioID string) error {
	p, err := s.portfolioRepo.GetByID(ctx, portfolioID)
	if err != nil {
		return err
	}
	if _, err := s.ownedClass(ctx, studentID, p.ClassEnrollmentID); err != nil {
		return err
	}
	return s.remove(ctx, p)
}

// Delete implements portfolio.PortfolioService.
func (s *portfolioServiceImpl) Delete(ctx context.Context, portfolioID string) error {
	p, err := s.portfolioRepo.GetByID(ctx, portfolioID)
	if err != nil {
		return err
	}
	return s.remove(ctx, p)
}

// remove deletes the row first. A file left behind by a failed delete is
// only logged.
func (s *portfolioServiceImpl) remove(ctx context.Context, p *portfolio.Portfolio) error {
	if err := s.portfolioRepo.Delete(ctx, p.ID); err != nil {
		return err
	}
	if p.FilePath != "" {
		if err := s.storage.Delete(ctx, p.FilePath); err != nil {
			slog.Warn("Failed to remove portfolio file", "portfolio_id", p.ID, "path", p.FilePath, "error", err)
		}
	}

	slog.Info("Portfolio deleted", "portfolio_id", p.ID, "class_enrollment_id", p.ClassEnrollmentID)
	return nil
}
