package progress

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/booking"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/progress"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/utils"
)

type ProgressServiceImpl struct {
	tx database.Transactor
	enrollment.EnrollmentRepository
	enrollment.ClassEnrollmentRepository
	booking.BookingRepository
	booking.AttendanceRepository
	catalog.SyllabusRepository
}

func NewProgressService(
	tx database.Transactor,
	enrollmentRepo enrollment.EnrollmentRepository,
	classRepo enrollment.ClassEnrollmentRepository,
	bookingRepo booking.BookingRepository,
	attendanceRepo booking.AttendanceRepository,
	syllabusRepo catalog.SyllabusRepository,
) progress.ProgressService {
	return &ProgressServiceImpl{
		tx:                        tx,
		EnrollmentRepository:      enrollmentRepo,
		ClassEnrollmentRepository: classRepo,
		BookingRepository:         bookingRepo,
		AttendanceRepository:      attendanceRepo,
		SyllabusRepository:        syllabusRepo,
	}
}

func (s *ProgressServiceImpl) classProgress(ctx context.Context, ce enrollment.ClassEnrollment) (progress.ClassProgress, error) {
	items, err := s.SyllabusRepository.ListByClass(ctx, ce.ProgramClassID)
	if err != nil {
		return progress.ClassProgress{}, fmt.Errorf("failed to list syllabus: %w", err)
	}
	tally, err := s.AttendanceRepository.Tally(ctx, ce.ID)
	if err != nil {
		return progress.ClassProgress{}, fmt.Errorf("failed to tally attendance: %w", err)
	}
	recent, err := s.AttendanceRepository.ListRecentByClassEnrollment(ctx, ce.ID, progress.RecentAttendanceLimit)
	if err != nil {
		return progress.ClassProgress{}, fmt.Errorf("failed to list recent attendance: %w", err)
	}
	if recent == nil {
		recent = []booking.Attendance{}
	}

	completed := ce.CompletedSessions()
	topic := progress.CurrentTopic(items, completed)
	return progress.ClassProgress{
		ClassEnrollmentID: ce.ID,
		ClassName:         ce.ClassName,
		Status:            ce.Status,
		IsBatch:           ce.IsBatch,
		TotalSessions:     ce.TotalSessions,
		Completed:         completed,
		Remaining:         ce.SessionsRemaining,
		Percentage:        progress.Percentage(completed, ce.TotalSessions),
		Tally:             tally,
		IzinUsed:          ce.IzinUsed,
		IzinRemaining:     ce.IzinRemaining(),
		MaxIzin:           ce.MaxIzin,
		CurrentTopic:      topic.Label(),
		Topic:             topic,
		Recent:            recent,
	}, nil
}

func (s *ProgressServiceImpl) build(ctx context.Context, e enrollment.Enrollment) (*progress.StudentProgress, error) {
	classes, err := s.ClassEnrollmentRepository.ListByEnrollment(ctx, e.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list class enrollments: %w", err)
	}

	p := &progress.StudentProgress{
		EnrollmentID: e.ID,
		StudentID:    e.StudentID,
		StudentName:  e.StudentName,
		ProgramName:  e.ProgramName,
		Status:       e.Status,
		Classes:      make([]progress.ClassProgress, 0, len(classes)),
	}
	if e.FirstClassDate != nil {
		date := e.FirstClassDate.Format(utils.DateLayout)
		p.FirstClassDate = &date
	}

	for _, ce := range classes {
		cp, err := s.classProgress(ctx, ce)
		if err != nil {
			return nil, err
		}
		p.TotalSessions += cp.TotalSessions
		p.Completed += cp.Completed
		p.Remaining += cp.Remaining
		p.Classes = append(p.Classes, cp)
	}
	p.Percentage = progress.Percentage(p.Completed, p.TotalSessions)
	return p, nil
}

// StudentProgress implements progress.ProgressService.
func (s *ProgressServiceImpl) StudentProgress(ctx context.Context, enrollmentID string) (*progress.StudentProgress, error) {
	e, err := s.EnrollmentRepository.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	return s.build(ctx, *e)
}

// MyProgress implements progress.ProgressService.
func (s *ProgressServiceImpl) MyProgress(ctx context.Context, studentID string) ([]progress.StudentProgress, error) {
	enrollments, err := s.EnrollmentRepository.List(ctx, enrollment.EnrollmentFilter{StudentID: studentID})
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	result := make([]progress.StudentProgress, 0, len(enrollments))
	for _, e := range enrollments {
		p, err := s.build(ctx, e)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, nil
}

// TeacherStudents implements progress.ProgressService. Students are found
// through the bookings that name the teacher; sessions covered as a
// substitute do not add students.
func (s *ProgressServiceImpl) TeacherStudents(ctx context.Context, teacherID string) ([]progress.TeacherStudent, error) {
	bookings, err := s.BookingRepository.List(ctx, booking.BookingFilter{TeacherIDs: []string{teacherID}})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	seen := make(map[string]bool)
	result := make([]progress.TeacherStudent, 0)
	for _, b := range bookings {
		if seen[b.EnrollmentID] {
			continue
		}
		seen[b.EnrollmentID] = true

		p, err := s.StudentProgress(ctx, b.EnrollmentID)
		if err != nil {
			return nil, err
		}
		result = append(result, progress.TeacherStudent{StudentID: p.StudentID, StudentName: p.StudentName, Progress: *p})
	}

	sort.SliceStable(result, func(i, j int) bool { return result[i].StudentName < result[j].StudentName })
	return result, nil
}

// ListEnrollments implements progress.ProgressService.
func (s *ProgressServiceImpl) ListEnrollments(ctx context.Context, filter enrollment.EnrollmentFilter) ([]enrollment.Enrollment, error) {
	enrollments, err := s.EnrollmentRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	if enrollments == nil {
		enrollments = []enrollment.Enrollment{}
	}
	return enrollments, nil
}

// UpdateClassEnrollment implements progress.ProgressService. Completing the
// last active class completes the enrollment.
func (s *ProgressServiceImpl) UpdateClassEnrollment(ctx context.Context, req enrollment.UpdateClassEnrollmentRequest) (*enrollment.ClassEnrollment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		ce, err := s.ClassEnrollmentRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}

		remaining, status := ce.SessionsRemaining, ce.Status
		if req.SessionsRemaining != nil {
			remaining = *req.SessionsRemaining
		}
		if req.Status != nil {
			status = enrollment.ClassStatus(*req.Status)
		}
		if remaining < 0 || remaining > ce.TotalSessions {
			return enrollment.ErrInvalidSessionsRemaining
		}

		if err := s.ClassEnrollmentRepository.Update(txCtx, ce.ID, remaining, status); err != nil {
			return fmt.Errorf("failed to update class enrollment: %w", err)
		}
		if status == enrollment.ClassStatusCompleted {
			if _, err := s.EnrollmentRepository.CompleteIfFinished(txCtx, ce.EnrollmentID); err != nil {
				return fmt.Errorf("failed to complete enrollment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Class enrollment updated", "class_enrollment_id", req.ID)
	return s.ClassEnrollmentRepository.GetByID(ctx, req.ID)
}

// UpdateEnrollmentStatus implements progress.ProgressService.
func (s *ProgressServiceImpl) UpdateEnrollmentStatus(ctx context.Context, req enrollment.UpdateEnrollmentStatusRequest) (*enrollment.Enrollment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.EnrollmentRepository.GetByID(ctx, req.ID); err != nil {
		return nil, err
	}
	if err := s.EnrollmentRepository.UpdateStatus(ctx, req.ID, enrollment.Status(req.Status)); err != nil {
		return nil, fmt.Errorf("failed to update enrollment status: %w", err)
	}

	slog.Info("Enrollment status updated", "enrollment_id", req.ID, "status", req.Status)
	return s.EnrollmentRepository.GetByID(ctx, req.ID)
}
