package availability

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/availability"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/database"
)

type availabilityServiceImpl struct {
	tx               database.Transactor
	availabilityRepo availability.AvailabilityRepository
	classRepo        enrollment.ClassEnrollmentRepository
	scheduleRepo     enrollment.WeeklyScheduleRepository
	userRepo         user.UserRepository
}

func NewAvailabilityService(
	tx database.Transactor,
	availabilityRepo availability.AvailabilityRepository,
	classRepo enrollment.ClassEnrollmentRepository,
	scheduleRepo enrollment.WeeklyScheduleRepository,
	userRepo user.UserRepository,
) availability.AvailabilityService {
	return &availabilityServiceImpl{
		tx:               tx,
		availabilityRepo: availabilityRepo,
		classRepo:        classRepo,
		scheduleRepo:     scheduleRepo,
		userRepo:         userRepo,
	}
}

// ListOpenSlots implements availability.AvailabilityService.
func (s *availabilityServiceImpl) ListOpenSlots(ctx context.Context, enrollmentID, classEnrollmentID string) ([]availability.SlotOption, error) {
	class, err := s.classRepo.GetByID(ctx, classEnrollmentID)
	if err != nil {
		return nil, err
	}
	if class.EnrollmentID != enrollmentID {
		return nil, enrollment.ErrClassEnrollmentNotFound
	}

	candidates, err := s.availabilityRepo.ListCandidates(ctx, class.MasterClassID)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate teachers: %w", err)
	}

	schedules, err := s.scheduleRepo.ListByEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly schedules: %w", err)
	}
	used := make([]availability.DaySlot, 0, len(schedules))
	for _, ws := range schedules {
		used = append(used, availability.DaySlot{DayOfWeek: ws.DayOfWeek, TimeSlotID: ws.TimeSlotID})
	}

	return availability.FilterOpen(candidates, used), nil
}

func (s *availabilityServiceImpl) requireTeacher(ctx context.Context, teacherID string) error {
	u, err := s.userRepo.GetByID(ctx, teacherID)
	if err != nil {
		return err
	}
	if !u.IsTeacher() {
		return user.ErrNotATeacher
	}
	return nil
}

// SetSkills implements availability.AvailabilityService.
func (s *availabilityServiceImpl) SetSkills(ctx context.Context, req availability.SetSkillsRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := s.requireTeacher(ctx, req.TeacherID); err != nil {
		return err
	}

	return s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		return s.availabilityRepo.ReplaceSkills(txCtx, req.TeacherID, req.MasterClassIDs)
	})
}

// SetAvailability implements availability.AvailabilityService. Every entry
// must name a master class the teacher is skilled in.
func (s *availabilityServiceImpl) SetAvailability(ctx context.Context, req availability.SetAvailabilityRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := s.requireTeacher(ctx, req.TeacherID); err != nil {
		return err
	}

	return s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		skills, err := s.availabilityRepo.ListSkills(txCtx, req.TeacherID)
		if err != nil {
			return fmt.Errorf("failed to list teacher skills: %w", err)
		}
		skilled := make(map[string]bool, len(skills))
		for _, mc := range skills {
			skilled[mc.ID] = true
		}

		entries := make([]availability.Availability, 0, len(req.Entries))
		for _, e := range req.Entries {
			if !skilled[e.MasterClassID] {
				return availability.ErrMissingSkill
			}
			entries = append(entries, availability.Availability{
				TeacherID:     req.TeacherID,
				MasterClassID: e.MasterClassID,
				DayOfWeek:     e.DayOfWeek,
				TimeSlotID:    e.TimeSlotID,
			})
		}
		return s.availabilityRepo.ReplaceAvailability(txCtx, req.TeacherID, entries)
	})
}

// GetTeacherAvailability implements availability.AvailabilityService.
func (s *availabilityServiceImpl) GetTeacherAvailability(ctx context.Context, teacherID string) (*availability.TeacherAvailabilityResponse, error) {
	if err := s.requireTeacher(ctx, teacherID); err != nil {
		return nil, err
	}

	skills, err := s.availabilityRepo.ListSkills(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teacher skills: %w", err)
	}
	entries, err := s.availabilityRepo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teacher availability: %w", err)
	}

	resp := &availability.TeacherAvailabilityResponse{
		TeacherID: teacherID,
		Skills:    make([]availability.SkillResponse, 0, len(skills)),
		Entries:   entries,
	}
	if resp.Entries == nil {
		resp.Entries = []availability.Availability{}
	}
	for _, mc := range skills {
		resp.Skills = append(resp.Skills, availability.SkillResponse{MasterClassID: mc.ID, Name: mc.Name})
	}
	return resp, nil
}
