package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

type catalogServiceImpl struct {
	tx           database.Transactor
	slotRepo     catalog.TimeSlotRepository
	classRepo    catalog.MasterClassRepository
	programRepo  catalog.ProgramRepository
	syllabusRepo catalog.SyllabusRepository
	userRepo     user.UserRepository
}

func NewCatalogService(
	tx database.Transactor,
	slotRepo catalog.TimeSlotRepository,
	classRepo catalog.MasterClassRepository,
	programRepo catalog.ProgramRepository,
	syllabusRepo catalog.SyllabusRepository,
	userRepo user.UserRepository,
) catalog.CatalogService {
	return &catalogServiceImpl{
		tx:           tx,
		slotRepo:     slotRepo,
		classRepo:    classRepo,
		programRepo:  programRepo,
		syllabusRepo: syllabusRepo,
		userRepo:     userRepo,
	}
}

// ==================== TIME SLOTS ====================

func (s *catalogServiceImpl) CreateTimeSlot(ctx context.Context, req catalog.CreateTimeSlotRequest) (*catalog.TimeSlot, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	slot := &catalog.TimeSlot{
		Name:      strings.TrimSpace(req.Name),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsOnline:  req.IsOnline,
	}
	if err := s.slotRepo.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to create time slot: %w", err)
	}
	return slot, nil
}

func (s *catalogServiceImpl) ListTimeSlots(ctx context.Context) ([]catalog.TimeSlot, error) {
	return s.slotRepo.List(ctx)
}

// ==================== MASTER CLASSES ====================

func (s *catalogServiceImpl) CreateMasterClass(ctx context.Context, req catalog.CreateMasterClassRequest) (*catalog.MasterClass, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	mc := &catalog.MasterClass{
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		DefaultMaxIzin: req.DefaultMaxIzin,
	}
	if err := s.classRepo.Create(ctx, mc); err != nil {
		return nil, err
	}
	return mc, nil
}

func (s *catalogServiceImpl) ListMasterClasses(ctx context.Context) ([]catalog.MasterClass, error) {
	return s.classRepo.List(ctx)
}

// ==================== PROGRAMS ====================

func (s *catalogServiceImpl) CreateProgram(ctx context.Context, req catalog.CreateProgramRequest) (*catalog.Program, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := &catalog.Program{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		IsBatchBased: req.IsBatchBased,
	}
	if err := s.programRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}
	return p, nil
}

func (s *catalogServiceImpl) GetProgram(ctx context.Context, id string) (*catalog.Program, error) {
	return s.programRepo.GetByID(ctx, id)
}

func (s *catalogServiceImpl) ListPrograms(ctx context.Context) ([]catalog.Program, error) {
	return s.programRepo.List(ctx)
}

func (s *catalogServiceImpl) AddProgramClass(ctx context.Context, req catalog.AddProgramClassRequest) (*catalog.ProgramClass, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	mc, err := s.classRepo.GetByID(ctx, req.MasterClassID)
	if err != nil {
		return nil, err
	}

	maxIzin := mc.DefaultMaxIzin
	if req.MaxIzin != nil {
		maxIzin = *req.MaxIzin
	}
	if maxIzin > req.TotalSessions {
		var errs validator.ValidationErrors
		errs.Add("max_izin", "max_izin must not exceed total_sessions")
		return nil, errs
	}

	var name *string
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		trimmed := strings.TrimSpace(*req.Name)
		name = &trimmed
	}

	pc := &catalog.ProgramClass{
		ProgramID:       req.ProgramID,
		MasterClassID:   mc.ID,
		Name:            name,
		TotalSessions:   req.TotalSessions,
		SessionsPerWeek: req.SessionsPerWeek,
		IsBatch:         req.IsBatch,
		MaxIzin:         maxIzin,
	}
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.programRepo.GetByID(txCtx, req.ProgramID); err != nil {
			return err
		}
		return s.programRepo.AddClass(txCtx, pc)
	})
	if err != nil {
		return nil, err
	}
	return pc, nil
}

// ==================== SYLLABUS ====================

func (s *catalogServiceImpl) GetSyllabus(ctx context.Context, programClassID string) (*catalog.SyllabusResponse, error) {
	pc, err := s.programRepo.GetClass(ctx, programClassID)
	if err != nil {
		return nil, err
	}
	items, err := s.syllabusRepo.ListByClass(ctx, programClassID)
	if err != nil {
		return nil, fmt.Errorf("failed to list syllabus: %w", err)
	}
	if items == nil {
		items = []catalog.SyllabusItem{}
	}

	covered := catalog.SyllabusSessions(items)
	return &catalog.SyllabusResponse{
		ProgramClassID:    pc.ID,
		ClassName:         pc.DisplayName(),
		TotalSessions:     pc.TotalSessions,
		SyllabusSessions:  covered,
		RemainingSessions: pc.TotalSessions - covered,
		Items:             items,
	}, nil
}

// AddSyllabusItem appends a topic. The syllabus may never cover more sessions
// than the class has.
func (s *catalogServiceImpl) AddSyllabusItem(ctx context.Context, req catalog.CreateSyllabusRequest) (*catalog.SyllabusItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item := &catalog.SyllabusItem{
		ProgramClassID: req.ProgramClassID,
		Topic:          strings.TrimSpace(req.Topic),
		Description:    req.Description,
		Sessions:       req.Sessions,
	}
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		pc, err := s.programRepo.GetClass(txCtx, req.ProgramClassID)
		if err != nil {
			return err
		}
		items, err := s.syllabusRepo.ListByClass(txCtx, req.ProgramClassID)
		if err != nil {
			return fmt.Errorf("failed to list syllabus: %w", err)
		}
		if catalog.SyllabusSessions(items)+req.Sessions > pc.TotalSessions {
			return catalog.ErrSyllabusExceedsSessions
		}
		return s.syllabusRepo.Create(txCtx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateSyllabusItem rewrites a topic under the same bound as AddSyllabusItem,
// not counting the item's own sessions.
func (s *catalogServiceImpl) UpdateSyllabusItem(ctx context.Context, req catalog.UpdateSyllabusRequest) (*catalog.SyllabusItem, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var item *catalog.SyllabusItem
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.syllabusRepo.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		pc, err := s.programRepo.GetClass(txCtx, current.ProgramClassID)
		if err != nil {
			return err
		}
		items, err := s.syllabusRepo.ListByClass(txCtx, current.ProgramClassID)
		if err != nil {
			return fmt.Errorf("failed to list syllabus: %w", err)
		}
		if catalog.SyllabusSessions(items)-current.Sessions+req.Sessions > pc.TotalSessions {
			return catalog.ErrSyllabusExceedsSessions
		}

		current.Topic = req.Topic
		current.Description = req.Description
		current.Sessions = req.Sessions
		item = current
		return s.syllabusRepo.Update(txCtx, current)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *catalogServiceImpl) DeleteSyllabusItem(ctx context.Context, id string) error {
	return s.syllabusRepo.Delete(ctx, id)
}

// ==================== TEACHERS ====================

func (s *catalogServiceImpl) CreateTeacher(ctx context.Context, req catalog.CreateTeacherRequest) (*catalog.TeacherResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := req.Validate(); err != nil {
		return nil, err
	}
	phone, _ := validator.NormalizePhoneNumber(req.PhoneNumber)

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, user.ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	hashed := string(hash)

	teacher := &user.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PhoneNumber:  phone,
		PasswordHash: &hashed,
		Role:         user.RoleTeacher,
	}
	if err := s.userRepo.Create(ctx, teacher); err != nil {
		return nil, err
	}
	return toTeacherResponse(*teacher), nil
}

func (s *catalogServiceImpl) ListTeachers(ctx context.Context) ([]catalog.TeacherResponse, error) {
	teachers, err := s.userRepo.ListByRole(ctx, user.RoleTeacher)
	if err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}

	responses := make([]catalog.TeacherResponse, 0, len(teachers))
	for _, t := range teachers {
		responses = append(responses, *toTeacherResponse(t))
	}
	return responses, nil
}

func toTeacherResponse(u user.User) *catalog.TeacherResponse {
	return &catalog.TeacherResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
	}
}
