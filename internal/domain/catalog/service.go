package catalog

import "context"

type CatalogService interface {
	CreateTimeSlot(ctx context.Context, req CreateTimeSlotRequest) (*TimeSlot, error)
	ListTimeSlots(ctx context.Context) ([]TimeSlot, error)

	CreateMasterClass(ctx context.Context, req CreateMasterClassRequest) (*MasterClass, error)
	ListMasterClasses(ctx context.Context) ([]MasterClass, error)

	CreateProgram(ctx context.Context, req CreateProgramRequest) (*Program, error)
	GetProgram(ctx context.Context, id string) (*Program, error)
	ListPrograms(ctx context.Context) ([]Program, error)
	AddProgramClass(ctx context.Context, req AddProgramClassRequest) (*ProgramClass, error)

	GetSyllabus(ctx context.Context, programClassID string) (*SyllabusResponse, error)
	AddSyllabusItem(ctx context.Context, req CreateSyllabusRequest) (*SyllabusItem, error)
	UpdateSyllabusItem(ctx context.Context, req UpdateSyllabusRequest) (*SyllabusItem, error)
	DeleteSyllabusItem(ctx context.Context, id string) error

	CreateTeacher(ctx context.Context, req CreateTeacherRequest) (*TeacherResponse, error)
	ListTeachers(ctx context.Context) ([]TeacherResponse, error)
}
