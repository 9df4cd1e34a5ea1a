package catalog

import "context"

type TimeSlotRepository interface {
	Create(ctx context.Context, slot *TimeSlot) error
	GetByID(ctx context.Context, id string) (*TimeSlot, error)
	List(ctx context.Context) ([]TimeSlot, error)
}

type MasterClassRepository interface {
	Create(ctx context.Context, mc *MasterClass) error
	GetByID(ctx context.Context, id string) (*MasterClass, error)
	List(ctx context.Context) ([]MasterClass, error)
}

type ProgramRepository interface {
	Create(ctx context.Context, p *Program) error
	// GetByID loads the program with its classes ordered by display order.
	GetByID(ctx context.Context, id string) (*Program, error)
	List(ctx context.Context) ([]Program, error)
	// AddClass appends the class after the program's current last class.
	AddClass(ctx context.Context, c *ProgramClass) error
	GetClass(ctx context.Context, id string) (*ProgramClass, error)
}

type SyllabusRepository interface {
	ListByClass(ctx context.Context, programClassID string) ([]SyllabusItem, error)
	GetByID(ctx context.Context, id string) (*SyllabusItem, error)
	// Create appends the item after the class's current last item.
	Create(ctx context.Context, item *SyllabusItem) error
	// Update rewrites topic, description and sessions. Display order is kept.
	Update(ctx context.Context, item *SyllabusItem) error
	Delete(ctx context.Context, id string) error
}
