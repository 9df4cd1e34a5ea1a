package memorytest

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/availability"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
)

type timeSlotRepository struct{ s *Store }

func (s *Store) TimeSlots() catalog.TimeSlotRepository { return timeSlotRepository{s} }

func (r timeSlotRepository) Create(_ context.Context, slot *catalog.TimeSlot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	slot.ID = newID()
	r.s.t.timeSlots[slot.ID] = *slot
	return nil
}

func (r timeSlotRepository) GetByID(_ context.Context, id string) (*catalog.TimeSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	slot, ok := r.s.t.timeSlots[id]
	if !ok {
		return nil, catalog.ErrTimeSlotNotFound
	}
	return &slot, nil
}

func (r timeSlotRepository) List(_ context.Context) ([]catalog.TimeSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var slots []catalog.TimeSlot
	for _, slot := range r.s.t.timeSlots {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].StartTime != slots[j].StartTime {
			return slots[i].StartTime < slots[j].StartTime
		}
		return slots[i].Name < slots[j].Name
	})
	return slots, nil
}

type masterClassRepository struct{ s *Store }

func (s *Store) MasterClasses() catalog.MasterClassRepository { return masterClassRepository{s} }

func (r masterClassRepository) Create(_ context.Context, mc *catalog.MasterClass) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.t.masterClasses {
		if existing.Name == mc.Name {
			return catalog.ErrMasterClassNameExists
		}
	}
	mc.ID = newID()
	r.s.t.masterClasses[mc.ID] = *mc
	return nil
}

func (r masterClassRepository) GetByID(_ context.Context, id string) (*catalog.MasterClass, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	mc, ok := r.s.t.masterClasses[id]
	if !ok {
		return nil, catalog.ErrMasterClassNotFound
	}
	return &mc, nil
}

func (r masterClassRepository) List(_ context.Context) ([]catalog.MasterClass, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var classes []catalog.MasterClass
	for _, mc := range r.s.t.masterClasses {
		classes = append(classes, mc)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	return classes, nil
}

type programRepository struct{ s *Store }

func (s *Store) Programs() catalog.ProgramRepository { return programRepository{s} }

func (r programRepository) Create(_ context.Context, p *catalog.Program) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p.ID = newID()
	p.CreatedAt = r.s.tick()
	stored := *p
	stored.Classes = nil
	r.s.t.programs[p.ID] = stored
	return nil
}

func (r programRepository) classesOf(programID string) []catalog.ProgramClass {
	var classes []catalog.ProgramClass
	for _, c := range r.s.t.programClasses {
		if c.ProgramID == programID {
			c.MasterClassName = r.s.t.masterClasses[c.MasterClassID].Name
			classes = append(classes, c)
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].DisplayOrder < classes[j].DisplayOrder })
	return classes
}

func (r programRepository) GetByID(_ context.Context, id string) (*catalog.Program, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.t.programs[id]
	if !ok {
		return nil, catalog.ErrProgramNotFound
	}
	p.Classes = r.classesOf(id)
	p.TotalSessions = catalog.TotalSessions(p.Classes)
	return &p, nil
}

func (r programRepository) List(_ context.Context) ([]catalog.Program, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var programs []catalog.Program
	for _, p := range r.s.t.programs {
		p.TotalSessions = catalog.TotalSessions(r.classesOf(p.ID))
		programs = append(programs, p)
	}
	sort.Slice(programs, func(i, j int) bool { return programs[i].Name < programs[j].Name })
	return programs, nil
}

func (r programRepository) AddClass(_ context.Context, c *catalog.ProgramClass) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.t.programs[c.ProgramID]; !ok {
		return catalog.ErrProgramNotFound
	}
	if _, ok := r.s.t.masterClasses[c.MasterClassID]; !ok {
		return catalog.ErrMasterClassNotFound
	}

	c.DisplayOrder = len(r.classesOf(c.ProgramID))
	c.ID = newID()
	stored := *c
	stored.MasterClassName = ""
	r.s.t.programClasses[c.ID] = stored
	c.MasterClassName = r.s.t.masterClasses[c.MasterClassID].Name
	return nil
}

func (r programRepository) GetClass(_ context.Context, id string) (*catalog.ProgramClass, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.t.programClasses[id]
	if !ok {
		return nil, catalog.ErrProgramClassNotFound
	}
	c.MasterClassName = r.s.t.masterClasses[c.MasterClassID].Name
	return &c, nil
}

type syllabusRepository struct{ s *Store }

func (s *Store) Syllabi() catalog.SyllabusRepository { return syllabusRepository{s} }

func (r syllabusRepository) listLocked(programClassID string) []catalog.SyllabusItem {
	var items []catalog.SyllabusItem
	for _, it := range r.s.t.syllabi {
		if it.ProgramClassID == programClassID {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].DisplayOrder < items[j].DisplayOrder })
	return items
}

func (r syllabusRepository) ListByClass(_ context.Context, programClassID string) ([]catalog.SyllabusItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.listLocked(programClassID), nil
}

func (r syllabusRepository) GetByID(_ context.Context, id string) (*catalog.SyllabusItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it, ok := r.s.t.syllabi[id]
	if !ok {
		return nil, catalog.ErrSyllabusNotFound
	}
	return &it, nil
}

func (r syllabusRepository) Create(_ context.Context, item *catalog.SyllabusItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	next := 0
	for _, it := range r.listLocked(item.ProgramClassID) {
		if it.DisplayOrder >= next {
			next = it.DisplayOrder + 1
		}
	}
	item.ID = newID()
	item.DisplayOrder = next
	r.s.t.syllabi[item.ID] = *item
	return nil
}

func (r syllabusRepository) Update(_ context.Context, item *catalog.SyllabusItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.t.syllabi[item.ID]
	if !ok {
		return catalog.ErrSyllabusNotFound
	}
	current.Topic = item.Topic
	current.Description = item.Description
	current.Sessions = item.Sessions
	r.s.t.syllabi[item.ID] = current
	item.DisplayOrder = current.DisplayOrder
	return nil
}

func (r syllabusRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.t.syllabi[id]; !ok {
		return catalog.ErrSyllabusNotFound
	}
	delete(r.s.t.syllabi, id)
	return nil
}

type availabilityRepository struct{ s *Store }

func (s *Store) Availability() availability.AvailabilityRepository { return availabilityRepository{s} }

func (r availabilityRepository) ReplaceSkills(_ context.Context, teacherID string, masterClassIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, id := range masterClassIDs {
		if _, ok := r.s.t.masterClasses[id]; !ok {
			return catalog.ErrMasterClassNotFound
		}
	}
	for k := range r.s.t.skills {
		if k.teacherID == teacherID {
			delete(r.s.t.skills, k)
		}
	}
	for _, id := range masterClassIDs {
		k := skillKey{teacherID: teacherID, masterClassID: id}
		if r.s.t.skills[k] {
			return availability.ErrDuplicateEntry
		}
		r.s.t.skills[k] = true
	}
	return nil
}

func (r availabilityRepository) ListSkills(_ context.Context, teacherID string) ([]catalog.MasterClass, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var skills []catalog.MasterClass
	for k := range r.s.t.skills {
		if k.teacherID == teacherID {
			skills = append(skills, r.s.t.masterClasses[k.masterClassID])
		}
	}
	sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })
	return skills, nil
}

func (r availabilityRepository) ReplaceAvailability(_ context.Context, teacherID string, entries []availability.Availability) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, e := range entries {
		if _, ok := r.s.t.timeSlots[e.TimeSlotID]; !ok {
			return catalog.ErrTimeSlotNotFound
		}
	}
	for k := range r.s.t.availability {
		if k.TeacherID == teacherID {
			delete(r.s.t.availability, k)
		}
	}
	for _, e := range entries {
		k := availability.Availability{TeacherID: teacherID, MasterClassID: e.MasterClassID, DayOfWeek: e.DayOfWeek, TimeSlotID: e.TimeSlotID}
		if r.s.t.availability[k] {
			return availability.ErrDuplicateEntry
		}
		r.s.t.availability[k] = true
	}
	return nil
}

func (r availabilityRepository) ListByTeacher(_ context.Context, teacherID string) ([]availability.Availability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var entries []availability.Availability
	for k := range r.s.t.availability {
		if k.TeacherID != teacherID {
			continue
		}
		slot := r.s.t.timeSlots[k.TimeSlotID]
		k.MasterClassName = r.s.t.masterClasses[k.MasterClassID].Name
		k.TimeSlotName = slot.Name
		k.StartTime = slot.StartTime
		k.EndTime = slot.EndTime
		entries = append(entries, k)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.MasterClassName < b.MasterClassName
	})
	return entries, nil
}

func (r availabilityRepository) ListCandidates(_ context.Context, masterClassID string) ([]availability.Candidate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var candidates []availability.Candidate
	for k := range r.s.t.availability {
		if k.MasterClassID != masterClassID || !r.s.t.skills[skillKey{teacherID: k.TeacherID, masterClassID: masterClassID}] {
			continue
		}
		teacher := r.s.t.users[k.TeacherID]
		if teacher.Role != user.RoleTeacher {
			continue
		}
		candidates = append(candidates, availability.Candidate{
			TeacherID:   teacher.ID,
			TeacherName: teacher.Name,
			DayOfWeek:   k.DayOfWeek,
			TimeSlot:    r.s.t.timeSlots[k.TimeSlotID],
		})
	}
	return candidates, nil
}
