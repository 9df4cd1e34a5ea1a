package memorytest

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/utils"
)

type enrollmentRepository struct{ s *Store }

func (s *Store) Enrollments() enrollment.EnrollmentRepository { return enrollmentRepository{s} }

func (r enrollmentRepository) Create(_ context.Context, e *enrollment.Enrollment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e.ID = newID()
	e.CreatedAt = r.s.tick()
	e.UpdatedAt = e.CreatedAt
	r.s.t.enrollments[e.ID] = *e
	return nil
}

func (r enrollmentRepository) GetByID(_ context.Context, id string) (*enrollment.Enrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.t.enrollments[id]
	if !ok {
		return nil, enrollment.ErrEnrollmentNotFound
	}
	e = r.s.decorateEnrollment(e)
	return &e, nil
}

func (r enrollmentRepository) GetByStudentAndStatus(ctx context.Context, studentID string, status enrollment.Status) (*enrollment.Enrollment, error) {
	list, _ := r.List(ctx, enrollment.EnrollmentFilter{StudentID: studentID, Status: &status})
	if len(list) == 0 {
		return nil, enrollment.ErrEnrollmentNotFound
	}
	return &list[0], nil
}

// List orders by creation time, newest first.
func (r enrollmentRepository) List(_ context.Context, filter enrollment.EnrollmentFilter) ([]enrollment.Enrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var list []enrollment.Enrollment
	for _, e := range r.s.t.enrollments {
		if filter.StudentID != "" && e.StudentID != filter.StudentID {
			continue
		}
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		list = append(list, r.s.decorateEnrollment(e))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r enrollmentRepository) UpdateStatus(_ context.Context, id string, status enrollment.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.t.enrollments[id]
	if !ok {
		return enrollment.ErrEnrollmentNotFound
	}
	e.Status = status
	e.UpdatedAt = r.s.tick()
	r.s.t.enrollments[id] = e
	return nil
}

func (r enrollmentRepository) SetFirstClassDate(_ context.Context, id string, date time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.t.enrollments[id]
	if !ok {
		return enrollment.ErrEnrollmentNotFound
	}
	if e.FirstClassDate != nil {
		return enrollment.ErrFirstClassDateAlreadySet
	}
	d := utils.DateOf(date)
	e.FirstClassDate = &d
	e.UpdatedAt = r.s.tick()
	r.s.t.enrollments[id] = e
	return nil
}

func (r enrollmentRepository) CompleteIfFinished(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.t.enrollments[id]
	if !ok || e.Status != enrollment.StatusActive {
		return false, nil
	}
	for _, ce := range r.s.t.classEnrollments {
		if ce.EnrollmentID == id && ce.Status == enrollment.ClassStatusActive {
			return false, nil
		}
	}
	e.Status = enrollment.StatusCompleted
	e.UpdatedAt = r.s.tick()
	r.s.t.enrollments[id] = e
	return true, nil
}

type classEnrollmentRepository struct{ s *Store }

func (s *Store) ClassEnrollments() enrollment.ClassEnrollmentRepository {
	return classEnrollmentRepository{s}
}

func (r classEnrollmentRepository) Create(_ context.Context, c *enrollment.ClassEnrollment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c.ID = newID()
	r.s.t.classEnrollments[c.ID] = *c
	return nil
}

func (r classEnrollmentRepository) GetByID(_ context.Context, id string) (*enrollment.ClassEnrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ce, ok := r.s.t.classEnrollments[id]
	if !ok {
		return nil, enrollment.ErrClassEnrollmentNotFound
	}
	ce = r.s.decorateClassEnrollment(ce)
	return &ce, nil
}

func (r classEnrollmentRepository) ListByEnrollment(_ context.Context, enrollmentID string) ([]enrollment.ClassEnrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var list []enrollment.ClassEnrollment
	for _, ce := range r.s.t.classEnrollments {
		if ce.EnrollmentID == enrollmentID {
			list = append(list, r.s.decorateClassEnrollment(ce))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].DisplayOrder < list[j].DisplayOrder })
	return list, nil
}

func (r classEnrollmentRepository) ConsumeSession(ctx context.Context, id string) (*enrollment.ClassEnrollment, error) {
	r.s.mu.Lock()
	ce, ok := r.s.t.classEnrollments[id]
	if !ok {
		r.s.mu.Unlock()
		return nil, enrollment.ErrClassEnrollmentNotFound
	}
	if ce.SessionsRemaining <= 0 {
		r.s.mu.Unlock()
		return nil, enrollment.ErrNoSessionsRemaining
	}
	ce.SessionsRemaining--
	if ce.SessionsRemaining == 0 {
		ce.Status = enrollment.ClassStatusCompleted
	}
	r.s.t.classEnrollments[id] = ce
	r.s.mu.Unlock()

	return r.GetByID(ctx, id)
}

func (r classEnrollmentRepository) ConsumeIzin(ctx context.Context, id string) (*enrollment.ClassEnrollment, error) {
	r.s.mu.Lock()
	ce, ok := r.s.t.classEnrollments[id]
	if !ok {
		r.s.mu.Unlock()
		return nil, enrollment.ErrClassEnrollmentNotFound
	}
	if ce.IzinUsed >= r.s.t.programClasses[ce.ProgramClassID].MaxIzin {
		r.s.mu.Unlock()
		return nil, enrollment.ErrIzinQuotaExhausted
	}
	ce.IzinUsed++
	r.s.t.classEnrollments[id] = ce
	r.s.mu.Unlock()

	return r.GetByID(ctx, id)
}

func (r classEnrollmentRepository) Update(_ context.Context, id string, sessionsRemaining int, status enrollment.ClassStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ce, ok := r.s.t.classEnrollments[id]
	if !ok {
		return enrollment.ErrClassEnrollmentNotFound
	}
	if sessionsRemaining < 0 {
		return enrollment.ErrInvalidSessionsRemaining
	}
	ce.SessionsRemaining = sessionsRemaining
	ce.Status = status
	r.s.t.classEnrollments[id] = ce
	return nil
}

type weeklyScheduleRepository struct{ s *Store }

func (s *Store) WeeklySchedules() enrollment.WeeklyScheduleRepository {
	return weeklyScheduleRepository{s}
}

func (r weeklyScheduleRepository) Create(_ context.Context, ws *enrollment.WeeklySchedule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.t.schedules {
		if existing.EnrollmentID == ws.EnrollmentID && existing.DayOfWeek == ws.DayOfWeek && existing.TimeSlotID == ws.TimeSlotID {
			return enrollment.ErrScheduleSlotTaken
		}
	}
	ws.ID = newID()
	r.s.t.schedules[ws.ID] = *ws
	return nil
}

func (r weeklyScheduleRepository) GetByID(_ context.Context, id string) (*enrollment.WeeklySchedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ws, ok := r.s.t.schedules[id]
	if !ok {
		return nil, enrollment.ErrScheduleNotFound
	}
	ws = r.s.decorateSchedule(ws)
	return &ws, nil
}

func (r weeklyScheduleRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.t.schedules[id]; !ok {
		return enrollment.ErrScheduleNotFound
	}
	delete(r.s.t.schedules, id)
	return nil
}

func sortSchedules(list []enrollment.WeeklySchedule) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.StudentName < b.StudentName
	})
}

func (r weeklyScheduleRepository) ListByEnrollment(_ context.Context, enrollmentID string) ([]enrollment.WeeklySchedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var list []enrollment.WeeklySchedule
	for _, ws := range r.s.t.schedules {
		if ws.EnrollmentID == enrollmentID {
			list = append(list, r.s.decorateSchedule(ws))
		}
	}
	sortSchedules(list)
	return list, nil
}

func (r weeklyScheduleRepository) ListActive(_ context.Context, teacherIDs []string) ([]enrollment.WeeklySchedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	wanted := make(map[string]bool, len(teacherIDs))
	for _, id := range teacherIDs {
		wanted[id] = true
	}

	var list []enrollment.WeeklySchedule
	for _, ws := range r.s.t.schedules {
		if len(wanted) > 0 && !wanted[ws.TeacherID] {
			continue
		}
		if r.s.t.enrollments[ws.EnrollmentID].Status != enrollment.StatusActive {
			continue
		}
		if r.s.t.classEnrollments[ws.ClassEnrollmentID].Status != enrollment.ClassStatusActive {
			continue
		}
		list = append(list, r.s.decorateSchedule(ws))
	}
	sortSchedules(list)
	return list, nil
}
