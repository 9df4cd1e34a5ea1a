package memorytest

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/override"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/portfolio"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/reschedule"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/utils"
)

type rescheduleRepository struct{ s *Store }

func (s *Store) Reschedules() reschedule.RescheduleRepository { return rescheduleRepository{s} }

func (r rescheduleRepository) decorate(rr reschedule.Request) reschedule.Request {
	b := r.s.decorateBooking(r.s.t.bookings[rr.BookingID])
	rr.StudentName = b.StudentName
	rr.ClassName = b.ClassName
	rr.RequestedByName = r.s.t.users[rr.RequestedBy].Name
	rr.OriginalSlotName = r.s.t.timeSlots[rr.OriginalTimeSlotID].Name
	rr.NewSlotName = r.s.t.timeSlots[rr.NewTimeSlotID].Name
	rr.OriginalTeacherName = r.s.t.users[rr.OriginalTeacherID].Name
	rr.NewTeacherName = r.s.t.users[rr.NewTeacherID].Name
	return rr
}

func (r rescheduleRepository) Create(_ context.Context, rr *reschedule.Request) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.t.reschedules {
		if existing.BookingID == rr.BookingID && existing.Status == reschedule.StatusPending {
			return reschedule.ErrRequestPending
		}
	}
	rr.ID = newID()
	rr.CreatedAt = r.s.tick()
	r.s.t.reschedules[rr.ID] = *rr
	return nil
}

func (r rescheduleRepository) GetByID(_ context.Context, id string) (*reschedule.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rr, ok := r.s.t.reschedules[id]
	if !ok {
		return nil, reschedule.ErrRequestNotFound
	}
	rr = r.decorate(rr)
	return &rr, nil
}

func (r rescheduleRepository) List(_ context.Context, filter reschedule.Filter) ([]reschedule.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var list []reschedule.Request
	for _, rr := range r.s.t.reschedules {
		if filter.Status != nil && rr.Status != *filter.Status {
			continue
		}
		if filter.RequestedBy != "" && rr.RequestedBy != filter.RequestedBy {
			continue
		}
		list = append(list, r.decorate(rr))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r rescheduleRepository) Resolve(_ context.Context, rr *reschedule.Request) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.t.reschedules[rr.ID]
	if !ok || stored.Status != reschedule.StatusPending {
		return reschedule.ErrRequestAlreadyProcessed
	}
	stored.Status = rr.Status
	stored.ApprovedBy = rr.ApprovedBy
	stored.ApprovedAt = rr.ApprovedAt
	stored.RejectionReason = rr.RejectionReason
	stored.NewBookingID = rr.NewBookingID
	r.s.t.reschedules[rr.ID] = stored
	return nil
}

type overrideRepository struct{ s *Store }

func (s *Store) Overrides() override.OverrideRepository { return overrideRepository{s} }

func (r overrideRepository) decorate(o override.Override) override.Override {
	o.OriginalTeacherName = r.s.t.users[o.OriginalTeacherID].Name
	o.SubstituteTeacherName = r.s.t.users[o.SubstituteTeacherID].Name
	o.TimeSlotName = r.s.t.timeSlots[o.TimeSlotID].Name
	return o
}

func (r overrideRepository) findLocked(date time.Time, slotID, originalTeacherID string) (override.Override, bool) {
	for _, o := range r.s.t.overrides {
		if dateKey(o.Date) == dateKey(date) && o.TimeSlotID == slotID && o.OriginalTeacherID == originalTeacherID {
			return o, true
		}
	}
	return override.Override{}, false
}

func (r overrideRepository) Upsert(_ context.Context, o *override.Override) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if o.OriginalTeacherID == o.SubstituteTeacherID {
		return override.ErrSameTeacher
	}
	o.Date = utils.DateOf(o.Date)
	if existing, ok := r.findLocked(o.Date, o.TimeSlotID, o.OriginalTeacherID); ok {
		o.ID = existing.ID
	} else {
		o.ID = newID()
	}
	o.CreatedAt = r.s.tick()
	r.s.t.overrides[o.ID] = *o
	return nil
}

func (r overrideRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.t.overrides[id]; !ok {
		return override.ErrOverrideNotFound
	}
	delete(r.s.t.overrides, id)
	return nil
}

func (r overrideRepository) Find(_ context.Context, date time.Time, slotID, originalTeacherID string) (*override.Override, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.findLocked(date, slotID, originalTeacherID)
	if !ok {
		return nil, override.ErrOverrideNotFound
	}
	o = r.decorate(o)
	return &o, nil
}

func (r overrideRepository) ListBetween(_ context.Context, from, to time.Time) ([]override.Override, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	from, to = utils.DateOf(from), utils.DateOf(to)
	var list []override.Override
	for _, o := range r.s.t.overrides {
		if o.Date.Before(from) || o.Date.After(to) {
			continue
		}
		list = append(list, r.decorate(o))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
	return list, nil
}

type dispatchRepository struct{ s *Store }

func (s *Store) Dispatches() notification.DispatchRepository { return dispatchRepository{s} }

func (r dispatchRepository) Claim(_ context.Context, kind notification.Kind, key string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	k := string(kind) + "|" + key
	if r.s.t.dispatches[k] {
		return false, nil
	}
	r.s.t.dispatches[k] = true
	return true, nil
}

func (r dispatchRepository) Release(_ context.Context, kind notification.Kind, key string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.t.dispatches, string(kind)+"|"+key)
	return nil
}

type portfolioRepository struct{ s *Store }

func (s *Store) Portfolios() portfolio.PortfolioRepository { return portfolioRepository{s} }

func (r portfolioRepository) Create(_ context.Context, p *portfolio.Portfolio) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p.ID = newID()
	p.CreatedAt = r.s.tick()
	r.s.t.portfolios[p.ID] = *p
	return nil
}

func (r portfolioRepository) GetByID(_ context.Context, id string) (*portfolio.Portfolio, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.t.portfolios[id]
	if !ok {
		return nil, portfolio.ErrPortfolioNotFound
	}
	return &p, nil
}

func (r portfolioRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.t.portfolios[id]; !ok {
		return portfolio.ErrPortfolioNotFound
	}
	delete(r.s.t.portfolios, id)
	return nil
}

func (r portfolioRepository) ListByClassEnrollment(_ context.Context, classEnrollmentID string) ([]portfolio.Portfolio, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var list []portfolio.Portfolio
	for _, p := range r.s.t.portfolios {
		if p.ClassEnrollmentID != classEnrollmentID {
			continue
		}
		if p.SyllabusID != nil {
			if it, ok := r.s.t.syllabi[*p.SyllabusID]; ok {
				topic := it.Topic
				p.SyllabusTopic = &topic
			}
		}
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}
