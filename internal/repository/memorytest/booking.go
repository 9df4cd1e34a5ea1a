package memorytest

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/booking"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/utils"
)

type bookingRepository struct{ s *Store }

func (s *Store) Bookings() booking.BookingRepository { return bookingRepository{s} }

func keyOfBooking(b *booking.Booking) bookingKey {
	return bookingKey{enrollmentID: b.EnrollmentID, date: dateKey(b.Date), slotID: b.TimeSlotID}
}

func (r bookingRepository) insertLocked(b *booking.Booking) bool {
	k := keyOfBooking(b)
	if _, exists := r.s.t.bookingKeys[k]; exists {
		return false
	}
	b.ID = newID()
	b.Date = utils.DateOf(b.Date)
	b.CreatedAt = r.s.tick()
	b.UpdatedAt = b.CreatedAt
	r.s.t.bookings[b.ID] = *b
	r.s.t.bookingKeys[k] = b.ID
	return true
}

func (r bookingRepository) Create(_ context.Context, b *booking.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.insertLocked(b) {
		return booking.ErrDuplicateBooking
	}
	return nil
}

func (r bookingRepository) CreateIfAbsent(_ context.Context, b *booking.Booking) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.insertLocked(b), nil
}

func (r bookingRepository) GetByID(_ context.Context, id string) (*booking.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.t.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	b = r.s.decorateBooking(b)
	return &b, nil
}

// LockByID has no locking to do beyond the store mutex.
func (r bookingRepository) LockByID(ctx context.Context, id string) (*booking.Booking, error) {
	return r.GetByID(ctx, id)
}

func (r bookingRepository) List(_ context.Context, filter booking.BookingFilter) ([]booking.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	teachers := make(map[string]bool, len(filter.TeacherIDs))
	for _, id := range filter.TeacherIDs {
		teachers[id] = true
	}
	statuses := make(map[booking.Status]bool, len(filter.Statuses))
	for _, s := range filter.Statuses {
		statuses[s] = true
	}

	var list []booking.Booking
	for _, b := range r.s.t.bookings {
		b = r.s.decorateBooking(b)
		switch {
		case filter.EnrollmentID != "" && b.EnrollmentID != filter.EnrollmentID,
			filter.ClassEnrollmentID != "" && b.ClassEnrollmentID != filter.ClassEnrollmentID,
			filter.StudentID != "" && b.StudentID != filter.StudentID,
			len(teachers) > 0 && !teachers[b.TeacherID],
			filter.DateFrom != nil && b.Date.Before(utils.DateOf(*filter.DateFrom)),
			filter.DateTo != nil && b.Date.After(utils.DateOf(*filter.DateTo)),
			filter.TimeSlotID != "" && b.TimeSlotID != filter.TimeSlotID,
			len(statuses) > 0 && !statuses[b.Status]:
			continue
		}
		list = append(list, b)
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.SlotStart != b.SlotStart {
			return a.SlotStart < b.SlotStart
		}
		return a.StudentName < b.StudentName
	})
	return list, nil
}

func (r bookingRepository) Transition(_ context.Context, id string, status booking.Status, izinReason *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.t.bookings[id]
	if !ok {
		return booking.ErrBookingNotFound
	}
	if b.Status != booking.StatusBooked {
		return booking.ErrBookingNotBooked
	}
	b.Status = status
	if izinReason != nil {
		b.IzinReason = izinReason
	}
	b.UpdatedAt = r.s.tick()
	r.s.t.bookings[id] = b
	return nil
}

func (r bookingRepository) Reinstate(_ context.Context, id, teacherID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.t.bookings[id]
	if !ok {
		return booking.ErrBookingNotFound
	}
	if b.Status != booking.StatusCancelled {
		return booking.ErrBookingNotCancelled
	}
	b.Status = booking.StatusBooked
	b.TeacherID = teacherID
	b.IzinReason = nil
	b.UpdatedAt = r.s.tick()
	r.s.t.bookings[id] = b
	return nil
}

func (r bookingRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.t.bookings[id]
	if !ok {
		return booking.ErrBookingNotFound
	}
	delete(r.s.t.bookings, id)
	delete(r.s.t.bookingKeys, keyOfBooking(&b))
	for aid, a := range r.s.t.attendances {
		if a.BookingID == id {
			delete(r.s.t.attendances, aid)
		}
	}
	for rid, ar := range r.s.t.attendanceRequests {
		if ar.BookingID == id {
			delete(r.s.t.attendanceRequests, rid)
		}
	}
	for rid, rr := range r.s.t.reschedules {
		switch {
		case rr.BookingID == id:
			delete(r.s.t.reschedules, rid)
		case rr.NewBookingID != nil && *rr.NewBookingID == id:
			rr.NewBookingID = nil
			r.s.t.reschedules[rid] = rr
		}
	}
	return nil
}

type attendanceRepository struct{ s *Store }

func (s *Store) Attendances() booking.AttendanceRepository { return attendanceRepository{s} }

func (r attendanceRepository) Create(_ context.Context, a *booking.Attendance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.attendanceFor(a.BookingID); ok {
		return booking.ErrBookingAlreadyAttended
	}
	a.ID = newID()
	a.Date = utils.DateOf(a.Date)
	a.CreatedAt = r.s.tick()
	r.s.t.attendances[a.ID] = *a
	return nil
}

func (r attendanceRepository) decorate(a booking.Attendance) booking.Attendance {
	a.TeacherName = r.s.t.users[a.TeacherID].Name
	a.SlotName = r.s.t.timeSlots[r.s.t.bookings[a.BookingID].TimeSlotID].Name
	return a
}

func (r attendanceRepository) GetByBooking(_ context.Context, bookingID string) (*booking.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.attendanceFor(bookingID)
	if !ok {
		return nil, booking.ErrAttendanceNotFound
	}
	a = r.decorate(a)
	return &a, nil
}

func (r attendanceRepository) ListRecentByClassEnrollment(_ context.Context, classEnrollmentID string, limit int) ([]booking.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var list []booking.Attendance
	for _, a := range r.s.t.attendances {
		if r.s.t.bookings[a.BookingID].ClassEnrollmentID == classEnrollmentID {
			list = append(list, r.decorate(a))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r attendanceRepository) Tally(_ context.Context, classEnrollmentID string) (booking.Tally, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var t booking.Tally
	for _, b := range r.s.t.bookings {
		if b.ClassEnrollmentID != classEnrollmentID {
			continue
		}
		if a, ok := r.s.attendanceFor(b.ID); ok {
			t.Add(a.Status)
		} else if b.Status == booking.StatusIzin {
			t.Izin++
		}
	}
	return t, nil
}

type attendanceRequestRepository struct{ s *Store }

func (s *Store) AttendanceRequests() booking.AttendanceRequestRepository {
	return attendanceRequestRepository{s}
}

func (r attendanceRequestRepository) decorate(ar booking.AttendanceRequest) booking.AttendanceRequest {
	b := r.s.decorateBooking(r.s.t.bookings[ar.BookingID])
	ar.Date = b.Date
	ar.SlotName = b.SlotName
	ar.StudentName = b.StudentName
	ar.ClassName = b.ClassName
	ar.TeacherName = r.s.t.users[ar.TeacherID].Name
	return ar
}

func (r attendanceRequestRepository) hasPendingLocked(bookingID string) bool {
	for _, ar := range r.s.t.attendanceRequests {
		if ar.BookingID == bookingID && ar.ApprovalStatus == booking.ApprovalPending {
			return true
		}
	}
	return false
}

func (r attendanceRequestRepository) Create(_ context.Context, ar *booking.AttendanceRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if ar.ApprovalStatus == booking.ApprovalPending && r.hasPendingLocked(ar.BookingID) {
		return booking.ErrLateRequestPending
	}
	ar.ID = newID()
	ar.CreatedAt = r.s.tick()
	r.s.t.attendanceRequests[ar.ID] = *ar
	return nil
}

func (r attendanceRequestRepository) GetByID(_ context.Context, id string) (*booking.AttendanceRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ar, ok := r.s.t.attendanceRequests[id]
	if !ok {
		return nil, booking.ErrRequestNotFound
	}
	ar = r.decorate(ar)
	return &ar, nil
}

func (r attendanceRequestRepository) HasPending(_ context.Context, bookingID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.hasPendingLocked(bookingID), nil
}

func (r attendanceRequestRepository) List(_ context.Context, filter booking.AttendanceRequestFilter) ([]booking.AttendanceRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var list []booking.AttendanceRequest
	for _, ar := range r.s.t.attendanceRequests {
		if filter.ApprovalStatus != nil && ar.ApprovalStatus != *filter.ApprovalStatus {
			continue
		}
		if filter.TeacherID != "" && ar.TeacherID != filter.TeacherID {
			continue
		}
		list = append(list, r.decorate(ar))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r attendanceRequestRepository) Resolve(_ context.Context, ar *booking.AttendanceRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.t.attendanceRequests[ar.ID]
	if !ok || stored.ApprovalStatus != booking.ApprovalPending {
		return booking.ErrRequestAlreadyProcessed
	}
	stored.ApprovalStatus = ar.ApprovalStatus
	stored.ApprovedBy = ar.ApprovedBy
	stored.ApprovedAt = ar.ApprovedAt
	stored.RejectionReason = ar.RejectionReason
	stored.AttendanceID = ar.AttendanceID
	r.s.t.attendanceRequests[ar.ID] = stored
	return nil
}
