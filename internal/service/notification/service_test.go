package notification

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/booking"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/override"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/reschedule"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/whatsapp"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/repository/memorytest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

// 2026-10-19 is a Monday.
var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

const groupJID = "120363000000000000@g.us"

type fixture struct {
	svc     notification.NotificationService
	store   *memorytest.Store
	outbox  *memorytest.Outbox
	slot    *catalog.TimeSlot
	rina    *user.User
	dewi    *user.User
	siti    *user.User
	ayu     *user.User
	classes map[string]enrollment.ClassEnrollment
}

// newFixture enrolls Siti and Ayu in Sewing with Rina in the 09:00 slot.
func newFixture(t *testing.T) *fixture {
	store := memorytest.NewStore()
	seed := store.Seed(t)
	f := &fixture{store: store, outbox: &memorytest.Outbox{Fail: map[string]bool{}}, classes: map[string]enrollment.ClassEnrollment{}}
	f.svc = NewNotificationService(f.outbox, store.Dispatches(), store.Bookings(), store.Overrides(), store.TimeSlots(), store.Users(),
		Config{GroupJID: groupJID, RecapDelay: 30 * time.Minute, Location: wib})

	f.slot = seed.Slot("Pagi", "09:00", "11:00")
	f.rina = seed.User("Rina", user.RoleTeacher)
	f.dewi = seed.User("Dewi", user.RoleTeacher)
	f.siti = seed.User("Siti", user.RoleStudent)
	f.ayu = seed.User("Ayu", user.RoleStudent)

	program := seed.Program("Fashion Design", memorytest.ClassSpec{MasterClass: seed.MasterClass("Sewing"), TotalSessions: 16, SessionsPerWeek: 1})
	for _, student := range []*user.User{f.siti, f.ayu} {
		e, classes := seed.Enroll(student, program, enrollment.StatusPendingFirstClass)
		seed.Activate(e, monday)
		f.classes[student.ID] = classes[0]
	}
	return f
}

func (f *fixture) book(t *testing.T, student *user.User, date time.Time) *booking.Booking {
	return f.store.Seed(t).Booking(f.classes[student.ID], f.rina, date, f.slot)
}

func (f *fixture) substitute(t *testing.T, date time.Time) {
	require.NoError(t, f.store.Overrides().Upsert(context.Background(), &override.Override{
		Date: date, TimeSlotID: f.slot.ID, OriginalTeacherID: f.rina.ID, SubstituteTeacherID: f.dewi.ID, CreatedBy: "admin",
	}))
}

func (f *fixture) attend(t *testing.T, b *booking.Booking, status booking.AttendanceStatus) {
	ctx := context.Background()
	require.NoError(t, f.store.Bookings().Transition(ctx, b.ID, booking.StatusCompleted, nil))
	require.NoError(t, f.store.Attendances().Create(ctx, &booking.Attendance{
		BookingID: b.ID, TeacherID: b.TeacherID, Date: b.Date, Status: status,
	}))
}

func jid(u *user.User) string {
	return whatsapp.FormatRecipient(u.PhoneNumber)
}

func TestStudentRemindersH1SendOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(t, f.siti, monday)
	f.book(t, f.ayu, monday)
	f.book(t, f.siti, monday.AddDate(0, 0, 7))
	now := time.Date(2026, 10, 18, 18, 0, 0, 0, wib)

	result, err := f.svc.SendStudentRemindersH1(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, notification.RunResult{Sent: 2}, result)

	msgs := f.outbox.To(jid(f.siti))
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Body, "Halo Siti!")
	assert.Contains(t, msgs[0].Body, "Senin, 19 Oktober 2026")
	assert.Contains(t, msgs[0].Body, "Pengajar: Rina")

	result, err = f.svc.SendStudentRemindersH1(ctx, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, notification.RunResult{Skipped: 2}, result)
	assert.Equal(t, 2, f.outbox.Count())
}

func TestFailedSendIsRetried(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(t, f.siti, monday)
	f.book(t, f.ayu, monday)
	now := time.Date(2026, 10, 19, 7, 0, 0, 0, wib)

	f.outbox.Fail[jid(f.siti)] = true
	result, err := f.svc.SendStudentRemindersToday(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, notification.RunResult{Sent: 1, Failed: 1}, result)

	delete(f.outbox.Fail, jid(f.siti))
	result, err = f.svc.SendStudentRemindersToday(ctx, now.Add(5*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, notification.RunResult{Sent: 1, Skipped: 1}, result)

	msgs := f.outbox.To(jid(f.siti))
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Body, "Selamat Pagi, Siti!")
}

func TestTeacherRemindersGoToSubstitute(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(t, f.siti, monday)
	f.book(t, f.ayu, monday)
	f.substitute(t, monday)

	result, err := f.svc.SendTeacherRemindersH1(ctx, time.Date(2026, 10, 18, 18, 0, 0, 0, wib))
	require.NoError(t, err)
	assert.Equal(t, notification.RunResult{Sent: 1}, result)

	assert.Empty(t, f.outbox.To(jid(f.rina)))
	msgs := f.outbox.To(jid(f.dewi))
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Body, "Halo Kak Dewi!")
	assert.Contains(t, msgs[0].Body, "Total: 2 sesi")

	// The student reminder names the substitute too.
	_, err = f.svc.SendStudentRemindersH1(ctx, time.Date(2026, 10, 18, 18, 0, 0, 0, wib))
	require.NoError(t, err)
	assert.Contains(t, f.outbox.To(jid(f.siti))[0].Body, "Pengajar: Dewi")
}

func TestTeacherWeeklySummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(t, f.siti, monday)
	f.book(t, f.ayu, monday.AddDate(0, 0, 2))
	f.book(t, f.siti, monday.AddDate(0, 0, 7))

	// Sunday morning covers the week starting tomorrow.
	result, err := f.svc.SendTeacherWeeklySummaries(ctx, time.Date(2026, 10, 18, 7, 0, 0, 0, wib))
	require.NoError(t, err)
	assert.Equal(t, notification.RunResult{Sent: 1}, result)

	msgs := f.outbox.To(jid(f.rina))
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Body, "📅 *Senin (19/10)*\n   ⏰ 09:00 - Siti")
	assert.Contains(t, msgs[0].Body, "📅 *Rabu (21/10)*\n   ⏰ 09:00 - Ayu")
	assert.Contains(t, msgs[0].Body, "Total: 2 sesi minggu ini")
}

func TestSessionRecap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	siti := f.book(t, f.siti, monday)
	ayu := f.book(t, f.ayu, monday)

	result, err := f.svc.SendSessionRecaps(ctx, time.Date(2026, 10, 19, 11, 29, 0, 0, wib))
	require.NoError(t, err)
	assert.Equal(t, notification.RunResult{}, result)

	f.attend(t, siti, booking.AttendanceHadir)
	reason := "sakit"
	require.NoError(t, f.store.Bookings().Transition(ctx, ayu.ID, booking.StatusIzin, &reason))

	result, err = f.svc.SendSessionRecaps(ctx, time.Date(2026, 10, 19, 11, 30, 0, 0, wib))
	require.NoError(t, err)
	assert.Equal(t, notification.RunResult{Sent: 1}, result)

	msgs := f.outbox.To(groupJID)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Body, "*LAPORAN SESI Sewing*")
	assert.Contains(t, msgs[0].Body, "🕘 Sesi: Pagi")
	assert.Contains(t, msgs[0].Body, "✅ Hadir: 1\n⚠️ Izin: 1\n❌ Alpha: 0\n\n")
	assert.NotContains(t, msgs[0].Body, "Belum diabsen")
	assert.Contains(t, msgs[0].Body, "Siswa Hadir:\n- Siti")

	result, err = f.svc.SendSessionRecaps(ctx, time.Date(2026, 10, 19, 11, 40, 0, 0, wib))
	require.NoError(t, err)
	assert.Equal(t, notification.RunResult{Skipped: 1}, result)
}

func TestSessionRecapReportsUnrecordedSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(t, f.siti, monday)
	f.book(t, f.ayu, monday)

	result, err := f.svc.SendSessionRecaps(ctx, time.Date(2026, 10, 19, 11, 35, 0, 0, wib))
	require.NoError(t, err)
	assert.Equal(t, notification.RunResult{Sent: 1}, result)

	msgs := f.outbox.To(groupJID)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Body, "✅ Hadir: 0\n⚠️ Izin: 0\n❌ Alpha: 0\n⏳ Belum diabsen: 2")
	assert.Contains(t, msgs[0].Body, "Siswa Hadir:\n-")

	// Later runs on the same or the next day do not repeat it.
	for _, at := range []time.Time{
		time.Date(2026, 10, 19, 23, 55, 0, 0, wib),
		time.Date(2026, 10, 20, 0, 5, 0, 0, wib),
	} {
		result, err = f.svc.SendSessionRecaps(ctx, at)
		require.NoError(t, err)
		assert.Equal(t, notification.RunResult{Skipped: 1}, result)
	}
	assert.Len(t, f.outbox.To(groupJID), 1)
}

func TestSessionRecapCatchesUpAfterMidnight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	late := f.store.Seed(t).Slot("Malam", "23:00", "23:45")
	f.store.Seed(t).Booking(f.classes[f.siti.ID], f.rina, monday, late)

	result, err := f.svc.SendSessionRecaps(ctx, time.Date(2026, 10, 20, 0, 20, 0, 0, wib))
	require.NoError(t, err)
	assert.Equal(t, notification.RunResult{Sent: 1}, result)

	msgs := f.outbox.To(groupJID)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Body, "🕘 Sesi: Malam")
	assert.Contains(t, msgs[0].Body, "Senin, 19 Oktober 2026")
}

func TestNotifyStudentIzin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, f.siti, monday)
	f.substitute(t, monday)

	reason := "acara keluarga"
	require.NoError(t, f.store.Bookings().Transition(ctx, b.ID, booking.StatusIzin, &reason))
	b, err := f.store.Bookings().GetByID(ctx, b.ID)
	require.NoError(t, err)

	f.svc.NotifyStudentIzin(ctx, *b)
	assert.Empty(t, f.outbox.To(jid(f.rina)))
	msgs := f.outbox.To(jid(f.dewi))
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Body, "Siswa *Siti* mengajukan izin")
	assert.Contains(t, msgs[0].Body, "Alasan: acara keluarga")

	// Delivery failures are swallowed.
	f.outbox.FailAll = true
	f.svc.NotifyStudentIzin(ctx, *b)
	assert.Equal(t, 1, f.outbox.Count())
}

func TestNotifyScheduleChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	moved := f.store.Seed(t).Booking(f.classes[f.siti.ID], f.dewi, monday.AddDate(0, 0, 2), f.slot)

	f.svc.NotifyScheduleChange(ctx, reschedule.Request{
		OriginalDate: monday, OriginalSlotName: "Pagi", Reason: "bentrok ujian",
	}, *moved)

	student := f.outbox.To(jid(f.siti))
	require.Len(t, student, 1)
	assert.Contains(t, student[0].Body, "Jadwal Lama: Senin, 19 Oktober 2026 (Pagi)")
	assert.Contains(t, student[0].Body, "Jadwal Baru: Rabu, 21 Oktober 2026 (Pagi)")
	assert.Contains(t, student[0].Body, "Alasan: bentrok ujian")

	teacher := f.outbox.To(jid(f.dewi))
	require.Len(t, teacher, 1)
	assert.Contains(t, teacher[0].Body, "Halo Kak Dewi")
}
