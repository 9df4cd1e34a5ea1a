package notification

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/booking"
	"github.com/stretchr/testify/assert"
)

var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func TestStudentReminderH1(t *testing.T) {
	msg := StudentReminderH1("Sari", monday, []booking.Booking{
		{SlotStart: "09:00", ClassName: "Pattern Making", TeacherName: "Budi"},
		{SlotStart: "13:00", ClassName: "Draping"},
	})

	assert.Contains(t, msg, "*Pengingat Jadwal Besok*")
	assert.Contains(t, msg, "Halo Sari!")
	assert.Contains(t, msg, "(Senin, 19 Oktober 2026)")
	assert.Contains(t, msg, "⏰ 09:00 - Pattern Making\n   👩‍🏫 Pengajar: Budi")
	assert.Contains(t, msg, "⏰ 13:00 - Draping\n   👩‍🏫 Pengajar: -")
}

func TestStudentReminderToday(t *testing.T) {
	msg := StudentReminderToday("Sari", monday, []booking.Booking{{SlotStart: "09:00", ClassName: "Pattern Making"}})

	assert.Contains(t, msg, "*Selamat Pagi, Sari!*")
	assert.Contains(t, msg, "⏰ 09:00 - Pattern Making")
}

func TestTeacherReminderH1(t *testing.T) {
	msg := TeacherReminderH1("Budi", monday, []booking.Booking{
		{SlotStart: "09:00", StudentName: "Sari", ClassName: "Pattern Making"},
		{SlotStart: "09:00", StudentName: "Dewi", ClassName: "Pattern Making"},
	})

	assert.Contains(t, msg, "*Jadwal Mengajar Besok*")
	assert.Contains(t, msg, "Halo Kak Budi!")
	assert.Contains(t, msg, "• Sari - Pattern Making")
	assert.Contains(t, msg, "Total: 2 sesi")
}

func TestTeacherWeeklySummary(t *testing.T) {
	msg := TeacherWeeklySummary("Budi", []DaySessions{
		{Date: monday, Sessions: []booking.Booking{{SlotStart: "09:00", StudentName: "Sari"}}},
		{Date: monday.AddDate(0, 0, 1)},
		{Date: monday.AddDate(0, 0, 2), Sessions: []booking.Booking{
			{SlotStart: "09:00", StudentName: "Dewi"},
			{SlotStart: "13:00", StudentName: "Sari"},
		}},
	})

	assert.Contains(t, msg, "*Jadwal Mengajar Minggu Ini*")
	assert.Contains(t, msg, "📅 *Senin (19/10)*\n   ⏰ 09:00 - Sari")
	assert.NotContains(t, msg, "Selasa")
	assert.Contains(t, msg, "📅 *Rabu (21/10)*")
	assert.Contains(t, msg, "Total: 3 sesi minggu ini")
}

func TestSessionRecap(t *testing.T) {
	msg := SessionRecap(Recap{
		ClassName:   "Pattern Making",
		Date:        monday,
		SlotName:    "Pagi",
		TeacherName: "Budi",
		Tally:       booking.Tally{Hadir: 2, Izin: 1, Alpha: 1},
		Present:     []string{"Sari", "Dewi"},
	})

	assert.Contains(t, msg, "*LAPORAN SESI Pattern Making*")
	assert.Contains(t, msg, "✅ Hadir: 2\n⚠️ Izin: 1\n❌ Alpha: 1")
	assert.Contains(t, msg, "Siswa Hadir:\n- Sari\n- Dewi")

	assert.NotContains(t, msg, "Belum diabsen")

	pending := SessionRecap(Recap{ClassName: "Draping", Date: monday, Tally: booking.Tally{Hadir: 1}, Unrecorded: 2})
	assert.Contains(t, pending, "❌ Alpha: 0\n⏳ Belum diabsen: 2\n\nSiswa Hadir:")

	empty := SessionRecap(Recap{ClassName: "Draping", Date: monday})
	assert.Contains(t, empty, "Siswa Hadir:\n-")
	assert.Contains(t, empty, "Pengajar: -")
}

func TestStudentIzin(t *testing.T) {
	msg := StudentIzin("Budi", "Sari", "Draping", monday, "sakit")

	assert.Contains(t, msg, "*Siswa Izin*")
	assert.Contains(t, msg, "Siswa *Sari* mengajukan izin")
	assert.Contains(t, msg, "📝 Alasan: sakit")
	assert.Contains(t, msg, "Sesi akan digeser ke jadwal berikutnya.")

	assert.NotContains(t, StudentIzin("Budi", "Sari", "Draping", monday, ""), "Alasan")
}

func TestScheduleChangeMessages(t *testing.T) {
	prev := SessionTime{Date: monday, SlotName: "Pagi"}
	next := SessionTime{Date: monday.AddDate(0, 0, 2), SlotName: "Siang"}

	student := StudentScheduleChange("Sari", "Draping", prev, next, "")
	assert.Contains(t, student, "*Perubahan Jadwal*")
	assert.Contains(t, student, "❌ Jadwal Lama: Senin, 19 Oktober 2026 (Pagi)")
	assert.Contains(t, student, "✅ Jadwal Baru: Rabu, 21 Oktober 2026 (Siang)")

	teacher := TeacherScheduleChange("Budi", "Sari", "Draping", prev, next)
	assert.Contains(t, teacher, "*Perubahan Jadwal Siswa*")
	assert.Contains(t, teacher, "Jadwal siswa *Sari* (Draping)")
}

func TestInvite(t *testing.T) {
	msg := Invite("https://school.test/activate/abc")
	assert.Contains(t, msg, "https://school.test/activate/abc")
	assert.Contains(t, msg, "Fashion School")
}

func TestDispatchKey(t *testing.T) {
	assert.Equal(t, "student-h1:s-1:2026-10-19", DispatchKey(string(KindStudentReminderH1), "s-1", DateKey(monday)))
}
