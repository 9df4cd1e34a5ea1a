package notification

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/booking"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/utils"
)

func dayAndDate(t time.Time) string {
	return fmt.Sprintf("%s, %s", utils.DayName(utils.Weekday(t)), utils.FormatLongDate(t))
}

func clockOf(b booking.Booking) string {
	if b.SlotStart == "" {
		return "-"
	}
	return b.SlotStart
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// StudentReminderH1 lists a student's sessions of tomorrow. Sessions carry
// the effective teacher's name.
func StudentReminderH1(studentName string, date time.Time, sessions []booking.Booking) string {
	lines := make([]string, 0, len(sessions))
	for _, s := range sessions {
		lines = append(lines, fmt.Sprintf("⏰ %s - %s\n   👩‍🏫 Pengajar: %s", clockOf(s), orDash(s.ClassName), orDash(s.TeacherName)))
	}

	var b strings.Builder
	b.WriteString("📚 *Pengingat Jadwal Besok*\n\n")
	fmt.Fprintf(&b, "Halo %s! 👋\n\n", studentName)
	fmt.Fprintf(&b, "Jadwal kelas Anda besok (%s):\n\n", dayAndDate(date))
	b.WriteString(strings.Join(lines, "\n\n"))
	b.WriteString("\n\nSampai jumpa di kelas! 🎨")
	return b.String()
}

// StudentReminderToday is the morning reminder of a student's sessions today.
func StudentReminderToday(studentName string, date time.Time, sessions []booking.Booking) string {
	lines := make([]string, 0, len(sessions))
	for _, s := range sessions {
		lines = append(lines, fmt.Sprintf("⏰ %s - %s", clockOf(s), orDash(s.ClassName)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🌅 *Selamat Pagi, %s!*\n\n", studentName)
	fmt.Fprintf(&b, "Pengingat jadwal hari ini (%s):\n\n", dayAndDate(date))
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\nSemangat belajar! 💪")
	return b.String()
}

// TeacherReminderH1 lists the sessions a teacher effectively teaches tomorrow.
func TeacherReminderH1(teacherName string, date time.Time, sessions []booking.Booking) string {
	lines := make([]string, 0, len(sessions))
	for _, s := range sessions {
		lines = append(lines, fmt.Sprintf("⏰ %s\n   • %s - %s", clockOf(s), orDash(s.StudentName), orDash(s.ClassName)))
	}

	var b strings.Builder
	b.WriteString("📋 *Jadwal Mengajar Besok*\n\n")
	fmt.Fprintf(&b, "Halo Kak %s! 👋\n\n", teacherName)
	fmt.Fprintf(&b, "Jadwal mengajar Anda besok (%s):\n\n", dayAndDate(date))
	b.WriteString(strings.Join(lines, "\n\n"))
	fmt.Fprintf(&b, "\n\nTotal: %d sesi\nTerima kasih! 🙏", len(sessions))
	return b.String()
}

// DaySessions groups a teacher's sessions of one day.
type DaySessions struct {
	Date     time.Time
	Sessions []booking.Booking
}

// TeacherWeeklySummary renders a week of sessions grouped by day. Days
// without sessions are left out.
func TeacherWeeklySummary(teacherName string, days []DaySessions) string {
	blocks := make([]string, 0, len(days))
	total := 0
	for _, d := range days {
		if len(d.Sessions) == 0 {
			continue
		}
		lines := []string{fmt.Sprintf("📅 *%s (%s)*", utils.DayName(utils.Weekday(d.Date)), utils.FormatShortDate(d.Date))}
		for _, s := range d.Sessions {
			lines = append(lines, fmt.Sprintf("   ⏰ %s - %s", clockOf(s), orDash(s.StudentName)))
			total++
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	var b strings.Builder
	b.WriteString("📆 *Jadwal Mengajar Minggu Ini*\n\n")
	fmt.Fprintf(&b, "Halo Kak %s! 👋\n\n", teacherName)
	b.WriteString(strings.Join(blocks, "\n\n"))
	fmt.Fprintf(&b, "\n\n📊 Total: %d sesi minggu ini\nSemangat mengajar! 💪", total)
	return b.String()
}

// Recap is the attendance summary of one class taught by one teacher in a slot.
type Recap struct {
	ClassName   string
	Date        time.Time
	SlotName    string
	TeacherName string
	Tally       booking.Tally
	Unrecorded  int // booked sessions with no attendance yet
	Present     []string
}

func SessionRecap(r Recap) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 *LAPORAN SESI %s*\n", r.ClassName)
	fmt.Fprintf(&b, "📅 Tanggal: %s\n", dayAndDate(r.Date))
	if r.SlotName != "" {
		fmt.Fprintf(&b, "🕘 Sesi: %s\n", r.SlotName)
	}
	fmt.Fprintf(&b, "👩‍🏫 Pengajar: %s\n\n", orDash(r.TeacherName))
	fmt.Fprintf(&b, "✅ Hadir: %d\n", r.Tally.Hadir)
	fmt.Fprintf(&b, "⚠️ Izin: %d\n", r.Tally.Izin)
	fmt.Fprintf(&b, "❌ Alpha: %d\n", r.Tally.Alpha)
	if r.Unrecorded > 0 {
		fmt.Fprintf(&b, "⏳ Belum diabsen: %d\n", r.Unrecorded)
	}
	b.WriteString("\n")
	b.WriteString("Siswa Hadir:")
	if len(r.Present) == 0 {
		b.WriteString("\n-")
	}
	for _, name := range r.Present {
		fmt.Fprintf(&b, "\n- %s", name)
	}
	return b.String()
}

// StudentIzin tells the teacher that a student will skip a session.
func StudentIzin(teacherName, studentName, className string, date time.Time, reason string) string {
	var b strings.Builder
	b.WriteString("⚠️ *Siswa Izin*\n\n")
	fmt.Fprintf(&b, "Halo Kak %s,\n\n", teacherName)
	fmt.Fprintf(&b, "Siswa *%s* mengajukan izin:\n\n", studentName)
	fmt.Fprintf(&b, "📅 Tanggal: %s\n", dayAndDate(date))
	fmt.Fprintf(&b, "📚 Kelas: %s\n", orDash(className))
	if reason != "" {
		fmt.Fprintf(&b, "📝 Alasan: %s\n", reason)
	}
	b.WriteString("\nSesi akan digeser ke jadwal berikutnya.")
	return b.String()
}

// SessionTime describes one end of a schedule change.
type SessionTime struct {
	Date     time.Time
	SlotName string
}

func (s SessionTime) String() string {
	if s.SlotName == "" {
		return dayAndDate(s.Date)
	}
	return fmt.Sprintf("%s (%s)", dayAndDate(s.Date), s.SlotName)
}

func StudentScheduleChange(studentName, className string, prev, next SessionTime, reason string) string {
	var b strings.Builder
	b.WriteString("📅 *Perubahan Jadwal*\n\n")
	fmt.Fprintf(&b, "Halo %s,\n\n", studentName)
	fmt.Fprintf(&b, "Jadwal kelas *%s* Anda telah diubah:\n\n", className)
	fmt.Fprintf(&b, "❌ Jadwal Lama: %s\n", prev)
	fmt.Fprintf(&b, "✅ Jadwal Baru: %s\n", next)
	if reason != "" {
		fmt.Fprintf(&b, "\n📝 Alasan: %s\n", reason)
	}
	b.WriteString("\nTerima kasih! 🙏")
	return b.String()
}

func TeacherScheduleChange(teacherName, studentName, className string, prev, next SessionTime) string {
	var b strings.Builder
	b.WriteString("📅 *Perubahan Jadwal Siswa*\n\n")
	fmt.Fprintf(&b, "Halo Kak %s,\n\n", teacherName)
	fmt.Fprintf(&b, "Jadwal siswa *%s* (%s) telah diubah:\n\n", studentName, className)
	fmt.Fprintf(&b, "❌ Jadwal Lama: %s\n", prev)
	fmt.Fprintf(&b, "✅ Jadwal Baru: %s\n\n", next)
	b.WriteString("Terima kasih! 🙏")
	return b.String()
}

// Invite carries the activation link of a newly invited student.
func Invite(link string) string {
	return "Halo! Selamat datang di *Fashion School*.\n\n" +
		"Akun Anda telah dibuat. Silakan klik link di bawah ini untuk mengatur password dan jadwal belajar Anda:\n\n" +
		link + "\n\nTerima kasih!"
}
