package notification

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/utils"
)

// Kind names a class of outgoing message. Scheduled kinds are recorded in
// the dispatch ledger so a retried job never sends twice.
type Kind string

const (
	KindStudentReminderH1    Kind = "student-h1"
	KindStudentReminderToday Kind = "student-hday"
	KindTeacherReminderH1    Kind = "teacher-h1"
	KindTeacherWeeklySummary Kind = "teacher-weekly"
	KindSessionRecap         Kind = "recap"
	KindStudentIzin          Kind = "student-izin"
	KindScheduleChange       Kind = "schedule-change"
	KindInvite               Kind = "invite"
)

// DispatchKey joins the parts identifying one scheduled send.
func DispatchKey(parts ...string) string {
	return strings.Join(parts, ":")
}

func DateKey(t time.Time) string {
	return utils.DateOf(t).Format(utils.DateLayout)
}
