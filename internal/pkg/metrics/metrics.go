package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "school",
		Name:      "whatsapp_messages_total",
		Help:      "WhatsApp messages by notification kind and result.",
	}, []string{"kind", "result"})

	CronRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "school",
		Name:      "cron_job_runs_total",
		Help:      "Cron job executions by job name and result.",
	}, []string{"job", "result"})

	CronDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "school",
		Name:      "cron_job_duration_seconds",
		Help:      "Cron job execution time.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job"})

	AttendanceRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "school",
		Name:      "attendance_recorded_total",
		Help:      "Attendance records created, by status and source.",
	}, []string{"status", "source"})

	AdminActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "school",
		Name:      "admin_actions_total",
		Help:      "Mutating admin requests by route pattern and outcome.",
	}, []string{"route", "outcome"})
)

func Handler() http.Handler {
	return promhttp.Handler()
}

// Result maps an error to the "result" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
