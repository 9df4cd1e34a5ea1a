package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AppName        string
	Env            string
	AllowedOrigins []string
	// UploadDir is served under /uploads when set.
	UploadDir string
}

type Handlers struct {
	Auth         AuthHandler
	Invitation   InvitationHandler
	Onboarding   OnboardingHandler
	Attendance   AttendanceHandler
	Calendar     CalendarHandler
	Reschedule   RescheduleHandler
	Availability AvailabilityHandler
	Catalog      CatalogHandler
	Progress     ProgressHandler
	Portfolio    PortfolioHandler
	Messaging    MessagingHandler
}

func NewRouter(JWTService jwt.Service, cfg RouterConfig, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.AppName),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Handle("/metrics", metrics.Handler())
	if cfg.UploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Post("/activate/{token}", h.Auth.Activate)
		})
		r.Get("/invitations/{token}", h.Invitation.GetInvitationByToken)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			// Catalog reads are open to every signed-in user
			r.Get("/timeslots", h.Catalog.ListTimeSlots)
			r.Get("/master-classes", h.Catalog.ListMasterClasses)
			r.Get("/programs", h.Catalog.ListPrograms)
			r.Get("/programs/{id}", h.Catalog.GetProgram)
			r.Get("/program-classes/{classId}/syllabus", h.Catalog.GetSyllabus)

			r.With(middleware.RequireRole(user.RoleTeacher, user.RoleStudent)).Get("/calendar", h.Calendar.MyCalendar)
			r.Put("/me/password", h.Auth.ChangePassword)

			r.Route("/onboarding", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionScheduleOnboard))
				r.Get("/", h.Onboarding.GetWizard)
				r.Post("/slots", h.Onboarding.PickSlot)
				r.Get("/first-class-dates", h.Onboarding.FirstClassDateOptions)
				r.Post("/first-class-date", h.Onboarding.SetFirstClassDate)
			})

			r.Route("/bookings", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionBookingIzin))
				r.Get("/my", h.Attendance.ListMyBookings)
				r.Post("/{id}/izin", h.Attendance.RequestIzin)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionAttendanceSubmit)).Get("/sheet", h.Calendar.AttendanceSheet)
				r.With(middleware.RequirePermission(user.PermissionAttendanceSubmit)).Post("/", h.Attendance.SubmitAttendance)
				r.Route("/late-requests", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceLateRequest))
					r.Get("/", h.Attendance.ListAttendanceRequests)
					r.Post("/", h.Attendance.RequestLateAttendance)
				})
			})

			r.Route("/availability", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionAvailabilityManageOwn))
				r.Get("/", h.Availability.GetAvailability)
				r.Put("/", h.Availability.SetAvailability)
				r.Put("/skills", h.Availability.SetSkills)
			})

			r.Route("/reschedules", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionRescheduleRequest))
				r.Get("/", h.Reschedule.List)
				r.Post("/", h.Reschedule.Create)
			})

			r.With(middleware.RequirePermission(user.PermissionViewOwnProgress)).Get("/progress", h.Progress.MyProgress)
			r.With(middleware.RequirePermission(user.PermissionStudentProgressView)).Get("/students", h.Progress.MyStudents)
			r.With(middleware.RequirePermission(user.PermissionStudentProgressView)).Get("/enrollments/{id}/progress", h.Progress.StudentProgress)

			r.Route("/portfolios", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionPortfolioUpload))
				r.Post("/", h.Portfolio.Upload)
				r.Get("/classes/{classId}", h.Portfolio.ListMine)
				r.Delete("/{id}", h.Portfolio.DeleteMine)
			})

			// Admin only
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminArea)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionCatalogManage))
					r.Post("/timeslots", h.Catalog.CreateTimeSlot)
					r.Post("/master-classes", h.Catalog.CreateMasterClass)
					r.Post("/programs", h.Catalog.CreateProgram)
					r.Post("/programs/{id}/classes", h.Catalog.AddProgramClass)
					r.Post("/program-classes/{classId}/syllabus", h.Catalog.AddSyllabusItem)
					r.Put("/syllabus/{id}", h.Catalog.UpdateSyllabusItem)
					r.Delete("/syllabus/{id}", h.Catalog.DeleteSyllabusItem)
				})

				r.Route("/teachers", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionTeacherManage))
					r.Get("/", h.Catalog.ListTeachers)
					r.Post("/", h.Catalog.CreateTeacher)
					r.Get("/{id}/availability", h.Availability.GetAvailability)
					r.Put("/{id}/availability", h.Availability.SetAvailability)
					r.Put("/{id}/skills", h.Availability.SetSkills)
					r.With(middleware.RequirePermission(user.PermissionCalendarViewAll)).Get("/{id}/calendar", h.Calendar.TeacherCalendar)
				})
				r.With(middleware.RequirePermission(user.PermissionCalendarViewAll)).Get("/master-schedule", h.Calendar.MasterSchedule)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEnrollmentManage))
					r.Post("/students/invite", h.Invitation.InviteStudent)
					r.Post("/students/{id}/resend-invite", h.Invitation.Resend)
					r.Get("/enrollments", h.Progress.ListEnrollments)
					r.Patch("/enrollments/{id}/status", h.Progress.UpdateEnrollmentStatus)
					r.Get("/enrollments/{id}/classes/{classId}/slots", h.Availability.ListOpenSlots)
					r.Patch("/class-enrollments/{id}", h.Progress.UpdateClassEnrollment)
					r.Get("/class-enrollments/{classId}/portfolios", h.Portfolio.List)
					r.Delete("/portfolios/{id}", h.Portfolio.Delete)
					r.Delete("/weekly-schedules/{id}", h.Onboarding.RemoveWeeklySchedule)
					r.Get("/bookings", h.Attendance.ListBookings)
					r.Post("/bookings", h.Attendance.CreateManualBooking)
					r.Post("/bookings/{id}/cancel", h.Attendance.CancelBooking)
					r.Delete("/bookings/{id}", h.Attendance.DeleteBooking)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionRequestApprove))
					r.Get("/attendance-requests", h.Attendance.ListAttendanceRequests)
					r.Post("/attendance-requests/{id}/approve", h.Attendance.ApproveLateAttendance)
					r.Post("/attendance-requests/{id}/reject", h.Attendance.RejectLateAttendance)
					r.Get("/reschedules", h.Reschedule.List)
					r.Post("/reschedules/{id}/approve", h.Reschedule.Approve)
					r.Post("/reschedules/{id}/reject", h.Reschedule.Reject)
				})

				r.Route("/overrides", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionOverrideManage))
					r.Get("/", h.Calendar.ListOverrides)
					r.Post("/", h.Calendar.CreateOverride)
					r.Delete("/{id}", h.Calendar.DeleteOverride)
				})

				r.Route("/messaging", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionMessagingStatus))
					r.Get("/status", h.Messaging.Status)
					r.Get("/jobs", h.Messaging.ListJobs)
					r.Post("/jobs/{name}/run", h.Messaging.RunJob)
				})
			})
		})
	})
	return r
}
