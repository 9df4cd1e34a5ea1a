package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/fashion-school-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/whatsapp"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/fashion-school-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/fashion-school-backend-go/internal/service/auth"
	availabilityService "github.com/cmlabs-hris/fashion-school-backend-go/internal/service/availability"
	calendarService "github.com/cmlabs-hris/fashion-school-backend-go/internal/service/calendar"
	catalogService "github.com/cmlabs-hris/fashion-school-backend-go/internal/service/catalog"
	invitationService "github.com/cmlabs-hris/fashion-school-backend-go/internal/service/invitation"
	notificationService "github.com/cmlabs-hris/fashion-school-backend-go/internal/service/notification"
	onboardingService "github.com/cmlabs-hris/fashion-school-backend-go/internal/service/onboarding"
	portfolioService "github.com/cmlabs-hris/fashion-school-backend-go/internal/service/portfolio"
	progressService "github.com/cmlabs-hris/fashion-school-backend-go/internal/service/progress"
	rescheduleService "github.com/cmlabs-hris/fashion-school-backend-go/internal/service/reschedule"
)

func logLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// newSender picks the WhatsApp driver. The gateway is nil unless the http
// driver is used.
func newSender(cfg config.WhatsAppConfig) (whatsapp.Sender, appHTTP.StatusChecker) {
	switch cfg.Driver {
	case "console":
		return whatsapp.ConsoleSender{}, nil
	case "noop":
		return whatsapp.NoopSender{}, nil
	default:
		client := whatsapp.NewClient(cfg.APIURL, cfg.Timeout)
		return client, client
	}
}

const appName = "fashion-school"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.App.LogLevel)})))
	loc := cfg.Location()

	db, err := database.NewPostgreSQLDB(context.Background(), cfg.DatabaseURL(), cfg.PoolSettings(appName))
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		slog.Error("Error migrating database", "error", err)
		os.Exit(1)
	}

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	if err != nil {
		slog.Error("Error creating JWT service", "error", err)
		os.Exit(1)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		slog.Error("Error creating file storage", "error", err)
		os.Exit(1)
	}

	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	slotRepo := postgresql.NewTimeSlotRepository(db)
	masterClassRepo := postgresql.NewMasterClassRepository(db)
	programRepo := postgresql.NewProgramRepository(db)
	syllabusRepo := postgresql.NewSyllabusRepository(db)
	availabilityRepo := postgresql.NewAvailabilityRepository(db)
	enrollmentRepo := postgresql.NewEnrollmentRepository(db)
	classEnrollmentRepo := postgresql.NewClassEnrollmentRepository(db)
	weeklyScheduleRepo := postgresql.NewWeeklyScheduleRepository(db)
	bookingRepo := postgresql.NewBookingRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	attendanceRequestRepo := postgresql.NewAttendanceRequestRepository(db)
	overrideRepo := postgresql.NewOverrideRepository(db)
	rescheduleRepo := postgresql.NewRescheduleRepository(db)
	dispatchRepo := postgresql.NewDispatchRepository(db)
	portfolioRepo := postgresql.NewPortfolioRepository(db)

	sender, gateway := newSender(cfg.WhatsApp)
	now := time.Now

	notifier := notificationService.NewNotificationService(sender, dispatchRepo, bookingRepo, overrideRepo, slotRepo, userRepo,
		notificationService.Config{GroupJID: cfg.WhatsApp.GroupID, RecapDelay: cfg.Scheduler.RecapDelay, Location: loc})
	authSvc := serviceAuth.NewAuthService(tx, userRepo, enrollmentRepo, programRepo, JWTService, JWTRepository)
	invitationSvc := invitationService.NewInvitationService(tx, userRepo, programRepo, enrollmentRepo, classEnrollmentRepo, sender, cfg.App.FrontendURL)
	catalogSvc := catalogService.NewCatalogService(tx, slotRepo, masterClassRepo, programRepo, syllabusRepo, userRepo)
	availabilitySvc := availabilityService.NewAvailabilityService(tx, availabilityRepo, classEnrollmentRepo, weeklyScheduleRepo, userRepo)
	onboardingSvc := onboardingService.NewOnboardingService(tx, enrollmentRepo, classEnrollmentRepo, weeklyScheduleRepo, bookingRepo,
		availabilitySvc, now, loc)
	attendanceSvc := attendanceService.NewAttendanceService(tx, bookingRepo, attendanceRepo, attendanceRequestRepo, enrollmentRepo,
		classEnrollmentRepo, overrideRepo, slotRepo, userRepo, notifier, now, loc)
	calendarSvc := calendarService.NewCalendarService(bookingRepo, weeklyScheduleRepo, enrollmentRepo, classEnrollmentRepo,
		overrideRepo, slotRepo, userRepo, now, loc)
	rescheduleSvc := rescheduleService.NewRescheduleService(tx, rescheduleRepo, bookingRepo, overrideRepo, slotRepo, userRepo,
		notifier, now, loc)
	progressSvc := progressService.NewProgressService(tx, enrollmentRepo, classEnrollmentRepo, bookingRepo, attendanceRepo, syllabusRepo)
	portfolioSvc := portfolioService.NewPortfolioService(portfolioRepo, classEnrollmentRepo, enrollmentRepo, syllabusRepo, fileStorage)

	scheduler := cron.NewScheduler(loc)
	if err := registerJobs(scheduler, notifier, onboardingSvc, now, loc); err != nil {
		slog.Error("Error registering cron jobs", "error", err)
		os.Exit(1)
	}
	if cfg.Scheduler.Enabled {
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := appHTTP.NewRouter(JWTService, appHTTP.RouterConfig{
		AppName:        appName,
		Env:            cfg.App.Env,
		AllowedOrigins: cfg.App.AllowedOrigins,
		UploadDir:      cfg.Storage.BasePath,
	}, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(JWTService, authSvc),
		Invitation:   appHTTP.NewInvitationHandler(invitationSvc),
		Onboarding:   appHTTP.NewOnboardingHandler(onboardingSvc),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		Calendar:     appHTTP.NewCalendarHandler(calendarSvc),
		Reschedule:   appHTTP.NewRescheduleHandler(rescheduleSvc),
		Availability: appHTTP.NewAvailabilityHandler(availabilitySvc),
		Catalog:      appHTTP.NewCatalogHandler(catalogSvc),
		Progress:     appHTTP.NewProgressHandler(progressSvc),
		Portfolio:    appHTTP.NewPortfolioHandler(portfolioSvc),
		Messaging:    appHTTP.NewMessagingHandler(gateway, scheduler),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-shutdownCtx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("HTTP shutdown error", "error", err)
		}
	}()

	slog.Info("Server running", "addr", server.Addr, "timezone", loc.String(), "scheduler", cfg.Scheduler.Enabled)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
	}
}
