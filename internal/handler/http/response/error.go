package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/availability"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/booking"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/invitation"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/onboarding"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/override"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/portfolio"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/reschedule"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/validator"
)

var notFound = []error{
	user.ErrUserNotFound,
	booking.ErrBookingNotFound,
	booking.ErrAttendanceNotFound,
	booking.ErrRequestNotFound,
	catalog.ErrTimeSlotNotFound,
	catalog.ErrMasterClassNotFound,
	catalog.ErrProgramNotFound,
	catalog.ErrProgramClassNotFound,
	catalog.ErrSyllabusNotFound,
	enrollment.ErrEnrollmentNotFound,
	enrollment.ErrClassEnrollmentNotFound,
	enrollment.ErrScheduleNotFound,
	invitation.ErrInvitationNotFound,
	onboarding.ErrNoPendingEnrollment,
	override.ErrOverrideNotFound,
	reschedule.ErrRequestNotFound,
	auth.ErrActivationNotFound,
	portfolio.ErrPortfolioNotFound,
}

var forbidden = []error{
	user.ErrInsufficientPermissions,
	booking.ErrBookingNotOwned,
	booking.ErrNotSessionTeacher,
	enrollment.ErrClassEnrollmentNotOwned,
	reschedule.ErrNotAllowed,
	auth.ErrAccountNotActivated,
}

var conflict = []error{
	user.ErrEmailAlreadyRegistered,
	booking.ErrDuplicateBooking,
	booking.ErrBookingAlreadyAttended,
	booking.ErrLateRequestPending,
	booking.ErrRequestAlreadyProcessed,
	booking.ErrBookingNotBooked,
	booking.ErrBookingNotCancelled,
	booking.ErrBookingNotDeletable,
	catalog.ErrMasterClassNameExists,
	enrollment.ErrFirstClassDateAlreadySet,
	enrollment.ErrScheduleSlotTaken,
	invitation.ErrInvitationAlreadyUsed,
	availability.ErrDuplicateEntry,
	reschedule.ErrRequestAlreadyProcessed,
	reschedule.ErrRequestPending,
	reschedule.ErrBookingNotReschedulable,
}

var badRequest = []error{
	booking.ErrAttendanceNotYetOpen,
	booking.ErrAttendanceWindowClosed,
	booking.ErrIzinTooLate,
	booking.ErrIzinNotAllowed,
	booking.ErrLateRequestNotNeeded,
	booking.ErrLateWindowExpired,
	enrollment.ErrNoSessionsRemaining,
	enrollment.ErrIzinQuotaExhausted,
	enrollment.ErrInvalidStatus,
	enrollment.ErrInvalidSessionsRemaining,
	catalog.ErrProgramHasNoClasses,
	catalog.ErrSyllabusExceedsSessions,
	availability.ErrMissingSkill,
	onboarding.ErrNoSlotOptions,
	onboarding.ErrSlotNotAvailable,
	onboarding.ErrClassNotSchedulable,
	onboarding.ErrNotPendingFirstClass,
	onboarding.ErrDateNotInSchedule,
	onboarding.ErrDateInPast,
	override.ErrSameTeacher,
	portfolio.ErrFileTooLarge,
	portfolio.ErrFileTypeNotAllowed,
	portfolio.ErrSyllabusMismatch,
	reschedule.ErrSameSchedule,
	reschedule.ErrNewDateInPast,
	reschedule.ErrTeacherOnlyChange,
	auth.ErrWrongPassword,
	user.ErrNotATeacher,
	user.ErrNotAStudent,
	user.ErrInvalidRole,
}

func matches(err error, targets []error) (error, bool) {
	for _, target := range targets {
		if errors.Is(err, target) {
			return target, true
		}
	}
	return nil, false
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, err.Error())
		return
	case errors.Is(err, invitation.ErrInviteDeliveryFailed):
		Error(w, http.StatusBadGateway, "DELIVERY_FAILED", invitation.ErrInviteDeliveryFailed.Error())
		return
	}

	if target, ok := matches(err, notFound); ok {
		NotFound(w, target.Error())
		return
	}
	if target, ok := matches(err, forbidden); ok {
		Forbidden(w, target.Error())
		return
	}
	if target, ok := matches(err, conflict); ok {
		Conflict(w, target.Error())
		return
	}
	if target, ok := matches(err, badRequest); ok {
		BadRequest(w, target.Error(), nil)
		return
	}

	slog.Error("Unhandled error", "error", err)
	InternalServerError(w, "An unexpected error occurred")
}
