package invitation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/invitation"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/whatsapp"
	"github.com/google/uuid"
)

type invitationServiceImpl struct {
	tx             database.Transactor
	userRepo       user.UserRepository
	programRepo    catalog.ProgramRepository
	enrollmentRepo enrollment.EnrollmentRepository
	classRepo      enrollment.ClassEnrollmentRepository
	sender         whatsapp.Sender
	frontendURL    string
}

func NewInvitationService(
	tx database.Transactor,
	userRepo user.UserRepository,
	programRepo catalog.ProgramRepository,
	enrollmentRepo enrollment.EnrollmentRepository,
	classRepo enrollment.ClassEnrollmentRepository,
	sender whatsapp.Sender,
	frontendURL string,
) invitation.InvitationService {
	return &invitationServiceImpl{
		tx:             tx,
		userRepo:       userRepo,
		programRepo:    programRepo,
		enrollmentRepo: enrollmentRepo,
		classRepo:      classRepo,
		sender:         sender,
		frontendURL:    frontendURL,
	}
}

// deliver sends the activation link. Unlike the other notifications the
// failure is returned, because the invite must not exist without it.
func (s *invitationServiceImpl) deliver(ctx context.Context, phone, link string) error {
	err := s.sender.Send(ctx, whatsapp.FormatRecipient(phone), notification.Invite(link))
	metrics.MessagesSent.WithLabelValues(string(notification.KindInvite), metrics.Result(err)).Inc()
	if err != nil {
		slog.Warn("Failed to deliver invitation", "phone", phone, "error", err)
		return fmt.Errorf("%w: %v", invitation.ErrInviteDeliveryFailed, err)
	}
	return nil
}

// InviteStudent implements invitation.InvitationService.
func (s *invitationServiceImpl) InviteStudent(ctx context.Context, req invitation.InviteStudentRequest) (*invitation.InviteResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, user.ErrEmailAlreadyRegistered
	}

	program, err := s.programRepo.GetByID(ctx, req.ProgramID)
	if err != nil {
		return nil, err
	}
	if len(program.Classes) == 0 {
		return nil, catalog.ErrProgramHasNoClasses
	}

	token := uuid.NewString()
	link := invitation.ActivationLink(s.frontendURL, token)
	if err := s.deliver(ctx, req.PhoneNumber, link); err != nil {
		return nil, err
	}

	response := &invitation.InviteResponse{ActivationLink: link}
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		student := &user.User{
			Name:            req.Name,
			Email:           req.Email,
			PhoneNumber:     req.PhoneNumber,
			Role:            user.RoleStudent,
			ActivationToken: &token,
		}
		if err := s.userRepo.Create(txCtx, student); err != nil {
			return err
		}

		e := &enrollment.Enrollment{StudentID: student.ID, ProgramID: program.ID, Status: enrollment.StatusPendingSchedule}
		if err := s.enrollmentRepo.Create(txCtx, e); err != nil {
			return fmt.Errorf("failed to create enrollment: %w", err)
		}
		for _, pc := range program.Classes {
			ce := &enrollment.ClassEnrollment{
				EnrollmentID:      e.ID,
				ProgramClassID:    pc.ID,
				SessionsRemaining: pc.TotalSessions,
				Status:            enrollment.ClassStatusActive,
			}
			if err := s.classRepo.Create(txCtx, ce); err != nil {
				return fmt.Errorf("failed to create class enrollment: %w", err)
			}
		}

		response.UserID = student.ID
		response.EnrollmentID = e.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Student invited", "user_id", response.UserID, "enrollment_id", response.EnrollmentID, "program_id", program.ID)
	return response, nil
}

// GetByToken implements invitation.InvitationService.
func (s *invitationServiceImpl) GetByToken(ctx context.Context, token string) (*invitation.InvitationDetailResponse, error) {
	u, err := s.userRepo.GetByActivationToken(ctx, token)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, invitation.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to get user by activation token: %w", err)
	}

	detail := &invitation.InvitationDetailResponse{Name: u.Name, Email: u.Email}
	enrollments, err := s.enrollmentRepo.List(ctx, enrollment.EnrollmentFilter{StudentID: u.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	if len(enrollments) > 0 {
		detail.ProgramName = enrollments[0].ProgramName
	}
	return detail, nil
}

// Resend implements invitation.InvitationService.
func (s *invitationServiceImpl) Resend(ctx context.Context, userID string) error {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return invitation.ErrInvitationNotFound
		}
		return err
	}
	if u.ActivationToken == nil {
		return invitation.ErrInvitationAlreadyUsed
	}

	if err := s.deliver(ctx, u.PhoneNumber, invitation.ActivationLink(s.frontendURL, *u.ActivationToken)); err != nil {
		return err
	}
	slog.Info("Invitation resent", "user_id", u.ID)
	return nil
}
