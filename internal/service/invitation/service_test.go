package invitation

import (
	"context"
	"strings"
	"testing"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/invitation"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/repository/memorytest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recipient = "6281234567890@s.whatsapp.net"

func newTestService(t *testing.T) (invitation.InvitationService, *memorytest.Store, *memorytest.Outbox, *catalog.Program) {
	store := memorytest.NewStore()
	seed := store.Seed(t)
	outbox := &memorytest.Outbox{}
	svc := NewInvitationService(store, store.Users(), store.Programs(), store.Enrollments(), store.ClassEnrollments(),
		outbox, "https://school.test/")

	program := seed.Program("Fashion Design",
		memorytest.ClassSpec{MasterClass: seed.MasterClass("Pattern Making"), TotalSessions: 16, SessionsPerWeek: 1},
		memorytest.ClassSpec{MasterClass: seed.MasterClass("Sewing"), TotalSessions: 48, SessionsPerWeek: 2},
	)
	return svc, store, outbox, program
}

func inviteRequest(programID string) invitation.InviteStudentRequest {
	return invitation.InviteStudentRequest{Name: "Siti", Email: "Siti@Example.com", PhoneNumber: "0812-3456-7890", ProgramID: programID}
}

func TestInviteStudent(t *testing.T) {
	svc, store, outbox, program := newTestService(t)
	ctx := context.Background()

	resp, err := svc.InviteStudent(ctx, inviteRequest(program.ID))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.ActivationLink, "https://school.test/activate/"))

	msgs := outbox.To(recipient)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Body, resp.ActivationLink)

	student, err := store.Users().GetByEmail(ctx, "siti@example.com")
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, student.ID)
	assert.Equal(t, user.RoleStudent, student.Role)
	assert.False(t, student.IsActivated())

	e, err := store.Enrollments().GetByID(ctx, resp.EnrollmentID)
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusPendingSchedule, e.Status)

	classes, err := store.ClassEnrollments().ListByEnrollment(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, 16, classes[0].SessionsRemaining)
	assert.Equal(t, 48, classes[1].SessionsRemaining)
	assert.Zero(t, classes[1].IzinUsed)

	detail, err := svc.GetByToken(ctx, strings.TrimPrefix(resp.ActivationLink, "https://school.test/activate/"))
	require.NoError(t, err)
	assert.Equal(t, "Fashion Design", detail.ProgramName)
	assert.Equal(t, "siti@example.com", detail.Email)

	_, err = svc.InviteStudent(ctx, inviteRequest(program.ID))
	assert.ErrorIs(t, err, user.ErrEmailAlreadyRegistered)
}

func TestInviteStudentPersistsNothingWhenDeliveryFails(t *testing.T) {
	svc, store, outbox, program := newTestService(t)
	ctx := context.Background()
	outbox.FailAll = true

	_, err := svc.InviteStudent(ctx, inviteRequest(program.ID))
	assert.ErrorIs(t, err, invitation.ErrInviteDeliveryFailed)

	exists, err := store.Users().ExistsByEmail(ctx, "siti@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInviteStudentValidation(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.InviteStudent(ctx, inviteRequest("missing"))
	assert.ErrorIs(t, err, catalog.ErrProgramNotFound)

	empty := store.Seed(t).Program("Short Course")
	_, err = svc.InviteStudent(ctx, inviteRequest(empty.ID))
	assert.ErrorIs(t, err, catalog.ErrProgramHasNoClasses)

	_, err = svc.GetByToken(ctx, "unknown")
	assert.ErrorIs(t, err, invitation.ErrInvitationNotFound)
}

func TestResend(t *testing.T) {
	svc, store, outbox, program := newTestService(t)
	ctx := context.Background()

	resp, err := svc.InviteStudent(ctx, inviteRequest(program.ID))
	require.NoError(t, err)

	require.NoError(t, svc.Resend(ctx, resp.UserID))
	msgs := outbox.To(recipient)
	require.Len(t, msgs, 2)
	assert.Equal(t, msgs[0].Body, msgs[1].Body)

	outbox.FailAll = true
	assert.ErrorIs(t, svc.Resend(ctx, resp.UserID), invitation.ErrInviteDeliveryFailed)
	outbox.FailAll = false

	require.NoError(t, store.Users().Activate(ctx, resp.UserID, "Siti", "hash"))
	assert.ErrorIs(t, svc.Resend(ctx, resp.UserID), invitation.ErrInvitationAlreadyUsed)
	assert.ErrorIs(t, svc.Resend(ctx, "missing"), invitation.ErrInvitationNotFound)
}
