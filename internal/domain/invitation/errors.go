package invitation

import "errors"

var (
	ErrInviteDeliveryFailed  = errors.New("failed to deliver the invitation over WhatsApp, nothing was saved")
	ErrInvitationNotFound    = errors.New("invitation not found")
	ErrInvitationAlreadyUsed = errors.New("invitation has already been used")
	ErrInvalidPhoneNumber    = errors.New("phone number is not a valid Indonesian number")
)
