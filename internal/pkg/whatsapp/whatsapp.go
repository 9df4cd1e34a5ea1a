package whatsapp

import (
	"context"
	"errors"
	"strings"
)

const (
	personalSuffix = "@s.whatsapp.net"
	groupSuffix    = "@g.us"
)

var (
	ErrEmptyRecipient = errors.New("whatsapp recipient is empty")
	ErrSendFailed     = errors.New("whatsapp message not delivered")
)

// Sender delivers a text message to a WhatsApp recipient (phone JID or group JID).
type Sender interface {
	Send(ctx context.Context, recipient string, message string) error
}

// FormatRecipient turns a phone number into a WhatsApp JID. Group JIDs and
// already formatted JIDs pass through unchanged.
func FormatRecipient(phone string) string {
	if phone == "" {
		return ""
	}
	if strings.HasSuffix(phone, groupSuffix) || strings.HasSuffix(phone, personalSuffix) {
		return phone
	}

	phone = strings.NewReplacer(" ", "", "-", "", "+", "").Replace(phone)
	if strings.HasPrefix(phone, "0") {
		phone = "62" + phone[1:]
	}
	return phone + personalSuffix
}
