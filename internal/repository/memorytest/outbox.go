package memorytest

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/whatsapp"
)

// Message is one WhatsApp message captured by an Outbox.
type Message struct {
	To   string
	Body string
}

// Outbox is a whatsapp.Sender that records messages instead of sending them.
// Recipients listed in Fail get whatsapp.ErrSendFailed.
type Outbox struct {
	mu       sync.Mutex
	Messages []Message
	Fail     map[string]bool
	FailAll  bool
}

func (o *Outbox) Send(_ context.Context, recipient string, message string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if recipient == "" {
		return whatsapp.ErrEmptyRecipient
	}
	if o.FailAll || o.Fail[recipient] {
		return whatsapp.ErrSendFailed
	}
	o.Messages = append(o.Messages, Message{To: recipient, Body: message})
	return nil
}

// To returns the messages delivered to recipient.
func (o *Outbox) To(recipient string) []Message {
	o.mu.Lock()
	defer o.mu.Unlock()

	var out []Message
	for _, m := range o.Messages {
		if m.To == recipient {
			out = append(out, m)
		}
	}
	return out
}

func (o *Outbox) Count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.Messages)
}
