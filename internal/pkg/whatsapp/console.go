package whatsapp

import (
	"context"
	"log/slog"
)

// ConsoleSender logs messages instead of delivering them. Used in development.
type ConsoleSender struct{}

func (ConsoleSender) Send(ctx context.Context, recipient string, message string) error {
	target := FormatRecipient(recipient)
	if target == "" {
		return ErrEmptyRecipient
	}
	slog.InfoContext(ctx, "WhatsApp message", "to", target, "message", message)
	return nil
}

// NoopSender drops every message.
type NoopSender struct{}

func (NoopSender) Send(context.Context, string, string) error { return nil }
