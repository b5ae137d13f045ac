package email

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// ConsoleSender logs messages instead of sending them.
type ConsoleSender struct {
	logger zerolog.Logger
}

// NewConsoleSender creates a new ConsoleSender
func NewConsoleSender(logger zerolog.Logger) *ConsoleSender {
	return &ConsoleSender{logger: logger}
}

// Send logs msg and its attachment paths.
func (s *ConsoleSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	paths := make([]string, len(msg.Attachments))
	for i, at := range msg.Attachments {
		paths[i] = at.Path
	}
	s.logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Strs("attachments", paths).
		Msg("Email not sent (console provider)")
	return nil
}

// MemorySender records messages in memory. Err, when set, is returned
// from every Send. When Delay is set, Send blocks until it is closed or
// ctx is done.
type MemorySender struct {
	mu    sync.Mutex
	sent  []Message
	Err   error
	Delay <-chan struct{}
}

// Send records msg.
func (s *MemorySender) Send(ctx context.Context, msg Message) error {
	if s.Delay != nil {
		select {
		case <-s.Delay:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

// Sent returns a copy of the recorded messages.
func (s *MemorySender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}
