package helpers

import (
	"context"
	"sync"

	"coursemate_backend/internal/push"
)

// RecordingSender вместо Expo: запоминает сообщения, по желанию отказывает
type RecordingSender struct {
	mu   sync.Mutex
	sent []*push.Message
	err  error
}

func (s *RecordingSender) Send(ctx context.Context, msg *push.Message) (*push.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.To == "" {
		return nil, push.ErrNoToken
	}
	if s.err != nil {
		return &push.Ticket{Status: "error", Message: s.err.Error()}, s.err
	}
	s.sent = append(s.sent, msg)
	return &push.Ticket{ID: "ticket-" + msg.Title, Status: "ok"}, nil
}

func (s *RecordingSender) Sent() []*push.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*push.Message(nil), s.sent...)
}

func (s *RecordingSender) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}
