package services

import (
	"context"
	"errors"
	"sync"

	"coursemate_backend/internal/email"
	"coursemate_backend/internal/models"
	"coursemate_backend/internal/push"
)

const (
	tokenU1     = "ExponentPushToken[u1-device]"
	tokenSeller = "ExponentPushToken[seller-device]"
)

// fakeSender запоминает сообщения и может отказывать
type fakeSender struct {
	mu   sync.Mutex
	sent []*push.Message
	err  error
}

func (f *fakeSender) Send(ctx context.Context, msg *push.Message) (*push.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg.To == "" {
		return nil, push.ErrNoToken
	}
	if f.err != nil {
		return &push.Ticket{Status: "error", Message: f.err.Error()}, f.err
	}
	f.sent = append(f.sent, msg)
	return &push.Ticket{ID: "ticket-" + msg.Title, Status: "ok"}, nil
}

func (f *fakeSender) Sent() []*push.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*push.Message(nil), f.sent...)
}

func (f *fakeSender) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets []*models.PushTicket
	err     error
}

func (r *fakeTicketRepo) CreateTicket(ctx context.Context, t *models.PushTicket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.tickets = append(r.tickets, t)
	return nil
}

func (r *fakeTicketRepo) FindTicketsByUser(ctx context.Context, userID string, limit int) ([]*models.PushTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.PushTicket, 0)
	for _, t := range r.tickets {
		if t.UserID == userID && len(out) < limit {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeMailer struct {
	enabled bool
	sent    []*email.Email
	err     error
}

func (m *fakeMailer) Enabled() bool { return m.enabled }

func (m *fakeMailer) Send(ctx context.Context, e *email.Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, e)
	return nil
}

var errProviderDown = errors.New("push provider unavailable")
