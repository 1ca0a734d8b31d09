package email

import "context"

// Provider отправляет письма
type Provider interface {
	Send(ctx context.Context, email *Email) error
	// Enabled - false, если SMTP не настроен
	Enabled() bool
}

// NoopProvider ничего не отправляет. Используется без SMTP.
type NoopProvider struct{}

func (NoopProvider) Send(ctx context.Context, email *Email) error { return nil }
func (NoopProvider) Enabled() bool                                 { return false }
