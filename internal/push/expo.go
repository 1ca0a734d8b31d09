package push

import (
	"context"
	"fmt"
	"net/http"
	"time"

	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
)

const defaultSound = "default"

// ExpoSender отправляет уведомления через Expo Push API
type ExpoSender struct {
	client *expo.PushClient
}

type ExpoConfig struct {
	AccessToken string
	// Host переопределяется в тестах
	Host    string
	Timeout time.Duration
}

func NewExpoSender(cfg ExpoConfig) *ExpoSender {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &ExpoSender{
		client: expo.NewPushClient(&expo.ClientConfig{
			Host:        cfg.Host,
			AccessToken: cfg.AccessToken,
			HTTPClient:  &http.Client{Timeout: timeout},
		}),
	}
}

func (s *ExpoSender) Send(ctx context.Context, msg *Message) (*Ticket, error) {
	if msg.To == "" {
		return nil, ErrNoToken
	}
	token, err := expo.NewExponentPushToken(msg.To)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := s.client.Publish(&expo.PushMessage{
		To:       []expo.ExponentPushToken{token},
		Title:    msg.Title,
		Body:     msg.Body,
		Sound:    defaultSound,
		Data:     msg.Data,
		Priority: expo.DefaultPriority,
	})
	if err != nil {
		return nil, fmt.Errorf("expo publish: %w", err)
	}

	ticket := &Ticket{
		ID:      resp.ID,
		Status:  resp.Status,
		Message: resp.Message,
		Details: resp.Details,
	}
	if err := resp.ValidateResponse(); err != nil {
		return ticket, fmt.Errorf("expo rejected message: %w", err)
	}
	return ticket, nil
}
