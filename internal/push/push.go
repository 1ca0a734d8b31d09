package push

import (
	"context"
	"errors"
)

var (
	ErrNoToken      = errors.New("user has no push token")
	ErrInvalidToken = errors.New("invalid push token")
	ErrDisabled     = errors.New("push delivery is disabled")
)

// Message - одно уведомление на одно устройство
type Message struct {
	To    string
	Title string
	Body  string
	Data  map[string]string
}

// Ticket - ответ сервиса доставки на принятое сообщение
type Ticket struct {
	ID      string
	Status  string
	Message string
	Details map[string]string
}

// Sender доставляет уведомление. Отказ сервиса доставки возвращается как ошибка.
type Sender interface {
	Send(ctx context.Context, msg *Message) (*Ticket, error)
}

// DisabledSender используется, когда доставка выключена в конфиге
type DisabledSender struct{}

func (DisabledSender) Send(ctx context.Context, msg *Message) (*Ticket, error) {
	return nil, ErrDisabled
}
