package services

import (
	"context"
	"encoding/json"
	"errors"

	"coursemate_backend/internal/logger"
	"coursemate_backend/internal/models"
	"coursemate_backend/internal/push"
	"coursemate_backend/internal/repositories"
	"coursemate_backend/internal/services/dto"
	"coursemate_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

const defaultTicketLimit = 50

// PushRequest - одно уведомление конкретному пользователю
type PushRequest struct {
	UserID string
	Token  string
	Kind   models.PushKind
	Title  string
	Body   string
	Data   map[string]string
}

type NotificationService interface {
	// Dispatch отправляет push и пишет тикет в журнал. Ошибка доставки
	// возвращается вызывающему, ошибка журнала только логируется.
	Dispatch(ctx context.Context, req *PushRequest) (*push.Ticket, error)
	ListTickets(ctx context.Context, query *dto.TicketListQuery) ([]*models.PushTicket, error)
}

type notificationService struct {
	sender     push.Sender
	ticketRepo repositories.TicketRepository
}

func NewNotificationService(sender push.Sender, ticketRepo repositories.TicketRepository) NotificationService {
	return &notificationService{
		sender:     sender,
		ticketRepo: ticketRepo,
	}
}

func (s *notificationService) Dispatch(ctx context.Context, req *PushRequest) (*push.Ticket, error) {
	ticket, err := s.sender.Send(ctx, &push.Message{
		To:    req.Token,
		Title: req.Title,
		Body:  req.Body,
		Data:  req.Data,
	})

	ticketID := ""
	if ticket != nil {
		ticketID = ticket.ID
	}
	logger.PushLog(string(req.Kind), req.UserID, ticketID, err)

	// без токена и при выключенной доставке писать в журнал нечего
	if !errors.Is(err, push.ErrNoToken) && !errors.Is(err, push.ErrDisabled) {
		s.record(ctx, req, ticket, err)
	}
	return ticket, err
}

func (s *notificationService) record(ctx context.Context, req *PushRequest, ticket *push.Ticket, sendErr error) {
	if s.ticketRepo == nil {
		return
	}

	row := &models.PushTicket{
		UserID: req.UserID,
		Kind:   req.Kind,
		Title:  req.Title,
		Body:   req.Body,
		Token:  req.Token,
		Status: models.PushStatusOK,
	}
	if ticket != nil {
		row.TicketID = ticket.ID
		if len(ticket.Details) > 0 {
			if raw, err := json.Marshal(ticket.Details); err == nil {
				row.Data = datatypes.JSON(raw)
			}
		}
	}
	if sendErr != nil {
		row.Status = models.PushStatusError
		row.Error = sendErr.Error()
	}

	if err := s.ticketRepo.CreateTicket(ctx, row); err != nil {
		logger.CtxWithError(ctx, "Failed to record push ticket", err, "user_id", req.UserID, "kind", req.Kind)
	}
}

func (s *notificationService) ListTickets(ctx context.Context, query *dto.TicketListQuery) ([]*models.PushTicket, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultTicketLimit
	}
	tickets, err := s.ticketRepo.FindTicketsByUser(ctx, query.UserID, limit)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, apperrors.DomainNotifications)
	}
	return tickets, nil
}
