package models

import (
	"gorm.io/datatypes"
)

type PushKind string

const (
	PushKindScheduleDue  PushKind = "schedule_due"
	PushKindItemInterest PushKind = "item_interest"
)

const (
	PushStatusOK    = "ok"
	PushStatusError = "error"
)

// PushTicket - запись журнала отправленных push-уведомлений (SQL)
type PushTicket struct {
	BaseModel
	UserID   string         `gorm:"not null;index" json:"userId"`
	Kind     PushKind       `gorm:"not null;size:32" json:"kind"`
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	Token    string         `json:"-"`
	TicketID string         `gorm:"index" json:"ticketId,omitempty"`
	Status   string         `gorm:"not null;size:16" json:"status"`
	Error    string         `json:"error,omitempty"`
	Data     datatypes.JSON `json:"data,omitempty"`
}
