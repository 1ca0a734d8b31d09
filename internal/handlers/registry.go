package handlers

import (
	"coursemate_backend/internal/services"
	"coursemate_backend/internal/validator"
)

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	MarketHandler       *MarketHandler
	ReviewHandler       *ReviewHandler
	ScheduleHandler     *ScheduleHandler
	NotificationHandler *NotificationHandler
}

func NewAppHandlers(v *validator.Validator, svc *services.ServiceContainer) *AppHandlers {
	base := NewBaseHandler(v)
	return &AppHandlers{
		MarketHandler:       NewMarketHandler(base, svc.MarketService),
		ReviewHandler:       NewReviewHandler(base, svc.ReviewService),
		ScheduleHandler:     NewScheduleHandler(base, svc.ScheduleService),
		NotificationHandler: NewNotificationHandler(base, svc.NotificationService),
	}
}
