package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	MarketService       MarketService
	ReviewService       ReviewService
	ScheduleService     ScheduleService
	NotificationService NotificationService
}
