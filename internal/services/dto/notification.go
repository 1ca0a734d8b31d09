package dto

type TicketListQuery struct {
	UserID string `form:"userId" validate:"required,doc-id"`
	Limit  int    `form:"limit" validate:"omitempty,min=1,max=200"`
}

// HealthResponse - ответ /health
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}
