package handlers

import (
	"net/http"

	"coursemate_backend/internal/services"
	"coursemate_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("/tickets", h.ListTickets)
	}
}

// ListTickets godoc
// @Summary Журнал отправленных push-уведомлений
// @Tags notifications
// @Produce json
// @Param userId query string true "ID пользователя"
// @Param limit query int false "Сколько записей (по умолчанию 50, максимум 200)"
// @Success 200 {array} models.PushTicket
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /notifications/tickets [get]
func (h *NotificationHandler) ListTickets(c *gin.Context) {
	var query dto.TicketListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	tickets, err := h.notificationService.ListTickets(c.Request.Context(), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}
