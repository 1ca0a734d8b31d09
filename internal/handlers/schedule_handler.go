package handlers

import (
	"net/http"

	"coursemate_backend/internal/logger"
	"coursemate_backend/internal/services"
	"coursemate_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	*BaseHandler
	scheduleService services.ScheduleService
}

func NewScheduleHandler(base *BaseHandler, scheduleService services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		BaseHandler:     base,
		scheduleService: scheduleService,
	}
}

// RegisterRoutes: GET /schedules запускает рассылку, поэтому под лимитом
func (h *ScheduleHandler) RegisterRoutes(r *gin.RouterGroup, notifyLimit gin.HandlerFunc) {
	schedules := r.Group("/schedules")
	{
		schedules.POST("", h.AddSchedule)
		schedules.PUT("", h.UpdateSchedule)
		schedules.GET("", notifyLimit, h.GetSchedules)
		schedules.DELETE("", h.DeleteSchedule)
		schedules.POST("/done", h.MarkDone)
	}
}

// AddSchedule godoc
// @Summary Добавить задачу в расписание курса
// @Tags schedules
// @Accept json
// @Produce json
// @Param schedule body dto.CreateScheduleRequest true "Задача"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /schedules [post]
func (h *ScheduleHandler) AddSchedule(c *gin.Context) {
	var req dto.CreateScheduleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if _, err := h.scheduleService.AddSchedule(c.Request.Context(), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Successfully added schedule"})
}

// UpdateSchedule godoc
// @Summary Изменить задачу
// @Description completed не меняется; при переносе даты или времени начала sent сбрасывается и напоминание придет заново
// @Tags schedules
// @Accept json
// @Produce json
// @Param schedule body dto.UpdateScheduleRequest true "Задача"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /schedules [put]
func (h *ScheduleHandler) UpdateSchedule(c *gin.Context) {
	var req dto.UpdateScheduleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.scheduleService.UpdateSchedule(c.Request.Context(), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Successfully updated schedule"})
}

// GetSchedules godoc
// @Summary Все задачи пользователя
// @Description Попутно отправляет push по задачам, которые начинаются в ближайший час
// @Tags schedules
// @Produce json
// @Param userId query string true "ID пользователя"
// @Success 200 {array} models.Schedule
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} apperrors.ErrorResponse
// @Router /schedules [get]
func (h *ScheduleHandler) GetSchedules(c *gin.Context) {
	var query dto.ScheduleListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	ctx := logger.WithUserID(c.Request.Context(), query.UserID)
	list, err := h.scheduleService.ScanUserSchedules(ctx, query.UserID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// DeleteSchedule godoc
// @Summary Удалить задачу
// @Tags schedules
// @Accept json
// @Produce json
// @Param request body dto.ScheduleRef true "Задача"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /schedules [delete]
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	var req dto.ScheduleRef
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.scheduleService.DeleteSchedule(c.Request.Context(), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Successfully deleted schedule"})
}

// MarkDone godoc
// @Summary Отметить задачу выполненной
// @Description Повторная отметка ничего не меняет
// @Tags schedules
// @Accept json
// @Produce json
// @Param request body dto.ScheduleRef true "Задача"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /schedules/done [post]
func (h *ScheduleHandler) MarkDone(c *gin.Context) {
	var req dto.ScheduleRef
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.scheduleService.MarkDone(c.Request.Context(), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Schedule marked as done"})
}
