package dto

import "coursemate_backend/internal/models"

// ======================
// Request DTOs
// ======================

type CreateScheduleRequest struct {
	UserID       string           `json:"userId" validate:"required,doc-id"`
	CourseID     string           `json:"courseId" validate:"required,doc-id"`
	Task         string           `json:"task" validate:"required,not-blank"`
	Date         string           `json:"date" validate:"required,schedule-date"`
	StartTime    models.TimeOfDay `json:"start_time"`
	StopTime     models.TimeOfDay `json:"stop_time"`
	ScheduleType string           `json:"scheduleType"`
}

func (r *CreateScheduleRequest) ToModel() *models.Schedule {
	return &models.Schedule{
		CourseID:     r.CourseID,
		Task:         r.Task,
		Date:         r.Date,
		StartTime:    r.StartTime,
		StopTime:     r.StopTime,
		ScheduleType: r.ScheduleType,
	}
}

type UpdateScheduleRequest struct {
	ID string `json:"id" validate:"required,doc-id"`
	CreateScheduleRequest
}

func (r *UpdateScheduleRequest) ToModel() *models.Schedule {
	s := r.CreateScheduleRequest.ToModel()
	s.ID = r.ID
	return s
}

// ScheduleRef адресует одно расписание (удаление, отметка о выполнении)
type ScheduleRef struct {
	ScheduleID string `json:"scheduleId" validate:"required,doc-id"`
	UserID     string `json:"userId" validate:"required,doc-id"`
	CourseID   string `json:"courseId" validate:"required,doc-id"`
}

type ScheduleListQuery struct {
	UserID string `form:"userId" validate:"required,doc-id"`
}
