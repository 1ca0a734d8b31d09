package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coursemate_backend/internal/logger"
	"coursemate_backend/internal/models"
	"coursemate_backend/internal/repositories"
	"coursemate_backend/internal/services/dto"
	"coursemate_backend/pkg/apperrors"
)

const DefaultLookahead = time.Hour

type ScheduleService interface {
	AddSchedule(ctx context.Context, req *dto.CreateScheduleRequest) (string, error)
	UpdateSchedule(ctx context.Context, req *dto.UpdateScheduleRequest) error
	DeleteSchedule(ctx context.Context, ref *dto.ScheduleRef) error
	MarkDone(ctx context.Context, ref *dto.ScheduleRef) error
	// ScanUserSchedules возвращает все расписания пользователя и отправляет
	// push по тем, что начинаются не позже now+lookahead
	ScanUserSchedules(ctx context.Context, userID string) ([]*models.Schedule, error)
	// ScanAll прогоняет сканирование по всем пользователям с push-токеном
	ScanAll(ctx context.Context) (*ScanSummary, error)
}

// ScanSummary - итог фонового сканирования
type ScanSummary struct {
	Users      int
	Failed     int
	Schedules  int
	Dispatched int
}

// ScheduleOptions - параметры сканирования
type ScheduleOptions struct {
	Lookahead time.Duration
	Location  *time.Location
	Now       func() time.Time
}

type scheduleService struct {
	scheduleRepo  repositories.ScheduleRepository
	userRepo      repositories.UserRepository
	notifications NotificationService
	lookahead     time.Duration
	loc           *time.Location
	now           func() time.Time
}

func NewScheduleService(
	scheduleRepo repositories.ScheduleRepository,
	userRepo repositories.UserRepository,
	notifications NotificationService,
	opts ScheduleOptions,
) ScheduleService {
	if opts.Lookahead <= 0 {
		opts.Lookahead = DefaultLookahead
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &scheduleService{
		scheduleRepo:  scheduleRepo,
		userRepo:      userRepo,
		notifications: notifications,
		lookahead:     opts.Lookahead,
		loc:           opts.Location,
		now:           opts.Now,
	}
}

// ---------------- CRUD ----------------

func (s *scheduleService) AddSchedule(ctx context.Context, req *dto.CreateScheduleRequest) (string, error) {
	exists, err := s.scheduleRepo.CourseExists(ctx, req.UserID, req.CourseID)
	if err != nil {
		return "", apperrors.ErrDatabase(err, apperrors.DomainSchedules)
	}
	if !exists {
		return "", apperrors.ErrCourseNotFound
	}

	id, err := s.scheduleRepo.CreateSchedule(ctx, req.UserID, req.CourseID, req.ToModel())
	if err != nil {
		return "", apperrors.ErrDatabase(err, apperrors.DomainSchedules)
	}
	logger.CtxInfo(ctx, "Schedule created", "schedule_id", id, "user_id", req.UserID, "course_id", req.CourseID)
	return id, nil
}

func (s *scheduleService) UpdateSchedule(ctx context.Context, req *dto.UpdateScheduleRequest) error {
	err := s.scheduleRepo.UpdateSchedule(ctx, req.UserID, req.CourseID, req.ToModel())
	return storeError(err, apperrors.DomainSchedules, apperrors.ErrScheduleNotFound)
}

func (s *scheduleService) DeleteSchedule(ctx context.Context, ref *dto.ScheduleRef) error {
	err := s.scheduleRepo.DeleteSchedule(ctx, ref.UserID, ref.CourseID, ref.ScheduleID)
	return storeError(err, apperrors.DomainSchedules, nil)
}

func (s *scheduleService) MarkDone(ctx context.Context, ref *dto.ScheduleRef) error {
	changed, err := s.scheduleRepo.MarkScheduleDone(ctx, ref.UserID, ref.CourseID, ref.ScheduleID)
	if err != nil {
		return storeError(err, apperrors.DomainSchedules, apperrors.ErrScheduleNotFound)
	}
	if !changed {
		logger.CtxDebug(ctx, "Schedule already completed", "schedule_id", ref.ScheduleID)
	}
	return nil
}

// ---------------- Due scan ----------------

func (s *scheduleService) ScanUserSchedules(ctx context.Context, userID string) ([]*models.Schedule, error) {
	list, _, err := s.scanUser(ctx, userID)
	return list, err
}

func (s *scheduleService) scanUser(ctx context.Context, userID string) ([]*models.Schedule, int, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, 0, apperrors.ErrUserNotFound.WithError(err)
		}
		return nil, 0, apperrors.ErrScanFailed(err)
	}

	courseIDs, err := s.scheduleRepo.FindCourseIDs(ctx, userID)
	if err != nil {
		return nil, 0, apperrors.ErrScanFailed(err)
	}

	now := s.now()
	all := make([]*models.Schedule, 0)
	dispatched := 0
	for _, courseID := range courseIDs {
		schedules, err := s.scheduleRepo.FindSchedulesByCourse(ctx, userID, courseID)
		if err != nil {
			return nil, 0, apperrors.ErrScanFailed(err)
		}
		for _, sc := range schedules {
			sc.CourseID = courseID
			all = append(all, sc)
			if s.notifyIfDue(ctx, user, sc, now) {
				dispatched++
			}
		}
	}

	if err := s.userRepo.SetTaskCount(ctx, userID, len(all)); err != nil {
		return nil, 0, apperrors.ErrScanFailed(err)
	}
	return all, dispatched, nil
}

// notifyIfDue отправляет push по одному расписанию. Перед отправкой задача
// захватывается (sent=true), поэтому параллельные сканирования не шлют дубль.
// Если отправка не удалась, захват снимается и следующее сканирование повторит.
func (s *scheduleService) notifyIfDue(ctx context.Context, user *models.User, sc *models.Schedule, now time.Time) bool {
	due, dueAt, err := sc.IsDue(now, s.lookahead, s.loc)
	if err != nil {
		logger.CtxWarn(ctx, "Skipping schedule with invalid date", "schedule_id", sc.ID, "date", sc.Date, "error", err.Error())
		return false
	}
	if !due {
		return false
	}

	claimed, err := s.scheduleRepo.ClaimScheduleSend(ctx, user.ID, sc.CourseID, sc.ID)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to claim schedule for notification", err, "schedule_id", sc.ID, "user_id", user.ID)
		return false
	}
	sc.Sent = true
	if !claimed {
		logger.CtxDebug(ctx, "Schedule already claimed by another scan", "schedule_id", sc.ID)
		return false
	}

	_, err = s.notifications.Dispatch(ctx, &PushRequest{
		UserID: user.ID,
		Token:  user.Token(),
		Kind:   models.PushKindScheduleDue,
		Title:  sc.Task,
		Body:   fmt.Sprintf("You have a task to do by %s", dueAt.In(s.loc).Format("3:04 PM")),
		Data:   map[string]string{"scheduleId": sc.ID, "courseId": sc.CourseID},
	})
	if err != nil {
		logger.CtxWithError(ctx, "Failed to send schedule notification", err, "schedule_id", sc.ID, "user_id", user.ID)
		if err := s.scheduleRepo.ReleaseScheduleSend(ctx, user.ID, sc.CourseID, sc.ID); err != nil {
			logger.CtxWithError(ctx, "Failed to release schedule claim", err, "schedule_id", sc.ID, "user_id", user.ID)
			return false
		}
		sc.Sent = false
		return false
	}
	return true
}

func (s *scheduleService) ScanAll(ctx context.Context) (*ScanSummary, error) {
	users, err := s.userRepo.FindUsersWithPushToken(ctx)
	if err != nil {
		return nil, apperrors.ErrScanFailed(err)
	}

	summary := &ScanSummary{}
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Users++

		list, dispatched, err := s.scanUser(ctx, user.ID)
		if err != nil {
			summary.Failed++
			logger.CtxWithError(ctx, "Due scan failed for user", err, "user_id", user.ID)
			continue
		}
		summary.Schedules += len(list)
		summary.Dispatched += dispatched
	}
	return summary, nil
}
