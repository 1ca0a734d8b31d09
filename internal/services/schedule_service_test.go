package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"coursemate_backend/internal/models"
	"coursemate_backend/internal/repositories"
	"coursemate_backend/internal/services/dto"
	"coursemate_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scanNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type scheduleFixture struct {
	store   *repositories.MemoryStore
	sender  *fakeSender
	tickets *fakeTicketRepo
	svc     ScheduleService
}

func newScheduleFixture(t *testing.T) *scheduleFixture {
	t.Helper()
	f := &scheduleFixture{
		store:   repositories.NewMemoryStore(),
		sender:  &fakeSender{},
		tickets: &fakeTicketRepo{},
	}
	f.svc = NewScheduleService(f.store, f.store, NewNotificationService(f.sender, f.tickets), ScheduleOptions{
		Now: func() time.Time { return scanNow },
	})
	f.store.PutUser(models.User{ID: "u1", Name: "Ann", PushToken: &models.PushToken{Type: "expo", Data: tokenU1}})
	f.store.PutCourse("u1", "c1")
	return f
}

func at(d time.Duration) models.Schedule {
	due := scanNow.Add(d)
	return models.Schedule{
		Task:      "Task at " + due.Format("15:04"),
		Date:      due.Format("2006-01-02"),
		StartTime: models.TimeOfDay{Hours: due.Hour(), Minutes: due.Minute()},
		StopTime:  models.TimeOfDay{Hours: due.Hour() + 1},
	}
}

func byID(list []*models.Schedule) map[string]*models.Schedule {
	out := make(map[string]*models.Schedule, len(list))
	for _, s := range list {
		out[s.ID] = s
	}
	return out
}

func TestScheduleService_ScanDispatchesDueOnce(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()
	overdue := f.store.PutSchedule("u1", "c1", at(-10*time.Minute))
	edge := f.store.PutSchedule("u1", "c1", at(time.Hour))
	later := f.store.PutSchedule("u1", "c1", at(2*time.Hour))

	list, err := f.svc.ScanUserSchedules(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)

	got := byID(list)
	assert.True(t, got[overdue].Sent)
	assert.True(t, got[edge].Sent)
	assert.False(t, got[later].Sent)
	assert.Equal(t, "c1", got[later].CourseID)

	sent := f.sender.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, tokenU1, sent[0].To)
	assert.Equal(t, "Task at 11:50", sent[0].Title)
	assert.Equal(t, "You have a task to do by 11:50 AM", sent[0].Body)

	// повторное сканирование ничего не отправляет
	list, err = f.svc.ScanUserSchedules(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, f.sender.Sent(), 2)
	assert.True(t, byID(list)[overdue].Sent)

	user, err := f.store.FindUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, user.Tasks)

	require.Len(t, f.tickets.tickets, 2)
	assert.Equal(t, models.PushKindScheduleDue, f.tickets.tickets[0].Kind)
}

func TestScheduleService_SkipsCompletedAndSent(t *testing.T) {
	f := newScheduleFixture(t)
	done := at(-time.Hour)
	done.Completed = true
	f.store.PutSchedule("u1", "c1", done)
	already := at(-time.Hour)
	already.Sent = true
	f.store.PutSchedule("u1", "c1", already)

	_, err := f.svc.ScanUserSchedules(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, f.sender.Sent())
}

func TestScheduleService_DispatchFailureRetriesNextScan(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()
	id := f.store.PutSchedule("u1", "c1", at(-10*time.Minute))

	f.sender.Fail(errProviderDown)
	list, err := f.svc.ScanUserSchedules(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, byID(list)[id].Sent)

	f.sender.Fail(nil)
	list, err = f.svc.ScanUserSchedules(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, byID(list)[id].Sent)
	assert.Len(t, f.sender.Sent(), 1)
}

func TestScheduleService_UserWithoutTokenIsNotFatal(t *testing.T) {
	f := newScheduleFixture(t)
	f.store.PutUser(models.User{ID: "u2"})
	f.store.PutCourse("u2", "c1")
	id := f.store.PutSchedule("u2", "c1", at(-time.Minute))

	list, err := f.svc.ScanUserSchedules(context.Background(), "u2")
	require.NoError(t, err)
	assert.False(t, byID(list)[id].Sent)
	assert.Empty(t, f.tickets.tickets)
}

func TestScheduleService_InvalidDateIsSkipped(t *testing.T) {
	f := newScheduleFixture(t)
	bad := at(-time.Minute)
	bad.Date = "not a date"
	f.store.PutSchedule("u1", "c1", bad)
	f.store.PutSchedule("u1", "c1", at(-time.Minute))

	list, err := f.svc.ScanUserSchedules(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Len(t, f.sender.Sent(), 1)
}

func TestScheduleService_ScanErrors(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()

	_, err := f.svc.ScanUserSchedules(ctx, "ghost")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 404, appErr.HTTPCode)

	f.store.FailOn("FindSchedulesByCourse", errors.New("unavailable"))
	_, err = f.svc.ScanUserSchedules(ctx, "u1")
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 500, appErr.HTTPCode)
}

func TestScheduleService_Timezone(t *testing.T) {
	store := repositories.NewMemoryStore()
	sender := &fakeSender{}
	almaty := time.FixedZone("ALMT", 5*60*60)
	svc := NewScheduleService(store, store, NewNotificationService(sender, nil), ScheduleOptions{
		Location: almaty,
		Now:      func() time.Time { return scanNow }, // 17:00 по Алматы
	})
	store.PutUser(models.User{ID: "u1", PushToken: &models.PushToken{Data: tokenU1}})
	store.PutCourse("u1", "c1")
	soon := store.PutSchedule("u1", "c1", models.Schedule{Task: "Lab", Date: "2024-05-01", StartTime: models.TimeOfDay{Hours: 17, Minutes: 30}})
	// 12:30 UTC было бы просрочено, но по Алматы это завтра
	tomorrow := store.PutSchedule("u1", "c1", models.Schedule{Task: "Exam", Date: "2024-05-02", StartTime: models.TimeOfDay{Hours: 9}})

	list, err := svc.ScanUserSchedules(context.Background(), "u1")
	require.NoError(t, err)
	got := byID(list)
	assert.True(t, got[soon].Sent)
	assert.False(t, got[tomorrow].Sent)
	require.Len(t, sender.Sent(), 1)
	assert.Equal(t, "You have a task to do by 5:30 PM", sender.Sent()[0].Body)
}

func TestScheduleService_ScanAll(t *testing.T) {
	f := newScheduleFixture(t)
	f.store.PutSchedule("u1", "c1", at(-time.Minute))
	f.store.PutSchedule("u1", "c1", at(3*time.Hour))
	f.store.PutUser(models.User{ID: "no-token"})

	summary, err := f.svc.ScanAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &ScanSummary{Users: 1, Schedules: 2, Dispatched: 1}, summary)
}

func TestScheduleService_CRUD(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()

	req := &dto.CreateScheduleRequest{
		UserID: "u1", CourseID: "c1", Task: "Read chapter 3", Date: "2024-05-03",
		StartTime: models.TimeOfDay{Hours: 9}, StopTime: models.TimeOfDay{Hours: 10}, ScheduleType: "study",
	}
	id, err := f.svc.AddSchedule(ctx, req)
	require.NoError(t, err)

	missing := *req
	missing.CourseID = "nope"
	_, err = f.svc.AddSchedule(ctx, &missing)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	ref := &dto.ScheduleRef{ScheduleID: id, UserID: "u1", CourseID: "c1"}
	require.NoError(t, f.svc.MarkDone(ctx, ref))
	require.NoError(t, f.svc.MarkDone(ctx, ref))
	user, err := f.store.FindUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, user.CompletedTasks)

	update := &dto.UpdateScheduleRequest{ID: id, CreateScheduleRequest: *req}
	update.Task = "Read chapter 4"
	require.NoError(t, f.svc.UpdateSchedule(ctx, update))

	list, err := f.store.FindSchedulesByCourse(ctx, "u1", "c1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Read chapter 4", list[0].Task)
	assert.True(t, list[0].Completed, "update не сбрасывает completed")

	update.ID = "missing"
	assert.ErrorIs(t, f.svc.UpdateSchedule(ctx, update), apperrors.ErrScheduleNotFound)
	assert.ErrorIs(t, f.svc.MarkDone(ctx, &dto.ScheduleRef{ScheduleID: "missing", UserID: "u1", CourseID: "c1"}), apperrors.ErrScheduleNotFound)

	require.NoError(t, f.svc.DeleteSchedule(ctx, ref))
	list, err = f.store.FindSchedulesByCourse(ctx, "u1", "c1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestScheduleService_ConcurrentScansSendOnce(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()
	id := f.store.PutSchedule("u1", "c1", at(-5*time.Minute))

	const scans = 8
	var wg sync.WaitGroup
	for i := 0; i < scans; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			list, err := f.svc.ScanUserSchedules(ctx, "u1")
			assert.NoError(t, err)
			assert.True(t, byID(list)[id].Sent)
		}()
	}
	wg.Wait()

	assert.Len(t, f.sender.Sent(), 1, "одна задача - один push")
}

func TestScheduleService_ClaimFailureSkipsSend(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()
	id := f.store.PutSchedule("u1", "c1", at(-5*time.Minute))

	f.store.FailOn("ClaimScheduleSend", errors.New("contention"))
	list, err := f.svc.ScanUserSchedules(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, byID(list)[id].Sent)
	assert.Empty(t, f.sender.Sent())

	f.store.FailOn("ClaimScheduleSend", nil)
	_, err = f.svc.ScanUserSchedules(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, f.sender.Sent(), 1)
}

func TestScheduleService_FailedReleaseKeepsClaim(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()
	id := f.store.PutSchedule("u1", "c1", at(-5*time.Minute))

	f.sender.Fail(errProviderDown)
	f.store.FailOn("ReleaseScheduleSend", errors.New("unavailable"))
	list, err := f.svc.ScanUserSchedules(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, byID(list)[id].Sent, "ответ совпадает с тем, что осталось в хранилище")
}

func TestScheduleService_RescheduleResetsSent(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()

	first := at(-10 * time.Minute)
	req := &dto.CreateScheduleRequest{
		UserID: "u1", CourseID: "c1", Task: first.Task, Date: first.Date,
		StartTime: first.StartTime, StopTime: first.StopTime,
	}
	id, err := f.svc.AddSchedule(ctx, req)
	require.NoError(t, err)

	_, err = f.svc.ScanUserSchedules(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, f.sender.Sent(), 1)

	// смена названия не сбрасывает sent
	update := &dto.UpdateScheduleRequest{ID: id, CreateScheduleRequest: *req}
	update.Task = "Renamed"
	require.NoError(t, f.svc.UpdateSchedule(ctx, update))
	list, err := f.svc.ScanUserSchedules(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, byID(list)[id].Sent)
	assert.Len(t, f.sender.Sent(), 1)

	// перенос на другое время - новое напоминание
	moved := at(30 * time.Minute)
	update.Date = moved.Date
	update.StartTime = moved.StartTime
	require.NoError(t, f.svc.UpdateSchedule(ctx, update))
	list, err = f.svc.ScanUserSchedules(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, byID(list)[id].Sent)

	sent := f.sender.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "You have a task to do by 12:30 PM", sent[1].Body)
}
