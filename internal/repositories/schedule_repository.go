package repositories

import (
	"context"

	"coursemate_backend/internal/models"

	"cloud.google.com/go/firestore"
)

type ScheduleRepositoryImpl struct {
	client *firestore.Client
}

func NewScheduleRepository(client *firestore.Client) *ScheduleRepositoryImpl {
	return &ScheduleRepositoryImpl{client: client}
}

func (r *ScheduleRepositoryImpl) course(userID, courseID string) *firestore.DocumentRef {
	return r.client.Collection(collectionUsers).Doc(userID).Collection(collectionCourses).Doc(courseID)
}

func (r *ScheduleRepositoryImpl) schedule(userID, courseID, scheduleID string) *firestore.DocumentRef {
	return r.course(userID, courseID).Collection(collectionSchedules).Doc(scheduleID)
}

func (r *ScheduleRepositoryImpl) CourseExists(ctx context.Context, userID, courseID string) (bool, error) {
	doc, err := r.course(userID, courseID).Get(ctx)
	if err != nil {
		err = mapStoreError(err)
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return doc.Exists(), nil
}

// FindCourseIDs перечисляет документы курсов. DocumentRefs видит и "пустые"
// курсы, у которых есть только подколлекция schedules.
func (r *ScheduleRepositoryImpl) FindCourseIDs(ctx context.Context, userID string) ([]string, error) {
	refs, err := r.client.Collection(collectionUsers).Doc(userID).Collection(collectionCourses).DocumentRefs(ctx).GetAll()
	if err != nil {
		return nil, mapStoreError(err)
	}
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}
	return ids, nil
}

func (r *ScheduleRepositoryImpl) FindSchedulesByCourse(ctx context.Context, userID, courseID string) ([]*models.Schedule, error) {
	q := r.course(userID, courseID).Collection(collectionSchedules).Query
	return queryDocs(ctx, q, func(s *models.Schedule, doc *firestore.DocumentSnapshot) {
		s.ID = doc.Ref.ID
		s.CourseID = courseID
	})
}

func (r *ScheduleRepositoryImpl) CreateSchedule(ctx context.Context, userID, courseID string, schedule *models.Schedule) (string, error) {
	schedule.Completed = false
	schedule.Sent = false
	ref, _, err := r.course(userID, courseID).Collection(collectionSchedules).Add(ctx, schedule)
	if err != nil {
		return "", mapStoreError(err)
	}
	schedule.ID = ref.ID
	schedule.CourseID = courseID
	return ref.ID, nil
}

// UpdateSchedule сбрасывает sent, если сдвинулись дата или время начала:
// по перенесенной задаче напоминание должно прийти заново
func (r *ScheduleRepositoryImpl) UpdateSchedule(ctx context.Context, userID, courseID string, schedule *models.Schedule) error {
	ref := r.schedule(userID, courseID, schedule.ID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var current models.Schedule
		if err := snap.DataTo(&current); err != nil {
			return err
		}

		updates := []firestore.Update{
			{Path: "task", Value: schedule.Task},
			{Path: "date", Value: schedule.Date},
			{Path: "start_time", Value: schedule.StartTime},
			{Path: "stop_time", Value: schedule.StopTime},
			{Path: "scheduleType", Value: schedule.ScheduleType},
		}
		if current.Rescheduled(schedule) {
			updates = append(updates, firestore.Update{Path: "sent", Value: false})
		}
		return tx.Update(ref, updates)
	})
	return mapStoreError(err)
}

func (r *ScheduleRepositoryImpl) DeleteSchedule(ctx context.Context, userID, courseID, scheduleID string) error {
	_, err := r.schedule(userID, courseID, scheduleID).Delete(ctx)
	return mapStoreError(err)
}

// ClaimScheduleSend в транзакции ставит sent=true, если задача еще в ожидании.
// false значит, что задачу уже забрало другое сканирование или она выполнена.
func (r *ScheduleRepositoryImpl) ClaimScheduleSend(ctx context.Context, userID, courseID, scheduleID string) (bool, error) {
	ref := r.schedule(userID, courseID, scheduleID)

	var claimed bool
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		claimed = false
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var s models.Schedule
		if err := snap.DataTo(&s); err != nil {
			return err
		}
		if !s.Pending() {
			return nil
		}
		claimed = true
		return tx.Update(ref, []firestore.Update{{Path: "sent", Value: true}})
	})
	if err != nil {
		return false, mapStoreError(err)
	}
	return claimed, nil
}

// ReleaseScheduleSend возвращает sent=false после неудачной отправки
func (r *ScheduleRepositoryImpl) ReleaseScheduleSend(ctx context.Context, userID, courseID, scheduleID string) error {
	_, err := r.schedule(userID, courseID, scheduleID).Update(ctx, []firestore.Update{
		{Path: "sent", Value: false},
	})
	return mapStoreError(err)
}

func (r *ScheduleRepositoryImpl) MarkScheduleDone(ctx context.Context, userID, courseID, scheduleID string) (bool, error) {
	scheduleRef := r.schedule(userID, courseID, scheduleID)
	userRef := r.client.Collection(collectionUsers).Doc(userID)

	var changed bool
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(scheduleRef)
		if err != nil {
			return err
		}
		var s models.Schedule
		if err := snap.DataTo(&s); err != nil {
			return err
		}
		if s.Completed {
			changed = false
			return nil
		}

		changed = true
		if err := tx.Update(scheduleRef, []firestore.Update{{Path: "completed", Value: true}}); err != nil {
			return err
		}
		return tx.Update(userRef, []firestore.Update{{Path: "completed_tasks", Value: firestore.Increment(1)}})
	})
	if err != nil {
		return false, mapStoreError(err)
	}
	return changed, nil
}
