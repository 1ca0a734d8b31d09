package models

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

type TimeOfDay struct {
	Hours   int `firestore:"hours" json:"hours" validate:"min=0,max=23"`
	Minutes int `firestore:"minutes" json:"minutes" validate:"min=0,max=59"`
}

// Schedule - users/{userId}/courses/{courseId}/schedules/{id}
type Schedule struct {
	ID           string    `firestore:"-" json:"id"`
	CourseID     string    `firestore:"-" json:"courseId"`
	Task         string    `firestore:"task" json:"task"`
	Date         string    `firestore:"date" json:"date"`
	StartTime    TimeOfDay `firestore:"start_time" json:"start_time"`
	StopTime     TimeOfDay `firestore:"stop_time" json:"stop_time"`
	ScheduleType string    `firestore:"scheduleType" json:"scheduleType"`
	Completed    bool      `firestore:"completed" json:"completed"`
	Sent         bool      `firestore:"sent" json:"sent"`
}

// Pending - задача еще не выполнена и уведомление по ней не отправлено
func (s *Schedule) Pending() bool {
	return !s.Completed && !s.Sent
}

// Rescheduled - у next другая дата или время начала
func (s *Schedule) Rescheduled(next *Schedule) bool {
	return s.Date != next.Date || s.StartTime != next.StartTime
}

// DueAt - календарная дата из Date в часовом поясе loc, время из StartTime
func (s *Schedule) DueAt(loc *time.Location) (time.Time, error) {
	day, err := ParseScheduleDate(s.Date, loc)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), s.StartTime.Hours, s.StartTime.Minutes, 0, 0, loc), nil
}

// IsDue: задача в ожидании и ее начало не позже now+lookahead
func (s *Schedule) IsDue(now time.Time, lookahead time.Duration, loc *time.Location) (bool, time.Time, error) {
	if !s.Pending() {
		return false, time.Time{}, nil
	}
	due, err := s.DueAt(loc)
	if err != nil {
		return false, time.Time{}, err
	}
	return !due.After(now.Add(lookahead)), due, nil
}

// ParseScheduleDate принимает "2006-01-02" или RFC3339. Для RFC3339 берется
// календарный день в поясе loc.
func ParseScheduleDate(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(dateLayout, value, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, fmt.Errorf("invalid schedule date %q", value)
}

func ValidScheduleDate(value string) bool {
	_, err := ParseScheduleDate(value, time.UTC)
	return err == nil
}
