package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywords(t *testing.T) {
	assert.Equal(t, []string{"intro", "to", "go"}, Keywords("Intro  to Go"))
	assert.Equal(t, []string{"algorithms", "dr.", "smith"}, Keywords("Algorithms", "Dr. Smith"))
	assert.Equal(t, []string{"go"}, Keywords("Go go GO"))
	assert.Empty(t, Keywords("   "))
}

func TestItemNormalize(t *testing.T) {
	item := &Item{Title: "Used Calculus Textbook", Category: " Books "}
	item.Normalize()

	assert.Equal(t, "books", item.Category)
	assert.Equal(t, []string{"used", "calculus", "textbook"}, item.Keywords)
	assert.NotNil(t, item.Images)
}

func TestToggleLike_IsItsOwnInverse(t *testing.T) {
	orig := []string{"u2", "u3"}

	once, liked := ToggleLike(orig, "u1")
	assert.True(t, liked)
	assert.Equal(t, []string{"u2", "u3", "u1"}, once)

	twice, liked := ToggleLike(once, "u1")
	assert.False(t, liked)
	assert.Equal(t, orig, twice)
	assert.Equal(t, []string{"u2", "u3"}, orig, "исходный срез не меняется")
}

func TestValidDocID(t *testing.T) {
	assert.True(t, ValidDocID("abc123"))
	assert.False(t, ValidDocID(""))
	assert.False(t, ValidDocID("users/u1"))
	assert.False(t, ValidDocID(".."))
	assert.False(t, ValidDocID("__name__"))
}

func TestScheduleIsDue(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, loc)

	cases := []struct {
		name     string
		schedule Schedule
		wantDue  bool
	}{
		{"10 минут назад", Schedule{Date: "2024-05-01", StartTime: TimeOfDay{11, 50}}, true},
		{"ровно через час", Schedule{Date: "2024-05-01", StartTime: TimeOfDay{13, 0}}, true},
		{"через два часа", Schedule{Date: "2024-05-01", StartTime: TimeOfDay{14, 0}}, false},
		{"уже отправлено", Schedule{Date: "2024-05-01", StartTime: TimeOfDay{11, 0}, Sent: true}, false},
		{"выполнено", Schedule{Date: "2024-05-01", StartTime: TimeOfDay{11, 0}, Completed: true}, false},
		{"RFC3339 дата", Schedule{Date: "2024-04-30T22:00:00Z", StartTime: TimeOfDay{9, 0}}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			due, _, err := tc.schedule.IsDue(now, time.Hour, loc)
			require.NoError(t, err)
			assert.Equal(t, tc.wantDue, due)
		})
	}
}

func TestScheduleDueAt_UsesLocation(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	s := Schedule{Date: "2024-05-01", StartTime: TimeOfDay{Hours: 9, Minutes: 15}}
	due, err := s.DueAt(berlin)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 5, 1, 7, 15, 0, 0, time.UTC), due.UTC())
}

func TestScheduleDueAt_InvalidDate(t *testing.T) {
	s := Schedule{Date: "tomorrow"}
	_, _, err := s.IsDue(time.Now(), time.Hour, time.UTC)
	assert.Error(t, err)
}

func TestSortWishlist(t *testing.T) {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	entries := []*WishlistEntry{
		{Item: Item{ID: "late"}, AddedAt: base.Add(time.Hour)},
		{Item: Item{ID: "legacy-b"}},
		{Item: Item{ID: "early"}, AddedAt: base},
		{Item: Item{ID: "legacy-a"}},
	}
	SortWishlist(entries)

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	// записи без addedAt не теряются и сохраняют исходный порядок
	assert.Equal(t, []string{"legacy-b", "legacy-a", "early", "late"}, ids)
}
