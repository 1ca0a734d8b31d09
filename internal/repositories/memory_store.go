package repositories

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"coursemate_backend/internal/models"

	"github.com/google/uuid"
)

// MemoryStore - DocumentStore в памяти процесса. Используется при
// firebase.backend=memory и в тестах. Документы отдаются копиями,
// запросы возвращают их в порядке вставки.
type MemoryStore struct {
	mu sync.Mutex

	items     *memCollection[models.Item]
	users     *memCollection[models.User]
	reviews   *memCollection[models.Review]
	feedbacks *memCollection[models.Feedback]
	wishlists map[string]*memCollection[models.WishlistEntry]
	comments  map[string]*memCollection[models.Comment]
	courses   map[string]*memCollection[memCourse]
	schedules map[string]*memCollection[models.Schedule] // ключ: userID/courseID

	failures map[string]error
	now      func() time.Time
}

type memCourse struct{}

type memCollection[T any] struct {
	order []string
	docs  map[string]*T
}

func newMemCollection[T any]() *memCollection[T] {
	return &memCollection[T]{docs: make(map[string]*T)}
}

func (c *memCollection[T]) put(id string, v T) {
	if _, ok := c.docs[id]; !ok {
		c.order = append(c.order, id)
	}
	c.docs[id] = &v
}

func (c *memCollection[T]) get(id string) (*T, bool) {
	v, ok := c.docs[id]
	return v, ok
}

func (c *memCollection[T]) remove(id string) {
	if _, ok := c.docs[id]; !ok {
		return
	}
	delete(c.docs, id)
	c.order = slices.DeleteFunc(c.order, func(s string) bool { return s == id })
}

func (c *memCollection[T]) each(fn func(id string, v *T)) {
	for _, id := range c.order {
		fn(id, c.docs[id])
	}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:     newMemCollection[models.Item](),
		users:     newMemCollection[models.User](),
		reviews:   newMemCollection[models.Review](),
		feedbacks: newMemCollection[models.Feedback](),
		wishlists: make(map[string]*memCollection[models.WishlistEntry]),
		comments:  make(map[string]*memCollection[models.Comment]),
		courses:   make(map[string]*memCollection[memCourse]),
		schedules: make(map[string]*memCollection[models.Schedule]),
		failures:  make(map[string]error),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

var _ DocumentStore = (*MemoryStore)(nil)

// FailOn заставляет операцию op (имя метода) возвращать err
func (s *MemoryStore) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

func (s *MemoryStore) fail(op string) error {
	return s.failures[op]
}

func newDocID() string {
	return uuid.NewString()
}

func scheduleKey(userID, courseID string) string {
	return userID + "/" + courseID
}

// --- Заполнение данными (пользователи и курсы ведет клиент) ---

func (s *MemoryStore) PutUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users.put(user.ID, user)
}

func (s *MemoryStore) PutCourse(userID, courseID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.courses[userID] == nil {
		s.courses[userID] = newMemCollection[memCourse]()
	}
	s.courses[userID].put(courseID, memCourse{})
}

// PutSchedule кладет расписание как есть, включая completed и sent
func (s *MemoryStore) PutSchedule(userID, courseID string, schedule models.Schedule) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if schedule.ID == "" {
		schedule.ID = newDocID()
	}
	schedule.CourseID = courseID
	s.scheduleCollection(userID, courseID).put(schedule.ID, schedule)
	return schedule.ID
}

func (s *MemoryStore) scheduleCollection(userID, courseID string) *memCollection[models.Schedule] {
	key := scheduleKey(userID, courseID)
	if s.schedules[key] == nil {
		s.schedules[key] = newMemCollection[models.Schedule]()
	}
	return s.schedules[key]
}

// --- Market ---

func cloneItem(item models.Item) *models.Item {
	item.Images = slices.Clone(item.Images)
	item.Keywords = slices.Clone(item.Keywords)
	return &item
}

func (s *MemoryStore) CreateItem(ctx context.Context, item *models.Item) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CreateItem"); err != nil {
		return "", err
	}
	item.ID = newDocID()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = s.now()
	}
	s.items.put(item.ID, *cloneItem(*item))
	return item.ID, nil
}

func (s *MemoryStore) FindAllItems(ctx context.Context) ([]*models.Item, error) {
	return s.filterItems("FindAllItems", func(*models.Item) bool { return true })
}

func (s *MemoryStore) FindItemByID(ctx context.Context, id string) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("FindItemByID"); err != nil {
		return nil, err
	}
	item, ok := s.items.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: market/%s", ErrNotFound, id)
	}
	return cloneItem(*item), nil
}

func (s *MemoryStore) FindItemsByKeyword(ctx context.Context, keyword string) ([]*models.Item, error) {
	return s.filterItems("FindItemsByKeyword", func(item *models.Item) bool {
		return slices.Contains(item.Keywords, keyword)
	})
}

func (s *MemoryStore) FindItemsByCategory(ctx context.Context, category string) ([]*models.Item, error) {
	return s.filterItems("FindItemsByCategory", func(item *models.Item) bool {
		return item.Category == category
	})
}

func (s *MemoryStore) filterItems(op string, match func(*models.Item) bool) ([]*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(op); err != nil {
		return nil, err
	}
	out := make([]*models.Item, 0)
	s.items.each(func(_ string, item *models.Item) {
		if match(item) {
			out = append(out, cloneItem(*item))
		}
	})
	return out, nil
}

// --- Wishlist ---

func (s *MemoryStore) AddWishlistEntry(ctx context.Context, userID string, entry *models.WishlistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("AddWishlistEntry"); err != nil {
		return err
	}
	list := s.wishlists[userID]
	if list == nil {
		list = newMemCollection[models.WishlistEntry]()
		s.wishlists[userID] = list
	}
	if _, exists := list.get(entry.ID); exists {
		return fmt.Errorf("%w: users/%s/wishlist/%s", ErrAlreadyExists, userID, entry.ID)
	}
	if entry.AddedAt.IsZero() {
		entry.AddedAt = s.now()
	}
	stored := *entry
	stored.Item = *cloneItem(entry.Item)
	list.put(entry.ID, stored)
	return nil
}

func (s *MemoryStore) FindWishlistByUser(ctx context.Context, userID string) ([]*models.WishlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("FindWishlistByUser"); err != nil {
		return nil, err
	}
	out := make([]*models.WishlistEntry, 0)
	if list := s.wishlists[userID]; list != nil {
		list.each(func(_ string, e *models.WishlistEntry) {
			cp := *e
			cp.Item = *cloneItem(e.Item)
			out = append(out, &cp)
		})
	}
	models.SortWishlist(out)
	return out, nil
}

// --- Users ---

func cloneUser(u models.User) *models.User {
	if u.PushToken != nil {
		tok := *u.PushToken
		u.PushToken = &tok
	}
	return &u
}

func (s *MemoryStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("FindUserByID"); err != nil {
		return nil, err
	}
	u, ok := s.users.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: users/%s", ErrNotFound, id)
	}
	return cloneUser(*u), nil
}

func (s *MemoryStore) FindUsersWithPushToken(ctx context.Context) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("FindUsersWithPushToken"); err != nil {
		return nil, err
	}
	out := make([]*models.User, 0)
	s.users.each(func(_ string, u *models.User) {
		if u.Token() != "" {
			out = append(out, cloneUser(*u))
		}
	})
	return out, nil
}

func (s *MemoryStore) SetTaskCount(ctx context.Context, userID string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("SetTaskCount"); err != nil {
		return err
	}
	u, ok := s.users.get(userID)
	if !ok {
		// set с merge создает документ
		s.users.put(userID, models.User{ID: userID, Tasks: count})
		return nil
	}
	u.Tasks = count
	return nil
}

// --- Reviews ---

func cloneReview(r models.Review) *models.Review {
	r.Likes = slices.Clone(r.Likes)
	r.Keywords = slices.Clone(r.Keywords)
	return &r
}

func (s *MemoryStore) CreateReview(ctx context.Context, review *models.Review) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CreateReview"); err != nil {
		return "", err
	}
	review.ID = newDocID()
	if review.CreatedAt.IsZero() {
		review.CreatedAt = s.now()
	}
	s.reviews.put(review.ID, *cloneReview(*review))
	return review.ID, nil
}

func (s *MemoryStore) FindReviewByID(ctx context.Context, id string) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("FindReviewByID"); err != nil {
		return nil, err
	}
	r, ok := s.reviews.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: reviews/%s", ErrNotFound, id)
	}
	return cloneReview(*r), nil
}

func (s *MemoryStore) FindLatestReviews(ctx context.Context, limit int) ([]*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("FindLatestReviews"); err != nil {
		return nil, err
	}
	out := make([]*models.Review, 0)
	s.reviews.each(func(_ string, r *models.Review) {
		out = append(out, cloneReview(*r))
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) FindReviewsByKeyword(ctx context.Context, keyword string) ([]*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("FindReviewsByKeyword"); err != nil {
		return nil, err
	}
	out := make([]*models.Review, 0)
	s.reviews.each(func(_ string, r *models.Review) {
		if slices.Contains(r.Keywords, keyword) {
			out = append(out, cloneReview(*r))
		}
	})
	return out, nil
}

func (s *MemoryStore) ToggleReviewLike(ctx context.Context, reviewID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ToggleReviewLike"); err != nil {
		return false, err
	}
	r, ok := s.reviews.get(reviewID)
	if !ok {
		return false, fmt.Errorf("%w: reviews/%s", ErrNotFound, reviewID)
	}
	var liked bool
	r.Likes, liked = models.ToggleLike(r.Likes, userID)
	return liked, nil
}

func (s *MemoryStore) IncrementReviewShares(ctx context.Context, reviewID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("IncrementReviewShares"); err != nil {
		return err
	}
	r, ok := s.reviews.get(reviewID)
	if !ok {
		return fmt.Errorf("%w: reviews/%s", ErrNotFound, reviewID)
	}
	r.Shares++
	return nil
}

// --- Comments ---

func (s *MemoryStore) CreateComment(ctx context.Context, comment *models.Comment) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CreateComment"); err != nil {
		return "", err
	}
	list := s.comments[comment.ReviewID]
	if list == nil {
		list = newMemCollection[models.Comment]()
		s.comments[comment.ReviewID] = list
	}
	comment.ID = newDocID()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = s.now()
	}
	if comment.Likes == nil {
		comment.Likes = []string{}
	}
	stored := *comment
	stored.Likes = slices.Clone(comment.Likes)
	list.put(comment.ID, stored)
	return comment.ID, nil
}

func (s *MemoryStore) FindCommentsByReview(ctx context.Context, reviewID string) ([]*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("FindCommentsByReview"); err != nil {
		return nil, err
	}
	out := make([]*models.Comment, 0)
	if list := s.comments[reviewID]; list != nil {
		list.each(func(_ string, c *models.Comment) {
			cp := *c
			cp.Likes = slices.Clone(c.Likes)
			out = append(out, &cp)
		})
	}
	return out, nil
}

func (s *MemoryStore) CountComments(ctx context.Context, reviewID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CountComments"); err != nil {
		return 0, err
	}
	if list := s.comments[reviewID]; list != nil {
		return len(list.order), nil
	}
	return 0, nil
}

func (s *MemoryStore) ToggleCommentLike(ctx context.Context, reviewID, commentID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ToggleCommentLike"); err != nil {
		return false, err
	}
	list := s.comments[reviewID]
	if list == nil {
		return false, fmt.Errorf("%w: reviews/%s/comments/%s", ErrNotFound, reviewID, commentID)
	}
	c, ok := list.get(commentID)
	if !ok {
		return false, fmt.Errorf("%w: reviews/%s/comments/%s", ErrNotFound, reviewID, commentID)
	}
	var liked bool
	c.Likes, liked = models.ToggleLike(c.Likes, userID)
	return liked, nil
}

// --- Feedback ---

func (s *MemoryStore) CreateFeedback(ctx context.Context, feedback *models.Feedback) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CreateFeedback"); err != nil {
		return "", err
	}
	feedback.ID = newDocID()
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = s.now()
	}
	s.feedbacks.put(feedback.ID, *feedback)
	return feedback.ID, nil
}

// Feedbacks отдает сохраненные отзывы о приложении (для проверок)
func (s *MemoryStore) Feedbacks() []models.Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Feedback, 0, len(s.feedbacks.order))
	s.feedbacks.each(func(_ string, f *models.Feedback) {
		out = append(out, *f)
	})
	return out
}

// --- Schedules ---

func (s *MemoryStore) CourseExists(ctx context.Context, userID, courseID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CourseExists"); err != nil {
		return false, err
	}
	courses := s.courses[userID]
	if courses == nil {
		return false, nil
	}
	_, ok := courses.get(courseID)
	return ok, nil
}

func (s *MemoryStore) FindCourseIDs(ctx context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("FindCourseIDs"); err != nil {
		return nil, err
	}
	if courses := s.courses[userID]; courses != nil {
		return slices.Clone(courses.order), nil
	}
	return []string{}, nil
}

func (s *MemoryStore) FindSchedulesByCourse(ctx context.Context, userID, courseID string) ([]*models.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("FindSchedulesByCourse"); err != nil {
		return nil, err
	}
	out := make([]*models.Schedule, 0)
	if list := s.schedules[scheduleKey(userID, courseID)]; list != nil {
		list.each(func(_ string, sc *models.Schedule) {
			cp := *sc
			out = append(out, &cp)
		})
	}
	return out, nil
}

func (s *MemoryStore) CreateSchedule(ctx context.Context, userID, courseID string, schedule *models.Schedule) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CreateSchedule"); err != nil {
		return "", err
	}
	schedule.ID = newDocID()
	schedule.CourseID = courseID
	schedule.Completed = false
	schedule.Sent = false
	s.scheduleCollection(userID, courseID).put(schedule.ID, *schedule)
	return schedule.ID, nil
}

func (s *MemoryStore) findSchedule(userID, courseID, scheduleID string) (*models.Schedule, error) {
	list := s.schedules[scheduleKey(userID, courseID)]
	if list == nil {
		return nil, fmt.Errorf("%w: schedule %s", ErrNotFound, scheduleID)
	}
	sc, ok := list.get(scheduleID)
	if !ok {
		return nil, fmt.Errorf("%w: schedule %s", ErrNotFound, scheduleID)
	}
	return sc, nil
}

func (s *MemoryStore) UpdateSchedule(ctx context.Context, userID, courseID string, schedule *models.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("UpdateSchedule"); err != nil {
		return err
	}
	sc, err := s.findSchedule(userID, courseID, schedule.ID)
	if err != nil {
		return err
	}
	if sc.Rescheduled(schedule) {
		sc.Sent = false
	}
	sc.Task = schedule.Task
	sc.Date = schedule.Date
	sc.StartTime = schedule.StartTime
	sc.StopTime = schedule.StopTime
	sc.ScheduleType = schedule.ScheduleType
	return nil
}

func (s *MemoryStore) DeleteSchedule(ctx context.Context, userID, courseID, scheduleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("DeleteSchedule"); err != nil {
		return err
	}
	if list := s.schedules[scheduleKey(userID, courseID)]; list != nil {
		list.remove(scheduleID)
	}
	return nil
}

func (s *MemoryStore) ClaimScheduleSend(ctx context.Context, userID, courseID, scheduleID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ClaimScheduleSend"); err != nil {
		return false, err
	}
	sc, err := s.findSchedule(userID, courseID, scheduleID)
	if err != nil {
		return false, err
	}
	if !sc.Pending() {
		return false, nil
	}
	sc.Sent = true
	return true, nil
}

func (s *MemoryStore) ReleaseScheduleSend(ctx context.Context, userID, courseID, scheduleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ReleaseScheduleSend"); err != nil {
		return err
	}
	sc, err := s.findSchedule(userID, courseID, scheduleID)
	if err != nil {
		return err
	}
	sc.Sent = false
	return nil
}

func (s *MemoryStore) MarkScheduleDone(ctx context.Context, userID, courseID, scheduleID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("MarkScheduleDone"); err != nil {
		return false, err
	}
	sc, err := s.findSchedule(userID, courseID, scheduleID)
	if err != nil {
		return false, err
	}
	if sc.Completed {
		return false, nil
	}
	u, ok := s.users.get(userID)
	if !ok {
		return false, fmt.Errorf("%w: users/%s", ErrNotFound, userID)
	}
	sc.Completed = true
	u.CompletedTasks++
	return true, nil
}
