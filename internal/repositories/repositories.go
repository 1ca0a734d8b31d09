package repositories

import (
	"context"
	"errors"
	"fmt"

	"coursemate_backend/internal/models"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrAlreadyExists = errors.New("document already exists")
)

type MarketRepository interface {
	CreateItem(ctx context.Context, item *models.Item) (string, error)
	FindAllItems(ctx context.Context) ([]*models.Item, error)
	FindItemByID(ctx context.Context, id string) (*models.Item, error)
	FindItemsByKeyword(ctx context.Context, keyword string) ([]*models.Item, error)
	FindItemsByCategory(ctx context.Context, category string) ([]*models.Item, error)
}

type WishlistRepository interface {
	// AddWishlistEntry возвращает ErrAlreadyExists, если объявление уже в списке
	AddWishlistEntry(ctx context.Context, userID string, entry *models.WishlistEntry) error
	FindWishlistByUser(ctx context.Context, userID string) ([]*models.WishlistEntry, error)
}

type UserRepository interface {
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUsersWithPushToken(ctx context.Context) ([]*models.User, error)
	SetTaskCount(ctx context.Context, userID string, count int) error
}

type ReviewRepository interface {
	CreateReview(ctx context.Context, review *models.Review) (string, error)
	FindReviewByID(ctx context.Context, id string) (*models.Review, error)
	FindLatestReviews(ctx context.Context, limit int) ([]*models.Review, error)
	FindReviewsByKeyword(ctx context.Context, keyword string) ([]*models.Review, error)
	// ToggleReviewLike атомарно ставит или снимает лайк, возвращает новое состояние
	ToggleReviewLike(ctx context.Context, reviewID, userID string) (bool, error)
	IncrementReviewShares(ctx context.Context, reviewID string) error
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) (string, error)
	FindCommentsByReview(ctx context.Context, reviewID string) ([]*models.Comment, error)
	CountComments(ctx context.Context, reviewID string) (int, error)
	ToggleCommentLike(ctx context.Context, reviewID, commentID, userID string) (bool, error)
}

type FeedbackRepository interface {
	CreateFeedback(ctx context.Context, feedback *models.Feedback) (string, error)
}

type ScheduleRepository interface {
	CourseExists(ctx context.Context, userID, courseID string) (bool, error)
	FindCourseIDs(ctx context.Context, userID string) ([]string, error)
	FindSchedulesByCourse(ctx context.Context, userID, courseID string) ([]*models.Schedule, error)
	CreateSchedule(ctx context.Context, userID, courseID string, schedule *models.Schedule) (string, error)
	// UpdateSchedule меняет описательные поля и не трогает completed.
	// sent сбрасывается, только если изменились date или start_time.
	UpdateSchedule(ctx context.Context, userID, courseID string, schedule *models.Schedule) error
	DeleteSchedule(ctx context.Context, userID, courseID, scheduleID string) error
	// ClaimScheduleSend атомарно переводит ожидающую задачу в sent=true.
	// Отправляет push только тот, кто получил true.
	ClaimScheduleSend(ctx context.Context, userID, courseID, scheduleID string) (bool, error)
	ReleaseScheduleSend(ctx context.Context, userID, courseID, scheduleID string) error
	// MarkScheduleDone в одной транзакции ставит completed и увеличивает
	// users.completed_tasks. Повторный вызов ничего не меняет и возвращает false.
	MarkScheduleDone(ctx context.Context, userID, courseID, scheduleID string) (bool, error)
}

type TicketRepository interface {
	CreateTicket(ctx context.Context, ticket *models.PushTicket) error
	FindTicketsByUser(ctx context.Context, userID string, limit int) ([]*models.PushTicket, error)
}

// DocumentStore - все репозитории документного хранилища разом
type DocumentStore interface {
	MarketRepository
	WishlistRepository
	UserRepository
	ReviewRepository
	CommentRepository
	FeedbackRepository
	ScheduleRepository
}

// mapStoreError переводит gRPC-коды Firestore в ошибки репозитория
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %v", ErrAlreadyExists, err)
	default:
		return err
	}
}
