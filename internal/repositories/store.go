package repositories

import (
	"errors"

	"cloud.google.com/go/firestore"
)

// FirestoreStore собирает все Firestore-репозитории в один DocumentStore
type FirestoreStore struct {
	*MarketRepositoryImpl
	*WishlistRepositoryImpl
	*UserRepositoryImpl
	*ReviewRepositoryImpl
	*CommentRepositoryImpl
	*FeedbackRepositoryImpl
	*ScheduleRepositoryImpl
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{
		MarketRepositoryImpl:   NewMarketRepository(client),
		WishlistRepositoryImpl: NewWishlistRepository(client),
		UserRepositoryImpl:     NewUserRepository(client),
		ReviewRepositoryImpl:   NewReviewRepository(client),
		CommentRepositoryImpl:  NewCommentRepository(client),
		FeedbackRepositoryImpl: NewFeedbackRepository(client),
		ScheduleRepositoryImpl: NewScheduleRepository(client),
	}
}

var _ DocumentStore = (*FirestoreStore)(nil)

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
