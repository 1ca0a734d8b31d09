package repositories

import (
	"context"

	"coursemate_backend/internal/models"

	"cloud.google.com/go/firestore"
)

const (
	collectionMarket    = "market"
	collectionUsers     = "users"
	collectionWishlist  = "wishlist"
	collectionReviews   = "reviews"
	collectionComments  = "comments"
	collectionFeedbacks = "feedbacks"
	collectionCourses   = "courses"
	collectionSchedules = "schedules"
)

// decodeDocs раскладывает снимки в модели и проставляет id документа
func decodeDocs[T any](docs []*firestore.DocumentSnapshot, setID func(*T, *firestore.DocumentSnapshot)) ([]*T, error) {
	out := make([]*T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, err
		}
		setID(&v, doc)
		out = append(out, &v)
	}
	return out, nil
}

func queryDocs[T any](ctx context.Context, q firestore.Query, setID func(*T, *firestore.DocumentSnapshot)) ([]*T, error) {
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, mapStoreError(err)
	}
	return decodeDocs(docs, setID)
}

// toggleArrayMember в транзакции снимает member из массива field, если он там есть,
// иначе добавляет. Конкурентные переключения разных пользователей не теряются.
func toggleArrayMember(ctx context.Context, client *firestore.Client, ref *firestore.DocumentRef, field, member string) (bool, error) {
	var liked bool
	err := client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}

		var current []string
		if raw, err := snap.DataAt(field); err == nil {
			current = toStrings(raw)
		}

		if models.HasLiked(current, member) {
			liked = false
			return tx.Update(ref, []firestore.Update{{Path: field, Value: firestore.ArrayRemove(member)}})
		}
		liked = true
		return tx.Update(ref, []firestore.Update{{Path: field, Value: firestore.ArrayUnion(member)}})
	})
	if err != nil {
		return false, mapStoreError(err)
	}
	return liked, nil
}

func toStrings(raw interface{}) []string {
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
