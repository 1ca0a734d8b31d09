package repositories

import (
	"context"
	"time"

	"coursemate_backend/internal/models"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
)

type ReviewRepositoryImpl struct {
	client *firestore.Client
}

func NewReviewRepository(client *firestore.Client) *ReviewRepositoryImpl {
	return &ReviewRepositoryImpl{client: client}
}

func setReviewID(r *models.Review, doc *firestore.DocumentSnapshot) {
	r.ID = doc.Ref.ID
}

func (r *ReviewRepositoryImpl) CreateReview(ctx context.Context, review *models.Review) (string, error) {
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	ref, _, err := r.client.Collection(collectionReviews).Add(ctx, review)
	if err != nil {
		return "", mapStoreError(err)
	}
	review.ID = ref.ID
	return ref.ID, nil
}

func (r *ReviewRepositoryImpl) FindReviewByID(ctx context.Context, id string) (*models.Review, error) {
	doc, err := r.client.Collection(collectionReviews).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	var review models.Review
	if err := doc.DataTo(&review); err != nil {
		return nil, err
	}
	review.ID = doc.Ref.ID
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindLatestReviews(ctx context.Context, limit int) ([]*models.Review, error) {
	q := r.client.Collection(collectionReviews).OrderBy("createdAt", firestore.Desc).Limit(limit)
	return queryDocs(ctx, q, setReviewID)
}

func (r *ReviewRepositoryImpl) FindReviewsByKeyword(ctx context.Context, keyword string) ([]*models.Review, error) {
	q := r.client.Collection(collectionReviews).Where("keywords", "array-contains", keyword)
	return queryDocs(ctx, q, setReviewID)
}

func (r *ReviewRepositoryImpl) ToggleReviewLike(ctx context.Context, reviewID, userID string) (bool, error) {
	ref := r.client.Collection(collectionReviews).Doc(reviewID)
	return toggleArrayMember(ctx, r.client, ref, "likes", userID)
}

func (r *ReviewRepositoryImpl) IncrementReviewShares(ctx context.Context, reviewID string) error {
	_, err := r.client.Collection(collectionReviews).Doc(reviewID).Update(ctx, []firestore.Update{
		{Path: "shares", Value: firestore.Increment(1)},
	})
	return mapStoreError(err)
}

// --- Comments ---

type CommentRepositoryImpl struct {
	client *firestore.Client
}

func NewCommentRepository(client *firestore.Client) *CommentRepositoryImpl {
	return &CommentRepositoryImpl{client: client}
}

func (r *CommentRepositoryImpl) comments(reviewID string) *firestore.CollectionRef {
	return r.client.Collection(collectionReviews).Doc(reviewID).Collection(collectionComments)
}

func (r *CommentRepositoryImpl) CreateComment(ctx context.Context, comment *models.Comment) (string, error) {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	if comment.Likes == nil {
		comment.Likes = []string{}
	}
	ref, _, err := r.comments(comment.ReviewID).Add(ctx, comment)
	if err != nil {
		return "", mapStoreError(err)
	}
	comment.ID = ref.ID
	return ref.ID, nil
}

func (r *CommentRepositoryImpl) FindCommentsByReview(ctx context.Context, reviewID string) ([]*models.Comment, error) {
	q := r.comments(reviewID).OrderBy("createdAt", firestore.Asc)
	return queryDocs(ctx, q, func(c *models.Comment, doc *firestore.DocumentSnapshot) {
		c.ID = doc.Ref.ID
	})
}

// CountComments считает комментарии агрегирующим запросом, не читая документы
func (r *CommentRepositoryImpl) CountComments(ctx context.Context, reviewID string) (int, error) {
	res, err := r.comments(reviewID).NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, mapStoreError(err)
	}
	v, ok := res["all"].(*firestorepb.Value)
	if !ok {
		return 0, nil
	}
	return int(v.GetIntegerValue()), nil
}

func (r *CommentRepositoryImpl) ToggleCommentLike(ctx context.Context, reviewID, commentID, userID string) (bool, error) {
	return toggleArrayMember(ctx, r.client, r.comments(reviewID).Doc(commentID), "likes", userID)
}

// --- Feedback ---

type FeedbackRepositoryImpl struct {
	client *firestore.Client
}

func NewFeedbackRepository(client *firestore.Client) *FeedbackRepositoryImpl {
	return &FeedbackRepositoryImpl{client: client}
}

func (r *FeedbackRepositoryImpl) CreateFeedback(ctx context.Context, feedback *models.Feedback) (string, error) {
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now().UTC()
	}
	ref, _, err := r.client.Collection(collectionFeedbacks).Add(ctx, feedback)
	if err != nil {
		return "", mapStoreError(err)
	}
	feedback.ID = ref.ID
	return ref.ID, nil
}
