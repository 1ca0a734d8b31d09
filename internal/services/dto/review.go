package dto

import (
	"time"

	"coursemate_backend/internal/models"
)

// ======================
// Request DTOs
// ======================

type CreateReviewRequest struct {
	UserID     string `json:"userId" validate:"required,doc-id"`
	Body       string `json:"body" validate:"required,not-blank,max=5000"`
	Stars      int    `json:"stars" validate:"required,min=1,max=5"`
	Course     string `json:"course" validate:"required,not-blank"`
	Instructor string `json:"instructor" validate:"required,not-blank"`
}

func (r *CreateReviewRequest) ToModel() *models.Review {
	review := &models.Review{
		UserID:     r.UserID,
		Body:       r.Body,
		Stars:      r.Stars,
		Course:     r.Course,
		Instructor: r.Instructor,
	}
	review.Normalize()
	return review
}

type ReviewLikeRequest struct {
	UserID   string `json:"userId" validate:"required,doc-id"`
	ReviewID string `json:"reviewId" validate:"required,doc-id"`
}

type ShareReviewRequest struct {
	ReviewID string `json:"reviewId" validate:"required,doc-id"`
}

type CreateCommentRequest struct {
	UserID   string `json:"userId" validate:"required,doc-id"`
	ReviewID string `json:"reviewId" validate:"required,doc-id"`
	Body     string `json:"body" validate:"required,not-blank,max=2000"`
}

type CommentListQuery struct {
	ReviewID string `form:"reviewId" validate:"required,doc-id"`
}

type CommentLikeRequest struct {
	ReviewID  string `json:"reviewId" validate:"required,doc-id"`
	UserID    string `json:"userId" validate:"required,doc-id"`
	CommentID string `json:"commentId" validate:"required,doc-id"`
}

type ReviewSearchQuery struct {
	Query string `form:"query"`
}

type FeedbackRequest struct {
	Stars    int    `json:"stars" validate:"required,min=1,max=5"`
	Feedback string `json:"feedback" validate:"max=5000"`
	UserID   string `json:"userId" validate:"required,doc-id"`
}

// ======================
// Response DTOs
// ======================

// Author - публичная часть профиля автора, поля лежат на верхнем уровне записи
type Author struct {
	UserName       string `json:"userName"`
	UserProfilePic string `json:"userProfilePic"`
}

// ReviewFeedEntry - отзыв в ленте с числом комментариев и автором
type ReviewFeedEntry struct {
	models.Review
	Author
	CommentNum int `json:"commentNum"`
}

type CommentEntry struct {
	ID        string    `json:"id"`
	ReviewID  string    `json:"reviewId"`
	Body      string    `json:"body"`
	Likes     []string  `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    string    `json:"userId"`
	Author
}
