package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"coursemate_backend/internal/logger"
	"coursemate_backend/internal/models"
	"coursemate_backend/internal/repositories"
	"coursemate_backend/internal/services/dto"
	"coursemate_backend/pkg/apperrors"

	"golang.org/x/sync/errgroup"
)

const (
	reviewFeedSize    = 30
	enrichConcurrency = 8
)

type ReviewService interface {
	CreateReview(ctx context.Context, req *dto.CreateReviewRequest) (string, error)
	LatestReviews(ctx context.Context) ([]*dto.ReviewFeedEntry, error)
	ToggleLike(ctx context.Context, req *dto.ReviewLikeRequest) (bool, error)
	ShareReview(ctx context.Context, req *dto.ShareReviewRequest) error
	AddComment(ctx context.Context, req *dto.CreateCommentRequest) (string, error)
	ListComments(ctx context.Context, reviewID string) ([]*dto.CommentEntry, error)
	ToggleCommentLike(ctx context.Context, req *dto.CommentLikeRequest) (bool, error)
	SearchReviews(ctx context.Context, query string) ([]*models.Review, error)
	SubmitFeedback(ctx context.Context, req *dto.FeedbackRequest) (string, error)
}

type reviewService struct {
	reviewRepo   repositories.ReviewRepository
	commentRepo  repositories.CommentRepository
	feedbackRepo repositories.FeedbackRepository
	userRepo     repositories.UserRepository
	now          func() time.Time
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	commentRepo repositories.CommentRepository,
	feedbackRepo repositories.FeedbackRepository,
	userRepo repositories.UserRepository,
) ReviewService {
	return &reviewService{
		reviewRepo:   reviewRepo,
		commentRepo:  commentRepo,
		feedbackRepo: feedbackRepo,
		userRepo:     userRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// ---------------- Reviews ----------------

func (s *reviewService) CreateReview(ctx context.Context, req *dto.CreateReviewRequest) (string, error) {
	review := req.ToModel()
	review.CreatedAt = s.now()

	id, err := s.reviewRepo.CreateReview(ctx, review)
	if err != nil {
		return "", apperrors.ErrDatabase(err, apperrors.DomainReviews)
	}
	logger.CtxInfo(ctx, "Review created", "review_id", id, "user_id", review.UserID)
	return id, nil
}

// LatestReviews - 30 новых отзывов с числом комментариев и автором
func (s *reviewService) LatestReviews(ctx context.Context) ([]*dto.ReviewFeedEntry, error) {
	reviews, err := s.reviewRepo.FindLatestReviews(ctx, reviewFeedSize)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, apperrors.DomainReviews)
	}

	userIDs := make([]string, 0, len(reviews))
	for _, r := range reviews {
		userIDs = append(userIDs, r.UserID)
	}

	entries := make([]*dto.ReviewFeedEntry, len(reviews))
	var authors map[string]dto.Author

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	g.Go(func() error {
		var err error
		authors, err = s.lookupAuthors(gctx, userIDs)
		return err
	})
	for i, r := range reviews {
		i, r := i, r
		g.Go(func() error {
			n, err := s.commentRepo.CountComments(gctx, r.ID)
			if err != nil {
				return err
			}
			entries[i] = &dto.ReviewFeedEntry{Review: *r, CommentNum: n}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperrors.ErrDatabase(err, apperrors.DomainReviews)
	}

	for _, e := range entries {
		e.Author = authors[e.UserID]
	}
	return entries, nil
}

func (s *reviewService) ToggleLike(ctx context.Context, req *dto.ReviewLikeRequest) (bool, error) {
	liked, err := s.reviewRepo.ToggleReviewLike(ctx, req.ReviewID, req.UserID)
	if err != nil {
		return false, storeError(err, apperrors.DomainReviews, apperrors.ErrReviewNotFound)
	}
	return liked, nil
}

func (s *reviewService) ShareReview(ctx context.Context, req *dto.ShareReviewRequest) error {
	if err := s.reviewRepo.IncrementReviewShares(ctx, req.ReviewID); err != nil {
		return storeError(err, apperrors.DomainReviews, apperrors.ErrReviewNotFound)
	}
	return nil
}

func (s *reviewService) SearchReviews(ctx context.Context, query string) ([]*models.Review, error) {
	found := newOrderedSet(func(r *models.Review) string { return r.ID })
	for _, token := range Tokenize(query) {
		reviews, err := s.reviewRepo.FindReviewsByKeyword(ctx, token)
		if err != nil {
			return nil, apperrors.ErrDatabase(err, apperrors.DomainReviews)
		}
		found.AddAll(reviews)
	}
	return found.Items(), nil
}

// ---------------- Comments ----------------

func (s *reviewService) AddComment(ctx context.Context, req *dto.CreateCommentRequest) (string, error) {
	if _, err := s.reviewRepo.FindReviewByID(ctx, req.ReviewID); err != nil {
		return "", storeError(err, apperrors.DomainReviews, apperrors.ErrReviewNotFound)
	}

	comment := &models.Comment{
		UserID:    req.UserID,
		ReviewID:  req.ReviewID,
		Body:      req.Body,
		Likes:     []string{},
		CreatedAt: s.now(),
	}
	id, err := s.commentRepo.CreateComment(ctx, comment)
	if err != nil {
		return "", apperrors.ErrDatabase(err, apperrors.DomainReviews)
	}
	return id, nil
}

func (s *reviewService) ListComments(ctx context.Context, reviewID string) ([]*dto.CommentEntry, error) {
	comments, err := s.commentRepo.FindCommentsByReview(ctx, reviewID)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, apperrors.DomainReviews)
	}

	userIDs := make([]string, 0, len(comments))
	for _, c := range comments {
		userIDs = append(userIDs, c.UserID)
	}
	authors, err := s.lookupAuthors(ctx, userIDs)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, apperrors.DomainReviews)
	}

	out := make([]*dto.CommentEntry, 0, len(comments))
	for _, c := range comments {
		out = append(out, &dto.CommentEntry{
			ID:        c.ID,
			ReviewID:  c.ReviewID,
			Body:      c.Body,
			Likes:     c.Likes,
			CreatedAt: c.CreatedAt,
			UserID:    c.UserID,
			Author:    authors[c.UserID],
		})
	}
	return out, nil
}

func (s *reviewService) ToggleCommentLike(ctx context.Context, req *dto.CommentLikeRequest) (bool, error) {
	liked, err := s.commentRepo.ToggleCommentLike(ctx, req.ReviewID, req.CommentID, req.UserID)
	if err != nil {
		return false, storeError(err, apperrors.DomainReviews, apperrors.ErrCommentNotFound)
	}
	return liked, nil
}

// ---------------- Feedback ----------------

func (s *reviewService) SubmitFeedback(ctx context.Context, req *dto.FeedbackRequest) (string, error) {
	id, err := s.feedbackRepo.CreateFeedback(ctx, &models.Feedback{
		Stars:     req.Stars,
		Feedback:  req.Feedback,
		UserID:    req.UserID,
		CreatedAt: s.now(),
	})
	if err != nil {
		return "", apperrors.ErrDatabase(err, apperrors.DomainReviews)
	}
	return id, nil
}

// lookupAuthors параллельно читает профили авторов. Удаленный автор
// дает пустой профиль, а не ошибку.
func (s *reviewService) lookupAuthors(ctx context.Context, userIDs []string) (map[string]dto.Author, error) {
	var mu sync.Mutex
	authors := make(map[string]dto.Author, len(userIDs))
	seen := make(map[string]struct{}, len(userIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for _, id := range userIDs {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}

		id := id
		g.Go(func() error {
			user, err := s.userRepo.FindUserByID(gctx, id)
			if errors.Is(err, repositories.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			authors[id] = dto.Author{UserName: user.Username, UserProfilePic: user.ProfilePic}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return authors, nil
}
