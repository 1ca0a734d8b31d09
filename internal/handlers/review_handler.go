package handlers

import (
	"net/http"

	"coursemate_backend/internal/services"
	"coursemate_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup) {
	reviews := r.Group("/reviews")
	{
		reviews.POST("", h.CreateReview)
		reviews.GET("", h.LatestReviews)
		reviews.POST("/like", h.ToggleLike)
		reviews.POST("/share", h.ShareReview)
		reviews.GET("/search", h.SearchReviews)

		reviews.POST("/comments", h.AddComment)
		reviews.GET("/comments", h.ListComments)
		reviews.POST("/comments/like", h.ToggleCommentLike)
	}

	r.POST("/feedback", h.SubmitFeedback)
}

// CreateReview godoc
// @Summary Оставить отзыв о курсе
// @Tags reviews
// @Accept json
// @Produce json
// @Param review body dto.CreateReviewRequest true "Отзыв"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /reviews [post]
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req dto.CreateReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if _, err := h.reviewService.CreateReview(c.Request.Context(), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Review added successfully"})
}

// LatestReviews godoc
// @Summary Лента последних отзывов
// @Description 30 новых отзывов с числом комментариев и автором
// @Tags reviews
// @Produce json
// @Success 200 {array} dto.ReviewFeedEntry
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /reviews [get]
func (h *ReviewHandler) LatestReviews(c *gin.Context) {
	feed, err := h.reviewService.LatestReviews(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

// ToggleLike godoc
// @Summary Поставить или снять лайк отзыву
// @Tags reviews
// @Accept json
// @Produce json
// @Param request body dto.ReviewLikeRequest true "Пользователь и отзыв"
// @Success 200 {object} dto.ToggleResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /reviews/like [post]
func (h *ReviewHandler) ToggleLike(c *gin.Context) {
	var req dto.ReviewLikeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	liked, err := h.reviewService.ToggleLike(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toggleResponse(liked))
}

// ShareReview godoc
// @Summary Увеличить счетчик репостов
// @Tags reviews
// @Accept json
// @Produce json
// @Param request body dto.ShareReviewRequest true "Отзыв"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /reviews/share [post]
func (h *ReviewHandler) ShareReview(c *gin.Context) {
	var req dto.ShareReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.reviewService.ShareReview(c.Request.Context(), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Review shared"})
}

// SearchReviews godoc
// @Summary Поиск отзывов по курсу и преподавателю
// @Tags reviews
// @Produce json
// @Param query query string false "Запрос"
// @Success 200 {array} models.Review
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /reviews/search [get]
func (h *ReviewHandler) SearchReviews(c *gin.Context) {
	var query dto.ReviewSearchQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	reviews, err := h.reviewService.SearchReviews(c.Request.Context(), query.Query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// AddComment godoc
// @Summary Комментарий к отзыву
// @Tags reviews
// @Accept json
// @Produce json
// @Param comment body dto.CreateCommentRequest true "Комментарий"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /reviews/comments [post]
func (h *ReviewHandler) AddComment(c *gin.Context) {
	var req dto.CreateCommentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if _, err := h.reviewService.AddComment(c.Request.Context(), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Comment added successfully"})
}

// ListComments godoc
// @Summary Комментарии к отзыву
// @Tags reviews
// @Produce json
// @Param reviewId query string true "ID отзыва"
// @Success 200 {array} dto.CommentEntry
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /reviews/comments [get]
func (h *ReviewHandler) ListComments(c *gin.Context) {
	var query dto.CommentListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	comments, err := h.reviewService.ListComments(c.Request.Context(), query.ReviewID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// ToggleCommentLike godoc
// @Summary Поставить или снять лайк комментарию
// @Tags reviews
// @Accept json
// @Produce json
// @Param request body dto.CommentLikeRequest true "Отзыв, комментарий и пользователь"
// @Success 200 {object} dto.ToggleResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /reviews/comments/like [post]
func (h *ReviewHandler) ToggleCommentLike(c *gin.Context) {
	var req dto.CommentLikeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	liked, err := h.reviewService.ToggleCommentLike(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toggleResponse(liked))
}

// SubmitFeedback godoc
// @Summary Отзыв о приложении
// @Tags feedback
// @Accept json
// @Produce json
// @Param feedback body dto.FeedbackRequest true "Оценка и текст"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /feedback [post]
func (h *ReviewHandler) SubmitFeedback(c *gin.Context) {
	var req dto.FeedbackRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if _, err := h.reviewService.SubmitFeedback(c.Request.Context(), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Thanks for your feedback"})
}

func toggleResponse(liked bool) dto.ToggleResponse {
	if liked {
		return dto.ToggleResponse{Message: "Liked", Liked: true}
	}
	return dto.ToggleResponse{Message: "Unliked", Liked: false}
}
