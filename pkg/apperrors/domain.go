package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные ошибки доменов market, reviews, schedules, notifications.
Ссылки на отсутствующие сущности в запросах на запись отдаются как 400,
кроме сканирования расписаний (там пользователь не найден -> 404).
*/

const (
	DomainMarket        = "market"
	DomainReviews       = "reviews"
	DomainSchedules     = "schedules"
	DomainNotifications = "notifications"
	DomainUploads       = "uploads"
)

// ErrDatabase скрывает текст ошибки хранилища от клиента
func ErrDatabase(err error, domain string) *AppError {
	return Wrap(err, CodeDatabaseError, domain, "Failed to access the data store", http.StatusBadRequest)
}

// ErrScanFailed - фатальная ошибка сканирования расписаний (500)
func ErrScanFailed(err error) *AppError {
	return Wrap(err, CodeInternalError, DomainSchedules, "Internal server error", http.StatusInternalServerError)
}

func ErrNotificationFailed(err error, domain string) *AppError {
	return Wrap(err, CodeNotificationFailed, domain, "Failed to deliver notification", http.StatusBadRequest)
}

var (
	ErrUserNotFound = New(CodeUserNotFound, DomainSchedules, "User not found", http.StatusNotFound)

	ErrItemNotFound     = New(CodeItemNotFound, DomainMarket, "Item does not exist", http.StatusBadRequest)
	ErrSellerNotFound   = New(CodeUserNotFound, DomainMarket, "Seller does not exist", http.StatusBadRequest)
	ErrWisherNotFound   = New(CodeUserNotFound, DomainMarket, "User does not exist", http.StatusBadRequest)
	ErrWishlistConflict = New(CodeWishlistDuplicate, DomainMarket, "Item is already in the wishlist", http.StatusConflict)
	ErrNoContactChannel = New(CodeExternalServiceError, DomainMarket, "Seller cannot be notified", http.StatusBadRequest)

	ErrReviewNotFound  = New(CodeReviewNotFound, DomainReviews, "Review does not exist", http.StatusBadRequest)
	ErrCommentNotFound = New(CodeCommentNotFound, DomainReviews, "Comment does not exist", http.StatusBadRequest)

	ErrCourseNotFound   = New(CodeCourseNotFound, DomainSchedules, "Course does not exist", http.StatusBadRequest)
	ErrScheduleNotFound = New(CodeScheduleNotFound, DomainSchedules, "Schedule does not exist", http.StatusBadRequest)

	ErrUnsupportedFile = New(CodeUnsupportedFile, DomainUploads, "Unsupported file type", http.StatusBadRequest)
	ErrFileTooLarge    = New(CodeFileTooLarge, DomainUploads, "File is too large", http.StatusBadRequest)

	ErrTooManyRequests = New(CodeLimitExceeded, "request", "Too many requests", http.StatusTooManyRequests)
)
