package apperrors

type ErrorCode string

// Сквозные коды
const (
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeLimitExceeded    ErrorCode = "LIMIT_EXCEEDED"
)

// Доменные коды
const (
	CodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	CodeItemNotFound       ErrorCode = "ITEM_NOT_FOUND"
	CodeCourseNotFound     ErrorCode = "COURSE_NOT_FOUND"
	CodeReviewNotFound     ErrorCode = "REVIEW_NOT_FOUND"
	CodeCommentNotFound    ErrorCode = "COMMENT_NOT_FOUND"
	CodeScheduleNotFound   ErrorCode = "SCHEDULE_NOT_FOUND"
	CodeWishlistDuplicate  ErrorCode = "WISHLIST_DUPLICATE"
	CodeNotificationFailed ErrorCode = "NOTIFICATION_FAILED"
	CodeUnsupportedFile    ErrorCode = "UNSUPPORTED_FILE"
	CodeFileTooLarge       ErrorCode = "FILE_TOO_LARGE"
)
