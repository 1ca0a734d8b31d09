package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

const (
	// RequestIDKey - id запроса из X-Request-ID
	RequestIDKey = contextKey("request_id")
	// UserIDKey - пользователь, от имени которого идет операция
	UserIDKey = contextKey("user_id")
)
