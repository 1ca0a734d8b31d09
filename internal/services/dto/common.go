package dto

// MessageResponse - стандартный ответ на успешную запись
type MessageResponse struct {
	Message string `json:"message"`
}

type ToggleResponse struct {
	Message string `json:"message"`
	Liked   bool   `json:"liked"`
}

type URLResponse struct {
	URL string `json:"url"`
}
