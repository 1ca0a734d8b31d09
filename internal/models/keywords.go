package models

import (
	"slices"
	"strings"
)

// Keywords разбивает строки по пробелам, приводит к нижнему регистру,
// отбрасывает пустые токены и повторы, сохраняя порядок.
func Keywords(parts ...string) []string {
	out := make([]string, 0)
	for _, part := range parts {
		for _, tok := range strings.Fields(strings.ToLower(part)) {
			if !slices.Contains(out, tok) {
				out = append(out, tok)
			}
		}
	}
	return out
}

// HasLiked - есть ли пользователь в списке лайков
func HasLiked(likes []string, userID string) bool {
	return slices.Contains(likes, userID)
}

// ToggleLike убирает пользователя из списка, если он там есть, иначе добавляет.
// Возвращает новый список и true, если после операции лайк стоит.
func ToggleLike(likes []string, userID string) ([]string, bool) {
	if idx := slices.Index(likes, userID); idx >= 0 {
		return slices.Delete(slices.Clone(likes), idx, idx+1), false
	}
	return append(slices.Clone(likes), userID), true
}

// ValidDocID - id, который можно безопасно подставить в путь документа
func ValidDocID(id string) bool {
	if id == "" || id == "." || id == ".." || len(id) > 1500 {
		return false
	}
	if strings.Contains(id, "/") {
		return false
	}
	return !(strings.HasPrefix(id, "__") && strings.HasSuffix(id, "__"))
}
