package services

import (
	"strings"
)

// Tokenize приводит запрос к нижнему регистру, режет по пробелам,
// убирает пустые токены и повторы. Порядок первого появления сохраняется.
func Tokenize(query string) []string {
	tokens := make([]string, 0)
	seen := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}

// orderedSet накапливает документы по id: вставка только если id еще нет,
// обход в порядке первого появления.
type orderedSet[T any] struct {
	ids   map[string]struct{}
	items []T
	id    func(T) string
}

func newOrderedSet[T any](id func(T) string) *orderedSet[T] {
	return &orderedSet[T]{
		ids:   make(map[string]struct{}),
		items: make([]T, 0),
		id:    id,
	}
}

// Add возвращает false, если документ с таким id уже есть
func (s *orderedSet[T]) Add(item T) bool {
	key := s.id(item)
	if _, ok := s.ids[key]; ok {
		return false
	}
	s.ids[key] = struct{}{}
	s.items = append(s.items, item)
	return true
}

func (s *orderedSet[T]) AddAll(items []T) {
	for _, item := range items {
		s.Add(item)
	}
}

// Exclude помечает id как уже встреченный, чтобы он не попал в результат
func (s *orderedSet[T]) Exclude(id string) {
	s.ids[id] = struct{}{}
}

func (s *orderedSet[T]) Items() []T {
	return s.items
}
