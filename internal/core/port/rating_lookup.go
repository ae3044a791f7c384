package port

import "context"

// RatingLookupPort определяет контракт для обогащения записи внешним рейтингом
type RatingLookupPort interface {
	// LookupRating возвращает рейтинг организации по имени и адресу.
	// Любой сбой поиска не считается фатальным: вызывающая сторона
	// подставляет значение по умолчанию.
	LookupRating(ctx context.Context, name, address string) (string, error)
}
