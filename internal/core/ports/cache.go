package ports

import (
	"context"

	"github.com/GoArmGo/PhotoShare/internal/domain"
)

// HashtagCache кэширует полный список хэштегов
type HashtagCache interface {
	// GetHashtags возвращает ok = false при промахе
	GetHashtags(ctx context.Context) (tags []domain.Hashtag, ok bool, err error)
	SetHashtags(ctx context.Context, tags []domain.Hashtag) error
	InvalidateHashtags(ctx context.Context) error
}
