package cache

import (
	"context"

	"github.com/GoArmGo/PhotoShare/internal/domain"
)

// Noop используется, когда Redis не настроен: каждый запрос идет в базу
type Noop struct{}

func (Noop) GetHashtags(context.Context) ([]domain.Hashtag, bool, error) { return nil, false, nil }
func (Noop) SetHashtags(context.Context, []domain.Hashtag) error { return nil }
func (Noop) InvalidateHashtags(context.Context) error { return nil }
