package port

import (
	"context"

	"feature-inspector/internal/domain/entity"
)

// UserRepository хранилище состояний диалога с пользователями бота
type UserRepository interface {
	// Get возвращает пользователя по ID, создаёт нового если не найден.
	// Изменения вступают в силу только после Save.
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	Save(ctx context.Context, user *entity.User) error
}
