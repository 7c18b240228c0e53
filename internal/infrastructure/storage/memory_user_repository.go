package storage

import (
	"context"
	"sync"

	"feature-inspector/internal/domain/entity"
	"feature-inspector/internal/domain/port"
)

// MemoryUserRepository in-memory хранилище состояний диалога
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[int64]entity.User
}

// NewMemoryUserRepository создаёт новое in-memory хранилище
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]entity.User),
	}
}

// Get возвращает копию пользователя, создаёт нового если не найден
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	r.mu.RLock()
	user, exists := r.users[userID]
	r.mu.RUnlock()

	if exists {
		return &user, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Пока ждали блокировку, пользователя мог создать другой обработчик
	if user, exists := r.users[userID]; exists {
		return &user, nil
	}
	newUser := entity.NewUser(userID, chatID)
	r.users[userID] = *newUser

	return newUser, nil
}

// Save сохраняет состояние пользователя
func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	r.users[user.ID] = *user
	r.mu.Unlock()

	return nil
}

// Проверка реализации интерфейса
var _ port.UserRepository = (*MemoryUserRepository)(nil)
