package app

import (
	"context"

	"feature-inspector/internal/domain/entity"
	"feature-inspector/internal/domain/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	return s.update(ctx, userID, chatID, func(u *entity.User) { u.SetState(state) })
}

// SelectTemplate запоминает шаблон и ждёт от пользователя детекции
func (s *UserService) SelectTemplate(ctx context.Context, userID, chatID int64, templateID string) (*entity.User, error) {
	return s.update(ctx, userID, chatID, func(u *entity.User) { u.SelectTemplate(templateID) })
}

// Cancel возвращает пользователя в главное меню и забывает выбранный шаблон
func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.update(ctx, userID, chatID, func(u *entity.User) {
		u.TemplateID = ""
		u.SetState(entity.StateMainMenu)
	})
}

func (s *UserService) update(ctx context.Context, userID, chatID int64, apply func(*entity.User)) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	apply(user)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
