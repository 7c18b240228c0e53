package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"feature-inspector/internal/domain/entity"
	"feature-inspector/internal/infrastructure/storage"
)

func TestUserService_SelectTemplateAndCancel(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.SelectTemplate(ctx, 1, 10, "bracket")
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingDetections, user.State)
	require.Equal(t, "bracket", user.TemplateID)

	user, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
	require.Empty(t, user.TemplateID)

	stored, err := svc.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Empty(t, stored.TemplateID)
}

func TestUserService_SetState(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.SetState(ctx, 2, 20, entity.StateProcessing)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, user.State)

	stored, err := svc.Get(ctx, 2, 20)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, stored.State)
}
