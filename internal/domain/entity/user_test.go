package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUser_DefaultState(t *testing.T) {
	u := NewUser(1, 10)
	require.Equal(t, StateMainMenu, u.State)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, int64(10), u.ChatID)
	require.Empty(t, u.TemplateID)
}

func TestUser_SelectTemplate(t *testing.T) {
	u := NewUser(1, 10)
	u.SelectTemplate("bracket-a")
	require.Equal(t, "bracket-a", u.TemplateID)
	require.Equal(t, StateAwaitingDetections, u.State)
}
