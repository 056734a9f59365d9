package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/confide/confide/internal/data"
	"github.com/confide/confide/internal/domain/model"
	"github.com/confide/confide/internal/mocks"
	mockauth "github.com/confide/confide/internal/mocks/auth"
)

func TestSecretService_Reveal_DefaultForNewAccounts(t *testing.T) {
	users := mockauth.NewMemoryUserStore()
	svc := NewSecretService(users)
	ctx := context.Background()

	_, err := users.CreateLocal(ctx, "alice@example.com", "fake:pw")
	require.NoError(t, err)

	secret, err := svc.Reveal(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSecret, secret)
}

func TestSecretService_SubmitThenReveal(t *testing.T) {
	users := mockauth.NewMemoryUserStore()
	svc := NewSecretService(users)
	ctx := context.Background()

	_, err := users.FindOrCreateFederated(ctx, "bob@example.com")
	require.NoError(t, err)

	user, err := svc.Submit(ctx, "bob@example.com", "first")
	require.NoError(t, err)
	require.NotNil(t, user.Secret)
	assert.Equal(t, "first", *user.Secret)

	// Last write wins.
	_, err = svc.Submit(ctx, "bob@example.com", "second")
	require.NoError(t, err)

	secret, err := svc.Reveal(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "second", secret)
}

func TestSecretService_Submit_EmptyStringIsAValue(t *testing.T) {
	users := mockauth.NewMemoryUserStore()
	svc := NewSecretService(users)
	ctx := context.Background()

	_, err := users.CreateLocal(ctx, "alice@example.com", "fake:pw")
	require.NoError(t, err)

	// An empty submission overwrites the default placeholder.
	_, err = svc.Submit(ctx, "alice@example.com", "")
	require.NoError(t, err)

	secret, err := svc.Reveal(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "", secret)
}

func TestSecretService_UnknownUser(t *testing.T) {
	svc := NewSecretService(mockauth.NewMemoryUserStore())
	ctx := context.Background()

	_, err := svc.Reveal(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, data.ErrUserNotFound)

	_, err = svc.Submit(ctx, "ghost@example.com", "x")
	assert.ErrorIs(t, err, data.ErrUserNotFound)
}

func TestSecretService_StoreErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	users := mocks.NewMockUserStore(ctrl)
	storeErr := errors.New("connection reset")
	users.EXPECT().UpdateSecret(gomock.Any(), "a@example.com", "s").Return(nil, storeErr)

	svc := NewSecretService(users)
	_, err := svc.Submit(context.Background(), "a@example.com", "s")
	assert.ErrorIs(t, err, storeErr)
}
