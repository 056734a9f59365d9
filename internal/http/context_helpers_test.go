package httpx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/confide/confide/internal/domain/auth"
	"github.com/confide/confide/internal/domain/model"
)

func TestSessionContextRoundTrip(t *testing.T) {
	session := &domainauth.Session{
		ID:   "sess-1",
		User: model.User{ID: 1, Email: "alice@example.com"},
	}

	ctx := SetSessionInContext(context.Background(), session)

	got, ok := GetUserSessionFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, session, got)
	assert.True(t, IsAuthenticated(ctx))
}

func TestSessionContext_NilSessionLeavesContextUnchanged(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, SetSessionInContext(ctx, nil))
}

func TestSessionContext_EmptyContext(t *testing.T) {
	ctx := context.Background()

	_, ok := GetUserSessionFromContext(ctx)
	assert.False(t, ok)
	assert.Nil(t, GetSessionFromContext(ctx))
	assert.False(t, IsAuthenticated(ctx))
}
