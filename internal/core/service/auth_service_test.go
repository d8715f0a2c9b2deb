package service

import (
	"context"
	"testing"

	"github.com/martijn/clustercalm/internal/core/domain"
	"github.com/martijn/clustercalm/internal/infrastructure/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAuthService(sqlite.NewUserRepository(db), sqlite.NewClientRepository(db), "test-secret", "HS256")
}

func TestAuthService_UserTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	_, err := svc.CreateUser(ctx, "admin", "correct horse")
	require.NoError(t, err)

	token, err := svc.AuthenticateUser(ctx, "admin", "correct horse")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.ActorID())
	assert.Equal(t, SubjectUser, claims.SubjectType)
	assert.Equal(t, []string{domain.ScopeAll}, claims.Scopes)
}

func TestAuthService_RejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	_, err := svc.CreateUser(ctx, "admin", "correct horse")
	require.NoError(t, err)

	_, err = svc.AuthenticateUser(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.AuthenticateUser(ctx, "nobody", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.AuthenticateClient(ctx, "missing", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_ClientCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	client, secret, err := svc.CreateClient(ctx, "ci", []string{domain.ScopeClustersRead})
	require.NoError(t, err)
	assert.Len(t, secret, 64)

	token, err := svc.AuthenticateClient(ctx, client.ID, secret)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, client.ID, claims.Subject)
	assert.Equal(t, SubjectClient, claims.SubjectType)
	assert.Equal(t, []string{domain.ScopeClustersRead}, claims.Scopes)

	_, _, err = svc.CreateClient(ctx, "bad", []string{"root"})
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestAuthService_RejectsForeignTokens(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)
	_, err := svc.CreateUser(ctx, "admin", "correct horse")
	require.NoError(t, err)

	token, err := svc.AuthenticateUser(ctx, "admin", "correct horse")
	require.NoError(t, err)

	other := NewAuthService(nil, nil, "another-secret", "HS256")
	_, err = other.ValidateToken(token)
	assert.Error(t, err)

	hs512 := NewAuthService(nil, nil, "test-secret", "HS512")
	_, err = hs512.ValidateToken(token)
	assert.Error(t, err)

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestAuthService_UserManagement(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	_, err := svc.CreateUser(ctx, "admin", "first password")
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, "admin", "another one")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "user already exists: admin", vErr.Message)

	require.NoError(t, svc.SetPassword(ctx, "admin", "second password"))
	_, err = svc.AuthenticateUser(ctx, "admin", "first password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.AuthenticateUser(ctx, "admin", "second password")
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.SetPassword(ctx, "ghost", "whatever"), ErrUserNotFound)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)

	require.NoError(t, svc.DeleteUser(ctx, "admin"))
	assert.ErrorIs(t, svc.DeleteUser(ctx, "admin"), ErrUserNotFound)
}

func TestAuthService_ClientManagement(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	client, _, err := svc.CreateClient(ctx, "ci", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.ScopeAll}, client.Scopes)

	updated, err := svc.UpdateClient(ctx, client.ID, " deploy ", nil)
	require.NoError(t, err)
	assert.Equal(t, "deploy", updated.Label)
	assert.Equal(t, []string{domain.ScopeAll}, updated.Scopes)

	updated, err = svc.UpdateClient(ctx, client.ID, "deploy", []string{domain.ScopeClustersRead})
	require.NoError(t, err)
	assert.Equal(t, []string{domain.ScopeClustersRead}, updated.Scopes)

	found, err := svc.GetClient(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.ScopeClustersRead}, found.Scopes)

	_, err = svc.UpdateClient(ctx, client.ID, "deploy", []string{"root"})
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	_, err = svc.UpdateClient(ctx, client.ID, "", nil)
	assert.ErrorAs(t, err, &vErr)

	clients, err := svc.ListClients(ctx)
	require.NoError(t, err)
	assert.Len(t, clients, 1)

	require.NoError(t, svc.DeleteClient(ctx, client.ID))
	assert.ErrorIs(t, svc.DeleteClient(ctx, client.ID), ErrClientNotFound)
	_, err = svc.GetClient(ctx, client.ID)
	assert.ErrorIs(t, err, ErrClientNotFound)
	_, err = svc.UpdateClient(ctx, "missing", "x", nil)
	assert.ErrorIs(t, err, ErrClientNotFound)
}
