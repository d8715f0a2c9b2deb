package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/martijn/clustercalm/internal/api/dto"
	"github.com/martijn/clustercalm/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, err := env.authService.CreateUser(ctx, "admin", "hunter2")
	require.NoError(t, err)
	client, secret, err := env.authService.CreateClient(ctx, "ci", []string{domain.ScopeClustersRead})
	require.NoError(t, err)

	tests := []struct {
		name           string
		req            dto.TokenRequest
		expectedStatus int
		expectedSub    string
	}{
		{"password grant", dto.TokenRequest{GrantType: "password", Username: "admin", Password: "hunter2"}, http.StatusOK, "admin"},
		{"wrong password", dto.TokenRequest{GrantType: "password", Username: "admin", Password: "nope"}, http.StatusUnauthorized, ""},
		{"password grant missing fields", dto.TokenRequest{GrantType: "password", Username: "admin"}, http.StatusBadRequest, ""},
		{"client credentials", dto.TokenRequest{GrantType: "client_credentials", ClientID: client.ID, ClientSecret: secret}, http.StatusOK, client.ID},
		{"wrong client secret", dto.TokenRequest{GrantType: "client_credentials", ClientID: client.ID, ClientSecret: "x"}, http.StatusUnauthorized, ""},
		{"unknown grant", dto.TokenRequest{GrantType: "authorization_code"}, http.StatusBadRequest, ""},
		{"missing grant", dto.TokenRequest{}, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.makeRequest(t, http.MethodPost, "/auth/token", tt.req)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus != http.StatusOK {
				return
			}

			resp := parseJSON[dto.TokenResponse](t, w)
			assert.Equal(t, "Bearer", resp.TokenType)
			assert.Equal(t, 3600, resp.ExpiresIn)

			claims, err := env.authService.ValidateToken(resp.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedSub, claims.ActorID())
		})
	}
}
