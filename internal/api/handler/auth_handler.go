package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/martijn/clustercalm/internal/api/dto"
	"github.com/martijn/clustercalm/internal/core/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type grant struct {
	// fields returns the identifier and secret for the grant, empty when missing
	fields       func(req *dto.TokenRequest) (string, string)
	missing      string
	authenticate func(ctx context.Context, id, secret string) (string, error)
}

func (h *AuthHandler) grants() map[string]grant {
	return map[string]grant{
		dto.GrantPassword: {
			fields:       func(r *dto.TokenRequest) (string, string) { return r.Username, r.Password },
			missing:      "username and password are required for the password grant",
			authenticate: h.authService.AuthenticateUser,
		},
		dto.GrantClientCredentials: {
			fields:       func(r *dto.TokenRequest) (string, string) { return r.ClientID, r.ClientSecret },
			missing:      "client_id and client_secret are required for the client_credentials grant",
			authenticate: h.authService.AuthenticateClient,
		},
	}
}

// Token handles POST /auth/token
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, err.Error())
		return
	}

	g, ok := h.grants()[req.GrantType]
	if !ok {
		abortWith(c, http.StatusBadRequest, "grant_type must be password or client_credentials")
		return
	}
	id, secret := g.fields(&req)
	if id == "" || secret == "" {
		abortWith(c, http.StatusBadRequest, g.missing)
		return
	}

	token, err := g.authenticate(c.Request.Context(), id, secret)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		abortWith(c, http.StatusUnauthorized, "Invalid credentials")
		return
	case err != nil:
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(service.TokenExpiration.Seconds()),
	})
}
