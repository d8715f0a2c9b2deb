package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/martijn/clustercalm/internal/core/domain"
	"github.com/martijn/clustercalm/internal/core/service"
	"github.com/martijn/clustercalm/internal/infrastructure/sqlite"
	"github.com/martijn/clustercalm/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, scope string) (*gin.Engine, *service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	authService := service.NewAuthService(sqlite.NewUserRepository(db), sqlite.NewClientRepository(db), "test-secret", "HS256")

	router := gin.New()
	router.GET("/protected", AuthMiddleware(authService), RequireScope(scope), func(c *gin.Context) {
		claims, _ := GetAuthClaims(c)
		c.String(http.StatusOK, claims.ActorID())
	})
	return router, authService
}

func get(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set(AuthHeaderKey, header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	router, authService := newRouter(t, domain.ScopeClustersRead)
	ctx := context.Background()

	assert.Equal(t, http.StatusUnauthorized, get(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "Bearer garbage").Code)

	_, err := authService.CreateUser(ctx, "admin", "pw")
	require.NoError(t, err)
	token, err := authService.AuthenticateUser(ctx, "admin", "pw")
	require.NoError(t, err)

	w := get(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", w.Body.String())
}

func TestRequireScope(t *testing.T) {
	router, authService := newRouter(t, domain.ScopeClustersWrite)
	ctx := context.Background()

	reader, readerSecret, err := authService.CreateClient(ctx, "reader", []string{domain.ScopeClustersRead})
	require.NoError(t, err)
	writer, writerSecret, err := authService.CreateClient(ctx, "writer", []string{domain.ScopeClustersWrite})
	require.NoError(t, err)

	readToken, err := authService.AuthenticateClient(ctx, reader.ID, readerSecret)
	require.NoError(t, err)
	writeToken, err := authService.AuthenticateClient(ctx, writer.ID, writerSecret)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, get(router, "Bearer "+readToken).Code)
	assert.Equal(t, http.StatusOK, get(router, "Bearer "+writeToken).Code)
}

func TestErrorHandlerMiddleware_RecoversPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := logging.New(&buf, "info", "json")

	router := gin.New()
	router.Use(RequestLogger(logger), ErrorHandlerMiddleware(logger))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "An unexpected error occurred")
	assert.Contains(t, buf.String(), "panic while handling request")
	assert.Contains(t, buf.String(), `"status":500`)
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware([]string{"https://ui.example.com"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://ui.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://ui.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
