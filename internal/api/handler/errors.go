package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/martijn/clustercalm/internal/api/dto"
	"github.com/martijn/clustercalm/internal/api/middleware"
	"github.com/martijn/clustercalm/internal/core/service"
)

// respondError maps a service error onto its HTTP status.
func respondError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	var uErr *service.UnavailableError

	switch {
	case errors.As(err, &vErr):
		abortWith(c, http.StatusBadRequest, vErr.Message)
	case errors.Is(err, service.ErrClusterNotFound),
		errors.Is(err, service.ErrDatabaseNotFound),
		errors.Is(err, service.ErrClientNotFound):
		abortWith(c, http.StatusNotFound, err.Error())
	case errors.As(err, &uErr):
		_ = c.Error(err)
		abortWith(c, http.StatusServiceUnavailable, err.Error())
	default:
		_ = c.Error(err)
		abortWith(c, http.StatusInternalServerError, err.Error())
	}
}

func abortWith(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

// uuidParam parses a path parameter, answering 400 when it is not a uuid.
func uuidParam(c *gin.Context, name, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		abortWith(c, http.StatusBadRequest, "Invalid "+what+" ID: "+c.Param(name))
		return uuid.Nil, false
	}
	return id, true
}

// actorID is the subject of the caller's token.
func actorID(c *gin.Context) string {
	if claims, ok := middleware.GetAuthClaims(c); ok {
		return claims.ActorID()
	}
	return "anonymous"
}
