package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/martijn/clustercalm/internal/api/dto"
	"github.com/martijn/clustercalm/internal/core/domain"
	"github.com/martijn/clustercalm/internal/core/service"
)

type PropagationHandler struct {
	propagationService *service.PropagationService
}

func NewPropagationHandler(propagationService *service.PropagationService) *PropagationHandler {
	return &PropagationHandler{
		propagationService: propagationService,
	}
}

// PreviewPropagation handles GET /clusters/:id/propagation/preview
func (h *PropagationHandler) PreviewPropagation(c *gin.Context) {
	clusterID, ok := uuidParam(c, "id", "cluster")
	if !ok {
		return
	}

	opts, err := previewOptions(c)
	if err != nil {
		abortWith(c, http.StatusBadRequest, err.Error())
		return
	}

	changes, err := h.propagationService.PreviewPropagation(c.Request.Context(), clusterID, opts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPropagationChanges(changes))
}

// ApplyPropagation handles POST /clusters/:id/propagation/apply
func (h *PropagationHandler) ApplyPropagation(c *gin.Context) {
	clusterID, ok := uuidParam(c, "id", "cluster")
	if !ok {
		return
	}

	var req dto.PropagationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.propagationService.ApplyPropagation(c.Request.Context(), actorID(c), clusterID, domain.PropagationOptions{
		ApplyStorage:       req.ApplyStorage,
		ApplySchedule:      req.ApplySchedule,
		ApplyEnableBackups: req.ApplyEnableBackups,
		RespectExclusions:  req.RespectExclusions,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response := dto.PropagationApplyResponse{
		Items:    toPropagationChanges(result.Items),
		Failures: make([]dto.PropagationFailure, len(result.Failures)),
		Summary: dto.PropagationSummary{
			Applied: result.Applied(),
			Failed:  result.Failed(),
		},
	}
	for i, f := range result.Failures {
		response.Failures[i] = dto.PropagationFailure{
			DatabaseID: f.DatabaseID.String(),
			Name:       f.Name,
			Error:      f.Error,
		}
	}

	c.JSON(http.StatusOK, response)
}

// previewOptions reads the options from the query string. Both camelCase and
// snake_case names are accepted, with any strconv.ParseBool value.
func previewOptions(c *gin.Context) (domain.PropagationOptions, error) {
	var opts domain.PropagationOptions
	fields := []struct {
		camel, snake string
		dst          *bool
	}{
		{"applyStorage", "apply_storage", &opts.ApplyStorage},
		{"applySchedule", "apply_schedule", &opts.ApplySchedule},
		{"applyEnableBackups", "apply_enable_backups", &opts.ApplyEnableBackups},
		{"respectExclusions", "respect_exclusions", &opts.RespectExclusions},
	}

	for _, f := range fields {
		name := f.camel
		raw, ok := c.GetQuery(name)
		if !ok {
			name = f.snake
			raw, ok = c.GetQuery(name)
		}
		if !ok || raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, fmt.Errorf("%s must be a boolean, got %q", name, raw)
		}
		*f.dst = v
	}
	return opts, nil
}
