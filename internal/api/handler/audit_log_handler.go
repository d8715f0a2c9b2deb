package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/martijn/clustercalm/internal/api/dto"
	"github.com/martijn/clustercalm/internal/api/util"
	"github.com/martijn/clustercalm/internal/core/repository"
	"github.com/martijn/clustercalm/internal/core/service"
)

var auditLogSchema = util.ListSchema{
	QueryFields: []string{"actor_id", "entity_type", "entity_id", "cluster_id", "created_at"},
	OrderFields: []string{"created_at", "actor_id", "entity_type"},
}

type AuditLogHandler struct {
	auditLogService *service.AuditLogService
}

func NewAuditLogHandler(auditLogService *service.AuditLogService) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogService: auditLogService,
	}
}

// ListAuditLogs handles GET /audit-logs
func (h *AuditLogHandler) ListAuditLogs(c *gin.Context) {
	listFilter, ok := parseListFilter(c, auditLogSchema)
	if !ok {
		return
	}

	entries, total, err := h.auditLogService.List(c.Request.Context(), repository.AuditLogFilter{ListFilter: listFilter})
	if err != nil {
		respondError(c, err)
		return
	}

	response := dto.AuditLogListResponse{
		Items:      make([]dto.AuditLogResponse, len(entries)),
		Pagination: dto.NewPaginationInfo(total, listFilter.Page, listFilter.PerPage),
	}
	for i, entry := range entries {
		response.Items[i] = toAuditLogResponse(entry)
	}

	c.JSON(http.StatusOK, response)
}
