package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/martijn/clustercalm/internal/api/dto"
	"github.com/martijn/clustercalm/internal/core/domain"
	"github.com/martijn/clustercalm/internal/core/service"
)

type DatabaseHandler struct {
	databaseService *service.DatabaseService
}

func NewDatabaseHandler(databaseService *service.DatabaseService) *DatabaseHandler {
	return &DatabaseHandler{
		databaseService: databaseService,
	}
}

// ListDatabases handles GET /clusters/:id/databases
func (h *DatabaseHandler) ListDatabases(c *gin.Context) {
	clusterID, ok := uuidParam(c, "id", "cluster")
	if !ok {
		return
	}

	databases, err := h.databaseService.ListByCluster(c.Request.Context(), clusterID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DatabaseListResponse{
		Items:      toDatabaseResponses(databases),
		Pagination: dto.NewPaginationInfo(len(databases), 1, 0),
	})
}

// CreateDatabase handles POST /clusters/:id/databases
func (h *DatabaseHandler) CreateDatabase(c *gin.Context) {
	clusterID, ok := uuidParam(c, "id", "cluster")
	if !ok {
		return
	}

	var req dto.DatabaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, err.Error())
		return
	}

	db, err := h.databaseService.CreateDatabase(c.Request.Context(), actorID(c), clusterID, toDatabaseSettings(&req))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toDatabaseResponse(db))
}

// GetDatabase handles GET /databases/:id
func (h *DatabaseHandler) GetDatabase(c *gin.Context) {
	id, ok := uuidParam(c, "id", "database")
	if !ok {
		return
	}

	db, err := h.databaseService.GetDatabase(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDatabaseResponse(db))
}

// UpdateDatabase handles PUT /databases/:id
func (h *DatabaseHandler) UpdateDatabase(c *gin.Context) {
	id, ok := uuidParam(c, "id", "database")
	if !ok {
		return
	}

	var req dto.DatabaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, err.Error())
		return
	}

	db, err := h.databaseService.UpdateDatabase(c.Request.Context(), actorID(c), id, toDatabaseSettings(&req))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDatabaseResponse(db))
}

func toDatabaseSettings(req *dto.DatabaseRequest) service.DatabaseSettings {
	settings := service.DatabaseSettings{
		Name:             req.Name,
		IsBackupsEnabled: req.IsBackupsEnabled,
		BackupInterval:   toDomainInterval(req.BackupInterval),
		StorageID:        req.StorageID,
	}
	if req.StorePeriod != nil {
		period := domain.StorePeriod(*req.StorePeriod)
		settings.StorePeriod = &period
	}
	return settings
}
