package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/martijn/clustercalm/internal/api/dto"
	"github.com/martijn/clustercalm/internal/core/service"
)

type ClusterHandler struct {
	clusterService *service.ClusterService
}

func NewClusterHandler(clusterService *service.ClusterService) *ClusterHandler {
	return &ClusterHandler{
		clusterService: clusterService,
	}
}

// CreateCluster handles POST /clusters
func (h *ClusterHandler) CreateCluster(c *gin.Context) {
	var req dto.ClusterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, err.Error())
		return
	}

	cluster, err := h.clusterService.CreateCluster(c.Request.Context(), actorID(c), toDomainCluster(&req))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toClusterResponse(cluster))
}

// GetCluster handles GET /clusters/:id
func (h *ClusterHandler) GetCluster(c *gin.Context) {
	id, ok := uuidParam(c, "id", "cluster")
	if !ok {
		return
	}

	cluster, err := h.clusterService.GetCluster(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toClusterResponse(cluster))
}

// ListClusters handles GET /clusters
func (h *ClusterHandler) ListClusters(c *gin.Context) {
	clusters, err := h.clusterService.ListClusters(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := dto.ClusterListResponse{
		Items:      make([]dto.ClusterResponse, len(clusters)),
		Pagination: dto.NewPaginationInfo(len(clusters), 1, 0),
	}
	for i, cluster := range clusters {
		response.Items[i] = toClusterResponse(cluster)
	}

	c.JSON(http.StatusOK, response)
}

// UpdateCluster handles PUT /clusters/:id
func (h *ClusterHandler) UpdateCluster(c *gin.Context) {
	id, ok := uuidParam(c, "id", "cluster")
	if !ok {
		return
	}

	var req dto.ClusterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, err.Error())
		return
	}

	cluster, err := h.clusterService.UpdateCluster(c.Request.Context(), actorID(c), id, toDomainCluster(&req))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toClusterResponse(cluster))
}

// ListLiveDatabases handles GET /clusters/:id/live-databases
func (h *ClusterHandler) ListLiveDatabases(c *gin.Context) {
	id, ok := uuidParam(c, "id", "cluster")
	if !ok {
		return
	}

	names, err := h.clusterService.ListLiveDatabases(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LiveDatabasesResponse{Items: names})
}

// SyncDatabases handles POST /clusters/:id/databases/sync
func (h *ClusterHandler) SyncDatabases(c *gin.Context) {
	id, ok := uuidParam(c, "id", "cluster")
	if !ok {
		return
	}

	created, err := h.clusterService.SyncDatabases(c.Request.Context(), actorID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SyncDatabasesResponse{
		Items:   toDatabaseResponses(created),
		Created: len(created),
	})
}
