package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dairy-dashboard/figures"
	"dairy-dashboard/models"
)

type MapQuery struct {
	Cluster int `form:"cluster,default=0" binding:"oneof=0 1 2"`
}

type MapResponse struct {
	Message string               `json:"message"`
	Cluster int                  `json:"cluster"`
	Figure  figures.Figure       `json:"figure"`
	Records []models.PriceRecord `json:"records"`
}

// GetMap answers a cluster dropdown change.
func (h *Handler) GetMap(c *gin.Context) {
	var q MapQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cluster must be one of 0, 1, 2"})
		return
	}

	resp, err := h.buildMap(q.Cluster)
	if err != nil {
		h.fail(c, "Map query failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) buildMap(cluster int) (MapResponse, error) {
	records, err := h.mapRecords(cluster)
	if err != nil {
		return MapResponse{}, err
	}
	return MapResponse{
		Message: figures.ClusterMessage(cluster),
		Cluster: cluster,
		Figure:  figures.MapFigure(records),
		Records: records,
	}, nil
}
