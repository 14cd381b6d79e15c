package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dairy-dashboard/charts"
	"dairy-dashboard/export"
	"dairy-dashboard/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MapPNG renders the cluster subset as a bar chart image.
func (h *Handler) MapPNG(c *gin.Context) {
	var q MapQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cluster must be one of 0, 1, 2"})
		return
	}

	records, err := h.mapRecords(q.Cluster)
	if err != nil {
		h.fail(c, "Map query failed", err)
		return
	}
	var buf bytes.Buffer
	if err := charts.RenderCluster(&buf, q.Cluster, records); err != nil {
		h.fail(c, "Map chart rendering failed", err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// SeriesPNG renders the time series of one country as a line chart image.
func (h *Handler) SeriesPNG(c *gin.Context) {
	var q SeriesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": productError})
		return
	}
	if q.Product == "" {
		q.Product = models.ProductRawMilk
	}
	country := strings.TrimSpace(q.Country)

	records, err := h.seriesRecords(country, q.Product)
	if err != nil {
		h.fail(c, "Series query failed", err)
		return
	}
	var buf bytes.Buffer
	if err := charts.RenderSeries(&buf, country, records); err != nil {
		h.fail(c, "Series chart rendering failed", err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

type ExportQuery struct {
	Cluster int    `form:"cluster,default=0" binding:"oneof=0 1 2"`
	Product string `form:"product" binding:"omitempty,product"`
}

// Export downloads the map subset of a cluster together with the chosen
// product's series for each country on the map.
func (h *Handler) Export(c *gin.Context) {
	var q ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if q.Product == "" {
		q.Product = models.ProductRawMilk
	}

	wb, err := export.Build(h.source, q.Cluster, q.Product)
	if err != nil {
		h.fail(c, "Export query failed", err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, wb); err != nil {
		h.fail(c, "Export failed", err)
		return
	}
	filename := fmt.Sprintf("dairy_cluster%d_%s.xlsx", q.Cluster, strings.ReplaceAll(strings.ToLower(q.Product), " ", "_"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *Handler) fail(c *gin.Context, msg string, err error) {
	h.log.Error(msg, zap.Error(err))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
