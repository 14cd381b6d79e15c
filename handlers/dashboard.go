package handlers

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dairy-dashboard/figures"
	"dairy-dashboard/models"
)

type DashboardData struct {
	Title     string
	Clusters  []models.ClusterOption
	Products  []string
	Selection models.Selection
	Message   string
	MapJSON   template.JS
	ChartJSON template.JS
}

type DashboardQuery struct {
	Cluster int    `form:"cluster,default=0" binding:"oneof=0 1 2"`
	Product string `form:"product" binding:"omitempty,product"`
	Country string `form:"country"`
}

// Dashboard renders the page with both panels already filled in, so the
// first paint needs no API round trip.
func (h *Handler) Dashboard(c *gin.Context) {
	var q DashboardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"error": "Invalid selection"})
		return
	}
	if q.Product == "" {
		q.Product = models.ProductRawMilk
	}
	if q.Country == "" {
		country, _ := figures.DefaultHover().Country()
		q.Country = country
	}

	mapResp, err := h.buildMap(q.Cluster)
	if err != nil {
		h.failPage(c, "Map query failed", err)
		return
	}
	seriesResp, err := h.buildSeries(q.Country, q.Product)
	if err != nil {
		h.failPage(c, "Series query failed", err)
		return
	}

	mapJSON, err := json.Marshal(mapResp.Figure)
	if err != nil {
		h.failPage(c, "Map rendering failed", err)
		return
	}
	chartJSON, err := json.Marshal(seriesResp.Figure)
	if err != nil {
		h.failPage(c, "Chart rendering failed", err)
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", DashboardData{
		Title:    "Dairy product prices in the EU",
		Clusters: models.Clusters,
		Products: models.Products,
		Selection: models.Selection{
			Cluster: q.Cluster,
			Product: q.Product,
			Country: q.Country,
		},
		Message:   mapResp.Message,
		MapJSON:   template.JS(mapJSON),
		ChartJSON: template.JS(chartJSON),
	})
}

// failPage is fail for server-rendered pages.
func (h *Handler) failPage(c *gin.Context, msg string, err error) {
	h.log.Error(msg, zap.Error(err))
	_ = c.Error(err)
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": msg})
}
