package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dairy-dashboard/dataset"
	"dairy-dashboard/figures"
	"dairy-dashboard/models"
)

type StatsQuery struct {
	Year    int    `form:"year" binding:"omitempty,min=1900,max=2100"`
	Product string `form:"product" binding:"omitempty,product"`
}

// GetOptions lists the values of both dropdowns and the initial selection.
func (h *Handler) GetOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"clusters": models.Clusters,
		"products": models.Products,
		"default": models.Selection{
			Cluster: 0,
			Product: models.ProductRawMilk,
			Country: figures.DefaultHoverCountry,
		},
	})
}

func (h *Handler) GetCountries(c *gin.Context) {
	countries, err := h.source.Countries()
	if err != nil {
		h.fail(c, "Country query failed", err)
		return
	}
	c.JSON(http.StatusOK, countries)
}

// GetStats summarises every cluster for a year and product, defaulting to
// the slice shown on the map.
func (h *Handler) GetStats(c *gin.Context) {
	var q StatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if q.Year == 0 {
		q.Year = dataset.MapYear
	}
	if q.Product == "" {
		q.Product = dataset.MapProduct
	}

	summaries, err := h.source.Summaries(q.Year, q.Product)
	if err != nil {
		h.fail(c, "Stats query failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"year":     q.Year,
		"product":  q.Product,
		"clusters": summaries,
	})
}
