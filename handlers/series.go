package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dairy-dashboard/figures"
	"dairy-dashboard/models"
)

type SeriesQuery struct {
	Country string `form:"country"`
	Product string `form:"product" binding:"omitempty,product"`
}

// SeriesRequest is the body the page posts when the map is hovered.
type SeriesRequest struct {
	HoverData json.RawMessage `json:"hoverData"`
	Product   string          `json:"product" binding:"omitempty,product"`
}

type SeriesResponse struct {
	Country  string               `json:"country"`
	Selected bool                 `json:"selected"`
	Product  string               `json:"product"`
	Figure   figures.Figure       `json:"figure"`
	Records  []models.PriceRecord `json:"records"`
}

const productError = "product must be one of Raw Milk, SMP, Butter, Whey Powder"

// GetSeries answers a product dropdown change for an explicit country.
// Without a country it renders the empty chart.
func (h *Handler) GetSeries(c *gin.Context) {
	var q SeriesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": productError})
		return
	}

	h.respondSeries(c, strings.TrimSpace(q.Country), q.Product)
}

// PostSeries answers a map hover event. A hover event without a usable
// country counts as no selection.
func (h *Handler) PostSeries(c *gin.Context) {
	var req SeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	country, ok := figures.ParseHover(req.HoverData)
	if !ok {
		h.log.Debug("Hover event without country", zap.ByteString("hover", req.HoverData))
	}
	h.respondSeries(c, country, req.Product)
}

func (h *Handler) respondSeries(c *gin.Context, country, product string) {
	resp, err := h.buildSeries(country, product)
	if err != nil {
		h.fail(c, "Series query failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) buildSeries(country, product string) (SeriesResponse, error) {
	if product == "" {
		product = models.ProductRawMilk
	}
	records, err := h.seriesRecords(country, product)
	if err != nil {
		return SeriesResponse{}, err
	}
	return SeriesResponse{
		Country:  country,
		Selected: country != "",
		Product:  product,
		Figure:   figures.SeriesFigure(country, records),
		Records:  records,
	}, nil
}
