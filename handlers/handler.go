package handlers

import (
	"fmt"
	"net/http"
	"reflect"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"dairy-dashboard/dataset"
	"dairy-dashboard/metrics"
	"dairy-dashboard/models"
	"dairy-dashboard/templates"
)

// PriceSource answers the dashboard queries. Both *dataset.Dataset and
// *database.Store implement it.
type PriceSource interface {
	MapRecords(cluster int) ([]models.PriceRecord, error)
	SeriesRecords(country, product string) ([]models.PriceRecord, error)
	Countries() ([]string, error)
	Summaries(year int, product string) ([]models.ClusterSummary, error)
}

type Handler struct {
	data    *dataset.Dataset
	source  PriceSource
	metrics *metrics.Recorder
	log     *zap.Logger
}

// New wires the handlers to a loaded dataset. Queries go to source when it
// is non-nil, otherwise to the dataset itself.
func New(data *dataset.Dataset, source PriceSource, rec *metrics.Recorder, log *zap.Logger) (*Handler, error) {
	if source == nil {
		source = data
	}
	if err := registerValidators(); err != nil {
		return nil, err
	}
	return &Handler{data: data, source: source, metrics: rec, log: log}, nil
}

// Register mounts every route on r.
func (h *Handler) Register(r *gin.Engine) {
	r.SetHTMLTemplate(templates.Parse())

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard")
	})
	r.GET("/dashboard", h.Dashboard)
	r.GET("/healthz", h.Health)
	r.GET("/metrics", h.metrics.Handler())

	api := r.Group("/api")
	{
		api.GET("/map", h.GetMap)
		api.GET("/series", h.GetSeries)
		api.POST("/series", h.PostSeries)
		api.GET("/options", h.GetOptions)
		api.GET("/countries", h.GetCountries)
		api.GET("/stats", h.GetStats)
	}

	r.GET("/charts/map.png", h.MapPNG)
	r.GET("/charts/series.png", h.SeriesPNG)
	r.GET("/export.xlsx", h.Export)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "records": h.data.Len()})
}

func (h *Handler) mapRecords(cluster int) ([]models.PriceRecord, error) {
	start := time.Now()
	records, err := h.source.MapRecords(cluster)
	if err != nil {
		return nil, err
	}
	h.metrics.ObserveQuery(metrics.KindMap, start, len(records))
	return records, nil
}

// seriesRecords returns an empty series without querying when no country
// is selected.
func (h *Handler) seriesRecords(country, product string) ([]models.PriceRecord, error) {
	if country == "" {
		h.metrics.NoSelection()
		return []models.PriceRecord{}, nil
	}
	start := time.Now()
	records, err := h.source.SeriesRecords(country, product)
	if err != nil {
		return nil, err
	}
	h.metrics.ObserveQuery(metrics.KindSeries, start, len(records))
	return records, nil
}

var (
	registerOnce sync.Once
	registerErr  error
)

// registerValidators adds the "product" tag to gin's validator. gin's
// validator is process-wide, so this runs once.
func registerValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		err := v.RegisterValidation("product", func(fl validator.FieldLevel) bool {
			if fl.Field().Kind() != reflect.String {
				return false
			}
			return models.IsProduct(fl.Field().String())
		})
		if err != nil {
			registerErr = fmt.Errorf("register product validator: %w", err)
		}
	})
	return registerErr
}
