package handlers

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pv-pipeline/internal/analysis"
	"pv-pipeline/internal/api/models"
	"pv-pipeline/internal/config"
	"pv-pipeline/internal/data"
	"pv-pipeline/internal/pipeline"
	"pv-pipeline/internal/store"
)

// BundleHandler builds bundles and keeps them addressable by id for
// follow-up stats/aggregate/export calls within the server's lifetime.
type BundleHandler struct {
	cache *data.BundleCache

	mu    sync.RWMutex
	built map[string]*pipeline.Bundle
}

func NewBundleHandler(cache *data.BundleCache) *BundleHandler {
	return &BundleHandler{
		cache: cache,
		built: make(map[string]*pipeline.Bundle),
	}
}

// buildCached runs the pipeline for a config path, consulting the cache.
func (h *BundleHandler) buildCached(configPath string) (*pipeline.Bundle, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	key, keyErr := h.cache.Key(configPath, cfg.File)
	if keyErr == nil {
		if b, ok := h.cache.Get(key); ok {
			return b, nil
		}
	}
	b, err := pipeline.Build(cfg)
	if err != nil {
		return nil, err
	}
	if keyErr == nil {
		h.cache.Set(key, b)
	}
	return b, nil
}

func (h *BundleHandler) lookup(id string) (*pipeline.Bundle, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	b, ok := h.built[id]
	return b, ok
}

// BuildBundle handles POST /api/v1/bundles.
func (h *BundleHandler) BuildBundle(c *gin.Context) {
	var req models.BuildBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}

	b, err := h.buildCached(req.ConfigPath)
	if err != nil {
		writeError(c, err)
		return
	}

	id := uuid.NewString()
	h.mu.Lock()
	h.built[id] = b
	h.mu.Unlock()

	resp := models.BundleResponse{
		ID:      id,
		Status:  "ok",
		Summary: summarize(b),
	}
	if req.Options.IncludeRows {
		rows, err := seriesRows(b, req.Options.LimitRows)
		if err != nil {
			writeError(c, err)
			return
		}
		resp.Rows = rows
	}
	c.JSON(http.StatusOK, resp)
}

// GetBundle handles GET /api/v1/bundles/:id.
func (h *BundleHandler) GetBundle(c *gin.Context) {
	b, ok := h.lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "unknown bundle id"},
		})
		return
	}
	c.JSON(http.StatusOK, models.BundleResponse{
		ID:      c.Param("id"),
		Status:  "ok",
		Summary: summarize(b),
	})
}

// GetStats handles GET /api/v1/bundles/:id/stats.
func (h *BundleHandler) GetStats(c *gin.Context) {
	b, ok := h.lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "unknown bundle id"},
		})
		return
	}
	st := analysis.ComputeStats(b)
	c.JSON(http.StatusOK, models.StatsResponse{
		Name:            st.Name,
		Role:            string(st.Role),
		Rows:            st.Rows,
		IntervalMinutes: st.IntervalMinutes,
		Start:           st.Start,
		End:             st.End,
		UniqueDays:      st.UniqueDays,
		SumKW:           st.SumKW,
		MeanKW:          st.MeanKW,
		PeakKW:          st.PeakKW,
		MinKW:           st.MinKW,
		MinAt:           st.MinAt,
		MaxKW:           st.MaxKW,
		MaxAt:           st.MaxAt,
		AnnualKWh:       st.AnnualKWh,
		CapacityFactor:  st.CapacityFactor,
	})
}

// GetAggregate handles GET /api/v1/bundles/:id/aggregate?period=hourly.
func (h *BundleHandler) GetAggregate(c *gin.Context) {
	b, ok := h.lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "unknown bundle id"},
		})
		return
	}
	period := analysis.Period(c.DefaultQuery("period", string(analysis.PeriodHourly)))
	agg, err := analysis.Aggregate(b, period)
	if err != nil {
		writeError(c, err)
		return
	}
	rows, err := seriesRows(agg, 0)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.BundleResponse{
		ID:      c.Param("id"),
		Status:  "ok",
		Summary: summarize(agg),
		Rows:    rows,
	})
}

// ExportXLSX handles GET /api/v1/bundles/:id/export.xlsx.
func (h *BundleHandler) ExportXLSX(c *gin.Context) {
	b, ok := h.lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "unknown bundle id"},
		})
		return
	}
	raw, err := store.BuildBundleXLSX(b)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", b.Name+".xlsx"))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", raw)
}

func summarize(b *pipeline.Bundle) models.BundleSummary {
	s := models.BundleSummary{
		Name:            b.Name,
		Unit:            string(b.Unit),
		DeclaredUnit:    string(b.DeclaredUnit),
		IntervalMinutes: b.IntervalMinutes,
		Role:            string(b.Role),
		Inverted:        b.Inverted,
		Rows:            len(b.Series),
		TotalKWh:        b.TotalKWh(),
		PeakKW:          b.Series.MaxAbs(),
		MeanKW:          b.Series.Mean(),
		Transforms:      b.Log,
		Continuity: models.ContinuityInfo{
			ExpectedRows: b.Report.ExpectedRows,
			ActualRows:   b.Report.ActualRows,
			GapsRepaired: len(b.Report.Missing),
			Interpolated: b.Report.Interpolated,
			ZeroFilled:   b.Report.ZeroFilled,
			Snapped:      b.Report.Snapped,
			Missing:      b.Report.Missing,
		},
	}
	if len(b.Series) > 0 {
		s.Window = models.TimeWindow{
			Start: b.Series.First().Timestamp,
			End:   b.Series.Last().Timestamp,
		}
	}
	if b.Scaling != nil {
		s.Scaling = &models.ScalingInfo{
			Kind:   string(b.Scaling.Kind),
			Target: b.Scaling.Target,
			Factor: b.Scaling.Factor,
		}
	}
	return s
}

func seriesRows(b *pipeline.Bundle, limit int) ([]models.SeriesRow, error) {
	energy, err := b.EnergySeries()
	if err != nil {
		return nil, err
	}
	n := len(b.Series)
	if limit > 0 && limit < n {
		n = limit
	}
	rows := make([]models.SeriesRow, n)
	for i := 0; i < n; i++ {
		rows[i] = models.SeriesRow{
			Timestamp: b.Series[i].Timestamp,
			KW:        b.Series[i].Value,
			KWh:       energy[i].Value,
		}
	}
	return rows, nil
}
