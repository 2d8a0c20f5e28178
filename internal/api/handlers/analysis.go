package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pv-pipeline/internal/analysis"
	"pv-pipeline/internal/api/models"
	"pv-pipeline/internal/model"
	"pv-pipeline/internal/pipeline"
)

// AnalysisHandler serves the multi-bundle calculations.
type AnalysisHandler struct {
	bundles *BundleHandler
}

func NewAnalysisHandler(bundles *BundleHandler) *AnalysisHandler {
	return &AnalysisHandler{bundles: bundles}
}

func (h *AnalysisHandler) buildAll(paths []string) ([]*pipeline.Bundle, error) {
	out := make([]*pipeline.Bundle, 0, len(paths))
	for _, p := range paths {
		b, err := h.bundles.buildCached(p)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// SelfConsumption handles POST /api/v1/analysis/selfconsumption.
func (h *AnalysisHandler) SelfConsumption(c *gin.Context) {
	var req models.SelfConsumptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}
	bundles, err := h.buildAll(req.ConfigPaths)
	if err != nil {
		writeError(c, err)
		return
	}
	sc, err := analysis.ComputeSelfConsumption(bundles)
	if err != nil {
		writeError(c, err)
		return
	}
	hours := float64(sc.IntervalMinutes) / 60.0
	c.JSON(http.StatusOK, models.SelfConsumptionResponse{
		IntervalMinutes: sc.IntervalMinutes,
		Rows:            len(sc.SelfUse),
		LoadKWh:         sc.Load.Sum() * hours,
		GenerationKWh:   sc.Generation.Sum() * hours,
		SelfUseKWh:      sc.SelfUse.Sum() * hours,
		FeedInKWh:       sc.FeedIn.Sum() * hours,
		GridUseKWh:      sc.GridUse.Sum() * hours,
	})
}

// Storage handles POST /api/v1/analysis/storage.
func (h *AnalysisHandler) Storage(c *gin.Context) {
	var req models.StorageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}
	bundles, err := h.buildAll(req.ConfigPaths)
	if err != nil {
		writeError(c, err)
		return
	}
	sc, err := analysis.ComputeSelfConsumption(bundles)
	if err != nil {
		writeError(c, err)
		return
	}

	initialSOC := req.Battery.InitialSOC
	if initialSOC == 0 {
		initialSOC = req.Battery.MinSOC
	}
	batt, err := model.NewBattery(model.BatteryParams{
		CapacityKWh:         req.Battery.CapacityKWh,
		MaxChargePowerKW:    req.Battery.MaxChargePowerKW,
		MaxDischargePowerKW: req.Battery.MaxDischargePowerKW,
		ChargeEfficiency:    req.Battery.ChargeEfficiency,
		DischargeEfficiency: req.Battery.DischargeEfficiency,
		MinSOC:              req.Battery.MinSOC,
		MaxSOC:              req.Battery.MaxSOC,
		SelfDischargeRate:   req.Battery.SelfDischargeRate,
	}, initialSOC)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_BATTERY", Message: err.Error()},
		})
		return
	}

	res, err := analysis.SimulateStorage(sc, batt)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.StorageResponse{
		Intervals:          len(res.Ledger),
		TotalChargedKWh:    res.TotalChargedKWh,
		TotalDischargedKWh: res.TotalDischargedKWh,
		TotalFeedInKWh:     res.TotalFeedInKWh,
		TotalGridUseKWh:    res.TotalGridUseKWh,
		FinalSOC:           res.FinalSOC,
	})
}
