package handlers

import (
	"errors"
	"net/http"

	ai "solarbot/services/intelligence"
	"solarbot/services/solar"
	"solarbot/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SolarHandler struct {
	Estimator ai.SolarEstimator
	Logger    *zap.Logger
}

func NewSolarHandler(est ai.SolarEstimator, logger *zap.Logger) *SolarHandler {
	return &SolarHandler{Estimator: est, Logger: logger}
}

type solarEstimateRequest struct {
	Address     string  `json:"address" binding:"required"`
	MonthlyBill float64 `json:"monthly_bill" binding:"required,gt=0"`
}

// Estimate returns the solar potential and economics for an address.
func (h *SolarHandler) Estimate(c *gin.Context) {
	var req solarEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid estimate request", err.Error())
		return
	}

	est, err := h.Estimator.Estimate(c.Request.Context(), req.Address, req.MonthlyBill)
	switch {
	case errors.Is(err, solar.ErrAddressNotFound), errors.Is(err, solar.ErrInvalidBill):
		utils.JSONError(c, http.StatusUnprocessableEntity, "Cannot estimate for this input", err.Error())
		return
	case errors.Is(err, solar.ErrNoSolarData):
		utils.JSONError(c, http.StatusNotFound, "No solar data for this location", "")
		return
	case err != nil:
		h.Logger.Error("Solar estimate failed", zap.String("address", req.Address), zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Solar data service error", "")
		return
	}
	c.JSON(http.StatusOK, est)
}
