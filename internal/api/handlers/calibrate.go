package handlers

import (
	"net/http"

	"nev-montecarlo/internal/api/models"
	"nev-montecarlo/internal/config"

	"github.com/gin-gonic/gin"
)

// CalibrateHandler exposes the calibrator.
type CalibrateHandler struct {
	cfg *config.Config
}

func NewCalibrateHandler(cfg *config.Config) *CalibrateHandler {
	return &CalibrateHandler{cfg: cfg}
}

// Calibrate handles POST /api/v1/calibrate
func (h *CalibrateHandler) Calibrate(c *gin.Context) {
	var req models.CalibrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	params, err := calibrate(req.CalibrationInput, h.cfg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CalibrateResponse{Params: params})
}
