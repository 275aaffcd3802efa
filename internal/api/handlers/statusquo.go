package handlers

import (
	"fmt"
	"net/http"

	"nev-montecarlo/internal/api/models"
	"nev-montecarlo/internal/config"
	"nev-montecarlo/internal/model"
	"nev-montecarlo/internal/montecarlo"
	"nev-montecarlo/internal/projection"

	"github.com/gin-gonic/gin"
)

// StatusQuoHandler serves deterministic projections.
type StatusQuoHandler struct {
	cfg *config.Config
}

func NewStatusQuoHandler(cfg *config.Config) *StatusQuoHandler {
	return &StatusQuoHandler{cfg: cfg}
}

// StatusQuo handles POST /api/v1/status-quo. With ?format=csv the ledger
// is returned as CSV.
func (h *StatusQuoHandler) StatusQuo(c *gin.Context) {
	var req models.StatusQuoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	cfg, err := resolveConfig(h.cfg, req.ConfigYAML)
	if err != nil {
		respondError(c, err)
		return
	}
	params, err := calibrate(req.CalibrationInput, cfg)
	if err != nil {
		respondError(c, err)
		return
	}

	catalog := cfg.ToCatalog()
	scenarioName := req.Scenario
	if scenarioName == "" && len(catalog.Scenarios) > 0 {
		scenarioName = catalog.Scenarios[0].Name
	}
	rep, err := montecarlo.StatusQuo(params, catalog, scenarioName, req.Strategy, model.Horizon(req.Horizon), cfg.ToOptions())
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "status-quo-"+rep.Strategy+".csv"))
		c.Status(http.StatusOK)
		_ = projection.EncodeLedgerCSV(c.Writer, rep.Ledger)
		return
	}
	c.JSON(http.StatusOK, rep)
}
