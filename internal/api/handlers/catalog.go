package handlers

import (
	"net/http"

	"nev-montecarlo/internal/api/models"
	"nev-montecarlo/internal/config"
	"nev-montecarlo/internal/intangible"
	"nev-montecarlo/internal/model"

	"github.com/gin-gonic/gin"
)

var kindDescriptions = map[model.StrategyKind]string{
	model.KindContinue:  "Continue the current operation on calibrated prices and costs.",
	model.KindFranchise: "Switch to the franchise model: new pricing and royalty, one-off renovation.",
	model.KindSell:      "Sell now: receive the offer and retire outstanding debt.",
}

// CatalogHandler lists the configured scenarios and strategies.
type CatalogHandler struct {
	cfg *config.Config
}

func NewCatalogHandler(cfg *config.Config) *CatalogHandler {
	return &CatalogHandler{cfg: cfg}
}

// ListScenarios handles GET /api/v1/scenarios
func (h *CatalogHandler) ListScenarios(c *gin.Context) {
	catalog := h.cfg.ToCatalog()
	out := make([]models.ScenarioInfo, 0, len(catalog.Scenarios))
	for _, s := range catalog.Scenarios {
		out = append(out, models.ScenarioInfo{Scenario: s})
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": out, "horizons": catalog.Horizons})
}

// ListStrategies handles GET /api/v1/strategies
func (h *CatalogHandler) ListStrategies(c *gin.Context) {
	catalog := h.cfg.ToCatalog()
	v := intangible.NewValuator(h.cfg.ToRates())
	out := make([]models.StrategyInfo, 0, len(catalog.Strategies))
	for _, d := range catalog.Strategies {
		out = append(out, models.StrategyInfo{
			Name:        d.Name,
			Kind:        string(d.Kind),
			Description: kindDescriptions[d.Kind],
			Intangible:  v.Explain(d.Intangible),
		})
	}
	c.JSON(http.StatusOK, gin.H{"strategies": out, "benchmark": catalog.Benchmark})
}
