package handlers

import (
	"errors"
	"net/http"

	"nev-montecarlo/internal/api/models"
	"nev-montecarlo/internal/model"

	"github.com/gin-gonic/gin"
)

func abortWith(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func invalidRequest(c *gin.Context, err error) {
	abortWith(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
}

// respondError maps the model's typed errors onto API error codes.
func respondError(c *gin.Context, err error) {
	var calErr *model.CalibrationError
	var cfgErr *model.ConfigurationError
	var simErr *model.SimulationError
	switch {
	case errors.As(err, &calErr):
		var details map[string]interface{}
		if calErr.Period != "" {
			details = map[string]interface{}{"period": calErr.Period}
		}
		abortWith(c, http.StatusBadRequest, "CALIBRATION_ERROR", calErr.Error(), details)
	case errors.As(err, &cfgErr):
		var details map[string]interface{}
		if cfgErr.Field != "" {
			details = map[string]interface{}{"field": cfgErr.Field}
		}
		abortWith(c, http.StatusBadRequest, "INVALID_CONFIG", cfgErr.Error(), details)
	case errors.As(err, &simErr):
		abortWith(c, http.StatusInternalServerError, "SIMULATION_ERROR", simErr.Error(), map[string]interface{}{
			"scenario": simErr.Scenario,
			"horizon":  int(simErr.Horizon),
			"trial":    simErr.Trial,
		})
	default:
		abortWith(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}
}
