package models

import (
	"nev-montecarlo/internal/analysis"
	"nev-montecarlo/internal/intangible"
	"nev-montecarlo/internal/model"
	"nev-montecarlo/internal/montecarlo"
	"nev-montecarlo/internal/scenario"
)

// CalibrateResponse represents the response from a calibration
type CalibrateResponse struct {
	Params model.CalibratedParameters `json:"params"`
}

// RunResponse represents a finished simulation run
type RunResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"` // "complete" or "incomplete"
	Cached bool   `json:"cached"`

	Params    model.CalibratedParameters `json:"params"`
	Trials    int                        `json:"trials"`
	Seed      uint64                     `json:"seed"`
	Benchmark string                     `json:"benchmark"`

	Rows     []model.SummaryRow    `json:"rows"`
	Failures []montecarlo.Failure  `json:"failures"`
	Ranking  []analysis.RankedCell `json:"ranking"`

	ElapsedMS int64 `json:"elapsed_ms"`
}

// ScenarioInfo describes one scenario of the catalog
type ScenarioInfo struct {
	scenario.Scenario
}

// StrategyInfo describes one strategy of the catalog
type StrategyInfo struct {
	Name        string               `json:"name"`
	Kind        string               `json:"kind"`
	Description string               `json:"description"`
	Intangible  intangible.Breakdown `json:"intangible"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
