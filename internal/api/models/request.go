package models

import "nev-montecarlo/internal/model"

// CalibrationInput carries historical records plus what they cannot tell.
type CalibrationInput struct {
	Records       []model.HistoricalRecord `json:"records" binding:"required"`
	Debt          *model.DebtSchedule      `json:"debt,omitempty"`
	DebtTermYears *int                     `json:"debt_term_years,omitempty"`
}

// CalibrateRequest represents the request body for POST /api/v1/calibrate
type CalibrateRequest struct {
	CalibrationInput
}

// RunRequest represents the request body for POST /api/v1/runs
type RunRequest struct {
	CalibrationInput

	// ConfigYAML is merged over the server's configuration.
	ConfigYAML string     `json:"config_yaml,omitempty"`
	Options    RunOptions `json:"options,omitempty"`
}

// RunOptions override single simulation settings.
type RunOptions struct {
	Trials         int    `json:"trials,omitempty" binding:"omitempty,min=1,max=100000"`
	Seed           uint64 `json:"seed,omitempty"`
	PeriodsPerYear int    `json:"periods_per_year,omitempty" binding:"omitempty,min=1,max=52"`

	// Scenarios and Horizons restrict the grid; empty means all.
	Scenarios []string `json:"scenarios,omitempty"`
	Horizons  []int    `json:"horizons,omitempty"`

	// RankBy is "expected" (default) or "cvar".
	RankBy string `json:"rank_by,omitempty"`
}

// StatusQuoRequest represents the request body for POST /api/v1/status-quo
type StatusQuoRequest struct {
	CalibrationInput

	ConfigYAML string `json:"config_yaml,omitempty"`
	Strategy   string `json:"strategy" binding:"required"`
	Scenario   string `json:"scenario,omitempty"` // default: first scenario
	Horizon    int    `json:"horizon" binding:"required,min=1"`
}
