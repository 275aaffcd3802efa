package handlers

import (
	"nev-montecarlo/internal/analysis"
	"nev-montecarlo/internal/api/models"
	"nev-montecarlo/internal/config"
	"nev-montecarlo/internal/model"
)

// resolveConfig merges a request's YAML over the server configuration.
func resolveConfig(base *config.Config, yamlText string) (*config.Config, error) {
	if yamlText == "" {
		return base, nil
	}
	cfg, err := config.ParseOver(base, []byte(yamlText))
	if err != nil {
		return nil, &model.ConfigurationError{Field: "config_yaml", Message: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func calibrate(in models.CalibrationInput, cfg *config.Config) (model.CalibratedParameters, error) {
	opts := cfg.ToCalibrationOptions()
	if in.Debt != nil {
		d := *in.Debt
		opts.Debt = &d
	}
	if in.DebtTermYears != nil {
		opts.DebtTermYears = *in.DebtTermYears
	}
	return analysis.Calibrate(in.Records, opts)
}
