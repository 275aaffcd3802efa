package model

import (
	"errors"
	"fmt"
)

// ErrNonFinite marks a trial whose values became NaN or infinite. Such
// trials are discarded rather than counted as failed.
var ErrNonFinite = errors.New("value is not finite")

// CalibrationError reports insufficient or inconsistent historical data.
type CalibrationError struct {
	Period  string // empty when not tied to one period
	Message string
}

func (e *CalibrationError) Error() string {
	if e.Period != "" {
		return fmt.Sprintf("calibration: period %s: %s", e.Period, e.Message)
	}
	return "calibration: " + e.Message
}

// ConfigurationError reports a malformed scenario, strategy or horizon definition.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("configuration: %s: %s", e.Field, e.Message)
	}
	return "configuration: " + e.Message
}

// SimulationError reports a numeric failure while generating a trajectory or
// projecting it.
type SimulationError struct {
	Scenario string
	Strategy string
	Horizon  Horizon
	Trial    int
	Err      error
}

func (e *SimulationError) Error() string {
	where := fmt.Sprintf("scenario=%q horizon=%d trial=%d", e.Scenario, e.Horizon, e.Trial)
	if e.Strategy != "" {
		where = fmt.Sprintf("strategy=%q %s", e.Strategy, where)
	}
	return fmt.Sprintf("simulation: %s: %v", where, e.Err)
}

func (e *SimulationError) Unwrap() error { return e.Err }
