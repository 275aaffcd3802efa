package model

import "fmt"

// StrategyKind identifies one of the three mutually exclusive options.
// Keep these values stable; they are intended for CSV output.
type StrategyKind string

const (
	KindContinue  StrategyKind = "RELE"
	KindFranchise StrategyKind = "OILTS"
	KindSell      StrategyKind = "SELL"
)

func ParseStrategyKind(s string) (StrategyKind, error) {
	switch StrategyKind(s) {
	case KindContinue, KindFranchise, KindSell:
		return StrategyKind(s), nil
	default:
		return "", fmt.Errorf("unknown strategy kind %q", s)
	}
}

// Horizon is a projection length in years.
type Horizon int

// StandardHorizons are the horizons evaluated by a default run.
var StandardHorizons = []Horizon{2, 5, 7, 10}

func (h Horizon) Years() int { return int(h) }

func (h Horizon) Valid() bool { return h > 0 }
