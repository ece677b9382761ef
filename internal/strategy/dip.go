package strategy

import (
	"math"

	"DipWatch/internal/model"
)

// Deployment actions, highest tier first.
const (
	ActionDeploy100 = "🟢 Deploy 100%"
	ActionDeploy50  = "🟡 Deploy 50%"
	ActionDeploy25  = "🟠 Deploy 25%"
	ActionHold      = "⚪ Hold"
)

// Policy holds the capital amount and the dip thresholds, in percent.
// Injected at construction time; never mutated after startup.
type Policy struct {
	Amount         float64 `yaml:"amount"`
	Tier1Threshold float64 `yaml:"tier1_threshold"`
	Tier2Threshold float64 `yaml:"tier2_threshold"`
	Tier3Threshold float64 `yaml:"tier3_threshold"`
}

// DefaultPolicy returns the reference constants: deploy the full amount at a
// 10% dip, half at 7%, a quarter at 4%, otherwise hold.
func DefaultPolicy() Policy {
	return Policy{
		Amount:         100.0,
		Tier1Threshold: 10.0,
		Tier2Threshold: 7.0,
		Tier3Threshold: 4.0,
	}
}

// tiers is the descending threshold ladder. The first satisfied threshold
// wins, so the order is load-bearing: a 12% dip must map to the top tier,
// not fall through to the lower checks it would also satisfy.
var tiers = []struct {
	Fraction float64
	Action   string
}{
	{1.0, ActionDeploy100},
	{0.5, ActionDeploy50},
	{0.25, ActionDeploy25},
}

// Classify derives the dip percentage and deployment recommendation for one
// instrument. Pure arithmetic: extraction already guarantees both inputs are
// real numbers. Comparisons run on the unrounded dip; the numeric outputs are
// rounded to two decimals for presentation.
func Classify(name, symbol string, point model.ExtractedPoint, p Policy) model.DipResult {
	dip := (point.LastMA - point.LastClose) / point.LastMA * 100

	action := ActionHold
	deploy := 0.0
	for i, threshold := range []float64{p.Tier1Threshold, p.Tier2Threshold, p.Tier3Threshold} {
		if dip >= threshold {
			action = tiers[i].Action
			deploy = tiers[i].Fraction * p.Amount
			break
		}
	}

	return model.DipResult{
		Index:        name,
		Ticker:       symbol,
		CurrentPrice: round2(point.LastClose),
		MA200:        round2(point.LastMA),
		DipPercent:   round2(dip),
		Action:       action,
		DeployAmount: round2(deploy),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
