package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"DipWatch/internal/model"
)

func point(close, ma float64) model.ExtractedPoint {
	return model.ExtractedPoint{LastClose: close, LastMA: ma}
}

func TestClassify_TierLadder(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name      string
		lastClose float64
		dip       float64
		action    string
		deploy    float64
	}{
		{"deep dip hits top tier", 85, 15.0, ActionDeploy100, 100.0},
		{"exactly tier1 boundary", 90, 10.0, ActionDeploy100, 100.0},
		{"just under tier1", 90.1, 9.9, ActionDeploy50, 50.0},
		{"exactly tier2 boundary", 93, 7.0, ActionDeploy50, 50.0},
		{"mid tier3", 95, 5.0, ActionDeploy25, 25.0},
		{"exactly tier3 boundary", 96, 4.0, ActionDeploy25, 25.0},
		{"shallow dip holds", 99, 1.0, ActionHold, 0.0},
		{"price above trend holds", 105, -5.0, ActionHold, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Classify("S&P 500", "^GSPC", point(tt.lastClose, 100), p)
			assert.Equal(t, tt.action, res.Action)
			assert.Equal(t, tt.deploy, res.DeployAmount)
			assert.InDelta(t, tt.dip, res.DipPercent, 0.005)
		})
	}
}

func TestClassify_ComparesUnroundedDip(t *testing.T) {
	// dip = 9.996%, which rounds to 10.00 for presentation but must still
	// land in tier2 because the ladder sees the unrounded value.
	res := Classify("S&P 500", "^GSPC", point(90.004, 100), DefaultPolicy())

	assert.Equal(t, 10.0, res.DipPercent)
	assert.Equal(t, ActionDeploy50, res.Action)
	assert.Equal(t, 50.0, res.DeployAmount)
}

func TestClassify_Monotonic(t *testing.T) {
	p := DefaultPolicy()
	prevDip := -1000.0
	prevDeploy := -1.0

	for close := 100.0; close >= 80.0; close -= 0.25 {
		res := Classify("X", "X", point(close, 100), p)
		assert.GreaterOrEqual(t, res.DipPercent, prevDip, "dip at close %.2f", close)
		assert.GreaterOrEqual(t, res.DeployAmount, prevDeploy, "deploy at close %.2f", close)
		prevDip = res.DipPercent
		prevDeploy = res.DeployAmount
	}
}

func TestClassify_RoundsForPresentation(t *testing.T) {
	res := Classify("NASDAQ", "^IXIC", point(123.456789, 131.987654), DefaultPolicy())

	assert.Equal(t, 123.46, res.CurrentPrice)
	assert.Equal(t, 131.99, res.MA200)
}

func TestClassify_CarriesIdentity(t *testing.T) {
	res := Classify("BTC", "BTC-USD", point(90, 100), DefaultPolicy())

	assert.Equal(t, "BTC", res.Index)
	assert.Equal(t, "BTC-USD", res.Ticker)
}

func TestClassify_CustomPolicyAmount(t *testing.T) {
	p := Policy{Amount: 2500, Tier1Threshold: 10, Tier2Threshold: 7, Tier3Threshold: 4}

	res := Classify("X", "X", point(95, 100), p)
	assert.Equal(t, ActionDeploy25, res.Action)
	assert.Equal(t, 625.0, res.DeployAmount)
}
