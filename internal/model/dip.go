package model

// ExtractedPoint is the reduction of a full price series to the two scalars
// the dip policy needs: the most recent available close and the most recent
// available value of the long-window moving average. Both are guaranteed
// non-missing by the extractor.
type ExtractedPoint struct {
	LastClose float64
	LastMA    float64
}

// DipResult is the per-instrument recommendation. It is recomputed fresh on
// every request and never persisted. The JSON field names are part of the
// public API contract.
type DipResult struct {
	Index        string  `json:"Index"`
	Ticker       string  `json:"Ticker"`
	CurrentPrice float64 `json:"Current Price"`
	MA200        float64 `json:"200 DMA"`
	DipPercent   float64 `json:"Dip %"`
	Action       string  `json:"Action"`
	DeployAmount float64 `json:"Deploy"`
}
