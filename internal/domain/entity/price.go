package entity

import (
	"math"
	"time"
)

// PricePoint is the instantaneous high/low pair from the latest-price feed.
type PricePoint struct {
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	HighTime time.Time `json:"highTime"`
	LowTime  time.Time `json:"lowTime"`
}

// Usable reports whether both sides are positive and fit into int64 gp.
func (p PricePoint) Usable() bool {
	return validPrice(p.High) && validPrice(p.Low)
}

func validPrice(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0 && v < math.MaxInt64
}

// VolumePoint holds traded counts over the volume feed window.
type VolumePoint struct {
	HighPriceVolume int64   `json:"highPriceVolume"`
	LowPriceVolume  int64   `json:"lowPriceVolume"`
	AvgHighPrice    float64 `json:"avgHighPrice"`
	AvgLowPrice     float64 `json:"avgLowPrice"`
}
