package coffer

import (
	"time"

	"coffer_scanner/internal/domain/entity"
)

// CofferValue = floor(official * 1.05), посчитано в целых числах.
func CofferValue(official int64) int64 {
	if official <= 0 {
		return 0
	}
	return official * 105 / 100
}

type RoiCalculator struct {
	minOfficialPrice int64
}

func NewRoiCalculator(minOfficialPrice int64) RoiCalculator {
	return RoiCalculator{minOfficialPrice: minOfficialPrice}
}

// Compute returns false when the row must not be published: official price
// below the threshold, or roi <= 0.
func (r RoiCalculator) Compute(c entity.Candidate, official int64, now time.Time) (entity.ResultRow, bool) {
	if official < r.minOfficialPrice || official <= 0 || c.BuyPrice <= 0 {
		return entity.ResultRow{}, false
	}

	cofferValue := CofferValue(official)
	profit := cofferValue - c.BuyPrice
	if profit <= 0 {
		return entity.ResultRow{}, false
	}

	return entity.ResultRow{
		ID:              c.Item.ID,
		Name:            c.Item.Name,
		BuyPrice:        c.BuyPrice,
		OfficialPrice:   official,
		CofferValue:     cofferValue,
		ROI:             float64(profit) / float64(c.BuyPrice),
		Volume:          c.Volume,
		VolumeEstimated: c.VolumeEstimated,
		Members:         c.Item.Members,
		ProcessedAt:     now.UTC(),
	}, true
}
