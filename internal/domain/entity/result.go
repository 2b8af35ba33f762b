package entity

import "time"

// ResultRow is one published line of the ROI table. ROI is fractional:
// 0.15 means 15%.
type ResultRow struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	BuyPrice        int64     `json:"offerPrice"`
	OfficialPrice   int64     `json:"gePrice"`
	CofferValue     int64     `json:"cofferValue"`
	ROI             float64   `json:"roi"`
	Volume          int64     `json:"volume"`
	VolumeEstimated bool      `json:"volumeEstimated,omitempty"`
	Members         bool      `json:"members"`
	ProcessedAt     time.Time `json:"timestamp"`
}
