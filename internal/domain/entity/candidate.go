package entity

// Candidate is an item that passed eligibility filtering and waits for its
// official price.
type Candidate struct {
	Item      Item
	BuyPrice  int64
	SellPrice int64

	Volume          int64
	VolumeEstimated bool
}
